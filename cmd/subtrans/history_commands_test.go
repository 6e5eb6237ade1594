package main

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"

	"subtrans/internal/history"
	"subtrans/internal/testsupport"
)

func TestHistoryListShowClear(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No runs recorded")

	store := testsupport.MustOpenStore(t, env.cfg)
	done := testsupport.NewRun(t, store, "/videos/a.mp4", "简体中文")
	done.Status = history.StatusCompleted
	done.Segments = 12
	if err := store.Update(context.Background(), done); err != nil {
		t.Fatalf("Update: %v", err)
	}
	failed := testsupport.NewRun(t, store, "/videos/b.mp4", "fr")
	failed.Status = history.StatusFailed
	failed.Stage = "burn"
	failed.ErrorMessage = "external tool error: burn: ffmpeg: exit status 1"
	if err := store.Update(context.Background(), failed); err != nil {
		t.Fatalf("Update: %v", err)
	}

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "a.mp4")
	requireContains(t, out, "completed")
	requireContains(t, out, "failed")

	out, _, err = runCLI(t, []string{"history", "--json", "--status", "failed"}, env.configPath)
	if err != nil {
		t.Fatalf("history --json: %v", err)
	}
	var views []runView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if len(views) != 1 || views[0].ID != failed.ID || views[0].Stage != "burn" {
		t.Fatalf("unexpected views: %+v", views)
	}

	out, _, err = runCLI(t, []string{"history", "show", strconv.FormatInt(failed.ID, 10)}, env.configPath)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, out, "Stage:     burn")
	requireContains(t, out, "exit status 1")

	if _, _, err := runCLI(t, []string{"history", "show", "999"}, env.configPath); err == nil {
		t.Fatal("expected error for missing run")
	}
	if _, _, err := runCLI(t, []string{"history", "--status", "ripping"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown status")
	}

	out, _, err = runCLI(t, []string{"history", "clear"}, env.configPath)
	if err != nil {
		t.Fatalf("history clear: %v", err)
	}
	requireContains(t, out, "Removed 2 run(s)")
}
