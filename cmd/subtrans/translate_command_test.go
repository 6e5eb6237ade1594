package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subtrans/internal/testsupport"
)

const sampleSRT = "1\n00:00:01,000 --> 00:00:02,000\nHello.\n\n2\n00:00:02,500 --> 00:00:04,000\nSee you tomorrow\n"

func TestTranslateCommandWritesBilingualASS(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "subs", "episode.srt")
	testsupport.WriteText(t, input, sampleSRT)

	out, _, err := runCLI(t, []string{"translate", input, "-t", "ja", "-p", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	requireContains(t, out, "Run #1 completed")

	assPath := filepath.Join(env.cfg.Paths.WorkDir, "episode_translated.ass")
	requireContains(t, out, assPath)
	data, err := os.ReadFile(assPath)
	if err != nil {
		t.Fatalf("read ass: %v", err)
	}
	content := string(data)
	for _, want := range []string{"[Script Info]", "译:Hello", "译:See you tomorrow", "Dialogue:"} {
		requireContains(t, content, want)
	}
	if strings.Contains(content, "Hello.") {
		t.Fatalf("trailing punctuation should be trimmed:\n%s", content)
	}

	out, _, err = runCLI(t, []string{"history", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, `"status": "completed"`)
	requireContains(t, out, `"target_language": "ja"`)
}

func TestTranslateCommandCustomOutputAndLayout(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "episode.srt")
	testsupport.WriteText(t, input, sampleSRT)
	output := filepath.Join(env.baseDir, "out", "episode.ja.ass")

	if _, _, err := runCLI(t, []string{"translate", input, "-o", output, "--layout", "target-only"}, env.configPath); err != nil {
		t.Fatalf("translate: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read ass: %v", err)
	}
	if strings.Contains(string(data), ",Secondary,") {
		t.Fatalf("target-only layout should not emit source lines:\n%s", data)
	}
}

func TestTranslateCommandRejectsMissingInput(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"translate", filepath.Join(env.baseDir, "missing.srt")}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "run #1") {
		t.Fatalf("expected recorded run failure, got %v", err)
	}
}

func TestRunCommandRequiresInput(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"run"}, env.configPath); err == nil {
		t.Fatal("expected error without --input")
	}
	if _, _, err := runCLI(t, []string{"run", "-i", "x.mp4", "--layout", "diagonal"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown layout")
	}
}
