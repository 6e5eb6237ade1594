package main

import (
	"testing"

	"subtrans/internal/testsupport"
)

func TestDoctorPassesWithStubbedTools(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries(), testsupport.WithWhisperModel())

	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "All checks passed")
	requireContains(t, out, "LLM endpoint")
	requireContains(t, out, "(gpt-4o-mini)")
}

func TestDoctorReportsMissingModel(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())

	out, _, err := runCLI(t, []string{"doctor", "--skip-llm"}, env.configPath)
	if err == nil {
		t.Fatalf("expected doctor failure:\n%s", out)
	}
	requireContains(t, out, "Whisper model")
	requireContains(t, out, "not found")
}
