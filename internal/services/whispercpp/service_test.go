package whispercpp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ggml-tiny.bin")
	if err := os.WriteFile(path, []byte("model"), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	return path
}

func TestTranscribeFileBuildsArgs(t *testing.T) {
	model := writeModel(t)
	workDir := t.TempDir()
	audio := filepath.Join(workDir, "extracted_audio.wav")

	svc := NewService(Config{ModelPath: model, Language: "en", Threads: 4})
	var gotName string
	var gotArgs []string
	svc.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		return os.WriteFile(filepath.Join(workDir, "extracted_audio.srt"), []byte("1\n00:00:00,000 --> 00:00:01,000\nhi\n"), 0o644)
	})

	result, err := svc.TranscribeFile(context.Background(), audio, "")
	if err != nil {
		t.Fatalf("TranscribeFile: %v", err)
	}
	if gotName != DefaultBinary {
		t.Fatalf("binary = %q, want %q", gotName, DefaultBinary)
	}
	want := []string{
		"-m", model,
		"-f", audio,
		"-osrt",
		"-of", filepath.Join(workDir, "extracted_audio"),
		"-pp",
		"-np",
		"-l", "en",
		"-t", "4",
	}
	if !reflect.DeepEqual(gotArgs, want) {
		t.Fatalf("args = %v\nwant %v", gotArgs, want)
	}
	if result.SRTPath != filepath.Join(workDir, "extracted_audio.srt") {
		t.Fatalf("unexpected srt path %q", result.SRTPath)
	}
}

func TestTranscribeFileMissingModel(t *testing.T) {
	svc := NewService(Config{ModelPath: filepath.Join(t.TempDir(), "missing.bin")})
	svc.WithCommandRunner(func(context.Context, string, ...string) error {
		t.Fatal("runner should not be called")
		return nil
	})
	_, err := svc.TranscribeFile(context.Background(), "audio.wav", "")
	if !errors.Is(err, ErrModelMissing) {
		t.Fatalf("expected ErrModelMissing, got %v", err)
	}
}

func TestTranscribeFileMissingOutput(t *testing.T) {
	svc := NewService(Config{ModelPath: writeModel(t)})
	svc.WithCommandRunner(func(context.Context, string, ...string) error { return nil })
	audio := filepath.Join(t.TempDir(), "a.wav")
	if _, err := svc.TranscribeFile(context.Background(), audio, ""); err == nil {
		t.Fatal("expected error when whisper-cli produced no srt")
	}
}

func TestTranscribeFileRunnerError(t *testing.T) {
	svc := NewService(Config{ModelPath: writeModel(t)})
	boom := errors.New("exit status 1")
	svc.WithCommandRunner(func(context.Context, string, ...string) error { return boom })
	_, err := svc.TranscribeFile(context.Background(), filepath.Join(t.TempDir(), "a.wav"), "")
	if !errors.Is(err, boom) {
		t.Fatalf("expected runner error, got %v", err)
	}
}
