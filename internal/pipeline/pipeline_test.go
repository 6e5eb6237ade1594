package pipeline

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"subtrans/internal/config"
	"subtrans/internal/history"
	"subtrans/internal/logging"
	"subtrans/internal/media/ffmpeg"
	"subtrans/internal/media/ffprobe"
	"subtrans/internal/services"
	"subtrans/internal/services/whispercpp"
	"subtrans/internal/subtitles"
	"subtrans/internal/testsupport"
	"subtrans/internal/translation"
)

const sampleSRT = "1\n00:00:01,000 --> 00:00:02,500\nHello.\n\n2\n00:00:03,000 --> 00:00:04,000\nHow are you?\n"

type fakeMedia struct {
	mu       sync.Mutex
	extracts int
	burns    int
	progress int
	burnErr  error
}

func (f *fakeMedia) ExtractAudio(_ context.Context, _ string, workDir string, _ time.Duration, onProgress func(ffmpeg.Progress)) (string, error) {
	f.mu.Lock()
	f.extracts++
	f.mu.Unlock()
	if onProgress != nil {
		onProgress(ffmpeg.Progress{Processed: time.Second, Percent: 50})
		onProgress(ffmpeg.Progress{Processed: 2 * time.Second, Percent: 100, Done: true})
		f.progress += 2
	}
	path := filepath.Join(workDir, ffmpeg.AudioFileName)
	return path, os.WriteFile(path, []byte("RIFF"), 0o644)
}

func (f *fakeMedia) BurnSubtitles(_ context.Context, _ string, subtitlePath, outputPath string, _ time.Duration, _ func(ffmpeg.Progress)) error {
	f.mu.Lock()
	f.burns++
	f.mu.Unlock()
	if f.burnErr != nil {
		return f.burnErr
	}
	if _, err := os.Stat(subtitlePath); err != nil {
		return err
	}
	return os.WriteFile(outputPath, []byte("video"), 0o644)
}

type fakeTranscriber struct {
	content string
	err     error
}

func (f *fakeTranscriber) TranscribeFile(_ context.Context, _ string, outputBase string) (whispercpp.Result, error) {
	if f.err != nil {
		return whispercpp.Result{}, f.err
	}
	path := outputBase + whispercpp.SRTExtension
	return whispercpp.Result{SRTPath: path}, os.WriteFile(path, []byte(f.content), 0o644)
}

type fakeTranslator struct{}

func (fakeTranslator) Translate(_ context.Context, store *subtitles.Store) (*subtitles.Store, translation.Report, error) {
	if store.Len() == 0 {
		return nil, translation.Report{}, translation.ErrEmptyInput
	}
	out, err := store.Map(func(seg subtitles.Segment) subtitles.Segment {
		seg.Translation = subtitles.Translated("T:" + seg.Text)
		return seg
	})
	return out, translation.Report{Segments: store.Len()}, err
}

func audioProbe(context.Context, string, string) (ffprobe.Result, error) {
	return ffprobe.Result{
		Streams: []ffprobe.Stream{{Index: 0, CodecType: "video"}, {Index: 1, CodecType: "audio"}},
		Format:  ffprobe.Format{Duration: "4.0"},
	}, nil
}

type fixture struct {
	cfg      *config.Config
	store    *history.Store
	pipeline *Pipeline
	media    *fakeMedia
	video    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	p, err := New(cfg, store, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	media := &fakeMedia{}
	p.WithProber(audioProbe)
	p.WithMediaTool(media)
	p.WithTranscriber(&fakeTranscriber{content: sampleSRT})
	p.WithTranslator(fakeTranslator{})

	video := filepath.Join(testsupport.BaseDir(cfg), "videos", "talk.mp4")
	testsupport.WriteFile(t, video, 64)
	return &fixture{cfg: cfg, store: store, pipeline: p, media: media, video: video}
}

func (f *fixture) run(t *testing.T, id int64) *history.Run {
	t.Helper()
	run, err := f.store.GetByID(context.Background(), id)
	if err != nil || run == nil {
		t.Fatalf("GetByID(%d) = %v, %v", id, run, err)
	}
	return run
}

func TestRunProducesSubtitlesAndVideo(t *testing.T) {
	f := newFixture(t)

	result, err := f.pipeline.Run(context.Background(), Options{Video: f.video})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantASS := filepath.Join(f.cfg.Paths.WorkDir, "talk_translated.ass")
	wantVideo := filepath.Join(f.cfg.Paths.WorkDir, "talk_translated.mp4")
	if result.SubtitlePath != wantASS || result.OutputPath != wantVideo {
		t.Fatalf("unexpected outputs: %+v", result)
	}
	data, err := os.ReadFile(wantASS)
	if err != nil {
		t.Fatalf("read ass: %v", err)
	}
	// Trailing periods are trimmed from both lines; question marks stay.
	for _, want := range []string{"T:Hello", "Hello", "T:How are you?"} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("ass missing %q:\n%s", want, data)
		}
	}
	if strings.Contains(string(data), "Hello.") {
		t.Fatalf("punctuation not trimmed:\n%s", data)
	}
	if _, err := os.Stat(filepath.Join(f.cfg.Paths.WorkDir, "talk_translated.srt")); err != nil {
		t.Fatalf("expected srt copy: %v", err)
	}
	if _, err := os.Stat(wantVideo); err != nil {
		t.Fatalf("expected burned video: %v", err)
	}
	if f.media.extracts != 1 || f.media.burns != 1 || f.media.progress != 2 {
		t.Fatalf("unexpected media calls: %+v", f.media)
	}

	run := f.run(t, result.RunID)
	if run.Status != history.StatusCompleted || run.Segments != 2 || run.Degraded != 0 {
		t.Fatalf("unexpected run record: %#v", run)
	}
	if run.SubtitlePath != wantASS || run.OutputPath != wantVideo || run.SourcePath != f.video {
		t.Fatalf("unexpected run paths: %#v", run)
	}
}

func TestRunSkipBurn(t *testing.T) {
	f := newFixture(t)
	result, err := f.pipeline.Run(context.Background(), Options{Video: f.video, SkipBurn: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if f.media.burns != 0 || result.OutputPath != "" {
		t.Fatalf("burn should be skipped: burns=%d output=%q", f.media.burns, result.OutputPath)
	}
	if _, err := os.Stat(result.SubtitlePath); err != nil {
		t.Fatalf("subtitle missing: %v", err)
	}
}

func TestRunCustomOutputPath(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(testsupport.BaseDir(f.cfg), "final", "talk.zh.mp4")
	result, err := f.pipeline.Run(context.Background(), Options{Video: f.video, OutputPath: out})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.OutputPath != out {
		t.Fatalf("output = %q, want %q", result.OutputPath, out)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("expected output: %v", err)
	}
}

func TestRunRejectsInputWithoutAudio(t *testing.T) {
	f := newFixture(t)
	f.pipeline.WithProber(func(context.Context, string, string) (ffprobe.Result, error) {
		return ffprobe.Result{Streams: []ffprobe.Stream{{CodecType: "video"}}}, nil
	})

	result, err := f.pipeline.Run(context.Background(), Options{Video: f.video})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "extract") {
		t.Fatalf("error should name the stage: %v", err)
	}
	run := f.run(t, result.RunID)
	if run.Status != history.StatusRejected || run.Stage != "extract" || run.ErrorMessage == "" {
		t.Fatalf("unexpected run record: %#v", run)
	}
	if f.media.extracts != 0 {
		t.Fatal("extraction should not start without an audio stream")
	}
}

func TestRunRecordsTranscriptionFailure(t *testing.T) {
	f := newFixture(t)
	f.pipeline.WithTranscriber(&fakeTranscriber{err: errors.New("whisper-cli: exit status 3")})

	result, err := f.pipeline.Run(context.Background(), Options{Video: f.video})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	run := f.run(t, result.RunID)
	if run.Status != history.StatusFailed || run.Stage != "transcribe" {
		t.Fatalf("unexpected run record: %#v", run)
	}
	if _, err := os.Stat(filepath.Join(f.cfg.Paths.WorkDir, "talk_translated.ass")); !os.IsNotExist(err) {
		t.Fatalf("no subtitle should be written after a failed stage: %v", err)
	}
}

func TestRunClassifiesMissingBinaryAsConfiguration(t *testing.T) {
	f := newFixture(t)
	f.pipeline.WithTranscriber(&fakeTranscriber{err: &exec.Error{Name: "whisper-cli", Err: exec.ErrNotFound}})

	result, err := f.pipeline.Run(context.Background(), Options{Video: f.video})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if run := f.run(t, result.RunID); run.Status != history.StatusRejected {
		t.Fatalf("status = %s, want rejected", run.Status)
	}
}

func TestRunBurnFailure(t *testing.T) {
	f := newFixture(t)
	f.media.burnErr = errors.New("ffmpeg exited 1")

	result, err := f.pipeline.Run(context.Background(), Options{Video: f.video})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	run := f.run(t, result.RunID)
	if run.Status != history.StatusFailed || run.Stage != "burn" {
		t.Fatalf("unexpected run record: %#v", run)
	}
	if _, err := os.Stat(run.SubtitlePath); err != nil {
		t.Fatalf("subtitle from the style stage should remain: %v", err)
	}
}

func TestRunMissingInput(t *testing.T) {
	f := newFixture(t)
	result, err := f.pipeline.Run(context.Background(), Options{Video: filepath.Join(t.TempDir(), "gone.mp4")})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if run := f.run(t, result.RunID); run.Status != history.StatusRejected || run.Stage != "" {
		t.Fatalf("unexpected run record: %#v", run)
	}
}

func TestRunRejectsLockedWorkDir(t *testing.T) {
	f := newFixture(t)
	held, err := lockWorkDir(f.cfg.Paths.WorkDir)
	if err != nil {
		t.Fatalf("lockWorkDir: %v", err)
	}
	defer held.release(logging.NewNop())

	_, err = f.pipeline.Run(context.Background(), Options{Video: f.video})
	if !errors.Is(err, services.ErrConfiguration) || !strings.Contains(err.Error(), "in use") {
		t.Fatalf("expected lock error, got %v", err)
	}
}

func TestTranslateFromExistingSRT(t *testing.T) {
	f := newFixture(t)
	input := filepath.Join(testsupport.BaseDir(f.cfg), "subs", "episode.srt")
	testsupport.WriteText(t, input, sampleSRT)

	result, err := f.pipeline.Translate(context.Background(), TranslateOptions{Input: input})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	want := filepath.Join(f.cfg.Paths.WorkDir, "episode_translated.ass")
	if result.SubtitlePath != want {
		t.Fatalf("subtitle path = %q, want %q", result.SubtitlePath, want)
	}
	if f.media.extracts != 0 || f.media.burns != 0 {
		t.Fatal("translate-only run must not touch media")
	}
	run := f.run(t, result.RunID)
	if run.Status != history.StatusCompleted || run.SourcePath != input {
		t.Fatalf("unexpected run record: %#v", run)
	}
}

func TestTranslateRejectsEmptySRT(t *testing.T) {
	f := newFixture(t)
	input := filepath.Join(testsupport.BaseDir(f.cfg), "empty.srt")
	testsupport.WriteText(t, input, "\n\n")

	result, err := f.pipeline.Translate(context.Background(), TranslateOptions{Input: input})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if run := f.run(t, result.RunID); run.Status != history.StatusRejected || run.Stage != "translate" {
		t.Fatalf("unexpected run record: %#v", run)
	}
}

func TestNewRejectsBadLayout(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Subtitles.Layout = "diagonal"
	if _, err := New(cfg, testsupport.MustOpenStore(t, cfg), nil); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
