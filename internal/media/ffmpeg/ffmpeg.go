package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"subtrans/internal/logging"
)

const (
	// DefaultBinary is used when no binary is configured.
	DefaultBinary = "ffmpeg"
	// AudioFileName is the extracted transcription input inside the work dir.
	AudioFileName = "extracted_audio.wav"

	defaultVideoCodec = "libx264"
	defaultPreset     = "medium"
)

// Config selects the ffmpeg binary and burn-in encoder settings.
type Config struct {
	Binary     string
	VideoCodec string
	Preset     string
}

// Tool runs ffmpeg for audio extraction and subtitle burn-in.
type Tool struct {
	cfg    Config
	exec   Executor
	logger *slog.Logger
}

// New constructs a Tool, filling empty settings with defaults.
func New(cfg Config, logger *slog.Logger) *Tool {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = DefaultBinary
	}
	if strings.TrimSpace(cfg.VideoCodec) == "" {
		cfg.VideoCodec = defaultVideoCodec
	}
	if strings.TrimSpace(cfg.Preset) == "" {
		cfg.Preset = defaultPreset
	}
	return &Tool{
		cfg:    cfg,
		exec:   commandExecutor{},
		logger: logging.NewComponentLogger(logger, "ffmpeg"),
	}
}

// WithExecutor allows injecting a custom executor for tests.
func (t *Tool) WithExecutor(e Executor) {
	if t != nil && e != nil {
		t.exec = e
	}
}

// Binary returns the configured ffmpeg executable.
func (t *Tool) Binary() string {
	return t.cfg.Binary
}

// ExtractAudio writes the first audio stream of videoPath to
// <workDir>/extracted_audio.wav as mono 16 kHz PCM. total is the media
// duration used for percentages; pass 0 when unknown.
func (t *Tool) ExtractAudio(ctx context.Context, videoPath, workDir string, total time.Duration, onProgress func(Progress)) (string, error) {
	if strings.TrimSpace(videoPath) == "" {
		return "", errors.New("extract audio: video path required")
	}
	if _, err := os.Stat(videoPath); err != nil {
		return "", fmt.Errorf("extract audio: %w", err)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", fmt.Errorf("extract audio: create work dir: %w", err)
	}
	output := filepath.Join(workDir, AudioFileName)
	args := extractArgs(videoPath, output)

	t.logger.Debug("extracting audio",
		logging.String("command", t.cfg.Binary),
		logging.String("args", strings.Join(args, " ")),
	)
	if err := t.run(ctx, args, total, onProgress); err != nil {
		_ = os.Remove(output)
		return "", fmt.Errorf("extract audio: %w", err)
	}
	if _, err := os.Stat(output); err != nil {
		return "", fmt.Errorf("extract audio: ffmpeg did not produce output: %w", err)
	}
	return output, nil
}

// BurnSubtitles renders subtitlePath into the picture of videoPath and writes
// the result to outputPath. The audio stream is copied unchanged.
func (t *Tool) BurnSubtitles(ctx context.Context, videoPath, subtitlePath, outputPath string, total time.Duration, onProgress func(Progress)) error {
	for _, p := range []string{videoPath, subtitlePath} {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("burn subtitles: %w", err)
		}
	}
	if strings.TrimSpace(outputPath) == "" {
		return errors.New("burn subtitles: output path required")
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("burn subtitles: create output dir: %w", err)
	}

	// The temp name keeps the extension so ffmpeg picks the same muxer.
	tmpPath := filepath.Join(filepath.Dir(outputPath), ".burn-"+filepath.Base(outputPath))
	args := t.burnArgs(videoPath, subtitlePath, tmpPath)

	t.logger.Debug("burning subtitles",
		logging.String("command", t.cfg.Binary),
		logging.String("args", strings.Join(args, " ")),
	)
	if err := t.run(ctx, args, total, onProgress); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("burn subtitles: %w", err)
	}
	if _, err := os.Stat(tmpPath); err != nil {
		return fmt.Errorf("burn subtitles: ffmpeg did not produce output: %w", err)
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("burn subtitles: move output into place: %w", err)
	}
	t.logger.Info("subtitles burned into video",
		logging.String(logging.FieldEventType, "subtitle_burn_complete"),
		logging.String("output", outputPath),
	)
	return nil
}

func (t *Tool) run(ctx context.Context, args []string, total time.Duration, onProgress func(Progress)) error {
	parser := &progressParser{total: total}
	return t.exec.Run(ctx, t.cfg.Binary, args, func(line string) {
		if update, ok := parser.feed(line); ok && onProgress != nil {
			onProgress(update)
		}
	})
}

func extractArgs(videoPath, output string) []string {
	return []string{
		"-y", "-hide_banner", "-nostats",
		"-i", videoPath,
		"-map", "0:a:0", "-vn",
		"-ac", "1", "-ar", "16000",
		"-af", "aresample=async=1",
		"-c:a", "pcm_s16le",
		"-progress", "pipe:1",
		"-loglevel", "error",
		output,
	}
}

func (t *Tool) burnArgs(videoPath, subtitlePath, output string) []string {
	return []string{
		"-y", "-hide_banner", "-nostats",
		"-i", videoPath,
		"-c:a", "copy",
		"-c:v", t.cfg.VideoCodec,
		"-preset", t.cfg.Preset,
		"-vf", "subtitles=" + escapeFilterPath(subtitlePath),
		"-progress", "pipe:1",
		"-loglevel", "error",
		output,
	}
}

var filterPathReplacer = strings.NewReplacer(
	`\`, `\\`,
	`:`, `\:`,
	`'`, `\'`,
	`,`, `\,`,
	`;`, `\;`,
	`[`, `\[`,
	`]`, `\]`,
)

// escapeFilterPath escapes characters that the filtergraph parser treats as
// separators inside a subtitles= argument.
func escapeFilterPath(path string) string {
	return filterPathReplacer.Replace(path)
}
