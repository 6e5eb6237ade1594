package whispercpp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	langpkg "subtrans/internal/language"
)

// ErrModelMissing reports that the configured ggml model file does not exist.
var ErrModelMissing = errors.New("whisper model not found")

// Service provides whisper.cpp transcription capabilities.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a whisper.cpp service with the given configuration.
func NewService(cfg Config) *Service {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = DefaultBinary
	}
	if strings.TrimSpace(cfg.ModelPath) == "" {
		cfg.ModelPath = DefaultModel
	}
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Binary returns the executable used for transcription.
func (s *Service) Binary() string {
	return s.cfg.Binary
}

// Model returns the configured model path for logging.
func (s *Service) Model() string {
	return s.cfg.ModelPath
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Result describes a finished transcription.
type Result struct {
	SRTPath string
}

// TranscribeFile transcribes audioPath and writes <outputBase>.srt. When
// outputBase is empty the SRT is written next to the audio file.
func (s *Service) TranscribeFile(ctx context.Context, audioPath, outputBase string) (Result, error) {
	var result Result
	if strings.TrimSpace(audioPath) == "" {
		return result, fmt.Errorf("transcribe: audio path required")
	}
	if _, err := os.Stat(s.cfg.ModelPath); err != nil {
		return result, fmt.Errorf("transcribe: %w: %s", ErrModelMissing, s.cfg.ModelPath)
	}
	if outputBase == "" {
		outputBase = strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
	}
	if err := os.MkdirAll(filepath.Dir(outputBase), 0o755); err != nil {
		return result, fmt.Errorf("transcribe: ensure output dir: %w", err)
	}

	args := s.buildArgs(audioPath, outputBase)
	if err := s.run(ctx, s.cfg.Binary, args...); err != nil {
		return result, fmt.Errorf("whisper-cli: %w", err)
	}

	result.SRTPath = outputBase + SRTExtension
	if _, err := os.Stat(result.SRTPath); err != nil {
		return result, fmt.Errorf("whisper-cli: expected transcript %s: %w", result.SRTPath, err)
	}
	return result, nil
}

func (s *Service) buildArgs(audioPath, outputBase string) []string {
	args := []string{
		"-m", s.cfg.ModelPath,
		"-f", audioPath,
		"-osrt",
		"-of", outputBase,
		"-pp",
		"-np",
	}
	if lang := langpkg.ToISO2(s.cfg.Language); lang != "" {
		args = append(args, "-l", lang)
	}
	if s.cfg.Threads > 0 {
		args = append(args, "-t", strconv.Itoa(s.cfg.Threads))
	}
	return args
}
