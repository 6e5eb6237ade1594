package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"subtrans/internal/config"
	"subtrans/internal/history"
	"subtrans/internal/logging"
	"subtrans/internal/media/ffmpeg"
	"subtrans/internal/media/ffprobe"
	"subtrans/internal/services"
	"subtrans/internal/services/llm"
	"subtrans/internal/services/whispercpp"
	"subtrans/internal/subtitles"
	"subtrans/internal/translation"
)

// Output file suffix appended to the video name.
const translatedSuffix = "_translated"

// Prober inspects a media file.
type Prober func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// MediaTool extracts audio and burns subtitles.
type MediaTool interface {
	ExtractAudio(ctx context.Context, videoPath, workDir string, total time.Duration, onProgress func(ffmpeg.Progress)) (string, error)
	BurnSubtitles(ctx context.Context, videoPath, subtitlePath, outputPath string, total time.Duration, onProgress func(ffmpeg.Progress)) error
}

// Transcriber turns extracted audio into an SRT transcript.
type Transcriber interface {
	TranscribeFile(ctx context.Context, audioPath, outputBase string) (whispercpp.Result, error)
}

// Translator translates a segment store.
type Translator interface {
	Translate(ctx context.Context, store *subtitles.Store) (*subtitles.Store, translation.Report, error)
}

// Options describe a full video run.
type Options struct {
	Video string
	// OutputPath defaults to <work>/<video>_translated<ext>.
	OutputPath string
	// WorkDir defaults to paths.work_dir.
	WorkDir  string
	SkipBurn bool
}

// TranslateOptions describe a translate-only run from an existing SRT.
type TranslateOptions struct {
	Input string
	// OutputPath defaults to <work>/<input>_translated.ass.
	OutputPath string
	WorkDir    string
}

// Result summarizes a finished run.
type Result struct {
	RunID        int64
	SubtitlePath string
	OutputPath   string
	Report       translation.Report
}

// Pipeline wires the stage collaborators to the history store.
type Pipeline struct {
	cfg         *config.Config
	store       *history.Store
	logger      *slog.Logger
	probe       Prober
	media       MediaTool
	transcriber Transcriber
	translator  Translator
	layout      subtitles.Layout
	styleFile   string
}

// New builds a pipeline from cfg using the real ffmpeg, whisper-cli and LLM
// collaborators.
func New(cfg *config.Config, store *history.Store, logger *slog.Logger) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.New("pipeline: config is required")
	}
	if store == nil {
		return nil, errors.New("pipeline: history store is required")
	}
	layout, err := subtitles.ParseLayout(cfg.Subtitles.Layout)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "config", "invalid subtitle layout", err)
	}
	client := llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		Temperature:    cfg.LLM.Temperature,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	})
	translator, err := translation.New(client, translation.Config{
		TargetLanguage: cfg.Translation.TargetLanguage,
		Workers:        cfg.Translation.Workers,
		BatchSize:      cfg.Translation.BatchSize,
		CustomPrompt:   cfg.Translation.CustomPrompt,
	}, logger)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "config", "invalid translation settings", err)
	}
	logger = logging.NewComponentLogger(logger, "pipeline")

	return &Pipeline{
		cfg:    cfg,
		store:  store,
		logger: logger,
		probe:  ffprobe.Inspect,
		media: ffmpeg.New(ffmpeg.Config{
			Binary:     cfg.FFmpeg.FFmpegBinary,
			VideoCodec: cfg.FFmpeg.VideoCodec,
			Preset:     cfg.FFmpeg.Preset,
		}, logger),
		transcriber: whispercpp.NewService(whispercpp.Config{
			Binary:    cfg.Transcription.WhisperBinary,
			ModelPath: cfg.Transcription.ModelPath,
			Language:  cfg.Transcription.Language,
			Threads:   cfg.Transcription.Threads,
		}),
		translator: translator,
		layout:     layout,
		styleFile:  cfg.Subtitles.StyleFile,
	}, nil
}

// WithProber replaces the ffprobe inspector.
func (p *Pipeline) WithProber(probe Prober) {
	if probe != nil {
		p.probe = probe
	}
}

// WithMediaTool replaces the ffmpeg collaborator.
func (p *Pipeline) WithMediaTool(media MediaTool) {
	if media != nil {
		p.media = media
	}
}

// WithTranscriber replaces the whisper-cli collaborator.
func (p *Pipeline) WithTranscriber(t Transcriber) {
	if t != nil {
		p.transcriber = t
	}
}

// WithTranslator replaces the LLM translator.
func (p *Pipeline) WithTranslator(t Translator) {
	if t != nil {
		p.translator = t
	}
}

// Run processes a video end to end. The returned error names the failing
// stage; the history record carries the same message.
func (p *Pipeline) Run(ctx context.Context, opts Options) (Result, error) {
	video := strings.TrimSpace(opts.Video)
	job := &Job{
		Video:   video,
		WorkDir: p.workDir(opts.WorkDir),
	}
	name, ext := splitName(video)
	job.SubtitlePath = filepath.Join(job.WorkDir, name+translatedSuffix+".ass")
	if !opts.SkipBurn {
		job.OutputPath = strings.TrimSpace(opts.OutputPath)
		if job.OutputPath == "" {
			job.OutputPath = filepath.Join(job.WorkDir, name+translatedSuffix+ext)
		}
	}

	stages := []stage{
		{name: "extract", status: history.StatusExtracting, handler: &extractStage{p: p}},
		{name: "transcribe", status: history.StatusTranscribing, handler: &transcribeStage{p: p}},
		{name: "translate", status: history.StatusTranslating, handler: &translateStage{p: p}},
		{name: "style", status: history.StatusStyling, handler: &styleStage{p: p}},
	}
	if !opts.SkipBurn {
		stages = append(stages, stage{name: "burn", status: history.StatusBurning, handler: &burnStage{p: p}})
	}
	return p.execute(ctx, job, video, stages)
}

// Translate runs the translate and style stages on an existing SRT file.
func (p *Pipeline) Translate(ctx context.Context, opts TranslateOptions) (Result, error) {
	input := strings.TrimSpace(opts.Input)
	job := &Job{
		WorkDir:        p.workDir(opts.WorkDir),
		TranscriptPath: input,
	}
	job.SubtitlePath = strings.TrimSpace(opts.OutputPath)
	if job.SubtitlePath == "" {
		name, _ := splitName(input)
		job.SubtitlePath = filepath.Join(job.WorkDir, name+translatedSuffix+".ass")
	}
	stages := []stage{
		{name: "translate", status: history.StatusTranslating, handler: &translateStage{p: p}},
		{name: "style", status: history.StatusStyling, handler: &styleStage{p: p}},
	}
	return p.execute(ctx, job, input, stages)
}

func (p *Pipeline) execute(ctx context.Context, job *Job, source string, stages []stage) (Result, error) {
	run, err := p.store.NewRun(ctx, source, p.cfg.Translation.TargetLanguage)
	if err != nil {
		return Result{}, fmt.Errorf("record run: %w", err)
	}
	job.Run = run
	run.SubtitlePath = job.SubtitlePath
	run.OutputPath = job.OutputPath
	result := Result{RunID: run.ID, SubtitlePath: job.SubtitlePath, OutputPath: job.OutputPath}

	ctx = services.WithRunID(ctx, run.ID)
	ctx = services.WithRequestID(ctx, run.RequestID)
	logger := logging.WithContext(ctx, p.logger)
	logger.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("source", source),
		logging.String("work_dir", job.WorkDir),
		logging.String("target_language", run.TargetLanguage),
		logging.Int("stages", len(stages)),
	)
	started := time.Now()

	if err := validateSource(source); err != nil {
		return result, p.fail(ctx, logger, run, "", err)
	}
	lock, err := lockWorkDir(job.WorkDir)
	if err != nil {
		return result, p.fail(ctx, logger, run, "", err)
	}
	defer lock.release(logger)

	for _, st := range stages {
		if err := p.runStage(ctx, logger, st, job); err != nil {
			return result, err
		}
	}

	run.Status = history.StatusCompleted
	run.Stage = ""
	run.ErrorMessage = ""
	if err := p.store.Update(ctx, run); err != nil {
		return result, fmt.Errorf("persist run completion: %w", err)
	}
	result.Report = job.Report
	logger.Info("run completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.String("subtitle_path", job.SubtitlePath),
		logging.String("output_path", job.OutputPath),
		logging.Int("segments", run.Segments),
		logging.Int("degraded", run.Degraded),
		logging.Duration("duration", time.Since(started)),
	)
	return result, nil
}

func (p *Pipeline) workDir(override string) string {
	dir := strings.TrimSpace(override)
	if dir == "" {
		dir = p.cfg.Paths.WorkDir
	}
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

func validateSource(path string) error {
	if path == "" {
		return services.Wrap(services.ErrValidation, "", "input", "input path is required", nil)
	}
	info, err := os.Stat(path)
	if err != nil {
		return services.Wrap(services.ErrNotFound, "", "input", fmt.Sprintf("cannot read %s", path), err)
	}
	if info.IsDir() {
		return services.Wrap(services.ErrValidation, "", "input", fmt.Sprintf("%s is a directory", path), nil)
	}
	return nil
}

func splitName(path string) (string, string) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext), ext
}
