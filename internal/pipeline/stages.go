package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"subtrans/internal/fileutil"
	"subtrans/internal/logging"
	"subtrans/internal/media/ffmpeg"
	"subtrans/internal/services"
	"subtrans/internal/services/whispercpp"
	"subtrans/internal/subtitles"
	"subtrans/internal/translation"
)

type extractStage struct{ p *Pipeline }

func (s *extractStage) Execute(ctx context.Context, job *Job) error {
	logger := logging.WithContext(ctx, s.p.logger)

	probe, err := s.p.probe(ctx, s.p.cfg.FFmpeg.FFprobeBinary, job.Video)
	if err != nil {
		return services.Wrap(toolMarker(err), "extract", "ffprobe", "inspect input", err)
	}
	if probe.AudioStreamCount() == 0 {
		return services.Wrap(services.ErrValidation, "extract", "ffprobe",
			fmt.Sprintf("%s has no audio stream", filepath.Base(job.Video)), nil)
	}
	job.Duration = probe.Duration()
	logger.Debug("input inspected",
		logging.Int("audio_streams", probe.AudioStreamCount()),
		logging.Int("video_streams", probe.VideoStreamCount()),
		logging.Duration("media_duration", job.Duration),
	)

	audio, err := s.p.media.ExtractAudio(ctx, job.Video, job.WorkDir, job.Duration, progressLogger(logger, "extracting audio"))
	if err != nil {
		return services.Wrap(toolMarker(err), "extract", "ffmpeg", "extract audio", err)
	}
	job.AudioPath = audio
	logger.Info("audio extracted", logging.String("audio_path", audio))
	return nil
}

type transcribeStage struct{ p *Pipeline }

func (s *transcribeStage) Execute(ctx context.Context, job *Job) error {
	name, _ := splitName(job.Video)
	result, err := s.p.transcriber.TranscribeFile(ctx, job.AudioPath, filepath.Join(job.WorkDir, name))
	if err != nil {
		marker := toolMarker(err)
		if errors.Is(err, whispercpp.ErrModelMissing) {
			marker = services.ErrConfiguration
		}
		return services.Wrap(marker, "transcribe", "whisper-cli", "transcribe audio", err)
	}
	job.TranscriptPath = result.SRTPath
	logging.WithContext(ctx, s.p.logger).Info("transcript written",
		logging.String("transcript_path", result.SRTPath),
	)
	return nil
}

type translateStage struct{ p *Pipeline }

func (s *translateStage) Execute(ctx context.Context, job *Job) error {
	store, err := subtitles.LoadSRT(job.TranscriptPath)
	if err != nil {
		return services.Wrap(services.ErrValidation, "translate", "parse srt", filepath.Base(job.TranscriptPath), err)
	}

	translated, report, err := s.p.translator.Translate(ctx, store)
	if err != nil {
		marker := services.ErrTransient
		if errors.Is(err, translation.ErrEmptyInput) {
			marker = services.ErrValidation
		}
		return services.Wrap(marker, "translate", "llm", "translate segments", err)
	}
	if s.p.cfg.Subtitles.RemovePunctuation {
		if translated, err = subtitles.TrimPunctuation(translated); err != nil {
			return services.Wrap(services.ErrTransient, "translate", "cleanup", "trim punctuation", err)
		}
	}

	job.Segments = translated
	job.Report = report
	job.Run.Segments = report.Segments
	job.Run.Degraded = report.Degraded
	return nil
}

type styleStage struct{ p *Pipeline }

func (s *styleStage) Execute(ctx context.Context, job *Job) error {
	style, err := subtitles.LoadStyle(s.p.styleFile)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "style", "load style", s.p.styleFile, err)
	}
	if err := os.MkdirAll(filepath.Dir(job.SubtitlePath), 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "style", "output dir", filepath.Dir(job.SubtitlePath), err)
	}
	if err := subtitles.SaveASS(job.SubtitlePath, job.Segments, subtitles.Options{Layout: s.p.layout, Style: style}); err != nil {
		return services.Wrap(services.ErrTransient, "style", "write ass", job.SubtitlePath, err)
	}
	// Keep a plain SRT copy of the bilingual result next to the ASS file.
	srtPath := fileutil.ReplaceExt(job.SubtitlePath, ".srt")
	if err := subtitles.SaveSRT(srtPath, job.Segments, s.p.layout); err != nil {
		return services.Wrap(services.ErrTransient, "style", "write srt", srtPath, err)
	}
	logging.WithContext(ctx, s.p.logger).Info("subtitles written",
		logging.String("subtitle_path", job.SubtitlePath),
		logging.String("srt_path", srtPath),
		logging.String("layout", string(s.p.layout)),
	)
	return nil
}

type burnStage struct{ p *Pipeline }

func (s *burnStage) Execute(ctx context.Context, job *Job) error {
	logger := logging.WithContext(ctx, s.p.logger)
	if err := os.MkdirAll(filepath.Dir(job.OutputPath), 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "burn", "output dir", filepath.Dir(job.OutputPath), err)
	}
	err := s.p.media.BurnSubtitles(ctx, job.Video, job.SubtitlePath, job.OutputPath, job.Duration, progressLogger(logger, "burning subtitles"))
	if err != nil {
		return services.Wrap(toolMarker(err), "burn", "ffmpeg", "burn subtitles", err)
	}
	logger.Info("video written", logging.String("output_path", job.OutputPath))
	return nil
}

// toolMarker classifies an external tool error. A missing binary is a
// configuration problem rather than a tool failure.
func toolMarker(err error) error {
	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, os.ErrNotExist):
		return services.ErrConfiguration
	case errors.Is(err, context.DeadlineExceeded):
		return services.ErrTimeout
	default:
		return services.ErrExternalTool
	}
}

func progressLogger(logger *slog.Logger, phase string) func(ffmpeg.Progress) {
	sampler := logging.NewProgressSampler(10)
	return func(p ffmpeg.Progress) {
		if !p.Done && !sampler.ShouldLog(p.Percent, phase) {
			return
		}
		attrs := []logging.Attr{
			logging.String(logging.FieldEventType, "progress"),
			logging.Duration("processed", p.Processed),
		}
		if p.Percent >= 0 {
			attrs = append(attrs, logging.Float64("percent", p.Percent))
		}
		if p.Speed != "" {
			attrs = append(attrs, logging.String("speed", p.Speed))
		}
		logger.Info(phase, logging.Args(attrs...)...)
	}
}
