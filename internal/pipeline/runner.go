package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"subtrans/internal/history"
	"subtrans/internal/logging"
	"subtrans/internal/services"
	"subtrans/internal/subtitles"
	"subtrans/internal/translation"
)

// Job carries the artifacts handed from one stage to the next.
type Job struct {
	Run *history.Run

	Video    string
	WorkDir  string
	Duration time.Duration

	AudioPath      string
	TranscriptPath string
	SubtitlePath   string
	OutputPath     string

	Segments *subtitles.Store
	Report   translation.Report
}

// Handler is the contract each stage implements.
type Handler interface {
	Execute(ctx context.Context, job *Job) error
}

type stage struct {
	name    string
	status  history.Status
	handler Handler
}

func (p *Pipeline) runStage(ctx context.Context, logger *slog.Logger, st stage, job *Job) error {
	if st.handler == nil {
		return p.fail(ctx, logger, job.Run, st.name, fmt.Errorf("stage handler unavailable: %s", st.name))
	}
	stageCtx := services.WithStage(ctx, st.name)
	stageLogger := logging.WithContext(stageCtx, p.logger)

	job.Run.Status = st.status
	job.Run.Stage = st.name
	job.Run.ErrorMessage = ""
	if err := p.store.Update(stageCtx, job.Run); err != nil {
		return fmt.Errorf("persist %s transition: %w", st.name, err)
	}

	started := time.Now()
	stageLogger.Info("stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("processing_status", string(st.status)),
	)
	if err := st.handler.Execute(stageCtx, job); err != nil {
		return p.fail(stageCtx, stageLogger, job.Run, st.name, err)
	}
	if err := p.store.Update(stageCtx, job.Run); err != nil {
		return fmt.Errorf("persist %s result: %w", st.name, err)
	}
	stageLogger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("duration", time.Since(started)),
	)
	return nil
}

// fail records stageErr on the run and returns it unchanged.
func (p *Pipeline) fail(ctx context.Context, logger *slog.Logger, run *history.Run, stageName string, stageErr error) error {
	message := strings.TrimSpace(stageErr.Error())
	run.Status = services.FailureStatus(stageErr)
	run.Stage = stageName
	run.ErrorMessage = message

	logging.ErrorWithContext(logger, "stage failed", "stage_failure",
		logging.String("resolved_status", string(run.Status)),
		logging.String("error_message", message),
		logging.String(logging.FieldErrorHint, services.Hint(stageErr)),
		logging.Error(stageErr),
	)
	// The caller's context may already be cancelled; the record still has to land.
	if err := p.store.Update(context.WithoutCancel(ctx), run); err != nil {
		logger.Error("failed to persist stage failure", logging.Error(err))
	}
	return stageErr
}
