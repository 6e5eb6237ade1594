package translation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"subtrans/internal/language"
	"subtrans/internal/logging"
	"subtrans/internal/subtitles"
)

// DefaultBatchSize is the number of segments sent per batch request.
const DefaultBatchSize = 10

// ErrEmptyInput is returned when there is nothing to translate.
var ErrEmptyInput = errors.New("no segments to translate")

// Client is the chat completion surface the translator needs.
type Client interface {
	TranslateBatch(ctx context.Context, systemPrompt, payload string) (string, error)
	TranslateOne(ctx context.Context, systemPrompt, text string) (string, error)
}

// Config controls a translation run.
type Config struct {
	// TargetLanguage is a language name or BCP-47 tag.
	TargetLanguage string
	Workers        int
	BatchSize      int
	CustomPrompt   string
}

// Report summarizes a translation run.
type Report struct {
	Segments       int
	Chunks         int
	BatchSucceeded int
	Fallbacks      int
	FailedItems    int
	FailedChunks   int
	// Degraded counts segments that kept their source text.
	Degraded int
	Duration time.Duration
}

// Translator partitions, dispatches and reassembles segment stores.
type Translator struct {
	cfg     Config
	prompts Prompts
	batch   *batchTranslator
	logger  *slog.Logger
}

// New validates cfg and builds a Translator around client.
func New(client Client, cfg Config, logger *slog.Logger) (*Translator, error) {
	if client == nil {
		return nil, errors.New("translation client is required")
	}
	if cfg.Workers <= 0 {
		return nil, fmt.Errorf("worker count must be positive, got %d", cfg.Workers)
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BatchSize < 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", cfg.BatchSize)
	}
	if strings.TrimSpace(cfg.TargetLanguage) == "" {
		return nil, errors.New("target language is required")
	}
	logger = logging.NewComponentLogger(logger, "translation")

	prompts := BuildPrompts(language.PromptName(cfg.TargetLanguage), cfg.CustomPrompt)
	single := &singleTranslator{client: client, prompt: prompts.Single, logger: logger}
	return &Translator{
		cfg:     cfg,
		prompts: prompts,
		batch:   &batchTranslator{client: client, prompt: prompts.Batch, single: single, logger: logger},
		logger:  logger,
	}, nil
}

// Prompts returns the rendered system prompts.
func (t *Translator) Prompts() Prompts {
	return t.prompts
}

// Translate returns a new store with every segment carrying an Ok
// translation. Lines that could not be translated carry their source text
// and are counted in Report.Degraded. An error is returned only when the
// input itself is unusable.
func (t *Translator) Translate(ctx context.Context, store *subtitles.Store) (*subtitles.Store, Report, error) {
	if store.Len() == 0 {
		return nil, Report{}, ErrEmptyInput
	}
	started := time.Now()
	logger := logging.WithContext(ctx, t.logger)

	chunks, err := Partition(store, t.cfg.BatchSize)
	if err != nil {
		return nil, Report{}, err
	}
	logger.Info("translation started",
		logging.String(logging.FieldEventType, "translation_start"),
		logging.Int("segments", store.Len()),
		logging.Int("chunks", len(chunks)),
		logging.Int("workers", t.cfg.Workers),
		logging.String("target_language", t.cfg.TargetLanguage),
	)

	merged, err := Dispatch(ctx, chunks, t.cfg.Workers, t.batch.translate, t.logger)
	if err != nil {
		return nil, Report{}, err
	}

	translated, degraded, err := Reassemble(store, merged.Results)
	if err != nil {
		return nil, Report{}, fmt.Errorf("reassemble: %w", err)
	}

	report := Report{
		Segments:       store.Len(),
		Chunks:         len(chunks),
		BatchSucceeded: merged.BatchSucceeded,
		Fallbacks:      merged.Fallbacks,
		FailedItems:    merged.FailedItems,
		FailedChunks:   merged.FailedChunks,
		Degraded:       degraded,
		Duration:       time.Since(started),
	}
	attrs := []logging.Attr{
		logging.Int("segments", report.Segments),
		logging.Int("batch_succeeded", report.BatchSucceeded),
		logging.Int("fallbacks", report.Fallbacks),
		logging.Int("failed_chunks", report.FailedChunks),
		logging.Int("degraded", report.Degraded),
		logging.Duration("duration", report.Duration),
	}
	if degraded > 0 {
		logging.WarnWithContext(logger, "translation completed with untranslated lines", "translation_degraded",
			append(attrs,
				logging.String(logging.FieldErrorHint, "rerun subtrans translate on the srt to retry"),
				logging.String(logging.FieldImpact, "some subtitles show source text"),
			)...)
	} else {
		attrs = append(attrs, logging.String(logging.FieldEventType, "translation_complete"))
		logger.Info("translation completed", logging.Args(attrs...)...)
	}
	return translated, report, nil
}
