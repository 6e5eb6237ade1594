package translation

import (
	"context"
	"errors"
	"log/slog"

	"subtrans/internal/logging"
	"subtrans/internal/subtitles"
)

var errEmptyTranslation = errors.New("empty translation")

// singleTranslator translates a chunk one entry at a time. Every entry gets a
// result; a failed call marks only that entry as failed.
type singleTranslator struct {
	client Client
	prompt string
	logger *slog.Logger
}

func (s *singleTranslator) translate(ctx context.Context, chunk Chunk) (map[string]subtitles.Translation, int) {
	results := make(map[string]subtitles.Translation, chunk.Len())
	failed := 0
	for _, entry := range chunk.Entries {
		text, err := s.client.TranslateOne(ctx, s.prompt, entry.Text)
		if err == nil && text == "" {
			err = errEmptyTranslation
		}
		if err != nil {
			failed++
			results[entry.Key] = subtitles.Failed()
			logging.WarnWithContext(logging.WithContext(ctx, s.logger), "single-item translation failed",
				"translation_item_failed",
				logging.String("key", entry.Key),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the llm endpoint and model"),
				logging.String(logging.FieldImpact, "line keeps its source text"),
			)
			continue
		}
		results[entry.Key] = subtitles.Translated(text)
	}
	return results, failed
}
