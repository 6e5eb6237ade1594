package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"subtrans/internal/logging"
	"subtrans/internal/services/llm"
	"subtrans/internal/subtitles"
)

// ChunkResult is the outcome of translating one chunk.
type ChunkResult struct {
	Index   int
	Results map[string]subtitles.Translation
	// Fallback reports that the batch response was rejected and the chunk
	// was translated line by line.
	Fallback    bool
	FailedItems int
}

// batchTranslator asks for a whole chunk in one completion and falls back to
// the single-item path when the call fails, the response cannot be parsed, or
// the response keys differ from the chunk's keys.
type batchTranslator struct {
	client Client
	prompt string
	single *singleTranslator
	logger *slog.Logger
}

func (b *batchTranslator) translate(ctx context.Context, chunk Chunk) (ChunkResult, error) {
	logger := logging.WithContext(ctx, b.logger)

	results, reason := b.attempt(ctx, chunk)
	if reason == "" {
		logger.Debug("batch translated",
			logging.String(logging.FieldEventType, "batch_translated"),
			logging.Int("entries", chunk.Len()),
		)
		return ChunkResult{Index: chunk.Index, Results: results}, nil
	}

	logging.WarnWithContext(logger, "batch response rejected; translating lines individually",
		"batch_fallback",
		logging.String("reason", reason),
		logging.Int("entries", chunk.Len()),
		logging.String(logging.FieldErrorHint, "a model with stronger JSON output reduces fallbacks"),
		logging.String(logging.FieldImpact, "chunk costs one request per line"),
	)
	single, failed := b.single.translate(ctx, chunk)
	return ChunkResult{Index: chunk.Index, Results: single, Fallback: true, FailedItems: failed}, nil
}

// attempt returns the parsed batch results, or a non-empty reason describing
// why the batch path was abandoned.
func (b *batchTranslator) attempt(ctx context.Context, chunk Chunk) (map[string]subtitles.Translation, string) {
	payload, err := chunk.Payload()
	if err != nil {
		return nil, err.Error()
	}
	raw, err := b.client.TranslateBatch(ctx, b.prompt, payload)
	if err != nil {
		return nil, fmt.Sprintf("request failed: %v", err)
	}
	parsed, err := parseBatchResponse(raw)
	if err != nil {
		return nil, fmt.Sprintf("unparseable response: %v", err)
	}
	if len(parsed) != chunk.Len() {
		return nil, fmt.Sprintf("count mismatch: got %d entries, want %d", len(parsed), chunk.Len())
	}
	keys := make(map[string]struct{}, chunk.Len())
	for _, key := range chunk.Keys() {
		keys[key] = struct{}{}
	}
	results := make(map[string]subtitles.Translation, len(parsed))
	for key, text := range parsed {
		if _, ok := keys[key]; !ok {
			return nil, fmt.Sprintf("unexpected key %q in response", key)
		}
		results[key] = subtitles.Translated(text)
	}
	return results, ""
}

// parseBatchResponse leniently decodes a JSON object and coerces each value
// to plain text. Strings are kept verbatim; other JSON values keep their
// literal form.
func parseBatchResponse(raw string) (map[string]string, error) {
	var decoded map[string]json.RawMessage
	if err := llm.DecodeLLMJSON(raw, &decoded); err != nil {
		return nil, err
	}
	if decoded == nil {
		return nil, fmt.Errorf("response is not a JSON object")
	}
	out := make(map[string]string, len(decoded))
	for key, value := range decoded {
		out[key] = coerceValue(value)
	}
	return out, nil
}

func coerceValue(value json.RawMessage) string {
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return s
	}
	literal := strings.TrimSpace(string(value))
	if literal == "null" {
		return ""
	}
	return literal
}
