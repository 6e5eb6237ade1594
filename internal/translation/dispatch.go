package translation

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"subtrans/internal/logging"
	"subtrans/internal/services"
	"subtrans/internal/subtitles"
)

// ChunkFunc translates one chunk. It runs on a worker goroutine.
type ChunkFunc func(ctx context.Context, chunk Chunk) (ChunkResult, error)

// DispatchResult is the merged outcome of every chunk.
type DispatchResult struct {
	Results        map[string]subtitles.Translation
	BatchSucceeded int
	Fallbacks      int
	FailedItems    int
	FailedChunks   int
	DuplicateKeys  int
}

type chunkOutcome struct {
	index  int
	keys   int
	result ChunkResult
	err    error
}

// Dispatch runs fn for every chunk on exactly workers goroutines and merges
// the results on the calling goroutine. A chunk whose fn errors or panics
// contributes nothing; the remaining chunks are still merged. When two chunks
// report the same key the first merged value is kept.
func Dispatch(ctx context.Context, chunks []Chunk, workers int, fn ChunkFunc, logger *slog.Logger) (DispatchResult, error) {
	if workers <= 0 {
		return DispatchResult{}, fmt.Errorf("worker count must be positive, got %d", workers)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	merged := DispatchResult{Results: make(map[string]subtitles.Translation)}
	if len(chunks) == 0 {
		return merged, nil
	}

	jobs := make(chan Chunk)
	results := make(chan chunkOutcome)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for chunk := range jobs {
				results <- runChunk(services.WithChunk(ctx, chunk.Index), chunk, fn)
			}
		}()
	}
	go func() {
		for _, chunk := range chunks {
			jobs <- chunk
		}
		close(jobs)
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	for out := range results {
		chunkLogger := logging.WithContext(services.WithChunk(ctx, out.index), logger)
		if out.err != nil {
			merged.FailedChunks++
			logging.ErrorWithContext(chunkLogger, "chunk translation failed", "chunk_failed",
				logging.Error(out.err),
				logging.Int("entries", out.keys),
				logging.String(logging.FieldErrorHint, "affected lines keep their source text"),
			)
			continue
		}

		if out.result.Fallback {
			merged.Fallbacks++
		} else {
			merged.BatchSucceeded++
		}
		merged.FailedItems += out.result.FailedItems
		for key, value := range out.result.Results {
			if _, exists := merged.Results[key]; exists {
				merged.DuplicateKeys++
				chunkLogger.Error("duplicate translation key ignored",
					logging.String(logging.FieldEventType, "duplicate_key"),
					logging.String("key", key),
				)
				continue
			}
			merged.Results[key] = value
		}
	}
	return merged, nil
}

func runChunk(ctx context.Context, chunk Chunk, fn ChunkFunc) (out chunkOutcome) {
	out.index = chunk.Index
	out.keys = chunk.Len()
	defer func() {
		if r := recover(); r != nil {
			out.result = ChunkResult{}
			out.err = fmt.Errorf("chunk %d panicked: %v\n%s", chunk.Index, r, debug.Stack())
		}
	}()
	result, err := fn(ctx, chunk)
	if err != nil {
		out.err = fmt.Errorf("chunk %d: %w", chunk.Index, err)
		return out
	}
	out.result = result
	return out
}
