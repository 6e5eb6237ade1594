package testsupport

import (
	"context"
	"testing"

	"subtrans/internal/config"
	"subtrans/internal/history"
)

// MustOpenStore opens a history.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewRun records a pending run for tests using the provided store.
func NewRun(t testing.TB, store *history.Store, source, target string) *history.Run {
	t.Helper()

	run, err := store.NewRun(context.Background(), source, target)
	if err != nil {
		t.Fatalf("store.NewRun: %v", err)
	}
	return run
}
