// Package logging assembles structured slog loggers and formatting helpers used
// across subtrans.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code tags log lines
// with run IDs, stages, and chunk indexes. NewNop provides a silent logger for
// tests.
package logging
