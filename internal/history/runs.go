package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const runColumns = `id, request_id, source_path, output_path, subtitle_path, target_language,
	status, stage, error_message, segments, degraded, created_at, updated_at`

// NewRun records a pending run for source.
func (s *Store) NewRun(ctx context.Context, sourcePath, targetLanguage string) (*Run, error) {
	sourcePath = strings.TrimSpace(sourcePath)
	if sourcePath == "" {
		return nil, errors.New("source path is required")
	}
	now := time.Now().UTC()
	run := &Run{
		RequestID:      uuid.NewString(),
		SourcePath:     sourcePath,
		TargetLanguage: strings.TrimSpace(targetLanguage),
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	nowText := now.Format(time.RFC3339Nano)
	res, err := s.execWithRetry(ctx,
		`INSERT INTO runs (request_id, source_path, target_language, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.RequestID, run.SourcePath, run.TargetLanguage, string(run.Status), nowText, nowText,
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("fetch run id: %w", err)
	}
	run.ID = id
	return run, nil
}

// Update persists the mutable fields of run and refreshes UpdatedAt.
func (s *Store) Update(ctx context.Context, run *Run) error {
	if run == nil || run.ID == 0 {
		return errors.New("run is not persisted")
	}
	run.UpdatedAt = time.Now().UTC()
	res, err := s.execWithRetry(ctx,
		`UPDATE runs SET output_path = ?, subtitle_path = ?, target_language = ?, status = ?,
		stage = ?, error_message = ?, segments = ?, degraded = ?, updated_at = ?
		WHERE id = ?`,
		nullableString(run.OutputPath),
		nullableString(run.SubtitlePath),
		run.TargetLanguage,
		string(run.Status),
		nullableString(run.Stage),
		nullableString(run.ErrorMessage),
		run.Segments,
		run.Degraded,
		run.UpdatedAt.Format(time.RFC3339Nano),
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("update run %d: %w", run.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update run %d: %w", run.ID, sql.ErrNoRows)
	}
	return nil
}

// GetByID fetches a run by its ID. A missing run yields nil without error.
func (s *Store) GetByID(ctx context.Context, id int64) (*Run, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// List returns the most recent runs first. A non-positive limit returns all runs.
func (s *Store) List(ctx context.Context, limit int, statuses ...Status) ([]*Run, error) {
	ctx = ensureContext(ctx)
	query := "SELECT " + runColumns + " FROM runs"
	var args []any
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			placeholders[i] = "?"
			args = append(args, string(status))
		}
		query += " WHERE status IN (" + strings.Join(placeholders, ",") + ")"
	}
	query += " ORDER BY id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Clear removes runs. With no statuses every run is removed.
func (s *Store) Clear(ctx context.Context, statuses ...Status) (int64, error) {
	query := "DELETE FROM runs"
	var args []any
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			placeholders[i] = "?"
			args = append(args, string(status))
		}
		query += " WHERE status IN (" + strings.Join(placeholders, ",") + ")"
	}
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}
	return res.RowsAffected()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run                                   Run
		output, subtitle, stage, errorMessage sql.NullString
		status, createdAt, updatedAt          string
	)
	if err := scanner.Scan(
		&run.ID,
		&run.RequestID,
		&run.SourcePath,
		&output,
		&subtitle,
		&run.TargetLanguage,
		&status,
		&stage,
		&errorMessage,
		&run.Segments,
		&run.Degraded,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	run.OutputPath = output.String
	run.SubtitlePath = subtitle.String
	run.Status = Status(status)
	run.Stage = stage.String
	run.ErrorMessage = errorMessage.String

	var err error
	if run.CreatedAt, err = parseTimeString(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at for run %d: %w", run.ID, err)
	}
	if run.UpdatedAt, err = parseTimeString(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at for run %d: %w", run.ID, err)
	}
	return &run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
