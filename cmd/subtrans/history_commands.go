package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"subtrans/internal/history"
)

type runView struct {
	ID             int64  `json:"id"`
	RequestID      string `json:"request_id"`
	Status         string `json:"status"`
	Stage          string `json:"stage,omitempty"`
	SourcePath     string `json:"source_path"`
	SubtitlePath   string `json:"subtitle_path,omitempty"`
	OutputPath     string `json:"output_path,omitempty"`
	TargetLanguage string `json:"target_language"`
	Segments       int    `json:"segments"`
	Degraded       int    `json:"degraded"`
	ErrorMessage   string `json:"error_message,omitempty"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

func newRunView(run *history.Run) runView {
	return runView{
		ID:             run.ID,
		RequestID:      run.RequestID,
		Status:         string(run.Status),
		Stage:          run.Stage,
		SourcePath:     run.SourcePath,
		SubtitlePath:   run.SubtitlePath,
		OutputPath:     run.OutputPath,
		TargetLanguage: run.TargetLanguage,
		Segments:       run.Segments,
		Degraded:       run.Degraded,
		ErrorMessage:   run.ErrorMessage,
		CreatedAt:      run.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      run.UpdatedAt.Format(time.RFC3339),
	}
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool
	var statusFlags []string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses, err := parseStatuses(statusFlags)
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit, statuses...)
			if err != nil {
				return err
			}
			if jsonOut {
				views := make([]runView, 0, len(runs))
				for _, run := range runs {
					views = append(views, newRunView(run))
				}
				return writeJSON(cmd, views)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			colorize := isTerminal(out)
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					strconv.FormatInt(run.ID, 10),
					statusLabel(run.Status, colorize),
					run.Stage,
					filepath.Base(run.SourcePath),
					run.TargetLanguage,
					strconv.Itoa(run.Segments),
					strconv.Itoa(run.Degraded),
					run.Elapsed().Round(time.Second).String(),
					run.UpdatedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			writeTable(out,
				[]string{"ID", "Status", "Stage", "Source", "Target", "Segments", "Untranslated", "Elapsed", "Updated"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	cmd.Flags().StringSliceVar(&statusFlags, "status", nil, "Only show runs with these statuses")

	cmd.AddCommand(newHistoryShowCommand(ctx))
	cmd.AddCommand(newHistoryClearCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show details for one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid run id %q", args[0])
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if run == nil {
				return fmt.Errorf("run #%d not found", id)
			}
			if jsonOut {
				return writeJSON(cmd, newRunView(run))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run #%d (%s)\n", run.ID, run.RequestID)
			fmt.Fprintf(out, "  Status:    %s\n", statusLabel(run.Status, isTerminal(out)))
			if run.Stage != "" {
				fmt.Fprintf(out, "  Stage:     %s\n", run.Stage)
			}
			fmt.Fprintf(out, "  Source:    %s\n", run.SourcePath)
			fmt.Fprintf(out, "  Target:    %s\n", run.TargetLanguage)
			if run.SubtitlePath != "" {
				fmt.Fprintf(out, "  Subtitles: %s\n", run.SubtitlePath)
			}
			if run.OutputPath != "" {
				fmt.Fprintf(out, "  Video:     %s\n", run.OutputPath)
			}
			fmt.Fprintf(out, "  Segments:  %d (%d untranslated)\n", run.Segments, run.Degraded)
			fmt.Fprintf(out, "  Started:   %s\n", run.CreatedAt.Local().Format(time.RFC3339))
			fmt.Fprintf(out, "  Updated:   %s\n", run.UpdatedAt.Local().Format(time.RFC3339))
			if run.ErrorMessage != "" {
				fmt.Fprintf(out, "  Error:     %s\n", run.ErrorMessage)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	var statusFlags []string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses, err := parseStatuses(statusFlags)
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context(), statuses...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d run(s)\n", removed)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&statusFlags, "status", nil, "Only remove runs with these statuses")
	return cmd
}

func parseStatuses(values []string) ([]history.Status, error) {
	statuses := make([]history.Status, 0, len(values))
	for _, value := range values {
		status, ok := history.ParseStatus(value)
		if !ok {
			return nil, fmt.Errorf("unknown status %q", value)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
