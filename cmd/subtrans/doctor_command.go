package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"subtrans/internal/deps"
	"subtrans/internal/services/llm"
)

const doctorLLMTimeout = 30 * time.Second

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var skipLLM bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools, directories, the whisper model, and the LLM endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(deps.Requirements(
				cfg.FFmpeg.FFmpegBinary,
				cfg.FFmpeg.FFprobeBinary,
				cfg.Transcription.WhisperBinary,
			))
			statuses = append(statuses,
				deps.CheckWritable("Work directory", cfg.Paths.WorkDir),
				deps.CheckWritable("Log directory", cfg.Paths.LogDir),
				deps.CheckWritable("State directory", cfg.Paths.StateDir),
				deps.CheckReadable("Whisper model", cfg.Transcription.ModelPath),
			)
			if !skipLLM {
				statuses = append(statuses, checkLLM(cmd.Context(), llm.Config{
					APIKey:         cfg.LLM.APIKey,
					BaseURL:        cfg.LLM.BaseURL,
					Model:          cfg.LLM.Model,
					Temperature:    cfg.LLM.Temperature,
					TimeoutSeconds: cfg.LLM.TimeoutSeconds,
				}))
			}

			out := cmd.OutOrStdout()
			failed := 0
			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				if !status.Available && !status.Optional {
					failed++
				}
				rows = append(rows, []string{status.Name, status.Command, yesNo(status.Available), status.Detail})
			}
			writeTable(out, []string{"Check", "Target", "OK", "Detail"}, rows, nil)

			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipLLM, "skip-llm", false, "Skip the LLM endpoint health check")
	return cmd
}

func checkLLM(ctx context.Context, cfg llm.Config) deps.Status {
	client := llm.NewClient(cfg)
	status := deps.Status{
		Name:        "LLM endpoint",
		Command:     cfg.BaseURL + " (" + client.Model() + ")",
		Description: "chat completions",
	}
	ctx, cancel := context.WithTimeout(ctx, doctorLLMTimeout)
	defer cancel()
	if err := client.HealthCheck(ctx); err != nil {
		var statusErr *llm.StatusError
		switch {
		case errors.As(err, &statusErr):
			status.Detail = fmt.Sprintf("HTTP %d", statusErr.StatusCode)
		case llm.IsTimeout(err):
			status.Detail = "timed out"
		default:
			status.Detail = err.Error()
		}
		return status
	}
	status.Available = true
	return status
}
