package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"subtrans/internal/config"
	"subtrans/internal/logging"
	"subtrans/internal/pipeline"
	"subtrans/internal/subtitles"
)

// pipelineFlags are shared by run and translate.
type pipelineFlags struct {
	workers int
	target  string
	style   string
	layout  string
	workDir string
	output  string
	prompt  string
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.workers, "parallel", "p", 0, "Number of chunks translated concurrently (default from config)")
	cmd.Flags().StringVarP(&f.target, "target", "t", "", "Target language name or BCP-47 tag (default from config)")
	cmd.Flags().StringVar(&f.style, "style", "", "ASS [V4+ Styles] file to use instead of the built-in style")
	cmd.Flags().StringVar(&f.layout, "layout", "", "Subtitle layout: "+layoutNames())
	cmd.Flags().StringVar(&f.workDir, "work-dir", "", "Directory for working files (default from config)")
	cmd.Flags().StringVar(&f.prompt, "prompt", "", "Extra instructions appended to the batch prompt")
}

// apply copies cfg and layers the command-line overrides on top.
func (f *pipelineFlags) apply(cfg *config.Config) (*config.Config, error) {
	out := *cfg
	if f.workers < 0 {
		return nil, fmt.Errorf("--parallel must be positive, got %d", f.workers)
	}
	if f.workers > 0 {
		out.Translation.Workers = f.workers
	}
	if v := strings.TrimSpace(f.target); v != "" {
		out.Translation.TargetLanguage = v
	}
	if v := strings.TrimSpace(f.prompt); v != "" {
		out.Translation.CustomPrompt = v
	}
	if v := strings.TrimSpace(f.style); v != "" {
		expanded, err := config.ExpandPath(v)
		if err != nil {
			return nil, err
		}
		out.Subtitles.StyleFile = expanded
	}
	if v := strings.TrimSpace(f.layout); v != "" {
		layout, err := subtitles.ParseLayout(v)
		if err != nil {
			return nil, err
		}
		out.Subtitles.Layout = string(layout)
	}
	if v := strings.TrimSpace(f.workDir); v != "" {
		expanded, err := config.ExpandPath(v)
		if err != nil {
			return nil, err
		}
		out.Paths.WorkDir = expanded
	}
	return &out, nil
}

func layoutNames() string {
	names := make([]string, len(subtitles.Layouts))
	for i, l := range subtitles.Layouts {
		names[i] = string(l)
	}
	return strings.Join(names, ", ")
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags pipelineFlags
	var input string
	var model string
	var skipBurn bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Extract, transcribe, translate, and burn subtitles into a video",
		Example: `  subtrans run -i talk.mp4
  subtrans run -i talk.mp4 -t ja -p 4 --skip-burn`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("--input is required")
			}
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg, err := flags.apply(base)
			if err != nil {
				return err
			}
			if v := strings.TrimSpace(model); v != "" {
				expanded, err := config.ExpandPath(v)
				if err != nil {
					return err
				}
				cfg.Transcription.ModelPath = expanded
			}
			video, err := config.ExpandPath(input)
			if err != nil {
				return err
			}
			output := strings.TrimSpace(flags.output)
			if output != "" {
				if output, err = config.ExpandPath(output); err != nil {
					return err
				}
			}

			return withPipeline(ctx, cfg, func(p *pipeline.Pipeline) (pipeline.Result, error) {
				return p.Run(cmd.Context(), pipeline.Options{
					Video:      video,
					OutputPath: output,
					WorkDir:    cfg.Paths.WorkDir,
					SkipBurn:   skipBurn,
				})
			}, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Input video file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output video path (default <work-dir>/<name>_translated<ext>)")
	cmd.Flags().StringVar(&model, "model", "", "whisper.cpp ggml model path (default from config)")
	cmd.Flags().BoolVar(&skipBurn, "skip-burn", false, "Stop after writing the ASS subtitle file")
	flags.register(cmd)
	return cmd
}

func withPipeline(ctx *commandContext, cfg *config.Config, fn func(*pipeline.Pipeline) (pipeline.Result, error), out io.Writer) error {
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	if cfg.LLM.APIKey == "" {
		logging.WarnWithContext(logger, "no LLM API key configured", "config_warning",
			logging.String(logging.FieldErrorHint, "set OPENAI_API_KEY or llm.api_key"),
			logging.String(logging.FieldImpact, "requests to hosted endpoints will be rejected"),
		)
	}
	store, err := ctx.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	p, err := pipeline.New(cfg, store, logger)
	if err != nil {
		return err
	}
	result, err := fn(p)
	if err != nil {
		if result.RunID != 0 {
			return fmt.Errorf("run #%d: %w", result.RunID, err)
		}
		return err
	}
	printResult(out, result)
	return nil
}

func printResult(out io.Writer, result pipeline.Result) {
	fmt.Fprintf(out, "Run #%d completed\n", result.RunID)
	fmt.Fprintf(out, "Subtitles: %s\n", result.SubtitlePath)
	if result.OutputPath != "" {
		fmt.Fprintf(out, "Video:     %s\n", result.OutputPath)
	}
	report := result.Report
	fmt.Fprintf(out, "Segments:  %d (%d chunks, %d fallbacks, %d untranslated)\n",
		report.Segments, report.Chunks, report.Fallbacks, report.Degraded)
}
