package main

import (
	"strings"

	"github.com/spf13/cobra"

	"subtrans/internal/config"
	"subtrans/internal/pipeline"
)

func newTranslateCommand(ctx *commandContext) *cobra.Command {
	var flags pipelineFlags

	cmd := &cobra.Command{
		Use:   "translate <file.srt>",
		Short: "Translate an existing SRT file into a bilingual ASS file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg, err := flags.apply(base)
			if err != nil {
				return err
			}
			input, err := config.ExpandPath(strings.TrimSpace(args[0]))
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
				return p.Translate(cmd.Context(), pipeline.TranslateOptions{
					Input:      input,
					OutputPath: output,
					WorkDir:    cfg.Paths.WorkDir,
				})
			}, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output ASS path (default <work-dir>/<name>_translated.ass)")
	flags.register(cmd)
	return cmd
}
