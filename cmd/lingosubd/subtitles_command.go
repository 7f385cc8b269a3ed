package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"lingosub/internal/config"
	"lingosub/internal/store"
	"lingosub/internal/subtitle"
)

func newSubtitlesCommand(ctx *commandContext) *cobra.Command {
	var targetLang string
	var modeFlag string
	var formatFlag string
	var outputPath string

	cmd := &cobra.Command{
		Use:   "subtitles <video-id>",
		Short: "Render subtitles for a processed video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, ok := subtitle.ParseMode(modeFlag)
			if !ok {
				return fmt.Errorf("unknown mode %q (expected native, translated, or bilingual)", modeFlag)
			}
			format := strings.ToLower(strings.TrimSpace(formatFlag))
			if format != "vtt" && format != "srt" {
				return fmt.Errorf("unknown format %q (expected vtt or srt)", formatFlag)
			}

			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				lang := resolveTargetLang(cfg, targetLang)

				svc := subtitle.NewService(st)
				var rendered string
				var found bool
				var err error
				if format == "srt" {
					rendered, found, err = svc.GenerateSRT(cmd.Context(), args[0], lang, mode)
				} else {
					rendered, found, err = svc.GenerateVTT(cmd.Context(), args[0], lang, mode)
				}
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("no completed processing for video %s in %s", args[0], lang)
				}

				if outputPath != "" {
					if err := os.WriteFile(outputPath, []byte(rendered), 0o644); err != nil {
						return fmt.Errorf("write subtitle file: %w", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outputPath)
					return nil
				}
				fmt.Fprint(cmd.OutOrStdout(), rendered)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&targetLang, "lang", "l", "", "Target language (defaults to config)")
	cmd.Flags().StringVarP(&modeFlag, "mode", "m", "native", "Caption mode: native, translated, or bilingual")
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "vtt", "Output format: vtt or srt")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write to file instead of stdout")
	return cmd
}
