package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lingosub/internal/config"
	"lingosub/internal/deck"
	"lingosub/internal/knowledge"
	"lingosub/internal/store"
)

func newDeckCommand(ctx *commandContext) *cobra.Command {
	var targetLang string
	var userID string
	var startTime float64
	var endTime float64
	var limit int

	cmd := &cobra.Command{
		Use:   "deck <video-id>",
		Short: "Build a vocabulary deck from a time window of a processed video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if endTime <= startTime {
				return fmt.Errorf("end time %.2f must be after start time %.2f", endTime, startTime)
			}

			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				lang := resolveTargetLang(cfg, targetLang)

				builder := deck.NewBuilder(st, knowledge.NewService(st), cfg.Deck.Limit)
				cards, err := builder.Generate(cmd.Context(), userID, args[0], lang, startTime, endTime, limit)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(cards) == 0 {
					fmt.Fprintln(out, "No vocabulary found in that window")
					return nil
				}

				rows := make([][]string, 0, len(cards))
				for _, card := range cards {
					knownLabel := ""
					if card.Known {
						knownLabel = "known"
					}
					rows = append(rows, []string{
						card.Lemma,
						card.Original,
						card.Translation,
						knownLabel,
						card.ContextSentence,
					})
				}
				headers := []string{"LEMMA", "SURFACE", "TRANSLATION", "", "CONTEXT"}
				if isTerminal(out) {
					fmt.Fprintln(out, renderTable(headers, rows))
					return nil
				}
				for _, row := range rows {
					fmt.Fprintln(out, strings.Join(row, "\t"))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&targetLang, "lang", "l", "", "Target language (defaults to config)")
	cmd.Flags().StringVarP(&userID, "user", "u", "", "User ID (empty treats every word as unknown)")
	cmd.Flags().Float64Var(&startTime, "start", 0, "Window start in seconds")
	cmd.Flags().Float64Var(&endTime, "end", 0, "Window end in seconds")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum cards (defaults to config)")
	return cmd
}
