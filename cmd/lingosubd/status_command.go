package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lingosub/internal/config"
	"lingosub/internal/segment"
	"lingosub/internal/store"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var statusFilter string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show library videos and their processing state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var statuses []store.ProcessingStatus
			if trimmed := strings.TrimSpace(statusFilter); trimmed != "" {
				status, ok := store.ParseStatus(trimmed)
				if !ok {
					return fmt.Errorf("unknown status %q (expected PENDING, COMPLETED, or ERROR)", trimmed)
				}
				statuses = append(statuses, status)
			}

			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				videos, err := st.ListVideos(cmd.Context())
				if err != nil {
					return err
				}
				processing, err := st.ListProcessing(cmd.Context(), statuses...)
				if err != nil {
					return err
				}

				byVideo := make(map[string][]*store.Processing, len(processing))
				for _, record := range processing {
					byVideo[record.VideoID] = append(byVideo[record.VideoID], record)
				}

				rows := make([][]string, 0, len(videos))
				for _, video := range videos {
					records := byVideo[video.ID]
					if len(records) == 0 {
						if len(statuses) > 0 {
							continue
						}
						rows = append(rows, []string{video.ID, video.Title, "-", "-", segmentCount[segment.Segment](nil)})
						continue
					}
					for _, record := range records {
						rows = append(rows, []string{
							video.ID,
							video.Title,
							record.TargetLang,
							string(record.Status),
							segmentCount(record.Segments),
						})
					}
				}

				out := cmd.OutOrStdout()
				if len(rows) == 0 {
					fmt.Fprintln(out, "No videos found")
					return nil
				}
				headers := []string{"VIDEO", "TITLE", "LANG", "STATUS", "SEGMENTS"}
				if isTerminal(out) {
					fmt.Fprintln(out, renderTable(headers, rows))
					return nil
				}
				fmt.Fprintln(out, strings.Join(headers, "\t"))
				for _, row := range rows {
					fmt.Fprintln(out, strings.Join(row, "\t"))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&statusFilter, "status", "s", "", "Only show records with this processing status")
	return cmd
}

func segmentCount[T any](segments []T) string {
	if segments == nil {
		return "-"
	}
	return fmt.Sprintf("%d", len(segments))
}
