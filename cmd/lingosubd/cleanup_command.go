package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lingosub/internal/config"
	"lingosub/internal/store"
)

func newCleanupCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Mark orphaned pending processing tasks as errored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				count, err := st.ResetStalePending(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if count == 0 {
					fmt.Fprintln(out, "No stale processing tasks found")
					return nil
				}
				fmt.Fprintf(out, "Marked %d stale processing task(s) as errored\n", count)
				return nil
			})
		},
	}
}
