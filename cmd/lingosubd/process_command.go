package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"lingosub/internal/config"
	"lingosub/internal/pipeline"
	"lingosub/internal/services"
	"lingosub/internal/store"
	"lingosub/internal/tasks"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var targetLang string
	var nativeLang string
	var userID string

	cmd := &cobra.Command{
		Use:   "process <video-id> [video-id...]",
		Short: "Run the subtitle pipeline for one or more videos",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Empty flags pass through so the pipeline applies config defaults.
			targetLang = resolveLang(targetLang, "")
			nativeLang = resolveLang(nativeLang, "")

			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}

			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				lock := flock.New(filepath.Join(cfg.Paths.LogDir, "lingosubd.lock"))
				locked, err := lock.TryLock()
				if err != nil {
					return fmt.Errorf("acquire instance lock: %w", err)
				}
				if !locked {
					return errors.New("another lingosub process run is already active")
				}
				defer lock.Unlock()

				orchestrator, err := ctx.buildOrchestrator(cfg, st, logger)
				if err != nil {
					return err
				}

				runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				if _, err := orchestrator.CleanupStaleTasks(runCtx); err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				registry := tasks.NewRegistry(logger, cfg.Tasks.MaxInFlight)
				var failures atomic.Int64
				for _, videoID := range args {
					request := pipeline.Request{
						VideoID:    videoID,
						TargetLang: targetLang,
						NativeLang: nativeLang,
						UserID:     userID,
						Progress: func(stage string, percent float64) {
							fmt.Fprintf(out, "%s  %-20s %3.0f%%\n", videoID, stage, percent)
						},
					}
					if err := launchWithRetry(runCtx, registry, request, orchestrator, &failures); err != nil {
						return err
					}
				}

				if err := registry.Wait(runCtx); err != nil {
					return err
				}
				if n := failures.Load(); n > 0 {
					return fmt.Errorf("%d of %d videos failed to process", n, len(args))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&targetLang, "lang", "l", "", "Target language (defaults to config)")
	cmd.Flags().StringVarP(&nativeLang, "native", "n", "", "Native language (defaults to config)")
	cmd.Flags().StringVarP(&userID, "user", "u", "", "User ID (empty processes as guest)")
	return cmd
}

// launchWithRetry submits one pipeline run to the registry, waiting for a
// slot when every one is taken.
func launchWithRetry(ctx context.Context, registry *tasks.Registry, request pipeline.Request, orchestrator *pipeline.Orchestrator, failures *atomic.Int64) error {
	for {
		_, err := registry.Launch(ctx, "process "+request.VideoID, func(taskCtx context.Context) error {
			if err := orchestrator.Process(taskCtx, request); err != nil {
				failures.Add(1)
				return err
			}
			return nil
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, services.ErrTransient) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
}
