package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"lingosub/internal/config"
	"lingosub/internal/media"
	"lingosub/internal/store"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Copy a media file into the library and register it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := filepath.Abs(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("resolve media path: %w", err)
			}
			info, err := os.Stat(source)
			if err != nil {
				return fmt.Errorf("stat media file: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("%s is a directory, expected a media file", source)
			}

			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				target, err := placeInLibrary(cfg, source)
				if err != nil {
					return err
				}
				video, err := st.CreateVideo(cmd.Context(), title, target)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Imported %s\n", filepath.Base(target))
				fmt.Fprintf(out, "Video ID: %s\n", video.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Display title (defaults to the file name)")
	return cmd
}

// placeInLibrary copies source into the media directory unless it already
// lives there. Returns the library path for the video record.
func placeInLibrary(cfg *config.Config, source string) (string, error) {
	mediaDir := cfg.Paths.MediaDir
	if mediaDir == "" || strings.HasPrefix(source, mediaDir+string(os.PathSeparator)) {
		return source, nil
	}

	target := filepath.Join(mediaDir, filepath.Base(source))
	if target == source {
		return source, nil
	}
	if err := media.CopyVerified(source, target); err != nil {
		return "", err
	}
	return target, nil
}
