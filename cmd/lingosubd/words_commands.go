package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"lingosub/internal/config"
	"lingosub/internal/knowledge"
	"lingosub/internal/store"
)

func newWordsCommand(ctx *commandContext) *cobra.Command {
	wordsCmd := &cobra.Command{
		Use:   "words",
		Short: "Manage a user's known vocabulary",
	}

	wordsCmd.AddCommand(newWordsMarkCommand(ctx))
	wordsCmd.AddCommand(newWordsSeedCommand(ctx))
	wordsCmd.AddCommand(newWordsCountCommand(ctx))

	return wordsCmd
}

func newWordsMarkCommand(ctx *commandContext) *cobra.Command {
	var userID string
	var lang string
	var level string
	var proper bool

	cmd := &cobra.Command{
		Use:   "mark <lemma> [lemma...]",
		Short: "Mark lemmas as known for a user",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(userID) == "" {
				return fmt.Errorf("--user is required")
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				resolvedLang := resolveTargetLang(cfg, lang)
				svc := knowledge.NewService(st)
				for _, lemma := range args {
					if err := svc.MarkKnown(cmd.Context(), userID, resolvedLang, lemma, level, proper); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Marked %d word(s) as known\n", len(args))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "User ID")
	cmd.Flags().StringVarP(&lang, "lang", "l", "", "Language (defaults to config)")
	cmd.Flags().StringVar(&level, "level", "", "CEFR level (A1-C2, optional)")
	cmd.Flags().BoolVar(&proper, "proper", false, "Mark as proper noun")
	return cmd
}

func newWordsSeedCommand(ctx *commandContext) *cobra.Command {
	var userID string
	var lang string

	cmd := &cobra.Command{
		Use:   "seed <file>",
		Short: "Seed known vocabulary from a word list file",
		Long: `Seed known vocabulary from a word list file.

Each line holds one lemma, optionally followed by whitespace and a CEFR
level (A1 through C2). Blank lines and lines starting with # are ignored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(userID) == "" {
				return fmt.Errorf("--user is required")
			}
			entries, err := readSeedFile(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				resolvedLang := resolveTargetLang(cfg, lang)
				inserted, err := knowledge.NewService(st).SeedKnownWords(cmd.Context(), userID, resolvedLang, entries)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d word(s) from %d entries\n", inserted, len(entries))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "User ID")
	cmd.Flags().StringVarP(&lang, "lang", "l", "", "Language (defaults to config)")
	return cmd
}

func newWordsCountCommand(ctx *commandContext) *cobra.Command {
	var userID string
	var lang string

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count a user's known words",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(userID) == "" {
				return fmt.Errorf("--user is required")
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				resolvedLang := resolveTargetLang(cfg, lang)
				count, err := st.CountKnownWords(cmd.Context(), userID, resolvedLang)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d known word(s)\n", count)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "User ID")
	cmd.Flags().StringVarP(&lang, "lang", "l", "", "Language (defaults to config)")
	return cmd
}

func readSeedFile(path string) ([]knowledge.SeedEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer file.Close()

	var entries []knowledge.SeedEntry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		entry := knowledge.SeedEntry{Lemma: fields[0]}
		if len(fields) > 1 {
			entry.Level = strings.ToUpper(fields[1])
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	return entries, nil
}
