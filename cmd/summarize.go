package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gistbot/internal/config"
	"gistbot/internal/summarizer"

	"github.com/spf13/cobra"
)

// staticCredential hands the same key to every user.
type staticCredential string

func (c staticCredential) Credential(context.Context, int64) (string, error) {
	return string(c), nil
}

func newSummarizeCmd() *cobra.Command {
	var (
		style string
		key   string
	)

	cmd := &cobra.Command{
		Use:   "summarize URL",
		Short: "Print the summary of one page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Keep stdout for the summary.
			log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			credential := strings.TrimSpace(key)
			if credential == "" {
				credential = cfg.DefaultCredential()
			}

			a, err := newAssistant(cfg, staticCredential(credential), nil, log)
			if err != nil {
				return err
			}

			result, err := a.Summarize(cmd.Context(), 0, args[0], summarizer.ParseStyle(style))
			if err != nil {
				return fmt.Errorf("summarize %s: %w", args[0], err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Summary)
			return err
		},
	}

	cmd.Flags().StringVar(&style, "style", string(summarizer.StyleBrief), "summary style: brief, detailed or bullets")
	cmd.Flags().StringVar(&key, "key", "", "API key, defaults to the configured one")

	return cmd
}
