package main

import (
	"context"
	"fmt"
	"io"

	"github.com/Veraticus/triage/internal/cli"
	"github.com/Veraticus/triage/internal/render"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past classifications, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			return runHistory(cmd.Context(), a, cmd.OutOrStdout(), limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum entries to show (0 for all)")

	return cmd
}

func runHistory(ctx context.Context, a *app, out io.Writer, limit int) error {
	entries, err := a.history.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	items := render.HistoryItems(entries, a.productive())
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return cli.PrintHistory(out, items)
}
