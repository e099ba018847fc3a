package main

import (
	"context"
	"fmt"
	"io"

	"github.com/Veraticus/triage/internal/cli"
	"github.com/Veraticus/triage/internal/kpi"
	"github.com/Veraticus/triage/internal/model"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show backend and session KPIs",
		Long: `Show the backend's counters (from /stats, or a health check when that is
missing) next to the share of productive emails in the local history.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			return runStats(cmd.Context(), a, cmd.OutOrStdout())
		},
	}
}

func runStats(ctx context.Context, a *app, out io.Writer) error {
	var (
		board   kpi.Board
		session model.SessionKPIs
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		board = a.ctrl.RefreshKPIs(gctx)
		return nil
	})
	g.Go(func() error {
		var err error
		session, err = a.history.SessionKPIs(gctx, a.productive())
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	return cli.PrintKPIs(out, kpi.Merge(board, session))
}
