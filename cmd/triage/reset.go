package main

import (
	"context"
	"fmt"
	"io"

	"github.com/Veraticus/triage/internal/cli"
	"github.com/spf13/cobra"
)

func resetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the local classification history",
		Long: `Reset removes every entry from the local history. The backend's own counters
are not touched.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			return runReset(cmd.Context(), a, cmd.InOrStdin(), cmd.OutOrStdout(), force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")

	return cmd
}

func runReset(ctx context.Context, a *app, in io.Reader, out io.Writer, force bool) error {
	entries, err := a.history.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("History is empty. Nothing to reset."))
		return nil
	}

	if !force {
		fmt.Fprintf(out, "This will delete %d history entries.\n", len(entries))
		ok, err := cli.Confirm(ctx, cli.NewLineReader(in), out, "Are you sure you want to continue?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, cli.FormatWarning("Reset canceled."))
			return nil
		}
	}

	if err := a.ctrl.Reset(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Deleted %d history entries.", len(entries))))
	return nil
}
