package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/triage/internal/cli"
	"github.com/Veraticus/triage/internal/config"
	"github.com/Veraticus/triage/internal/export"
	"github.com/Veraticus/triage/internal/model"
	"github.com/Veraticus/triage/internal/sheets"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type exportOptions struct {
	output string
	sheets bool
}

func exportCmd() *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the history as CSV or to Google Sheets",
		Long: `Export writes the local history in stored order, oldest first.

CSV goes to stdout unless --output names a file. With --sheets the history
replaces the contents of the configured spreadsheet.`,
		Example: `  triage export > history.csv
  triage export --output ~/history.csv
  triage export --sheets`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			entries, err := a.history.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load history: %w", err)
			}

			if opts.sheets {
				cfg, err := config.LoadSheetsConfig(viper.GetViper())
				if err != nil {
					return err
				}
				return exportSheets(cmd.Context(), *cfg, entries, cmd.OutOrStdout())
			}
			return exportCSV(afero.NewOsFs(), opts.output, entries, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "CSV file to write (default: stdout)")
	cmd.Flags().BoolVar(&opts.sheets, "sheets", false, "export to Google Sheets instead of CSV")

	return cmd
}

func exportCSV(fs afero.Fs, path string, entries []model.HistoryEntry, out io.Writer) error {
	if path == "" || path == "-" {
		return export.WriteCSV(out, entries)
	}

	f, err := fs.Create(config.ExpandPath(path))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := export.WriteCSV(f, entries); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Exported %d entries to %s", len(entries), path)))
	return nil
}

func exportSheets(ctx context.Context, cfg sheets.Config, entries []model.HistoryEntry, out io.Writer) error {
	writer, err := sheets.NewWriter(ctx, cfg, slog.Default())
	if err != nil {
		return err
	}

	result, err := writer.Write(ctx, entries)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Exported %d entries to spreadsheet %s", result.Rows, result.SpreadsheetID)))
	return nil
}
