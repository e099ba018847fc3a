package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Veraticus/triage/internal/cli"
	"github.com/Veraticus/triage/internal/common"
	"github.com/Veraticus/triage/internal/input"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	text  string
	file  string
	copy  bool
	quiet bool
}

func analyzeCmd() *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Classify one email",
		Long: `Send email text or an email file to the backend and print the verdict.

A file wins over text when both are given. Use "-" as the text to read it from stdin.`,
		Example: `  triage analyze --text "Can you send the Q3 report?"
  triage analyze --file message.txt
  pbpaste | triage analyze --text -`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			return runAnalyze(cmd.Context(), a, afero.NewOsFs(), cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.text, "text", "t", "", "email text to classify")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "email file to classify (.txt or .pdf)")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "copy the suggested reply to the clipboard")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "hide the progress spinner")

	return cmd
}

func runAnalyze(ctx context.Context, a *app, fs afero.Fs, stdin io.Reader, out io.Writer, opts analyzeOptions) error {
	text := opts.text
	if text == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}
	a.ctrl.SetText(text)

	if opts.file != "" {
		doc, err := input.OpenDocument(fs, opts.file)
		if err != nil {
			return common.NewUserError("cannot open "+opts.file, err)
		}
		if err := a.ctrl.SelectFile(doc); err != nil {
			return err
		}
	}

	handler := cli.NewInterruptHandler(os.Stderr)
	ctx = handler.HandleInterrupts(ctx, true)
	defer handler.Stop()

	var stop func()
	if !opts.quiet {
		stop = spin("Classifying…")
	}
	err := a.ctrl.Submit(ctx)
	if stop != nil {
		stop()
	}
	if err != nil {
		if handler.WasInterrupted() {
			return common.NewUserError("Interrupted", err)
		}
		return err
	}

	view := a.ctrl.Snapshot(ctx)
	if err := cli.PrintResult(out, view.Result); err != nil {
		return err
	}

	if opts.copy {
		if err := a.ctrl.Copy(); err != nil {
			return err
		}
		fmt.Fprintln(out, cli.FormatSuccess(a.ctrl.Status().Text))
	}
	return nil
}

// spin draws an indeterminate spinner on stderr until the returned func is called.
func spin(description string) func() {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetDescription("[cyan]"+description+"[reset]"),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				_ = bar.Finish()
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	return func() {
		close(done)
		<-finished
	}
}
