package main

import (
	"github.com/Veraticus/triage/internal/tui"
	"github.com/Veraticus/triage/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func uiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive classifier",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			return tui.Run(cmd.Context(), a.ctrl,
				tui.WithTheme(themes.GetTheme(viper.GetString("ui.theme"))),
				tui.WithHelp(viper.GetBool("ui.full_help")),
			)
		},
	}

	cmd.Flags().String("theme", "default", "color theme (default, catppuccin-mocha)")
	cmd.Flags().Bool("full-help", false, "start with the full key help expanded")
	_ = viper.BindPFlag("ui.theme", cmd.Flags().Lookup("theme"))
	_ = viper.BindPFlag("ui.full_help", cmd.Flags().Lookup("full-help"))

	return cmd
}
