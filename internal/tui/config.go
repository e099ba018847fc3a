package tui

import (
	"github.com/Veraticus/triage/internal/tui/themes"
	"github.com/spf13/afero"
)

// Config holds TUI configuration.
type Config struct {
	Theme    themes.Theme
	Fs       afero.Fs
	Width    int
	Height   int
	ShowHelp bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:  themes.Default,
		Fs:     afero.NewOsFs(),
		Width:  100,
		Height: 32,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithFs sets the filesystem files are picked from.
func WithFs(fs afero.Fs) Option {
	return func(c *Config) {
		c.Fs = fs
	}
}

// WithHelp starts with the full key help expanded.
func WithHelp(show bool) Option {
	return func(c *Config) {
		c.ShowHelp = show
	}
}
