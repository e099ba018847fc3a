package tui

import (
	"context"
	"fmt"

	"github.com/Veraticus/triage/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the TUI until the user quits or ctx is canceled.
func Run(ctx context.Context, ctrl *session.Controller, opts ...Option) error {
	if ctrl == nil {
		return fmt.Errorf("controller is required")
	}

	m, err := New(ctx, ctrl, opts...)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
