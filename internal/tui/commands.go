package tui

import (
	"errors"
	"log/slog"

	"github.com/Veraticus/triage/internal/common"
	"github.com/Veraticus/triage/internal/input"
	"github.com/Veraticus/triage/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

// boot takes the first snapshot from local state only.
func (m Model) boot() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		ctrl.Boot()
		return bootedMsg{view: ctrl.Snapshot(ctx)}
	}
}

// dispatch runs the handler bound to (element, event) off the UI goroutine.
func (m Model) dispatch(element, event string, p session.Payload) tea.Cmd {
	ctrl, reg, ctx := m.ctrl, m.registry, m.ctx
	return func() tea.Msg {
		err := reg.Dispatch(ctx, element, event, p)
		logDispatchError(element, event, err)
		return actionDoneMsg{
			element: element,
			event:   event,
			err:     err,
			view:    ctrl.Snapshot(ctx),
		}
	}
}

// selectFile opens path and dispatches it as a file selection.
func (m Model) selectFile(path string) tea.Cmd {
	if path == "" {
		return m.dispatch(session.ElementFileInput, session.EventChange, session.Payload{})
	}

	ctrl, reg, ctx, fs := m.ctrl, m.registry, m.ctx, m.config.Fs
	return func() tea.Msg {
		doc, err := input.OpenDocument(fs, path)
		if err != nil {
			ctrl.ReportError(common.NewUserError("cannot open "+path, err))
			return actionDoneMsg{element: session.ElementFileInput, event: session.EventChange, err: err, view: ctrl.Snapshot(ctx)}
		}

		err = reg.Dispatch(ctx, session.ElementFileInput, session.EventChange, session.Payload{Document: doc})
		logDispatchError(session.ElementFileInput, session.EventChange, err)
		return actionDoneMsg{element: session.ElementFileInput, event: session.EventChange, err: err, view: ctrl.Snapshot(ctx)}
	}
}

// refreshKPIs re-reads the backend counters in the background.
func (m Model) refreshKPIs() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		ctrl.RefreshKPIs(ctx)
		return kpisRefreshedMsg{kpis: ctrl.Snapshot(ctx).KPIs}
	}
}

func logDispatchError(element, event string, err error) {
	if err == nil {
		return
	}
	var userErr *common.UserError
	if errors.As(err, &userErr) {
		slog.Debug("Action rejected", "element", element, "event", event, "error", err)
		return
	}
	slog.Warn("Action failed", "element", element, "event", event, "error", err)
}
