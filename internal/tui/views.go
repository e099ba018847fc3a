package tui

import (
	"strings"

	"github.com/Veraticus/triage/internal/cli"
	"github.com/Veraticus/triage/internal/session"
	"github.com/charmbracelet/lipgloss"
)

// historyRows caps the history panel.
const historyRows = 5

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return m.renderLoading()
	}

	sections := []string{
		m.theme.Title.Render("✉️  Email triage"),
		m.renderInputs(),
		m.renderStatus(),
		m.renderResult(),
		m.renderKPIs(),
		m.renderHistory(),
		m.help.View(m.keymap),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderLoading() string {
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		m.theme.Title.Render("Email triage"),
		"",
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Contacting the classifier…"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) box(focused bool) lipgloss.Style {
	style := m.theme.Box
	if focused {
		style = m.theme.FocusedBox
	}
	return style.Width(max(m.width-2, 20))
}

func (m Model) renderInputs() string {
	text := m.box(m.focus == FocusText).Render(m.text.View())

	fileRow := m.file.View()
	if badge := m.snapshot.Badge; badge.Visible {
		fileRow += "\n" + m.theme.Bold.Render("📎 "+badge.Name) + " " +
			m.theme.Subtitle.Render(badge.Meta+"  (ctrl+x to remove)")
	}
	file := m.box(m.focus == FocusFile).Render(fileRow)

	return lipgloss.JoinVertical(lipgloss.Left, text, file)
}

func (m Model) renderStatus() string {
	if m.confirmReset {
		return m.theme.Confirm.Render("Delete the whole history and reset the session? [y/N]")
	}

	status := m.snapshot.Status
	if m.submitting {
		return m.spinner.View() + " " + m.theme.StatusBusy.Render(status.Text)
	}

	switch status.Kind {
	case session.StatusError:
		return m.theme.StatusError.Render(status.Text)
	case session.StatusSuccess:
		return m.theme.StatusSuccess.Render(status.Text)
	case session.StatusBusy:
		return m.theme.StatusBusy.Render(status.Text)
	default:
		return m.theme.StatusInfo.Render(status.Text)
	}
}

func (m Model) renderResult() string {
	return m.box(false).Render(cli.ResultBlock(m.snapshot.Result))
}

func (m Model) renderKPIs() string {
	return cli.KPIBlock(m.snapshot.KPIs, max(min(m.width-20, 40), 10))
}

func (m Model) renderHistory() string {
	items := m.snapshot.History
	more := 0
	if len(items) > historyRows {
		more = len(items) - historyRows
		items = items[:historyRows]
	}

	var b strings.Builder
	b.WriteString(m.theme.Bold.Render("History"))
	b.WriteString("\n")
	b.WriteString(cli.HistoryBlock(items))
	if more > 0 {
		b.WriteString("\n")
		b.WriteString(m.theme.Subtitle.Render("… and more (triage history)"))
	}
	return b.String()
}
