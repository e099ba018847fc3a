// Package tui is the interactive terminal front end: a text area, a file
// picker, the result panel, the history and the KPI strip on one screen.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/triage/internal/session"
	"github.com/Veraticus/triage/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Focus is the input receiving keystrokes.
type Focus int

// Focus targets.
const (
	FocusText Focus = iota
	FocusFile
)

// Model holds the TUI state. Session state lives in the controller; the
// model keeps the last snapshot of it.
type Model struct {
	ctx          context.Context
	ctrl         *session.Controller
	registry     *session.Registry
	theme        themes.Theme
	help         help.Model
	spinner      spinner.Model
	text         textarea.Model
	file         textinput.Model
	snapshot     session.View
	config       Config
	keymap       KeyMap
	width        int
	height       int
	focus        Focus
	submitting   bool
	confirmReset bool
	ready        bool
	quitting     bool
}

// New creates the TUI model over ctrl.
func New(ctx context.Context, ctrl *session.Controller, opts ...Option) (Model, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	registry, err := ctrl.Wire()
	if err != nil {
		return Model{}, fmt.Errorf("failed to wire controls: %w", err)
	}

	ta := textarea.New()
	ta.Placeholder = "Paste the email text here…"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.Focus()

	fi := textinput.New()
	fi.Placeholder = "path/to/email.txt or .pdf"
	fi.Prompt = "File: "

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	h := help.New()
	h.ShowAll = cfg.ShowHelp

	m := Model{
		ctx:      ctx,
		ctrl:     ctrl,
		registry: registry,
		config:   cfg,
		theme:    cfg.Theme,
		keymap:   DefaultKeyMap(),
		help:     h,
		spinner:  sp,
		text:     ta,
		file:     fi,
		width:    cfg.Width,
		height:   cfg.Height,
		snapshot: session.View{Status: ctrl.Status()},
	}
	m.resize()
	return m, nil
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, tea.Sequence(m.boot(), m.refreshKPIs()))
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case bootedMsg:
		m.snapshot = msg.view
		m.ready = true
		return m, nil

	case kpisRefreshedMsg:
		m.snapshot.KPIs = msg.kpis
		return m, nil

	case actionDoneMsg:
		m.handleActionDone(msg)
		return m, nil

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.forward(msg)
}

func (m *Model) handleActionDone(msg actionDoneMsg) {
	m.snapshot = msg.view

	switch {
	case msg.element == session.ElementAnalyze,
		msg.element == session.ElementDocument && msg.event == session.EventSubmitShortcut:
		m.submitting = false
		if !msg.view.Badge.Visible {
			m.file.SetValue("")
		}
	case msg.element == session.ElementRestart:
		m.file.SetValue("")
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmReset {
		m.confirmReset = false
		if key.Matches(msg, m.keymap.Confirm) && !m.submitting {
			return m, m.dispatch(session.ElementRestart, session.EventClick, session.Payload{})
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Submit):
		return m, m.submit(session.ElementAnalyze, session.EventClick)

	case key.Matches(msg, m.keymap.SubmitShortcut):
		return m, m.submit(session.ElementDocument, session.EventSubmitShortcut)

	case key.Matches(msg, m.keymap.ClearFile):
		m.file.SetValue("")
		return m, m.dispatch(session.ElementDocument, session.EventEscape, session.Payload{})

	case key.Matches(msg, m.keymap.RemoveFile):
		m.file.SetValue("")
		return m, m.dispatch(session.ElementRemoveFile, session.EventClick, session.Payload{})

	case key.Matches(msg, m.keymap.Copy):
		return m, m.dispatch(session.ElementCopy, session.EventClick, session.Payload{})

	case key.Matches(msg, m.keymap.Reset):
		if m.submitting {
			return m, nil
		}
		m.confirmReset = true
		return m, nil

	case key.Matches(msg, m.keymap.Refresh):
		return m, m.refreshKPIs()

	case key.Matches(msg, m.keymap.ToggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil

	case key.Matches(msg, m.keymap.SwitchFocus):
		m.toggleFocus()
		return m, nil

	case m.focus == FocusFile && key.Matches(msg, m.keymap.LoadFile):
		return m, m.selectFile(strings.TrimSpace(m.file.Value()))
	}

	return m.forward(msg)
}

// submit starts a submission unless one is already running.
func (m *Model) submit(element, event string) tea.Cmd {
	if m.submitting {
		return nil
	}
	m.submitting = true
	m.ctrl.SetText(m.text.Value())
	return tea.Batch(m.spinner.Tick, m.dispatch(element, event, session.Payload{}))
}

// forward passes msg to the focused input.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == FocusFile {
		m.file, cmd = m.file.Update(msg)
		return m, cmd
	}

	m.text, cmd = m.text.Update(msg)
	m.ctrl.SetText(m.text.Value())
	return m, cmd
}

func (m *Model) toggleFocus() {
	if m.focus == FocusText {
		m.focus = FocusFile
		m.text.Blur()
		m.file.Focus()
		return
	}
	m.focus = FocusText
	m.file.Blur()
	m.text.Focus()
}

// resize fits the inputs to the terminal.
func (m *Model) resize() {
	inner := max(m.width-4, 20)
	m.text.SetWidth(inner)
	m.text.SetHeight(max(m.height/5, 3))
	m.file.Width = max(inner-len(m.file.Prompt)-1, 10)
	m.help.Width = m.width
}

// Snapshot returns the last session snapshot.
func (m Model) Snapshot() session.View {
	return m.snapshot
}

// Focused returns the input receiving keystrokes.
func (m Model) Focused() Focus {
	return m.focus
}

// Submitting reports whether a submission started from the UI is running.
func (m Model) Submitting() bool {
	return m.submitting
}
