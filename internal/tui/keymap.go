package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	Submit         key.Binding
	SubmitShortcut key.Binding
	ClearFile      key.Binding
	RemoveFile     key.Binding
	LoadFile       key.Binding
	Copy           key.Binding
	Reset          key.Binding
	Confirm        key.Binding
	SwitchFocus    key.Binding
	Refresh        key.Binding
	ToggleHelp     key.Binding
	Quit           key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "analyze"),
		),
		SubmitShortcut: key.NewBinding(
			key.WithKeys("alt+enter"),
			key.WithHelp("alt+enter", "analyze"),
		),
		ClearFile: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear file"),
		),
		RemoveFile: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "remove file"),
		),
		LoadFile: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select file"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy response"),
		),
		Reset: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reset session"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
		SwitchFocus: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "text/file"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+k"),
			key.WithHelp("ctrl+k", "refresh KPIs"),
		),
		ToggleHelp: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.SwitchFocus, k.ClearFile, k.Copy, k.Reset, k.Quit}
}

// FullHelp returns every binding, grouped.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.SubmitShortcut, k.SwitchFocus, k.LoadFile},
		{k.ClearFile, k.RemoveFile, k.Copy},
		{k.Reset, k.Refresh, k.ToggleHelp, k.Quit},
	}
}
