// Package cli renders classifier output for plain terminals using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette.
var (
	PrimaryColor = lipgloss.Color("#7C9CFF")
	SuccessColor = lipgloss.Color("#4ECDC4")
	WarningColor = lipgloss.Color("#FFE66D")
	ErrorColor   = lipgloss.Color("#FF6B6B")
	InfoColor    = lipgloss.Color("#95E1D3")
	SubtleColor  = lipgloss.Color("#666666")
	// NeutralColor backs the badge of every non-productive category.
	NeutralColor = lipgloss.Color("#A0A4B8")
)

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func badge(text, bg lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(text).Background(bg).Padding(0, 1)
}

// Styles shared by the printers.
var (
	TitleStyle   = fg(PrimaryColor).Bold(true).MarginBottom(1)
	PromptStyle  = fg(PrimaryColor).Bold(true)
	SuccessStyle = fg(SuccessColor)
	WarningStyle = fg(WarningColor)
	ErrorStyle   = fg(ErrorColor)
	InfoStyle    = fg(InfoColor)
	SubtleStyle  = fg(SubtleColor)
	BoldStyle    = lipgloss.NewStyle().Bold(true)
	// MonoStyle is for percentages and counters.
	MonoStyle = fg(InfoColor)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)

	BadgeOKStyle      = badge(lipgloss.Color("#0B2E13"), SuccessColor)
	BadgeNeutralStyle = badge(lipgloss.Color("#1B1D27"), NeutralColor)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	MailIcon    = "✉️"
	ChartIcon   = "📊"
)

// FormatSuccess prefixes message with a check mark.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError prefixes message with a cross.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle renders a section title.
func FormatTitle(title string) string {
	return TitleStyle.Render(MailIcon + " " + title)
}

func FormatPrompt(prompt string) string {
	return PromptStyle.Render(prompt + " → ")
}

// RenderBox draws content in a rounded box under title.
func RenderBox(title, content string) string {
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.UnsetMargins().Render(title),
		content,
	))
}
