package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/triage/internal/kpi"
	"github.com/Veraticus/triage/internal/render"
	"github.com/charmbracelet/lipgloss"
)

// Badge renders a category badge for the given class.
func Badge(category, class string) string {
	if class == render.BadgeOK {
		return BadgeOKStyle.Render(category)
	}
	return BadgeNeutralStyle.Render(category)
}

// ResultBlock renders the result panel.
func ResultBlock(view render.ResultView) string {
	if !view.Visible {
		return SubtleStyle.Render(render.StatusWaiting)
	}

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		Badge(view.Category, view.BadgeClass),
		" ",
		MonoStyle.Render(view.Confidence),
	)

	sections := []string{header}
	if view.SuggestedResponse != "" {
		sections = append(sections, "", BoldStyle.Render("Suggested response"), view.SuggestedResponse)
	}
	if view.OriginalText != "" {
		sections = append(sections, "", BoldStyle.Render("Original text"), SubtleStyle.Render(view.OriginalText))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// HistoryBlock renders history rows, newest first.
func HistoryBlock(items []render.HistoryItem) string {
	if len(items) == 0 {
		return SubtleStyle.Render(render.EmptyHistory)
	}

	rows := make([]string, 0, len(items))
	for _, it := range items {
		top := Badge(it.Category, it.BadgeClass) + " " + MonoStyle.Render(it.Confidence)
		if it.Timestamp != "" {
			top += "  " + SubtleStyle.Render(it.Timestamp)
		}
		if it.Filename != "" {
			top += "  " + SubtleStyle.Render(it.Filename)
		}
		rows = append(rows, top+"\n"+it.Snippet)
	}
	return strings.Join(rows, "\n\n")
}

// KPIBlock renders the KPI strip with a productive-share bar of width cells.
func KPIBlock(s kpi.Summary, width int) string {
	source := "session"
	if s.Remote {
		source = "backend"
	}

	line := fmt.Sprintf("%s %s  %s %s  %s %s  %s %s  %s",
		SubtleStyle.Render("Total"), BoldStyle.Render(fmt.Sprint(s.Total)),
		SubtleStyle.Render("Productive"), SuccessStyle.Render(fmt.Sprint(s.Productive)),
		SubtleStyle.Render("Unproductive"), BoldStyle.Render(fmt.Sprint(s.Unproductive)),
		SubtleStyle.Render("Avg. confidence"), MonoStyle.Render(s.AverageConfidence),
		SubtleStyle.Render("("+source+")"),
	)
	return line + "\n" + Bar(s.ProductivePercent, width)
}

// Bar draws percent of width cells filled.
func Bar(percent, width int) string {
	if width <= 0 {
		return ""
	}
	percent = max(0, min(100, percent))
	filled := percent * width / 100
	return SuccessStyle.Render(strings.Repeat("█", filled)) +
		SubtleStyle.Render(strings.Repeat("░", width-filled)) +
		fmt.Sprintf(" %d%%", percent)
}

// PrintResult writes the result panel to w.
func PrintResult(w io.Writer, view render.ResultView) error {
	_, err := fmt.Fprintln(w, RenderBox("Result", ResultBlock(view)))
	return err
}

// PrintHistory writes the history list to w.
func PrintHistory(w io.Writer, items []render.HistoryItem) error {
	if _, err := fmt.Fprintln(w, FormatTitle(fmt.Sprintf("History (%d)", len(items)))); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, HistoryBlock(items))
	return err
}

// PrintKPIs writes the KPI strip to w.
func PrintKPIs(w io.Writer, s kpi.Summary) error {
	if _, err := fmt.Fprintln(w, FormatTitle(ChartIcon+" KPIs")); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, KPIBlock(s, 30))
	return err
}
