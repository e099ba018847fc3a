package render

import (
	"time"

	"github.com/Veraticus/triage/internal/model"
)

const (
	// SnippetLength is how many runes of the original text a history row shows.
	SnippetLength = 160
	// TimestampLayout is the history timestamp format (day first, 24h).
	TimestampLayout = "02/01/2006 15:04:05"
	// EmptyHistory is shown when nothing has been classified yet.
	EmptyHistory = "Nothing here yet."
)

// HistoryItem is one row of the history list.
type HistoryItem struct {
	ID         string
	Category   string
	BadgeClass string
	Confidence string
	Timestamp  string
	Filename   string
	Snippet    string
}

// Snippet truncates text to SnippetLength runes, appending an ellipsis when cut.
func Snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= SnippetLength {
		return text
	}
	return string(runes[:SnippetLength]) + "…"
}

// FormatTimestamp renders t in local time; the zero time renders empty.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(TimestampLayout)
}

// HistoryItems lists entries newest first.
func HistoryItems(entries []model.HistoryEntry, productive model.Category) []HistoryItem {
	items := make([]HistoryItem, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		items = append(items, HistoryItem{
			ID:         e.ID,
			Category:   string(e.Category),
			BadgeClass: BadgeClass(e.Category, productive),
			Confidence: FormatConfidence(e.Confidence),
			Timestamp:  FormatTimestamp(e.Timestamp),
			Filename:   e.Filename,
			Snippet:    Snippet(e.OriginalText),
		})
	}
	return items
}
