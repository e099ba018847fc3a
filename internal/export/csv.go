// Package export writes the history out of the local store.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/triage/internal/model"
)

// Header is the column order of every export.
var Header = []string{"ts", "category", "confidence", "filename", "text", "suggested"}

// Record flattens one entry into Header order.
func Record(e model.HistoryEntry) []string {
	var ts string
	if !e.Timestamp.IsZero() {
		ts = e.Timestamp.Format(time.RFC3339)
	}
	return []string{
		ts,
		string(e.Category),
		strconv.FormatFloat(e.Confidence, 'f', -1, 64),
		e.Filename,
		e.OriginalText,
		e.SuggestedResponse,
	}
}

// WriteCSV writes entries in stored order with every field quoted.
// encoding/csv only quotes when needed, so quoting is done here.
func WriteCSV(w io.Writer, entries []model.HistoryEntry) error {
	bw := bufio.NewWriter(w)

	if err := writeRow(bw, Header); err != nil {
		return err
	}
	for _, e := range entries {
		if err := writeRow(bw, Record(e)); err != nil {
			return err
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func writeRow(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return fmt.Errorf("failed to write csv: %w", err)
			}
		}
		if _, err := w.WriteString(quote(f)); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
	}
	if _, err := w.WriteString("\r\n"); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
