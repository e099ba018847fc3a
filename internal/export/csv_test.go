package export_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/Veraticus/triage/internal/export"
	"github.com/Veraticus/triage/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	entries := []model.HistoryEntry{
		model.NewHistoryEntry("1", model.ClassificationResult{
			Category:          "Produtivo",
			Confidence:        0.87,
			OriginalText:      `He said "refund", then left`,
			SuggestedResponse: "Line one\nLine two",
		}, at, "mail.txt"),
		model.NewHistoryEntry("2", model.ClassificationResult{Category: "Improdutivo", Confidence: 1}, at.Add(time.Minute), ""),
	}

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, entries))

	lines := bytes.SplitN(buf.Bytes(), []byte("\r\n"), 2)
	assert.Equal(t, `"ts","category","confidence","filename","text","suggested"`, string(lines[0]))
	assert.Contains(t, buf.String(), `"He said ""refund"", then left"`)
	assert.Contains(t, buf.String(), `"","",""`+"\r\n", "empty fields are still quoted")

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"2025-03-14T09:30:00Z", "Produtivo", "0.87", "mail.txt", `He said "refund", then left`, "Line one\nLine two"}, records[1])
	assert.Equal(t, "Improdutivo", records[2][1])
	assert.Equal(t, "1", records[2][2])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, nil))
	assert.Equal(t, `"ts","category","confidence","filename","text","suggested"`+"\r\n", buf.String())
}
