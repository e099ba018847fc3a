// Package model defines the core domain models used throughout the application.
package model

import "time"

// Category is the label the backend assigns to a submitted text.
type Category string

// DefaultProductiveLabel is the label the reference backend uses for texts
// that need action.
const DefaultProductiveLabel Category = "Produtivo"

// IsProductive reports whether c equals the configured productive label.
func (c Category) IsProductive(productive Category) bool {
	return c == productive
}

// ClassificationResult is the backend's verdict on a single submission.
type ClassificationResult struct {
	Category          Category `json:"category"`
	SuggestedResponse string   `json:"suggested_response"`
	OriginalText      string   `json:"original_text"`
	Confidence        float64  `json:"confidence"`
}

// HistoryEntry is one persisted classification plus client-side metadata.
type HistoryEntry struct {
	Timestamp time.Time `json:"ts"`
	ID        string    `json:"id,omitempty"`
	Filename  string    `json:"filename,omitempty"`
	ClassificationResult
}

// NewHistoryEntry attaches client metadata to a result.
func NewHistoryEntry(id string, result ClassificationResult, at time.Time, filename string) HistoryEntry {
	return HistoryEntry{
		ID:                   id,
		ClassificationResult: result,
		Timestamp:            at,
		Filename:             filename,
	}
}
