// Package render turns session state into plain view models that the
// terminal front ends draw.
package render

import (
	"fmt"
	"sync"

	"github.com/Veraticus/triage/internal/model"
)

// Badge classes.
const (
	BadgeOK      = "ok"
	BadgeNeutral = "neutral"
)

// Status texts shared by the front ends.
const (
	StatusWaiting = "Waiting…"
	StatusDone    = "Done"
)

// ResultView is what the result panel shows.
type ResultView struct {
	Category          string
	BadgeClass        string
	Confidence        string
	SuggestedResponse string
	OriginalText      string
	Visible           bool
}

// FormatConfidence renders a [0,1] confidence as a percentage with one decimal.
func FormatConfidence(confidence float64) string {
	return fmt.Sprintf("%.1f%%", confidence*100)
}

// BadgeClass returns BadgeOK for the productive label and BadgeNeutral otherwise.
func BadgeClass(category, productive model.Category) string {
	if category.IsProductive(productive) {
		return BadgeOK
	}
	return BadgeNeutral
}

// ResultRenderer holds the last displayed result.
type ResultRenderer struct {
	productive model.Category
	view       ResultView
	mu         sync.RWMutex
}

// NewResultRenderer creates a renderer in the cleared state.
func NewResultRenderer(productive model.Category) *ResultRenderer {
	return &ResultRenderer{productive: productive}
}

// Show reveals result.
func (r *ResultRenderer) Show(result model.ClassificationResult) ResultView {
	view := ResultView{
		Visible:           true,
		Category:          string(result.Category),
		BadgeClass:        BadgeClass(result.Category, r.productive),
		Confidence:        FormatConfidence(result.Confidence),
		SuggestedResponse: result.SuggestedResponse,
		OriginalText:      result.OriginalText,
	}

	r.mu.Lock()
	r.view = view
	r.mu.Unlock()
	return view
}

// Clear hides every result section.
func (r *ResultRenderer) Clear() {
	r.mu.Lock()
	r.view = ResultView{}
	r.mu.Unlock()
}

// View returns the current view.
func (r *ResultRenderer) View() ResultView {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.view
}
