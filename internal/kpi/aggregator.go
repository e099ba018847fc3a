// Package kpi keeps the key performance indicators shown next to the history:
// counters reported by the backend and counters derived from the local log.
package kpi

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/Veraticus/triage/internal/api"
	"github.com/Veraticus/triage/internal/model"
	"github.com/Veraticus/triage/internal/render"
)

// Average field texts that are not percentages.
const (
	AverageUnknown = "—"
	AverageHealthy = "OK"
)

// Origin says where the board's numbers came from.
type Origin string

// Board origins.
const (
	OriginNone   Origin = "none"
	OriginStats  Origin = "stats"
	OriginHealth Origin = "health"
)

// Source is the part of the backend the aggregator reads.
type Source interface {
	Stats(ctx context.Context) (model.APIKPIs, error)
	Health(ctx context.Context) error
}

// Board is the backend KPI strip.
type Board struct {
	AverageConfidence string
	Origin            Origin
	Total             int
	Productive        int
	Unproductive      int
}

// Available reports whether the backend answered /stats.
func (b Board) Available() bool {
	return b.Origin == OriginStats
}

// Summary is the KPI strip as displayed: backend counters when the backend
// reports them, session counters otherwise.
type Summary struct {
	AverageConfidence string
	Total             int
	Productive        int
	Unproductive      int
	ProductivePercent int
	Remote            bool
}

// Aggregator refreshes and holds the backend board.
type Aggregator struct {
	source Source
	board  Board
	mu     sync.RWMutex
}

// NewAggregator creates an aggregator with an empty board.
func NewAggregator(source Source) *Aggregator {
	return &Aggregator{
		source: source,
		board:  Board{Origin: OriginNone, AverageConfidence: AverageUnknown},
	}
}

// Refresh reads /stats, falling back to /health when the backend has no stats
// route. Failures are logged and leave the previous board in place.
func (a *Aggregator) Refresh(ctx context.Context) Board {
	stats, err := a.source.Stats(ctx)
	if err == nil {
		return a.set(Board{
			Origin:            OriginStats,
			Total:             stats.TotalClassifications,
			AverageConfidence: render.FormatConfidence(stats.AverageConfidence),
			Productive:        stats.ProductiveCount,
			Unproductive:      stats.UnproductiveCount,
		})
	}

	var statusErr *api.StatusError
	if !errors.As(err, &statusErr) {
		slog.Warn("Failed to refresh backend KPIs", "error", err)
		return a.Current()
	}

	if err := a.source.Health(ctx); err != nil {
		slog.Debug("Backend health check failed", "error", err)
		return a.Current()
	}

	a.mu.Lock()
	a.board.Origin = OriginHealth
	a.board.AverageConfidence = AverageHealthy
	board := a.board
	a.mu.Unlock()
	return board
}

// Current returns the last board.
func (a *Aggregator) Current() Board {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.board
}

func (a *Aggregator) set(b Board) Board {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.board = b
	return b
}

// Merge combines a board with the session counters.
func Merge(board Board, session model.SessionKPIs) Summary {
	s := Summary{
		AverageConfidence: board.AverageConfidence,
		Total:             session.Total,
		Productive:        session.Productive,
		Unproductive:      session.Unproductive,
		ProductivePercent: session.ProductivePercent,
	}
	if board.Available() {
		s.Remote = true
		s.Total = board.Total
		s.Productive = board.Productive
		s.Unproductive = board.Unproductive
	}
	return s
}
