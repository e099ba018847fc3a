package session

import (
	"context"
	"log/slog"

	"github.com/Veraticus/triage/internal/input"
	"github.com/Veraticus/triage/internal/kpi"
	"github.com/Veraticus/triage/internal/model"
	"github.com/Veraticus/triage/internal/render"
)

// View is everything a front end draws.
type View struct {
	Status  Status
	Badge   input.Badge
	Result  render.ResultView
	History []render.HistoryItem
	KPIs    kpi.Summary
	Busy    bool
}

// Snapshot assembles the current View. History read failures render as an
// empty history.
func (c *Controller) Snapshot(ctx context.Context) View {
	entries, err := c.history.Load(ctx)
	if err != nil {
		slog.Warn("Failed to load history", "error", err)
		entries = nil
	}

	session := model.ComputeSessionKPIs(entries, c.productive)

	return View{
		Status:  c.Status(),
		Badge:   c.input.Badge(),
		Result:  c.result.View(),
		History: render.HistoryItems(entries, c.productive),
		KPIs:    kpi.Merge(c.kpis.Current(), session),
		Busy:    c.Busy(),
	}
}
