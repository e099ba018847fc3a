package tui

import (
	"github.com/Veraticus/triage/internal/kpi"
	"github.com/Veraticus/triage/internal/session"
)

// bootedMsg carries the first snapshot, taken before any backend call.
type bootedMsg struct {
	view session.View
}

// actionDoneMsg reports a dispatched event and the state after it.
type actionDoneMsg struct {
	err     error
	element string
	event   string
	view    session.View
}

// kpisRefreshedMsg carries the KPI strip after a backend refresh.
type kpisRefreshedMsg struct {
	kpis kpi.Summary
}
