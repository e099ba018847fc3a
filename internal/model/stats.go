package model

import "math"

// SessionKPIs are derived from the local history on every read.
type SessionKPIs struct {
	Total             int
	Productive        int
	Unproductive      int
	ProductivePercent int
}

// ComputeSessionKPIs derives session counters from entries.
func ComputeSessionKPIs(entries []HistoryEntry, productive Category) SessionKPIs {
	kpis := SessionKPIs{Total: len(entries)}
	for _, e := range entries {
		if e.Category.IsProductive(productive) {
			kpis.Productive++
		}
	}
	kpis.Unproductive = kpis.Total - kpis.Productive
	if kpis.Total > 0 {
		kpis.ProductivePercent = int(math.Round(float64(kpis.Productive) / float64(kpis.Total) * 100))
	}
	return kpis
}

// APIKPIs are the aggregate counters reported by the backend's /stats route.
type APIKPIs struct {
	TotalClassifications int     `json:"total_classifications"`
	AverageConfidence    float64 `json:"average_confidence"`
	ProductiveCount      int     `json:"productive_count"`
	UnproductiveCount    int     `json:"unproductive_count"`
}
