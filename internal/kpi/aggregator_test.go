package kpi_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/Veraticus/triage/internal/api"
	"github.com/Veraticus/triage/internal/common"
	"github.com/Veraticus/triage/internal/kpi"
	"github.com/Veraticus/triage/internal/model"
	"github.com/stretchr/testify/assert"
)

type fakeSource struct {
	statsErr    error
	healthErr   error
	stats       model.APIKPIs
	healthCalls int
}

func (f *fakeSource) Stats(context.Context) (model.APIKPIs, error) {
	return f.stats, f.statsErr
}

func (f *fakeSource) Health(context.Context) error {
	f.healthCalls++
	return f.healthErr
}

func TestAggregator_Refresh(t *testing.T) {
	tests := []struct {
		source      *fakeSource
		want        kpi.Board
		name        string
		healthCalls int
	}{
		{
			name: "stats available",
			source: &fakeSource{stats: model.APIKPIs{
				TotalClassifications: 10,
				AverageConfidence:    0.9234,
				ProductiveCount:      6,
				UnproductiveCount:    4,
			}},
			want: kpi.Board{Origin: kpi.OriginStats, Total: 10, AverageConfidence: "92.3%", Productive: 6, Unproductive: 4},
		},
		{
			name:   "missing fields default to zero",
			source: &fakeSource{},
			want:   kpi.Board{Origin: kpi.OriginStats, AverageConfidence: "0.0%"},
		},
		{
			name:        "no stats route but healthy",
			source:      &fakeSource{statsErr: &api.StatusError{Status: http.StatusNotFound}},
			want:        kpi.Board{Origin: kpi.OriginHealth, AverageConfidence: kpi.AverageHealthy},
			healthCalls: 1,
		},
		{
			name: "no stats route and unhealthy",
			source: &fakeSource{
				statsErr:  &api.StatusError{Status: http.StatusNotFound},
				healthErr: &api.StatusError{Status: http.StatusServiceUnavailable},
			},
			want:        kpi.Board{Origin: kpi.OriginNone, AverageConfidence: kpi.AverageUnknown},
			healthCalls: 1,
		},
		{
			name:   "transport failure is swallowed",
			source: &fakeSource{statsErr: common.ErrTransport},
			want:   kpi.Board{Origin: kpi.OriginNone, AverageConfidence: kpi.AverageUnknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := kpi.NewAggregator(tt.source)
			got := agg.Refresh(context.Background())
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, agg.Current())
			assert.Equal(t, tt.healthCalls, tt.source.healthCalls)
		})
	}
}

func TestAggregator_RefreshKeepsLastGoodBoard(t *testing.T) {
	src := &fakeSource{stats: model.APIKPIs{TotalClassifications: 3, AverageConfidence: 0.5}}
	agg := kpi.NewAggregator(src)
	first := agg.Refresh(context.Background())

	src.statsErr = errors.New("connection refused")
	assert.Equal(t, first, agg.Refresh(context.Background()))
}

func TestMerge(t *testing.T) {
	session := model.SessionKPIs{Total: 4, Productive: 3, Unproductive: 1, ProductivePercent: 75}

	local := kpi.Merge(kpi.Board{Origin: kpi.OriginHealth, AverageConfidence: "OK"}, session)
	assert.Equal(t, kpi.Summary{
		AverageConfidence: "OK",
		Total:             4,
		Productive:        3,
		Unproductive:      1,
		ProductivePercent: 75,
	}, local)

	remote := kpi.Merge(kpi.Board{Origin: kpi.OriginStats, AverageConfidence: "81.0%", Total: 40, Productive: 10, Unproductive: 30}, session)
	assert.True(t, remote.Remote)
	assert.Equal(t, 40, remote.Total)
	assert.Equal(t, 30, remote.Unproductive)
	assert.Equal(t, 75, remote.ProductivePercent, "bar always follows the session")
}
