// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/triage/internal/api"
	"github.com/Veraticus/triage/internal/model"
)

// Classifier submits one selection to the backend.
type Classifier interface {
	Classify(ctx context.Context, req api.Request) (model.ClassificationResult, error)
}

// StatsSource reports backend-wide counters.
type StatsSource interface {
	Stats(ctx context.Context) (model.APIKPIs, error)
	Health(ctx context.Context) error
}

// Backend is everything the session needs from the classification service.
type Backend interface {
	Classifier
	StatsSource
}

// Clipboard receives copied text.
type Clipboard interface {
	WriteAll(text string) error
}

// Compile-time check that the HTTP client satisfies Backend.
var _ Backend = (*api.Client)(nil)
