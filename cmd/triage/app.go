package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/triage/internal/api"
	"github.com/Veraticus/triage/internal/config"
	"github.com/Veraticus/triage/internal/history"
	"github.com/Veraticus/triage/internal/model"
	"github.com/Veraticus/triage/internal/session"
	"github.com/Veraticus/triage/internal/storage"
	"github.com/spf13/viper"
)

// app bundles the services every subcommand needs.
type app struct {
	kv      storage.KV
	history *history.Store
	client  *api.Client
	ctrl    *session.Controller
	cfg     config.Config
}

func (a *app) productive() model.Category {
	return model.Category(a.cfg.Labels.Productive)
}

func (a *app) close() {
	if err := a.kv.Close(); err != nil {
		slog.Warn("Failed to close history storage", "error", err)
	}
}

// loadApp resolves the configuration from the global viper instance.
func loadApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	return newApp(ctx, cfg)
}

func newApp(ctx context.Context, cfg config.Config, opts ...session.Option) (*app, error) {
	kv, err := storage.Open(ctx, cfg.History)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	client, err := api.NewClient(api.Config{
		BaseURL:            cfg.API.BaseURL,
		Timeout:            cfg.API.Timeout,
		LegacyUnified:      cfg.API.LegacyUnified,
		NegotiationPattern: cfg.API.NegotiationPattern,
	})
	if err != nil {
		_ = kv.Close()
		return nil, err
	}

	store := history.New(kv, history.WithLimit(cfg.History.Limit))
	opts = append([]session.Option{session.WithProductiveLabel(cfg.Labels.Productive)}, opts...)

	return &app{
		cfg:     cfg,
		kv:      kv,
		history: store,
		client:  client,
		ctrl:    session.NewController(client, store, opts...),
	}, nil
}
