package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/triage/internal/common"
	"github.com/Veraticus/triage/internal/config"
	"github.com/spf13/afero"
)

// KV is a minimal key-value store holding opaque blobs.
// Load returns common.ErrNotFound when the key is absent.
type KV interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Clear(ctx context.Context, key string) error
	Close() error
}

// Open builds the store selected by cfg.
func Open(ctx context.Context, cfg config.HistoryConfig) (KV, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemoryKV(), nil
	case config.BackendFile:
		return NewFileKV(afero.NewOsFs(), cfg.Path)
	case config.BackendSQLite:
		store, err := NewSQLiteKV(cfg.Path)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: unknown history backend %q", common.ErrInvalidConfig, cfg.Backend)
	}
}
