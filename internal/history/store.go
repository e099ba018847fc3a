// Package history keeps the capped, persisted log of past classifications.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Veraticus/triage/internal/common"
	"github.com/Veraticus/triage/internal/model"
	"github.com/Veraticus/triage/internal/storage"
)

const (
	// StorageKey is the single key the history lives under.
	StorageKey = "history_v3"
	// DefaultLimit caps the number of retained entries.
	DefaultLimit = 200
)

// Listener is notified after the persisted history changes.
type Listener func(entries []model.HistoryEntry)

// Store is an append-only log with capped eviction of the oldest entries.
// Read-modify-write is serialized within a process only.
type Store struct {
	kv        storage.KV
	key       string
	listeners []Listener
	limit     int
	mu        sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithLimit overrides DefaultLimit.
func WithLimit(limit int) Option {
	return func(s *Store) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// WithKey overrides StorageKey.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// New creates a history store on top of kv.
func New(kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:    kv,
		key:   StorageKey,
		limit: DefaultLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnChange registers a listener called after every Append and Reset.
func (s *Store) OnChange(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Limit returns the retention cap.
func (s *Store) Limit() int {
	return s.limit
}

// Load returns the stored entries, oldest first. A missing or unreadable
// payload yields an empty history.
func (s *Store) Load(ctx context.Context) ([]model.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) ([]model.HistoryEntry, error) {
	data, err := s.kv.Load(ctx, s.key)
	if errors.Is(err, common.ErrNotFound) {
		return []model.HistoryEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	var entries []model.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		slog.Warn("Discarding unreadable history", "key", s.key, "error", fmt.Errorf("%w: %v", common.ErrDatabaseCorrupted, err))
		return []model.HistoryEntry{}, nil
	}
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	return entries, nil
}

// Append pushes entry, keeps the most recent Limit entries and persists them.
func (s *Store) Append(ctx context.Context, entry model.HistoryEntry) error {
	s.mu.Lock()

	entries, err := s.load(ctx)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	entries = append(entries, entry)
	if len(entries) > s.limit {
		entries = entries[len(entries)-s.limit:]
	}

	data, err := json.Marshal(entries)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := s.kv.Save(ctx, s.key, data); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to save history: %w", err)
	}

	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	slog.Debug("Appended history entry", "category", entry.Category, "count", len(entries))
	notify(listeners, entries)
	return nil
}

// Reset deletes the persisted history.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	if err := s.kv.Clear(ctx, s.key); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to clear history: %w", err)
	}
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	notify(listeners, []model.HistoryEntry{})
	return nil
}

// SessionKPIs derives the session counters from the full history.
func (s *Store) SessionKPIs(ctx context.Context, productive model.Category) (model.SessionKPIs, error) {
	entries, err := s.Load(ctx)
	if err != nil {
		return model.SessionKPIs{}, err
	}
	return model.ComputeSessionKPIs(entries, productive), nil
}

func notify(listeners []Listener, entries []model.HistoryEntry) {
	for _, l := range listeners {
		l(entries)
	}
}
