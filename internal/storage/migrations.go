package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// SchemaVersion is the PRAGMA user_version a migrated database ends at.
const SchemaVersion = 1

type migration struct {
	up      func(*sql.Tx) error
	name    string
	version int
}

var migrations = []migration{
	{
		version: 1,
		name:    "kv table",
		up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE TABLE IF NOT EXISTS kv (
				key TEXT PRIMARY KEY,
				value BLOB NOT NULL,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`)
			return err
		},
	},
}

// Migrate applies pending migrations, one transaction each.
func (s *SQLiteKV) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	current, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := s.apply(ctx, m); err != nil {
			return err
		}
		slog.Debug("Applied history migration", "version", m.version, "name", m.name)
	}

	final, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}
	if final != SchemaVersion {
		return fmt.Errorf("history schema at version %d, want %d", final, SchemaVersion)
	}
	return nil
}

func (s *SQLiteKV) schemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}

func (s *SQLiteKV) apply(ctx context.Context, m migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration %d: %w", m.version, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := m.up(tx); err != nil {
		return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.name, err)
	}
	// PRAGMA does not take bind parameters.
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
		return fmt.Errorf("failed to record schema version %d: %w", m.version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.version, err)
	}
	return nil
}
