package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/Veraticus/triage/internal/common"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// FileKV stores each key as a file next to a base path.
// For a base of /data/history.json the key "history_v3" lives in
// /data/history.json.history_v3.
type FileKV struct {
	fs   afero.Fs
	base string
}

// NewFileKV creates a file-backed store rooted at base.
func NewFileKV(fs afero.Fs, base string) (*FileKV, error) {
	if err := validateString(base, "base"); err != nil {
		return nil, err
	}

	if err := fs.MkdirAll(filepath.Dir(base), 0750); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	return &FileKV{fs: fs, base: base}, nil
}

func (f *FileKV) path(key string) string {
	return f.base + "." + unsafeKeyChars.ReplaceAllString(key, "_")
}

// Load reads the blob stored under key.
func (f *FileKV) Load(ctx context.Context, key string) ([]byte, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(key, "key"); err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(f.fs, f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.path(key), err)
	}
	return data, nil
}

// Save writes data under key, replacing the previous file atomically.
func (f *FileKV) Save(ctx context.Context, key string, data []byte) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}

	target := f.path(key)
	tmp := fmt.Sprintf("%s.%s.tmp", target, uuid.New().String())

	if err := afero.WriteFile(f.fs, tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.fs.Rename(tmp, target); err != nil {
		_ = f.fs.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", target, err)
	}

	slog.Debug("Saved key", "key", key, "path", target, "bytes", len(data))
	return nil
}

// Clear deletes the file backing key. Clearing a missing key is not an error.
func (f *FileKV) Clear(ctx context.Context, key string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}

	if err := f.fs.Remove(f.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", f.path(key), err)
	}
	return nil
}

// Close is a no-op.
func (f *FileKV) Close() error {
	return nil
}
