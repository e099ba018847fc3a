package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"github.com/Veraticus/triage/internal/common"
	"github.com/spf13/viper"
)

// History backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// DefaultNegotiationPattern matches the 400 details a backend sends when it
// received neither a multipart file nor a JSON text body.
const DefaultNegotiationPattern = `(?i)(expect\w*|esperad[oa]).*(multipart|form-data|file|arquivo).*(json|text)|campo '(file|text)' ausente|no (file|text) (field|provided)`

// Config is the resolved application configuration.
type Config struct {
	API     APIConfig
	History HistoryConfig
	Labels  LabelsConfig
	Logging LoggingConfig
}

// APIConfig describes the classification backend.
type APIConfig struct {
	BaseURL            string
	NegotiationPattern string
	Timeout            time.Duration
	LegacyUnified      bool
}

// HistoryConfig describes where the session history lives.
type HistoryConfig struct {
	Backend string
	Path    string
	Limit   int
}

// LabelsConfig holds category labels reported by the backend.
type LabelsConfig struct {
	Productive string
}

// LoggingConfig controls slog output.
type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:8000/api")
	v.SetDefault("api.timeout", time.Duration(0))
	v.SetDefault("api.legacy_unified", false)
	v.SetDefault("api.negotiation_pattern", DefaultNegotiationPattern)
	v.SetDefault("history.backend", BackendFile)
	v.SetDefault("history.path", "")
	v.SetDefault("history.limit", 200)
	v.SetDefault("labels.productive", "Produtivo")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "")
}

// Load reads the configuration from v, applying defaults and validation.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	cfg := Config{
		API: APIConfig{
			BaseURL:            v.GetString("api.base_url"),
			Timeout:            v.GetDuration("api.timeout"),
			LegacyUnified:      v.GetBool("api.legacy_unified"),
			NegotiationPattern: v.GetString("api.negotiation_pattern"),
		},
		History: HistoryConfig{
			Backend: v.GetString("history.backend"),
			Path:    ExpandPath(v.GetString("history.path")),
			Limit:   v.GetInt("history.limit"),
		},
		Labels: LabelsConfig{
			Productive: v.GetString("labels.productive"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
			File:   ExpandPath(v.GetString("logging.file")),
		},
	}

	if cfg.History.Path == "" && cfg.History.Backend != BackendMemory {
		dir, err := DataDir()
		if err != nil {
			return Config{}, err
		}
		name := "history.json"
		if cfg.History.Backend == BackendSQLite {
			name = "history.db"
		}
		cfg.History.Path = filepath.Join(dir, name)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("%w: api.base_url is required", common.ErrMissingConfig)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("%w: api.timeout must not be negative", common.ErrInvalidConfig)
	}
	if _, err := regexp.Compile(c.API.NegotiationPattern); err != nil {
		return fmt.Errorf("%w: api.negotiation_pattern: %v", common.ErrInvalidConfig, err)
	}
	switch c.History.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("%w: unknown history backend %q", common.ErrInvalidConfig, c.History.Backend)
	}
	if c.History.Limit <= 0 {
		return fmt.Errorf("%w: history.limit must be positive", common.ErrInvalidConfig)
	}
	if c.Labels.Productive == "" {
		return fmt.Errorf("%w: labels.productive is required", common.ErrMissingConfig)
	}
	return nil
}
