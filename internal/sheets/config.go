// Package sheets exports the classification history to Google Sheets.
package sheets

import (
	"errors"
	"fmt"
	"time"
)

// DefaultSpreadsheetName titles spreadsheets created by the exporter.
const DefaultSpreadsheetName = "Triage History"

// Config holds the configuration for the Google Sheets writer.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	SpreadsheetID      string
	SpreadsheetName    string
	TimeZone           string
	BatchSize          int
	RetryAttempts      int
	RetryDelay         time.Duration
	EnableFormatting   bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SpreadsheetName:  DefaultSpreadsheetName,
		EnableFormatting: true,
		TimeZone:         "America/Sao_Paulo",
		BatchSize:        500,
		RetryAttempts:    3,
		RetryDelay:       time.Second,
	}
}

// Credential errors returned by Validate.
var (
	ErrNoCredentials       = errors.New("no Google credentials configured")
	ErrConflictCredentials = errors.New("both OAuth2 refresh token and service account configured")
)

// Validate checks that exactly one credential source is set and the
// tuning knobs are usable.
func (c *Config) Validate() error {
	oauth := c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
	serviceAccount := c.ServiceAccountPath != ""

	switch {
	case !oauth && !serviceAccount:
		return ErrNoCredentials
	case oauth && serviceAccount:
		return ErrConflictCredentials
	case c.BatchSize <= 0:
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	case c.RetryAttempts < 0 || c.RetryDelay < 0:
		return fmt.Errorf("retry settings cannot be negative")
	}

	if c.TimeZone != "" {
		if _, err := time.LoadLocation(c.TimeZone); err != nil {
			return fmt.Errorf("unknown time zone %q: %w", c.TimeZone, err)
		}
	}
	return nil
}
