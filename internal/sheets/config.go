// Package sheets reads sources from and pushes reports to Google Sheets.
package sheets

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Veraticus/agency-pulse/internal/common"
)

// ErrNoAuth means neither a service account nor OAuth2 credentials are set.
var ErrNoAuth = errors.New("no authentication method configured")

// Config holds the Google Sheets settings.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	TokenFile          string
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
		EnableFormatting: true,
		SpreadsheetName:  "Agency Pulse",
		TimeZone:         "Asia/Manila",
		BatchSize:        1000,
		RetryAttempts:    3,
		RetryDelay:       time.Second,
	}
}

// LoadFromEnv fills unset fields from GOOGLE_SHEETS_* environment variables.
func (c *Config) LoadFromEnv() {
	setIfEmpty(&c.ClientID, "GOOGLE_SHEETS_CLIENT_ID")
	setIfEmpty(&c.ClientSecret, "GOOGLE_SHEETS_CLIENT_SECRET")
	setIfEmpty(&c.RefreshToken, "GOOGLE_SHEETS_REFRESH_TOKEN")
	setIfEmpty(&c.ServiceAccountPath, "GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH")
	setIfEmpty(&c.SpreadsheetID, "GOOGLE_SHEETS_SPREADSHEET_ID")
	setIfEmpty(&c.SpreadsheetName, "GOOGLE_SHEETS_SPREADSHEET_NAME")
}

func setIfEmpty(field *string, env string) {
	if *field == "" {
		*field = os.Getenv(env)
	}
}

// HasOAuth reports whether OAuth2 client credentials and a token are set.
func (c *Config) HasOAuth() bool {
	return c.ClientID != "" && c.ClientSecret != "" && (c.RefreshToken != "" || c.TokenFile != "")
}

// HasAuth reports whether any authentication method is configured.
func (c *Config) HasAuth() bool {
	return c.ServiceAccountPath != "" || c.HasOAuth()
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !c.HasAuth() {
		return fmt.Errorf("%w: %w", common.ErrMissingConfig, ErrNoAuth)
	}
	if c.ServiceAccountPath != "" && c.HasOAuth() {
		return fmt.Errorf("%w: multiple authentication methods configured; use either OAuth2 or service account",
			common.ErrInvalidConfig)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive", common.ErrInvalidConfig)
	}
	if c.RetryAttempts < 0 {
		return fmt.Errorf("%w: retry attempts cannot be negative", common.ErrInvalidConfig)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("%w: retry delay cannot be negative", common.ErrInvalidConfig)
	}
	return nil
}
