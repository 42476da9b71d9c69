// Package dashboard is the action layer of pulse. Every operation checks the
// acting user's permissions, runs against the store and reports its outcome
// as a Result instead of an error.
package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/Veraticus/agency-pulse/internal/ingest"
	"github.com/Veraticus/agency-pulse/internal/model"
	"github.com/Veraticus/agency-pulse/internal/service"
)

// Fetcher reads a sheet source into a grid.
type Fetcher interface {
	Fetch(ctx context.Context, source string) (ingest.Grid, error)
}

// Config holds settings for the action layer.
type Config struct {
	Now func() time.Time
	// OnSheet, when set, is called as each sheet of a sync starts.
	OnSheet         func(kind model.SheetKind)
	Agency          string
	GoalSaveTimeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Now:             time.Now,
		GoalSaveTimeout: 15 * time.Second,
	}
}

// Service runs dashboard operations against a store.
type Service struct {
	store   service.Storage
	fetcher Fetcher
	logger  *slog.Logger
	config  Config
}

// New creates a dashboard service with the default configuration.
func New(store service.Storage, fetcher Fetcher) *Service {
	return NewWithConfig(store, fetcher, DefaultConfig())
}

// NewWithConfig creates a dashboard service with custom configuration.
func NewWithConfig(store service.Storage, fetcher Fetcher, config Config) *Service {
	defaults := DefaultConfig()
	if config.Now == nil {
		config.Now = defaults.Now
	}
	if config.GoalSaveTimeout <= 0 {
		config.GoalSaveTimeout = defaults.GoalSaveTimeout
	}
	return &Service{
		store:   store,
		fetcher: fetcher,
		config:  config,
		logger:  slog.Default().With("component", "dashboard"),
	}
}

// Agency returns the agency this service operates on.
func (s *Service) Agency() string {
	return s.config.Agency
}
