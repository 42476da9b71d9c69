// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/agency-pulse/internal/model"
)

// DashboardStore persists the dashboard document.
type DashboardStore interface {
	LoadDashboard(ctx context.Context) (*model.Dashboard, error)
	SaveDashboard(ctx context.Context, d *model.Dashboard) error
	// UpdateDashboard loads, mutates and saves the document in one transaction.
	UpdateDashboard(ctx context.Context, fn func(*model.Dashboard) error) error
}

// SummaryStore persists the agency summary document.
type SummaryStore interface {
	LoadAgencySummary(ctx context.Context) (*model.AgencySummary, error)
	// SaveAgencySummary merges s into the stored summary, keeping overrides.
	SaveAgencySummary(ctx context.Context, s *model.AgencySummary) error
	UpdateAgencySummary(ctx context.Context, fn func(*model.AgencySummary) error) error
}

// SheetsConfigStore persists the sheet source configuration.
type SheetsConfigStore interface {
	LoadSheetsConfig(ctx context.Context) (*model.SheetsConfig, error)
	SaveSheetsConfig(ctx context.Context, c *model.SheetsConfig) error
}

// HierarchyStore persists organizational hierarchy entries.
type HierarchyStore interface {
	SaveHierarchyEntry(ctx context.Context, e *model.HierarchyEntry) error
	GetHierarchyEntry(ctx context.Context, id string) (*model.HierarchyEntry, error)
	GetHierarchy(ctx context.Context, agency string) ([]model.HierarchyEntry, error)
	ClearHierarchy(ctx context.Context, agency string) (int, error)
	DeleteHierarchyEntries(ctx context.Context, ids []string) error
}

// GoalStore persists strategic planning goal submissions.
type GoalStore interface {
	SaveGoal(ctx context.Context, g *model.StrategicPlanningGoal) error
	LatestGoal(ctx context.Context, userID, agency string) (*model.StrategicPlanningGoal, error)
	GoalsByUnit(ctx context.Context, unitName string) ([]model.StrategicPlanningGoal, error)
	ListGoals(ctx context.Context, agency string) ([]model.StrategicPlanningGoal, error)
}

// UserStore persists users keyed by their external identity id.
type UserStore interface {
	SaveUser(ctx context.Context, u *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context, agency string) ([]model.User, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	DashboardStore
	SummaryStore
	SheetsConfigStore
	HierarchyStore
	GoalStore
	UserStore

	// ClearCache drops every cached document.
	ClearCache()
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
