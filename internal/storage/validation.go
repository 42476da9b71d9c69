// Package storage provides the data persistence layer for the pulse application.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/agency-pulse/internal/common"
	"github.com/Veraticus/agency-pulse/internal/model"
)

// Validation errors. All of them wrap common.ErrInvalidInput.
var (
	ErrNilContext   = fmt.Errorf("%w: context cannot be nil", common.ErrInvalidInput)
	ErrEmptyString  = fmt.Errorf("%w: string parameter cannot be empty", common.ErrInvalidInput)
	ErrNilParameter = fmt.Errorf("%w: parameter cannot be nil", common.ErrInvalidInput)
	ErrEmptySlice   = fmt.Errorf("%w: slice cannot be empty", common.ErrInvalidInput)
	ErrInvalidEntry = fmt.Errorf("%w: invalid hierarchy entry", common.ErrInvalidInput)
	ErrInvalidGoal  = fmt.Errorf("%w: invalid goal", common.ErrInvalidInput)
	ErrInvalidUser  = fmt.Errorf("%w: invalid user", common.ErrInvalidInput)
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateEntry validates a hierarchy entry.
func validateEntry(e *model.HierarchyEntry) error {
	if e == nil {
		return fmt.Errorf("%w: hierarchy entry", ErrNilParameter)
	}
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidEntry)
	}
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidEntry)
	}
	if strings.TrimSpace(e.Agency) == "" {
		return fmt.Errorf("%w: missing agency", ErrInvalidEntry)
	}
	if e.Rank.Level() < 0 {
		return fmt.Errorf("%w: unknown rank %q", ErrInvalidEntry, e.Rank)
	}
	return nil
}

// validateGoal validates a goal submission.
func validateGoal(g *model.StrategicPlanningGoal) error {
	if g == nil {
		return fmt.Errorf("%w: goal", ErrNilParameter)
	}
	if strings.TrimSpace(g.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidGoal)
	}
	if strings.TrimSpace(g.UserID) == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidGoal)
	}
	if strings.TrimSpace(g.Agency) == "" {
		return fmt.Errorf("%w: missing agency", ErrInvalidGoal)
	}
	if g.SubmittedAt.IsZero() {
		return fmt.Errorf("%w: missing submission time", ErrInvalidGoal)
	}
	return nil
}

// validateUser validates a user.
func validateUser(u *model.User) error {
	if u == nil {
		return fmt.Errorf("%w: user", ErrNilParameter)
	}
	if strings.TrimSpace(u.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidUser)
	}
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidUser)
	}
	if _, err := model.ParseRole(string(u.Role)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUser, err)
	}
	if u.Rank != "" && u.Rank.Level() < 0 {
		return fmt.Errorf("%w: unknown rank %q", ErrInvalidUser, u.Rank)
	}
	return nil
}
