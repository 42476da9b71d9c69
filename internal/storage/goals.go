package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Veraticus/agency-pulse/internal/common"
	"github.com/Veraticus/agency-pulse/internal/model"
)

// SaveGoal stores a goal submission. Submissions are never merged: a new
// submission is a new row.
func (s *SQLiteStorage) SaveGoal(ctx context.Context, g *model.StrategicPlanningGoal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateGoal(g); err != nil {
		return err
	}

	body, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to encode goal: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO strategic_planning_goals (id, user_id, agency, unit_name, submitted_ms, body)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			unit_name = excluded.unit_name,
			submitted_ms = excluded.submitted_ms,
			body = excluded.body
	`, g.ID, g.UserID, g.Agency, g.UnitName, g.SubmittedAt.UnixMilli(), string(body))
	if err != nil {
		return fmt.Errorf("failed to save goal: %w", err)
	}
	return nil
}

// LatestGoal returns the user's most recent submission for an agency.
func (s *SQLiteStorage) LatestGoal(ctx context.Context, userID, agency string) (*model.StrategicPlanningGoal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	var body string
	err := s.db.QueryRowContext(ctx, `
		SELECT body FROM strategic_planning_goals
		WHERE user_id = ? AND (? = '' OR agency = ?)
		ORDER BY submitted_ms DESC, id DESC
		LIMIT 1
	`, userID, agency, agency).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("goal for user %s: %w", userID, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest goal: %w", err)
	}
	return decodeGoal(body)
}

// GoalsByUnit returns every submission filed under a unit, newest first.
func (s *SQLiteStorage) GoalsByUnit(ctx context.Context, unitName string) ([]model.StrategicPlanningGoal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(unitName, "unitName"); err != nil {
		return nil, err
	}
	return s.queryGoals(ctx, `
		SELECT body FROM strategic_planning_goals
		WHERE unit_name = ?
		ORDER BY submitted_ms DESC, id DESC
	`, unitName)
}

// ListGoals returns every submission for an agency, newest first. An empty
// agency lists all of them.
func (s *SQLiteStorage) ListGoals(ctx context.Context, agency string) ([]model.StrategicPlanningGoal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryGoals(ctx, `
		SELECT body FROM strategic_planning_goals
		WHERE ? = '' OR agency = ?
		ORDER BY submitted_ms DESC, id DESC
	`, agency, agency)
}

func (s *SQLiteStorage) queryGoals(ctx context.Context, query string, args ...any) ([]model.StrategicPlanningGoal, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var goals []model.StrategicPlanningGoal
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		g, err := decodeGoal(body)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

func decodeGoal(body string) (*model.StrategicPlanningGoal, error) {
	var g model.StrategicPlanningGoal
	if err := json.Unmarshal([]byte(body), &g); err != nil {
		return nil, fmt.Errorf("failed to decode goal: %w", err)
	}
	return &g, nil
}
