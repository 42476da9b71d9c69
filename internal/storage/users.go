package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/agency-pulse/internal/common"
	"github.com/Veraticus/agency-pulse/internal/model"
)

// SaveUser inserts or updates a user. The creation time of an existing user is kept.
func (s *SQLiteStorage) SaveUser(ctx context.Context, u *model.User) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateUser(u); err != nil {
		return err
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, agency, rank, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			agency = excluded.agency,
			rank = excluded.rank,
			role = excluded.role
	`, u.ID, u.Name, u.Email, u.Agency, string(u.Rank), string(u.Role), u.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// GetUser returns a user by identity id.
func (s *SQLiteStorage) GetUser(ctx context.Context, id string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, agency, rank, role, created_at
		FROM users
		WHERE id = ?
	`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// ListUsers returns an agency's users by name. An empty agency lists everyone.
func (s *SQLiteStorage) ListUsers(ctx context.Context, agency string) ([]model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, agency, rank, role, created_at
		FROM users
		WHERE ? = '' OR agency = ?
		ORDER BY name, id
	`, agency, agency)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func scanUser(row scanner) (*model.User, error) {
	var u model.User
	var rank, role string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Agency, &rank, &role, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Rank = model.Rank(rank)
	u.Role = model.Role(role)
	return &u, nil
}
