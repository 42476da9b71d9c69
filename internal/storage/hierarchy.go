package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/agency-pulse/internal/common"
	"github.com/Veraticus/agency-pulse/internal/model"
)

// SaveHierarchyEntry inserts or replaces an entry by id.
func (s *SQLiteStorage) SaveHierarchyEntry(ctx context.Context, e *model.HierarchyEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateEntry(e); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO organizational_hierarchy (id, name, rank, manager_name, agency, code, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			rank = excluded.rank,
			manager_name = excluded.manager_name,
			agency = excluded.agency,
			code = excluded.code,
			updated_at = excluded.updated_at
	`, e.ID, e.Name, string(e.Rank), e.ManagerName, e.Agency, e.Code)
	if err != nil {
		return fmt.Errorf("failed to save hierarchy entry %s: %w", e.Name, err)
	}
	return nil
}

// GetHierarchyEntry returns one entry by id.
func (s *SQLiteStorage) GetHierarchyEntry(ctx context.Context, id string) (*model.HierarchyEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, rank, manager_name, agency, code
		FROM organizational_hierarchy
		WHERE id = ?
	`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("hierarchy entry %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hierarchy entry: %w", err)
	}
	return e, nil
}

// GetHierarchy returns an agency's entries in the order they were imported.
// An empty agency returns every entry.
func (s *SQLiteStorage) GetHierarchy(ctx context.Context, agency string) ([]model.HierarchyEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, rank, manager_name, agency, code
		FROM organizational_hierarchy
		WHERE ? = '' OR agency = ?
		ORDER BY rowid
	`, agency, agency)
	if err != nil {
		return nil, fmt.Errorf("failed to query hierarchy: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.HierarchyEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hierarchy entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// ClearHierarchy deletes every entry of an agency and returns how many were removed.
func (s *SQLiteStorage) ClearHierarchy(ctx context.Context, agency string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(agency, "agency"); err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM organizational_hierarchy WHERE agency = ?`, agency)
	if err != nil {
		return 0, fmt.Errorf("failed to clear hierarchy for %s: %w", agency, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleared entries: %w", err)
	}
	return int(n), nil
}

// DeleteHierarchyEntries deletes entries one by one. Entries that could be
// deleted stay deleted; the rest are reported in a *common.BatchError.
func (s *SQLiteStorage) DeleteHierarchyEntries(ctx context.Context, ids []string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: ids", ErrEmptySlice)
	}

	batch := &common.BatchError{Op: "delete hierarchy entries"}
	for _, id := range ids {
		if err := s.deleteEntry(ctx, id); err != nil {
			batch.Add(id, err)
			continue
		}
		batch.Succeeded++
	}
	return batch.Err()
}

func (s *SQLiteStorage) deleteEntry(ctx context.Context, id string) error {
	if err := validateString(id, "id"); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM organizational_hierarchy WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to confirm delete: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*model.HierarchyEntry, error) {
	var e model.HierarchyEntry
	var rank string
	if err := row.Scan(&e.ID, &e.Name, &rank, &e.ManagerName, &e.Agency, &e.Code); err != nil {
		return nil, err
	}
	e.Rank = model.Rank(rank)
	return &e, nil
}
