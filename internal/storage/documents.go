package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/agency-pulse/internal/model"
)

// Document ids.
const (
	DocDashboard     = "dashboard"
	DocAgencySummary = "agency-summary"
	DocSheetsConfig  = "sheets-config"
)

// readDocument returns the stored body, or nil if the document does not exist.
func readDocument(ctx context.Context, q queryable, id string) ([]byte, error) {
	var body string
	err := q.QueryRowContext(ctx, `SELECT body FROM documents WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", id, err)
	}
	return []byte(body), nil
}

func writeDocument(ctx context.Context, q queryable, id string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", id, err)
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO documents (id, body, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			body = excluded.body,
			updated_at = excluded.updated_at
	`, id, string(body), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save document %s: %w", id, err)
	}
	return nil
}

// loadDocument decodes the document into dst, serving it from the cache when
// possible. It reports whether the document exists.
func (s *SQLiteStorage) loadDocument(ctx context.Context, id string, dst any) (bool, error) {
	body, ok := s.cache.Get(id)
	if !ok {
		var err error
		body, err = readDocument(ctx, s.db, id)
		if err != nil {
			return false, err
		}
		if body == nil {
			return false, nil
		}
		s.cache.Put(id, body)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return false, fmt.Errorf("failed to decode document %s: %w", id, err)
	}
	return true, nil
}

func (s *SQLiteStorage) saveDocument(ctx context.Context, id string, v any) error {
	defer s.cache.Invalidate(id)
	return writeDocument(ctx, s.db, id, v)
}

// updateDocument decodes the stored document into dst inside a transaction,
// lets fn mutate it and writes it back. The cache is bypassed for the read.
func (s *SQLiteStorage) updateDocument(ctx context.Context, id string, dst any, fn func(found bool) error) error {
	defer s.cache.Invalidate(id)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		body, err := readDocument(ctx, tx, id)
		if err != nil {
			return err
		}
		if body != nil {
			if err := json.Unmarshal(body, dst); err != nil {
				return fmt.Errorf("failed to decode document %s: %w", id, err)
			}
		}
		if err := fn(body != nil); err != nil {
			return err
		}
		return writeDocument(ctx, tx, id, dst)
	})
}

// LoadDashboard returns the dashboard, or an empty one if none was saved yet.
func (s *SQLiteStorage) LoadDashboard(ctx context.Context) (*model.Dashboard, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	d := &model.Dashboard{}
	if _, err := s.loadDocument(ctx, DocDashboard, d); err != nil {
		return nil, err
	}
	return d, nil
}

// SaveDashboard replaces the dashboard document.
func (s *SQLiteStorage) SaveDashboard(ctx context.Context, d *model.Dashboard) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if d == nil {
		return fmt.Errorf("%w: dashboard", ErrNilParameter)
	}
	d.UpdatedAt = time.Now().UTC()
	return s.saveDocument(ctx, DocDashboard, d)
}

// UpdateDashboard loads, mutates and saves the dashboard in one transaction.
// Nothing is written if fn returns an error.
func (s *SQLiteStorage) UpdateDashboard(ctx context.Context, fn func(*model.Dashboard) error) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	d := &model.Dashboard{}
	return s.updateDocument(ctx, DocDashboard, d, func(bool) error {
		if err := fn(d); err != nil {
			return err
		}
		d.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// LoadAgencySummary returns the agency summary, or an empty one.
func (s *SQLiteStorage) LoadAgencySummary(ctx context.Context) (*model.AgencySummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	summary := &model.AgencySummary{}
	if _, err := s.loadDocument(ctx, DocAgencySummary, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// SaveAgencySummary merges freshly computed figures into the stored summary.
// Fields overridden in the stored copy keep their value; fields overridden
// in computed are explicit edits and replace it. On success computed holds
// the merged result.
func (s *SQLiteStorage) SaveAgencySummary(ctx context.Context, computed *model.AgencySummary) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if computed == nil {
		return fmt.Errorf("%w: agency summary", ErrNilParameter)
	}
	if computed.UpdatedAt.IsZero() {
		computed.UpdatedAt = time.Now().UTC()
	}

	stored := &model.AgencySummary{}
	err := s.updateDocument(ctx, DocAgencySummary, stored, func(bool) error {
		stored.MergeComputed(computed)
		return nil
	})
	if err != nil {
		return err
	}
	*computed = *stored
	return nil
}

// UpdateAgencySummary loads, mutates and saves the summary in one transaction
// without merging.
func (s *SQLiteStorage) UpdateAgencySummary(ctx context.Context, fn func(*model.AgencySummary) error) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	summary := &model.AgencySummary{}
	return s.updateDocument(ctx, DocAgencySummary, summary, func(bool) error {
		if err := fn(summary); err != nil {
			return err
		}
		summary.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// LoadSheetsConfig returns the sheet sources, or an empty config.
func (s *SQLiteStorage) LoadSheetsConfig(ctx context.Context) (*model.SheetsConfig, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	cfg := &model.SheetsConfig{}
	if _, err := s.loadDocument(ctx, DocSheetsConfig, cfg); err != nil {
		return nil, err
	}
	if cfg.Sources == nil {
		cfg.Sources = make(map[model.SheetKind]model.SheetSource)
	}
	return cfg, nil
}

// SaveSheetsConfig replaces the sheet sources.
func (s *SQLiteStorage) SaveSheetsConfig(ctx context.Context, cfg *model.SheetsConfig) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if cfg == nil {
		return fmt.Errorf("%w: sheets config", ErrNilParameter)
	}
	return s.saveDocument(ctx, DocSheetsConfig, cfg)
}
