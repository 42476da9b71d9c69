// Package testutil provides shared test helpers for the pulse packages.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/agency-pulse/internal/storage"
)

// SetupTestStore creates a migrated SQLite store in a temporary directory.
// The store is closed when the test finishes.
//
// Example:
//
//	store := testutil.SetupTestStore(t)
//	d, err := store.LoadDashboard(ctx)
func SetupTestStore(t *testing.T, opts ...storage.Option) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"), opts...)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}
