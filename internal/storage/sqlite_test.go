package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/agency-pulse/internal/common"
	"github.com/Veraticus/agency-pulse/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T, opts ...Option) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath, opts...)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func TestSQLiteStorage_Dashboard(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	empty, err := store.LoadDashboard(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.Leaders)
	assert.Empty(t, empty.Agents)

	agent := model.Agent{ID: "a1", Name: "JOSE REYES", LeaderName: "UM_A"}
	agent.SetCommissionTarget(100000)
	adjusted := 900000.0
	d := &model.Dashboard{
		Leaders:           []model.Leader{{ID: "l1", Name: "UM_A", ANPTarget: 500000}},
		Agents:            []model.Agent{agent},
		AdjustedANPTarget: &adjusted,
	}
	require.NoError(t, store.SaveDashboard(ctx, d))

	loaded, err := store.LoadDashboard(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Leaders, 1)
	require.Len(t, loaded.Agents, 1)
	assert.Equal(t, "UM_A", loaded.Leaders[0].Name)
	assert.InDelta(t, 440000, loaded.Agents[0].ANPTarget, 1e-9)
	require.NotNil(t, loaded.AdjustedANPTarget)
	assert.InDelta(t, 900000, *loaded.AdjustedANPTarget, 1e-9)
	assert.False(t, loaded.UpdatedAt.IsZero())
}

func TestSQLiteStorage_UpdateDashboard(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.SaveDashboard(ctx, &model.Dashboard{
		Leaders: []model.Leader{{ID: "l1", Name: "UM_A"}},
	}))

	// Warm the cache so the update has to invalidate it.
	_, err := store.LoadDashboard(ctx)
	require.NoError(t, err)

	err = store.UpdateDashboard(ctx, func(d *model.Dashboard) error {
		d.Leader("l1").ANPTarget = 250000
		return nil
	})
	require.NoError(t, err)

	loaded, err := store.LoadDashboard(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 250000, loaded.Leaders[0].ANPTarget, 1e-9)

	boom := errors.New("boom")
	err = store.UpdateDashboard(ctx, func(d *model.Dashboard) error {
		d.Leaders[0].ANPTarget = 1
		return boom
	})
	assert.ErrorIs(t, err, boom)

	loaded, err = store.LoadDashboard(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 250000, loaded.Leaders[0].ANPTarget, 1e-9, "failed update is rolled back")
}

func TestSQLiteStorage_AgencySummaryOverrideIsSticky(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	first := &model.AgencySummary{}
	first.SetComputed("mtd.anp", 1000)
	first.SetComputed("mtd.cases", 10)
	require.NoError(t, store.SaveAgencySummary(ctx, first))

	err := store.UpdateAgencySummary(ctx, func(s *model.AgencySummary) error {
		return s.Override("mtd.anp", 1234)
	})
	require.NoError(t, err)

	// A later sync computes new figures without any override flags.
	fresh := &model.AgencySummary{}
	fresh.SetComputed("mtd.anp", 2000)
	fresh.SetComputed("mtd.cases", 12)
	require.NoError(t, store.SaveAgencySummary(ctx, fresh))

	loaded, err := store.LoadAgencySummary(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 1234, loaded.MTD.ANP, 1e-9, "override survives the sync")
	assert.InDelta(t, 12, loaded.MTD.Cases, 1e-9, "computed field takes the new value")
	assert.Equal(t, model.StateStale, loaded.State("mtd.anp"))
	assert.InDelta(t, 2000, loaded.LastComputed["mtd.anp"], 1e-9)
	assert.InDelta(t, 1234, fresh.MTD.ANP, 1e-9, "caller sees the merged summary")

	// An explicit edit replaces the override and keeps it set.
	err = store.UpdateAgencySummary(ctx, func(s *model.AgencySummary) error {
		return s.Override("mtd.anp", 1500)
	})
	require.NoError(t, err)

	loaded, err = store.LoadAgencySummary(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 1500, loaded.MTD.ANP, 1e-9)
	assert.True(t, loaded.IsOverridden("mtd.anp"))
}

func TestSQLiteStorage_SheetsConfig(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	cfg, err := store.LoadSheetsConfig(ctx)
	require.NoError(t, err)
	assert.Empty(t, cfg.Sources)

	cfg.SetSource(model.SheetLeaders, model.SheetSource{Name: "Leaders", URL: "https://example.com/l.csv", Active: true})
	require.NoError(t, store.SaveSheetsConfig(ctx, cfg))

	loaded, err := store.LoadSheetsConfig(ctx)
	require.NoError(t, err)
	src, ok := loaded.Source(model.SheetLeaders)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/l.csv", src.URL)
	assert.True(t, src.Active)
	_, ok = loaded.Source(model.SheetAgents)
	assert.False(t, ok)
}

func TestSQLiteStorage_Hierarchy(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	entries := []model.HierarchyEntry{
		{ID: "n1", Name: "ANA CRUZ", Rank: model.RankSUM, Agency: "North"},
		{ID: "n2", Name: "BEN LIM", Rank: model.RankUM, ManagerName: "ANA CRUZ", Agency: "North"},
		{ID: "s1", Name: "CARLO DY", Rank: model.RankUM, Agency: "South"},
	}
	for i := range entries {
		require.NoError(t, store.SaveHierarchyEntry(ctx, &entries[i]))
	}

	north, err := store.GetHierarchy(ctx, "North")
	require.NoError(t, err)
	require.Len(t, north, 2)
	assert.Equal(t, "ANA CRUZ", north[0].Name, "import order is kept")
	assert.Equal(t, "ANA CRUZ", north[1].ManagerName)

	all, err := store.GetHierarchy(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	entries[1].Rank = model.RankSUM
	require.NoError(t, store.SaveHierarchyEntry(ctx, &entries[1]))
	got, err := store.GetHierarchyEntry(ctx, "n2")
	require.NoError(t, err)
	assert.Equal(t, model.RankSUM, got.Rank, "same id overwrites")

	_, err = store.GetHierarchyEntry(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	n, err := store.ClearHierarchy(ctx, "North")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	remaining, err := store.GetHierarchy(ctx, "")
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestSQLiteStorage_DeleteHierarchyEntriesPartial(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	for _, id := range []string{"a", "b"} {
		require.NoError(t, store.SaveHierarchyEntry(ctx, &model.HierarchyEntry{
			ID: id, Name: "PERSON " + id, Rank: model.RankADV, Agency: "North",
		}))
	}

	err := store.DeleteHierarchyEntries(ctx, []string{"a", "missing", "b"})
	require.Error(t, err)

	var batch *common.BatchError
	require.ErrorAs(t, err, &batch)
	assert.Equal(t, 2, batch.Succeeded)
	require.Len(t, batch.Failures, 1)
	assert.Equal(t, "missing", batch.Failures[0].Item)
	assert.ErrorIs(t, batch.Failures[0].Err, common.ErrNotFound)

	left, err := store.GetHierarchy(ctx, "North")
	require.NoError(t, err)
	assert.Empty(t, left, "successful deletes are committed")

	assert.ErrorIs(t, store.DeleteHierarchyEntries(ctx, nil), ErrEmptySlice)
}

func TestSQLiteStorage_Goals(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	submit := func(user, unit string, at time.Time, premium float64) {
		t.Helper()
		g := &model.StrategicPlanningGoal{
			ID:          model.GoalID(user, "North", at),
			UserID:      user,
			Agency:      "North",
			UnitName:    unit,
			SubmittedAt: at,
		}
		g.Quarters[0].Premium = premium
		g.ComputeRollups()
		require.NoError(t, store.SaveGoal(ctx, g))
	}

	submit("u1", "ANA CRUZ - North", base, 100)
	submit("u1", "ANA CRUZ - North", base.Add(time.Hour), 200)
	submit("u2", "ANA CRUZ - North", base.Add(30*time.Minute), 50)

	latest, err := store.LatestGoal(ctx, "u1", "North")
	require.NoError(t, err)
	assert.InDelta(t, 200, latest.Annual.Premium, 1e-9)
	assert.True(t, base.Add(time.Hour).Equal(latest.SubmittedAt))

	_, err = store.LatestGoal(ctx, "u1", "South")
	assert.ErrorIs(t, err, common.ErrNotFound)

	unit, err := store.GoalsByUnit(ctx, "ANA CRUZ - North")
	require.NoError(t, err)
	require.Len(t, unit, 3, "submissions accumulate")
	assert.Equal(t, "u1", unit[0].UserID, "newest first")

	all, err := store.ListGoals(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSQLiteStorage_Users(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	created := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	u := &model.User{ID: "auth|1", Name: "Ana Cruz", Agency: "North", Rank: model.RankUM, Role: model.RoleLeader, CreatedAt: created}
	require.NoError(t, store.SaveUser(ctx, u))

	u.Role = model.RoleAdmin
	u.CreatedAt = time.Time{}
	require.NoError(t, store.SaveUser(ctx, u))

	got, err := store.GetUser(ctx, "auth|1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, got.Role)
	assert.True(t, created.Equal(got.CreatedAt), "creation time kept on update")

	_, err = store.GetUser(ctx, "nobody")
	assert.ErrorIs(t, err, common.ErrNotFound)

	users, err := store.ListUsers(ctx, "North")
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestSQLiteStorage_CacheServesUntilExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache := NewDocumentCache(DefaultCacheTTL, func() time.Time { return now })
	store, cleanup := createTestStorage(t, WithCache(cache))
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.SaveDashboard(ctx, &model.Dashboard{Leaders: []model.Leader{{ID: "l1", Name: "OLD"}}}))
	_, err := store.LoadDashboard(ctx)
	require.NoError(t, err)

	// Another process writes behind the cache's back.
	require.NoError(t, writeDocument(ctx, store.db, DocDashboard, &model.Dashboard{Leaders: []model.Leader{{ID: "l1", Name: "NEW"}}}))

	d, err := store.LoadDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, "OLD", d.Leaders[0].Name, "served from cache within the TTL")

	now = now.Add(DefaultCacheTTL)
	d, err = store.LoadDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, "NEW", d.Leaders[0].Name, "expired entry is re-read")
}

func TestSQLiteStorage_ClearCache(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.SaveSheetsConfig(ctx, &model.SheetsConfig{}))
	_, err := store.LoadSheetsConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, store.cache.Len())

	store.ClearCache()
	assert.Equal(t, 0, store.cache.Len())
}
