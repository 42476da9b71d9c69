package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/agency-pulse/internal/hierarchy"
	"github.com/Veraticus/agency-pulse/internal/model"
	"github.com/Veraticus/agency-pulse/internal/testutil"
)

const pastedHierarchy = "UM NAME\tSUPERVISOR\tAGENT NAME\n" +
	"UM_A\tSUM_X\tAgent One\n" +
	"\tSUM_X\t\n" +
	"UM_A\tUM_A\tAgent Two\n"

func TestImportHierarchy(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	ctx := context.Background()

	res := svc.ImportHierarchy(ctx, admin, pastedHierarchy)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 4, res.Data.Imported)
	assert.Zero(t, res.Data.Cleared)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "line 3: missing agent name", res.Warnings[0])

	list := svc.Hierarchy(ctx, staff)
	require.True(t, list.Success)
	byName := make(map[string]model.HierarchyEntry)
	for _, e := range list.Data {
		byName[e.Name] = e
	}
	require.Len(t, byName, 4)
	assert.Equal(t, model.RankSUM, byName["SUM_X"].Rank)
	assert.Equal(t, model.RankUM, byName["UM_A"].Rank)
	assert.Equal(t, "SUM_X", byName["UM_A"].ManagerName)
	assert.Equal(t, model.RankADV, byName["Agent Two"].Rank)
	assert.Equal(t, "UM_A", byName["Agent Two"].ManagerName)

	again := svc.ImportHierarchy(ctx, admin, "AGENT NAME,UM NAME\nSolo,UM_Q\n")
	require.True(t, again.Success, again.Error)
	assert.Equal(t, 4, again.Data.Cleared)
	assert.Equal(t, 2, again.Data.Imported)
}

func TestImportHierarchyRejectsHeaderWithoutAgents(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	res := svc.ImportHierarchy(context.Background(), admin, "UM NAME,SUPERVISOR\nUM_A,SUM_X\n")
	assert.False(t, res.Success)
	assert.Equal(t, "could not read the pasted hierarchy", res.Error)
	assert.NotEmpty(t, res.Hint)
}

func TestImportHierarchyNeedsAgency(t *testing.T) {
	store := testutil.SetupTestStore(t)
	svc := New(store, nil)

	res := svc.ImportHierarchy(context.Background(), admin, pastedHierarchy)
	assert.False(t, res.Success)
	assert.Equal(t, "no agency selected", res.Error)
}

func TestImportHierarchyRequiresManagePermission(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	res := svc.ImportHierarchy(context.Background(), leader, pastedHierarchy)
	assert.False(t, res.Success)
}

func TestInitializeHierarchy(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	ctx := context.Background()

	seed, err := hierarchy.Seed("North")
	require.NoError(t, err)

	res := svc.InitializeHierarchy(ctx, admin)
	require.True(t, res.Success, res.Error)
	assert.Len(t, res.Data, len(seed))

	second := svc.InitializeHierarchy(ctx, admin)
	assert.False(t, second.Success)
	assert.Contains(t, second.Error, "already has")
	assert.Len(t, second.Data, len(seed))
}

func TestDeleteHierarchyEntriesPartial(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	ctx := context.Background()
	require.True(t, svc.InitializeHierarchy(ctx, admin).Success)

	id := hierarchy.EntryID("DENNIS B. TORRES", "North")
	res := svc.DeleteHierarchyEntries(ctx, admin, []string{id, "no-such-id"})
	assert.False(t, res.Success)
	assert.Equal(t, 1, res.Data)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "no-such-id")

	team := svc.TeamOf(ctx, staff, "JOSEPH M. REYES")
	require.True(t, team.Success, team.Error)
	assert.Empty(t, team.Data.Members)

	res = svc.DeleteHierarchyEntries(ctx, admin, nil)
	assert.False(t, res.Success)
}

func TestTeamOf(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	ctx := context.Background()
	require.True(t, svc.InitializeHierarchy(ctx, admin).Success)

	res := svc.TeamOf(ctx, staff, "analyn d. gonzales")
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "ANALYN D. GONZALES", res.Data.Leader.Name)
	assert.Len(t, res.Data.DirectReports, 2)
	assert.Len(t, res.Data.Members, 3)
	require.Len(t, res.Data.Chain, 2)
	assert.Equal(t, "ROBERTO C. VILLANUEVA", res.Data.Chain[0].Name)

	missing := svc.TeamOf(ctx, staff, "Nobody")
	assert.False(t, missing.Success)
	assert.Contains(t, missing.Error, "not found")
}
