package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/agency-pulse/internal/model"
)

func sampleRows() []Row {
	return []Row{
		{Leader: "UM_A", Supervisor: "UM_A", Agent: "AGENT 1"},
		{Leader: "UM_A", Supervisor: "UM_A", Agent: "AGENT 2"},
		{Leader: "UM_A", Supervisor: "SUM_X", Agent: "UM_A"},
		{Leader: "UM_B", Supervisor: "UM_B", Agent: "AGENT 3"},
		{Leader: "UM_B", Supervisor: "SUM_X", Agent: "UM_B"},
		{Leader: "SUM_X", Supervisor: "SUM_X", Agent: "AGENT 4"},
	}
}

func byName(entries []model.HierarchyEntry) map[string]model.HierarchyEntry {
	out := make(map[string]model.HierarchyEntry, len(entries))
	for _, e := range entries {
		out[e.Name] = e
	}
	return out
}

func TestResolveRanksAndManagers(t *testing.T) {
	entries := Resolve(sampleRows(), "North")
	require.Len(t, entries, 7)

	got := byName(entries)
	tests := []struct {
		name    string
		rank    model.Rank
		manager string
	}{
		{name: "SUM_X", rank: model.RankSUM, manager: ""},
		{name: "UM_A", rank: model.RankUM, manager: "SUM_X"},
		{name: "UM_B", rank: model.RankUM, manager: "SUM_X"},
		{name: "AGENT 1", rank: model.RankADV, manager: "UM_A"},
		{name: "AGENT 3", rank: model.RankADV, manager: "UM_B"},
		{name: "AGENT 4", rank: model.RankADV, manager: "SUM_X"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := got[tt.name]
			require.True(t, ok)
			assert.Equal(t, tt.rank, e.Rank)
			assert.Equal(t, tt.manager, e.ManagerName)
			assert.Equal(t, "North", e.Agency)
			assert.Equal(t, EntryID(tt.name, "North"), e.ID)
		})
	}
}

func TestResolveOrderOfFirstAppearance(t *testing.T) {
	entries := Resolve(sampleRows(), "North")

	var order []string
	for _, e := range entries {
		order = append(order, e.Name)
	}
	assert.Equal(t, []string{"UM_A", "AGENT 1", "AGENT 2", "SUM_X", "UM_B", "AGENT 3", "AGENT 4"}, order)
}

func TestResolveIsIdempotent(t *testing.T) {
	rows := sampleRows()

	first := Resolve(rows, "North")
	second := Resolve(rows, "North")

	assert.Equal(t, first, second)
}

func TestResolveLeaderColumnOnly(t *testing.T) {
	entries := Resolve([]Row{{Leader: "UM_C", Supervisor: "SUM_Y", Agent: "AGENT 9"}}, "North")
	got := byName(entries)

	assert.Equal(t, model.RankUM, got["UM_C"].Rank)
	assert.Equal(t, "SUM_Y", got["UM_C"].ManagerName)
	assert.Equal(t, model.RankSUM, got["SUM_Y"].Rank, "supervises a unit manager")
	assert.Equal(t, "SUM_Y", got["AGENT 9"].ManagerName)
}

func TestResolveDisplayNamePrecedence(t *testing.T) {
	rows := []Row{
		{Leader: "ANA CRUZ", Supervisor: "ANA CRUZ", Agent: "Ben Lim"},
		{Leader: "ANA CRUZ", Supervisor: "Carlo Dy", Agent: "Ana Cruz"},
	}

	entries := Resolve(rows, "North")
	require.Len(t, entries, 3)

	assert.Equal(t, "Ana Cruz", entries[0].Name, "agent column spelling wins over leader column")
	assert.Equal(t, "Carlo Dy", byName(entries)["Ana Cruz"].ManagerName)
	assert.Equal(t, "Ana Cruz", byName(entries)["Ben Lim"].ManagerName)
}

func TestResolveLaterRowWinsManager(t *testing.T) {
	rows := []Row{
		{Leader: "UM_A", Supervisor: "UM_A", Agent: "AGENT 1"},
		{Leader: "UM_B", Supervisor: "UM_B", Agent: "AGENT 1"},
	}

	got := byName(Resolve(rows, "North"))

	assert.Equal(t, "UM_B", got["AGENT 1"].ManagerName)
}

func TestResolveCarriesAgentCode(t *testing.T) {
	rows := []Row{{Leader: "UM_A", Supervisor: "UM_A", Agent: "AGENT 1", AgentCode: "10052"}}

	got := byName(Resolve(rows, "North"))

	assert.Equal(t, "10052", got["AGENT 1"].Code)
	assert.Empty(t, got["UM_A"].Code)
}

func TestResolveEmpty(t *testing.T) {
	assert.Empty(t, Resolve(nil, "North"))
	assert.Empty(t, Resolve([]Row{{}}, "North"))
}

func TestDisplayNameFallback(t *testing.T) {
	assert.Equal(t, "Ana Cruz", displayName(map[string]string{}, "ANA CRUZ"))
}

func TestEntryIDIgnoresCaseAndSpacing(t *testing.T) {
	assert.Equal(t, EntryID("Ana  Cruz", "north"), EntryID("ANA CRUZ", "North"))
	assert.NotEqual(t, EntryID("ANA CRUZ", "North"), EntryID("ANA CRUZ", "South"))
}
