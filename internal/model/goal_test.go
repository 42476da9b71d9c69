package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStrategicPlanningGoal_ComputeRollups(t *testing.T) {
	var g StrategicPlanningGoal
	for m := 0; m < 12; m++ {
		g.Months[m] = GoalFigures{Manpower: float64(m + 1), Recruits: 1, Premium: 1000, Commission: 250, Cases: 2}
	}
	// Q3 entered directly takes precedence over its months.
	g.Quarters[2] = GoalFigures{Manpower: 5, Recruits: 10, Premium: 1, Commission: 1, Cases: 1}

	g.ComputeRollups()

	assert.Equal(t, GoalFigures{Manpower: 3, Recruits: 3, Premium: 3000, Commission: 750, Cases: 6}, g.Quarters[0])
	assert.Equal(t, 10.0, g.Quarters[2].Recruits)
	assert.Equal(t, 12.0, g.Annual.Manpower)
	assert.Equal(t, 3.0+3+10+3, g.Annual.Recruits)
	assert.Equal(t, 3000.0+3000+1+3000, g.Annual.Premium)
}

func TestGoalID(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	assert.Equal(t, "u-1_North_1700000000123", GoalID("u-1", "North", at))
	assert.Equal(t, "MARIA SANTOS - North", UnitName("MARIA SANTOS", "North"))
}

func TestRank(t *testing.T) {
	r, err := ParseRank("sum")
	assert.NoError(t, err)
	assert.Equal(t, RankSUM, r)
	assert.True(t, r.IsLeader())
	assert.False(t, RankAUM.IsLeader())

	_, err = ParseRank("CEO")
	assert.Error(t, err)
}

func TestStableID(t *testing.T) {
	a := StableID("hierarchy", "JUAN CRUZ", "North")
	assert.Equal(t, a, StableID("hierarchy", "JUAN CRUZ", "North"))
	assert.NotEqual(t, a, StableID("hierarchy", "JUAN CRUZ", "South"))
	assert.NotEqual(t, a, StableID("leader", "JUAN CRUZ", "North"))
	assert.Len(t, a, 36)
}
