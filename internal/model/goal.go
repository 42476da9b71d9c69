package model

import (
	"fmt"
	"time"
)

// GoalFigures is one period's planned figures.
type GoalFigures struct {
	Manpower   float64 `json:"manpower"`
	Recruits   float64 `json:"recruits"`
	Premium    float64 `json:"premium"`
	Commission float64 `json:"commission"`
	Cases      float64 `json:"cases"`
}

// IsZero reports whether no figure is set.
func (g GoalFigures) IsZero() bool {
	return g == GoalFigures{}
}

// Add sums the flow figures. Manpower is a headcount, so the larger one is kept.
func (g GoalFigures) Add(o GoalFigures) GoalFigures {
	return GoalFigures{
		Manpower:   max(g.Manpower, o.Manpower),
		Recruits:   g.Recruits + o.Recruits,
		Premium:    g.Premium + o.Premium,
		Commission: g.Commission + o.Commission,
		Cases:      g.Cases + o.Cases,
	}
}

// StrategicPlanningGoal is one submission of a user's plan. Submissions
// accumulate; the latest one is the user's goal.
type StrategicPlanningGoal struct {
	SubmittedAt time.Time       `json:"submittedAt"`
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	UserName    string          `json:"userName"`
	Rank        Rank            `json:"rank"`
	Agency      string          `json:"agency"`
	UnitName    string          `json:"unitName"`
	Months      [12]GoalFigures `json:"months"`
	Quarters    [4]GoalFigures  `json:"quarters"`
	Annual      GoalFigures     `json:"annual"`
}

// GoalID builds the submission key from user, agency and submission time.
func GoalID(userID, agency string, at time.Time) string {
	return fmt.Sprintf("%s_%s_%d", userID, agency, at.UnixMilli())
}

// UnitName builds the informal unit key used to group goals.
func UnitName(managerName, agency string) string {
	return managerName + " - " + agency
}

// ComputeRollups fills empty quarters from their months and recomputes the
// annual figures from the quarters.
func (g *StrategicPlanningGoal) ComputeRollups() {
	for q := range g.Quarters {
		if !g.Quarters[q].IsZero() {
			continue
		}
		var sum GoalFigures
		for m := q * 3; m < q*3+3; m++ {
			sum = sum.Add(g.Months[m])
		}
		g.Quarters[q] = sum
	}
	var annual GoalFigures
	for _, q := range g.Quarters {
		annual = annual.Add(q)
	}
	g.Annual = annual
}
