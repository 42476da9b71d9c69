package model

import "time"

// Dashboard is the document holding every leader and agent plus the
// admin-entered adjustments.
type Dashboard struct {
	UpdatedAt              time.Time             `json:"updatedAt"`
	AdjustedANPTarget      *float64              `json:"adjustedAnpTarget,omitempty"`
	AdjustedRecruitsTarget *float64              `json:"adjustedRecruitsTarget,omitempty"`
	UnitAdjustments        map[string]TargetPair `json:"unitAdjustments,omitempty"`
	Leaders                []Leader              `json:"leaders"`
	Agents                 []Agent               `json:"agents"`
}

// Leader returns the leader with the given id.
func (d *Dashboard) Leader(id string) *Leader {
	for i := range d.Leaders {
		if d.Leaders[i].ID == id {
			return &d.Leaders[i]
		}
	}
	return nil
}

// Agent returns the agent with the given id.
func (d *Dashboard) Agent(id string) *Agent {
	for i := range d.Agents {
		if d.Agents[i].ID == id {
			return &d.Agents[i]
		}
	}
	return nil
}
