package comparison

import (
	"fmt"

	"github.com/Veraticus/agency-pulse/internal/model"
	"github.com/Veraticus/agency-pulse/internal/names"
)

// Orphan is an agent whose leader name matches no leader record.
type Orphan struct {
	AgentID    string
	AgentName  string
	LeaderName string
}

func (o Orphan) String() string {
	if o.LeaderName == "" {
		return fmt.Sprintf("agent %s has no leader", o.AgentName)
	}
	return fmt.Sprintf("agent %s reports to %s, who has no leader record", o.AgentName, o.LeaderName)
}

// FindOrphans lists agents whose leader name does not resolve to a leader.
func FindOrphans(leaders []model.Leader, agents []model.Agent) []Orphan {
	known := make(map[string]bool, len(leaders))
	for _, l := range leaders {
		known[names.Normalize(l.Name)] = true
	}

	var orphans []Orphan
	for _, a := range agents {
		if known[names.Normalize(a.LeaderName)] {
			continue
		}
		orphans = append(orphans, Orphan{AgentID: a.ID, AgentName: a.Name, LeaderName: a.LeaderName})
	}
	return orphans
}
