// Package hierarchy infers the agency organization from flattened
// leader/supervisor/agent rows.
package hierarchy

import (
	"strings"

	"github.com/Veraticus/agency-pulse/internal/model"
	"github.com/Veraticus/agency-pulse/internal/names"
)

// Row is one imported line: the agent, the unit manager the agent sits
// under, and the person the agent reports to directly. Names are in display
// form. Line is the source line, 0 if unknown.
type Row struct {
	Leader     string
	Supervisor string
	Agent      string
	AgentCode  string
	Line       int
}

// evidence is what the rows say about one person.
type evidence struct {
	managerAsLeader string
	managerAsAgent  string
	managerAsEither string
	code            string
	isLeader        bool
	isSupervisor    bool
	hasLeadersUnder bool
}

// EntryID derives the stable id of a person within an agency.
func EntryID(name, agency string) string {
	return model.StableID("hierarchy", names.Normalize(name), names.Normalize(agency))
}

// Resolve infers one entry per distinct person in rows. Entries come out in
// order of first appearance. When rows disagree about someone's manager the
// later row wins.
func Resolve(rows []Row, agency string) []model.HierarchyEntry {
	var order []string
	ev := make(map[string]*evidence)
	get := func(name string) *evidence {
		key := names.Normalize(name)
		if key == "" {
			return nil
		}
		e, ok := ev[key]
		if !ok {
			e = &evidence{}
			ev[key] = e
			order = append(order, key)
		}
		return e
	}

	// First pass: role evidence.
	for _, r := range rows {
		leader, supervisor, agent := get(r.Leader), get(r.Supervisor), get(r.Agent)
		sup := names.Normalize(r.Supervisor)

		if leader != nil {
			leader.isLeader = true
			if sup != "" && sup != names.Normalize(r.Leader) {
				leader.managerAsLeader = sup
				leader.managerAsEither = sup
			}
		}
		if supervisor != nil {
			supervisor.isSupervisor = true
		}
		if agent != nil {
			if sup != "" && sup != names.Normalize(r.Agent) {
				agent.managerAsAgent = sup
				agent.managerAsEither = sup
			}
			if r.AgentCode != "" {
				agent.code = r.AgentCode
			}
		}
	}

	// Second pass: supervisors with unit managers under them.
	for _, r := range rows {
		sup, lead := names.Normalize(r.Supervisor), names.Normalize(r.Leader)
		if sup == "" || lead == "" || sup == lead {
			continue
		}
		if l, ok := ev[lead]; ok && l.isLeader {
			ev[sup].hasLeadersUnder = true
		}
	}

	display := displayNames(rows)
	entries := make([]model.HierarchyEntry, 0, len(order))
	for _, key := range order {
		e := ev[key]
		rank := rankOf(e)

		var manager string
		switch rank {
		case model.RankSUM:
			manager = e.managerAsEither
		case model.RankUM:
			manager = e.managerAsLeader
			if manager == "" {
				manager = e.managerAsAgent
			}
		default:
			manager = e.managerAsAgent
		}

		name := displayName(display, key)
		managerName := ""
		if manager != "" {
			managerName = displayName(display, manager)
		}
		entries = append(entries, model.HierarchyEntry{
			ID:          EntryID(name, agency),
			Name:        name,
			Rank:        rank,
			ManagerName: managerName,
			Agency:      agency,
			Code:        e.code,
		})
	}
	return entries
}

func rankOf(e *evidence) model.Rank {
	switch {
	case e.isSupervisor && e.hasLeadersUnder:
		return model.RankSUM
	case e.isSupervisor, e.isLeader:
		return model.RankUM
	default:
		return model.RankADV
	}
}

// displayNames maps each normalized name to the first spelling seen, looking
// through the agent column first, then the leader column, then the
// supervisor column.
func displayNames(rows []Row) map[string]string {
	out := make(map[string]string)
	columns := []func(Row) string{
		func(r Row) string { return r.Agent },
		func(r Row) string { return r.Leader },
		func(r Row) string { return r.Supervisor },
	}
	for _, col := range columns {
		for _, r := range rows {
			name := col(r)
			key := names.Normalize(name)
			if key == "" {
				continue
			}
			if _, ok := out[key]; !ok {
				out[key] = strings.TrimSpace(name)
			}
		}
	}
	return out
}

func displayName(display map[string]string, key string) string {
	if name, ok := display[key]; ok && name != "" {
		return name
	}
	return names.TitleCase(key)
}
