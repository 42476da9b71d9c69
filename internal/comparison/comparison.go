// Package comparison computes per-unit and agency-wide target comparisons
// from the dashboard's leaders and agents.
package comparison

import (
	"sort"

	"github.com/Veraticus/agency-pulse/internal/model"
	"github.com/Veraticus/agency-pulse/internal/names"
)

const (
	// Tolerance is the fraction of the leader forecast a unit may deviate by
	// and still count as aligned.
	Tolerance = 0.05
	// AlignmentCap bounds the alignment percentage.
	AlignmentCap = 200.0
)

type unit struct {
	leader *model.Leader
	name   string
	agents []*model.Agent
}

// ComputeUnitComparisons groups agents by leader name and compares each
// unit's summed agent ANP targets with its leader's forecast. A unit appears
// if its leader has a record or any agent names it. Adjustments are keyed by
// normalized leader name. The result is sorted by label.
func ComputeUnitComparisons(leaders []model.Leader, agents []model.Agent, adjustments map[string]model.TargetPair) []model.ComparisonData {
	units := make(map[string]*unit)
	var order []string

	group := func(name string) *unit {
		key := names.Normalize(name)
		if key == "" {
			return nil
		}
		u, ok := units[key]
		if !ok {
			u = &unit{name: name}
			units[key] = u
			order = append(order, key)
		}
		return u
	}

	for i := range leaders {
		if u := group(leaders[i].Name); u != nil && u.leader == nil {
			u.leader = &leaders[i]
			u.name = leaders[i].Name
		}
	}
	for i := range agents {
		if u := group(agents[i].LeaderName); u != nil {
			u.agents = append(u.agents, &agents[i])
		}
	}

	out := make([]model.ComparisonData, 0, len(order))
	for _, key := range order {
		u := units[key]
		c := model.ComparisonData{
			Label:           u.name,
			LeaderName:      u.name,
			AgentCount:      len(u.agents),
			HasLeaderRecord: u.leader != nil,
		}
		for _, a := range u.agents {
			c.AgentsANPTotal += a.ANPTarget
		}
		if u.leader != nil {
			c.LeaderANPForecast = u.leader.ANPForecastTotal()
			if u.leader.Unit != "" {
				c.Label = u.leader.Unit
			}
		}
		c.Variance = c.AgentsANPTotal - c.LeaderANPForecast
		c.Status = ClassifyStatus(c.Variance, c.LeaderANPForecast)
		c.Alignment = AlignmentPercentage(c.AgentsANPTotal, c.LeaderANPForecast)
		if adj, ok := adjustments[key]; ok {
			c.Adjusted = &adj
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// ClassifyStatus compares a variance with the tolerance band around the
// forecast. With a zero forecast the band collapses to zero, so any nonzero
// variance is under or over by its sign.
func ClassifyStatus(variance, forecast float64) model.AlignmentStatus {
	threshold := Tolerance * forecast
	switch {
	case variance < -threshold:
		return model.StatusUnder
	case variance > threshold:
		return model.StatusOver
	default:
		return model.StatusAligned
	}
}

// AlignmentPercentage is total as a percentage of forecast, capped at
// AlignmentCap. It is 0 when there is no positive forecast.
func AlignmentPercentage(total, forecast float64) float64 {
	if forecast <= 0 {
		return 0
	}
	return min(total/forecast*100, AlignmentCap)
}

// ComputeAgencyTotals sums leaders and agents independently. The dashboard's
// adjusted targets are carried along and take precedence in the Effective
// accessors.
func ComputeAgencyTotals(d *model.Dashboard) model.AgencyTotals {
	totals := model.AgencyTotals{
		AdjustedANPTarget:      d.AdjustedANPTarget,
		AdjustedRecruitsTarget: d.AdjustedRecruitsTarget,
		LeaderCount:            len(d.Leaders),
		AgentCount:             len(d.Agents),
	}
	for _, l := range d.Leaders {
		totals.LeadersANPTarget += l.ANPTarget
		totals.LeadersRecruitsTarget += l.RecruitsTarget
		totals.LeadersANPForecast += l.ANPForecastTotal()
		totals.LeadersRecruitsFcst += l.Forecasts.Nov.Recruits + l.Forecasts.Dec.Recruits
	}
	for _, a := range d.Agents {
		totals.AgentsANPTarget += a.ANPTarget
		totals.AgentsCommissionTarget += a.CommissionTarget
		totals.AgentsRecruitsTarget += a.RecruitsTarget
	}
	return totals
}
