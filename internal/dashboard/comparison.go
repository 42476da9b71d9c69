package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/agency-pulse/internal/common"
	"github.com/Veraticus/agency-pulse/internal/comparison"
	"github.com/Veraticus/agency-pulse/internal/model"
	"github.com/Veraticus/agency-pulse/internal/names"
)

// UnitComparisons compares every unit's agent targets with its leader's
// forecast. Agents whose leader has no record are listed as warnings.
func (s *Service) UnitComparisons(ctx context.Context, actor Actor) Result[[]model.ComparisonData] {
	d, err := s.view(ctx, actor)
	if err != nil {
		return fail[[]model.ComparisonData]("unit comparisons", nil, err)
	}
	var warnings []string
	for _, o := range comparison.FindOrphans(d.Leaders, d.Agents) {
		warnings = append(warnings, o.String())
	}
	return ok(comparison.ComputeUnitComparisons(d.Leaders, d.Agents, d.UnitAdjustments), warnings...)
}

// AgencyTotals sums targets and forecasts across the agency.
func (s *Service) AgencyTotals(ctx context.Context, actor Actor) Result[model.AgencyTotals] {
	d, err := s.view(ctx, actor)
	if err != nil {
		return fail("agency totals", model.AgencyTotals{}, err)
	}
	return ok(comparison.ComputeAgencyTotals(d))
}

// SetUnitAdjustment records an admin-set target for one unit.
func (s *Service) SetUnitAdjustment(ctx context.Context, actor Actor, unit string, anp, recruits float64) Result[model.TargetPair] {
	const op = "set unit adjustment"
	pair := model.TargetPair{ANP: anp, Recruits: recruits}
	if err := actor.require(PermAdjustTargets); err != nil {
		return fail(op, pair, err)
	}
	key := names.Normalize(unit)
	if key == "" {
		return fail(op, pair, fmt.Errorf("%w: unit name is required", common.ErrInvalidInput))
	}
	err := s.store.UpdateDashboard(ctx, func(d *model.Dashboard) error {
		if !hasUnit(d, key) {
			return notFound("unit", strings.TrimSpace(unit))
		}
		if d.UnitAdjustments == nil {
			d.UnitAdjustments = make(map[string]model.TargetPair)
		}
		d.UnitAdjustments[key] = pair
		return nil
	})
	if err != nil {
		return fail(op, pair, err)
	}
	return ok(pair)
}

func hasUnit(d *model.Dashboard, key string) bool {
	for _, l := range d.Leaders {
		if names.Normalize(l.Name) == key {
			return true
		}
	}
	for _, a := range d.Agents {
		if names.Normalize(a.LeaderName) == key {
			return true
		}
	}
	return false
}

// SetAgencyAdjustedTargets sets the agency-wide adjusted targets. A nil
// value clears that adjustment so the summed figure applies again.
func (s *Service) SetAgencyAdjustedTargets(ctx context.Context, actor Actor, anp, recruits *float64) Result[model.AgencyTotals] {
	const op = "set agency adjusted targets"
	if err := actor.require(PermAdjustTargets); err != nil {
		return fail(op, model.AgencyTotals{}, err)
	}
	var totals model.AgencyTotals
	err := s.store.UpdateDashboard(ctx, func(d *model.Dashboard) error {
		d.AdjustedANPTarget = anp
		d.AdjustedRecruitsTarget = recruits
		totals = comparison.ComputeAgencyTotals(d)
		return nil
	})
	if err != nil {
		return fail(op, model.AgencyTotals{}, err)
	}
	return ok(totals)
}
