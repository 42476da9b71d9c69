package dashboard

import (
	"context"
	"fmt"

	"github.com/Veraticus/agency-pulse/internal/common"
	"github.com/Veraticus/agency-pulse/internal/model"
)

// AgencySummary returns the agency's MTD and YTD figures.
func (s *Service) AgencySummary(ctx context.Context, actor Actor) Result[*model.AgencySummary] {
	if err := actor.require(PermView); err != nil {
		return fail[*model.AgencySummary]("agency summary", nil, err)
	}
	summary, err := s.store.LoadAgencySummary(ctx)
	if err != nil {
		return fail[*model.AgencySummary]("agency summary", nil, err)
	}
	var warnings []string
	for _, f := range summary.OverriddenFields() {
		if summary.State(f) == model.StateStale {
			warnings = append(warnings, fmt.Sprintf("%s is overridden at %g; the last sync computed %g",
				f, summary.Get(f), summary.LastComputed[f]))
		}
	}
	return ok(summary, warnings...)
}

// EditSummaryField overrides one summary figure. The override survives
// later syncs.
func (s *Service) EditSummaryField(ctx context.Context, actor Actor, field string, value float64) Result[*model.AgencySummary] {
	const op = "edit summary field"
	if err := actor.require(PermEditSummary); err != nil {
		return fail[*model.AgencySummary](op, nil, err)
	}
	f, err := model.ParseSummaryField(field)
	if err != nil {
		return fail[*model.AgencySummary](op, nil, fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
	}
	var updated *model.AgencySummary
	err = s.store.UpdateAgencySummary(ctx, func(summary *model.AgencySummary) error {
		if err := summary.Override(f, value); err != nil {
			return err
		}
		updated = summary
		return nil
	})
	if err != nil {
		return fail[*model.AgencySummary](op, nil, err)
	}
	return ok(updated)
}
