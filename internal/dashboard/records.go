package dashboard

import (
	"context"
	"fmt"

	"github.com/Veraticus/agency-pulse/internal/common"
	"github.com/Veraticus/agency-pulse/internal/model"
)

// Leaders returns every leader on the dashboard.
func (s *Service) Leaders(ctx context.Context, actor Actor) Result[[]model.Leader] {
	d, err := s.view(ctx, actor)
	if err != nil {
		return fail[[]model.Leader]("list leaders", nil, err)
	}
	return ok(d.Leaders)
}

// Agents returns every agent on the dashboard.
func (s *Service) Agents(ctx context.Context, actor Actor) Result[[]model.Agent] {
	d, err := s.view(ctx, actor)
	if err != nil {
		return fail[[]model.Agent]("list agents", nil, err)
	}
	return ok(d.Agents)
}

func (s *Service) view(ctx context.Context, actor Actor) (*model.Dashboard, error) {
	if err := actor.require(PermView); err != nil {
		return nil, err
	}
	return s.store.LoadDashboard(ctx)
}

// UpdateLeaderTarget sets a leader's ANP and recruits targets.
func (s *Service) UpdateLeaderTarget(ctx context.Context, actor Actor, id string, anp, recruits float64) Result[model.Leader] {
	return s.editLeader(ctx, actor, "update leader target", PermEditTargets, id, func(l *model.Leader) error {
		if anp < 0 || recruits < 0 {
			return fmt.Errorf("%w: targets cannot be negative", common.ErrInvalidInput)
		}
		l.ANPTarget = anp
		l.RecruitsTarget = recruits
		return nil
	})
}

// UpdateLeaderForecast sets a leader's forecast for November or December.
func (s *Service) UpdateLeaderForecast(ctx context.Context, actor Actor, id, month string, anp, recruits float64) Result[model.Leader] {
	return s.editLeader(ctx, actor, "update leader forecast", PermEditForecasts, id, func(l *model.Leader) error {
		m, err := model.ParseForecastMonth(month)
		if err != nil {
			return fmt.Errorf("%w: %w", common.ErrInvalidInput, err)
		}
		l.SetForecast(m, model.ForecastPair{ANP: anp, Recruits: recruits})
		return nil
	})
}

func (s *Service) editLeader(ctx context.Context, actor Actor, op string, perm Permission, id string, fn func(*model.Leader) error) Result[model.Leader] {
	if err := actor.require(perm); err != nil {
		return fail(op, model.Leader{}, err)
	}
	var updated model.Leader
	err := s.store.UpdateDashboard(ctx, func(d *model.Dashboard) error {
		l := d.Leader(id)
		if l == nil {
			return notFound("leader", id)
		}
		if err := fn(l); err != nil {
			return err
		}
		updated = *l
		return nil
	})
	if err != nil {
		return fail(op, model.Leader{}, err)
	}
	return ok(updated)
}

// UpdateAgentCommissionTarget sets an agent's commission target. The premium
// and ANP targets are derived from it.
func (s *Service) UpdateAgentCommissionTarget(ctx context.Context, actor Actor, id string, commission float64) Result[model.Agent] {
	return s.editAgent(ctx, actor, "update agent commission target", PermEditTargets, id, func(a *model.Agent) error {
		if commission < 0 {
			return fmt.Errorf("%w: commission target cannot be negative", common.ErrInvalidInput)
		}
		a.SetCommissionTarget(commission)
		return nil
	})
}

// UpdateAgentRecruitsTarget sets an agent's recruits target.
func (s *Service) UpdateAgentRecruitsTarget(ctx context.Context, actor Actor, id string, recruits float64) Result[model.Agent] {
	return s.editAgent(ctx, actor, "update agent recruits target", PermEditTargets, id, func(a *model.Agent) error {
		if recruits < 0 {
			return fmt.Errorf("%w: recruits target cannot be negative", common.ErrInvalidInput)
		}
		a.RecruitsTarget = recruits
		return nil
	})
}

// UpdateAgentForecast sets an agent's forecast for November or December.
func (s *Service) UpdateAgentForecast(ctx context.Context, actor Actor, id, month string, commission, recruits float64) Result[model.Agent] {
	return s.editAgent(ctx, actor, "update agent forecast", PermEditForecasts, id, func(a *model.Agent) error {
		m, err := model.ParseForecastMonth(month)
		if err != nil {
			return fmt.Errorf("%w: %w", common.ErrInvalidInput, err)
		}
		a.SetForecast(m, model.AgentForecastPair{Commission: commission, Recruits: recruits})
		return nil
	})
}

func (s *Service) editAgent(ctx context.Context, actor Actor, op string, perm Permission, id string, fn func(*model.Agent) error) Result[model.Agent] {
	if err := actor.require(perm); err != nil {
		return fail(op, model.Agent{}, err)
	}
	var updated model.Agent
	err := s.store.UpdateDashboard(ctx, func(d *model.Dashboard) error {
		a := d.Agent(id)
		if a == nil {
			return notFound("agent", id)
		}
		if err := fn(a); err != nil {
			return err
		}
		updated = *a
		return nil
	})
	if err != nil {
		return fail(op, model.Agent{}, err)
	}
	return ok(updated)
}

func notFound(kind, id string) error {
	return common.NewUserError(fmt.Sprintf("%s %s not found", kind, id), common.ErrNotFound)
}
