package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/agency-pulse/internal/common"
	"github.com/Veraticus/agency-pulse/internal/hierarchy"
	"github.com/Veraticus/agency-pulse/internal/model"
)

// GoalTotals sums the latest goals of a unit's members.
type GoalTotals struct {
	Months   [12]model.GoalFigures `json:"months"`
	Quarters [4]model.GoalFigures  `json:"quarters"`
	Annual   model.GoalFigures     `json:"annual"`
}

// UnitGoals is the latest goal of each member of a unit plus their sum.
type UnitGoals struct {
	Unit    string                        `json:"unit"`
	Members []model.StrategicPlanningGoal `json:"members"`
	Total   GoalTotals                    `json:"total"`
}

// SubmitGoal files a new strategic planning goal. Quarters left empty are
// filled from their months and the annual figures are recomputed. The unit
// is taken from the submitter's place in the hierarchy.
func (s *Service) SubmitGoal(ctx context.Context, actor Actor, goal model.StrategicPlanningGoal) Result[model.StrategicPlanningGoal] {
	const op = "submit goal"
	if err := actor.require(PermSubmitGoal); err != nil {
		return fail(op, goal, err)
	}
	if goal.UserID == "" {
		goal.UserID = actor.UserID
	}
	if goal.UserID != actor.UserID && actor.Role != model.RoleAdmin {
		return fail(op, goal, common.NewUserError("only an admin may submit a goal for someone else",
			common.ErrPermissionDenied))
	}

	user, err := s.store.GetUser(ctx, goal.UserID)
	switch {
	case err == nil:
		if goal.UserName == "" {
			goal.UserName = user.Name
		}
		if goal.Rank == "" {
			goal.Rank = user.Rank
		}
		if goal.Agency == "" {
			goal.Agency = user.Agency
		}
	case !errors.Is(err, common.ErrNotFound):
		return fail(op, goal, err)
	}
	if goal.Agency == "" {
		goal.Agency = s.config.Agency
	}
	if strings.TrimSpace(goal.UserName) == "" {
		return fail(op, goal, notFound("user", goal.UserID))
	}
	if goal.Agency == "" {
		return fail(op, goal, s.requireAgency())
	}

	var warnings []string
	unit, placed, err := s.unitOf(ctx, goal.UserName, goal.Rank, goal.Agency)
	if err != nil {
		return fail(op, goal, err)
	}
	if !placed {
		warnings = append(warnings, fmt.Sprintf("%s is not in the %s hierarchy; the goal is filed under their own name",
			goal.UserName, goal.Agency))
	}

	goal.UnitName = model.UnitName(unit, goal.Agency)
	goal.SubmittedAt = s.config.Now().UTC()
	goal.ID = model.GoalID(goal.UserID, goal.Agency, goal.SubmittedAt)
	goal.ComputeRollups()

	saveCtx, cancel := context.WithTimeout(ctx, s.config.GoalSaveTimeout)
	defer cancel()
	if err := s.store.SaveGoal(saveCtx, &goal); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = common.NewUserErrorWithHint("saving the goal timed out",
				"Try again; nothing was saved.", err)
		}
		return fail(op, goal, err)
	}

	s.logger.Info("Submitted goal", "user", goal.UserID, "unit", goal.UnitName)
	return ok(goal, warnings...)
}

// unitOf finds the manager whose unit a person belongs to. Leaders head
// their own unit.
func (s *Service) unitOf(ctx context.Context, name string, rank model.Rank, agency string) (string, bool, error) {
	entries, err := s.store.GetHierarchy(ctx, agency)
	if err != nil {
		return "", false, err
	}
	entry, found := hierarchy.BuildTree(entries).Entry(name)
	if !found {
		return name, false, nil
	}
	if entry.Rank.IsLeader() || (rank != "" && rank.IsLeader()) || entry.ManagerName == "" {
		return entry.Name, true, nil
	}
	return entry.ManagerName, true, nil
}

// LatestGoal returns a user's most recent goal.
func (s *Service) LatestGoal(ctx context.Context, actor Actor, userID string) Result[*model.StrategicPlanningGoal] {
	const op = "latest goal"
	if userID == "" {
		userID = actor.UserID
	}
	perm := PermViewAnyGoal
	if userID == actor.UserID {
		perm = PermView
	}
	if err := actor.require(perm); err != nil {
		return fail[*model.StrategicPlanningGoal](op, nil, err)
	}

	agency := s.config.Agency
	if user, err := s.store.GetUser(ctx, userID); err == nil && user.Agency != "" {
		agency = user.Agency
	}
	goal, err := s.store.LatestGoal(ctx, userID, agency)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			err = notFound("goal for user", userID)
		}
		return fail[*model.StrategicPlanningGoal](op, nil, err)
	}
	return ok(goal)
}

// Goals lists every submission in the agency, newest first.
func (s *Service) Goals(ctx context.Context, actor Actor) Result[[]model.StrategicPlanningGoal] {
	const op = "list goals"
	if err := actor.require(PermViewAnyGoal); err != nil {
		return fail[[]model.StrategicPlanningGoal](op, nil, err)
	}
	goals, err := s.store.ListGoals(ctx, s.config.Agency)
	if err != nil {
		return fail[[]model.StrategicPlanningGoal](op, nil, err)
	}
	return ok(goals)
}

// UnitGoals sums the latest goal of every member of the unit led by manager.
func (s *Service) UnitGoals(ctx context.Context, actor Actor, manager string) Result[UnitGoals] {
	const op = "unit goals"
	if err := actor.require(PermViewAnyGoal); err != nil {
		return fail(op, UnitGoals{}, err)
	}
	if err := s.requireAgency(); err != nil {
		return fail(op, UnitGoals{}, err)
	}
	unit := model.UnitName(strings.TrimSpace(manager), s.config.Agency)
	goals, err := s.store.GoalsByUnit(ctx, unit)
	if err != nil {
		return fail(op, UnitGoals{Unit: unit}, err)
	}

	result := UnitGoals{Unit: unit}
	seen := make(map[string]bool)
	for _, g := range goals {
		// Newest first, so the first submission per user is their goal.
		if seen[g.UserID] {
			continue
		}
		seen[g.UserID] = true
		result.Members = append(result.Members, g)
		result.Total.add(g)
	}
	if len(result.Members) == 0 {
		return fail(op, result, notFound("goals for unit", unit))
	}
	return ok(result)
}

func (t *GoalTotals) add(g model.StrategicPlanningGoal) {
	for i := range t.Months {
		t.Months[i] = sumFigures(t.Months[i], g.Months[i])
	}
	for i := range t.Quarters {
		t.Quarters[i] = sumFigures(t.Quarters[i], g.Quarters[i])
	}
	t.Annual = sumFigures(t.Annual, g.Annual)
}

// sumFigures adds two members' figures. Unlike GoalFigures.Add, which rolls
// periods up for one person, headcounts of different people are summed.
func sumFigures(a, b model.GoalFigures) model.GoalFigures {
	return model.GoalFigures{
		Manpower:   a.Manpower + b.Manpower,
		Recruits:   a.Recruits + b.Recruits,
		Premium:    a.Premium + b.Premium,
		Commission: a.Commission + b.Commission,
		Cases:      a.Cases + b.Cases,
	}
}
