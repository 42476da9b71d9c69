package dashboard

import (
	"fmt"

	"github.com/Veraticus/agency-pulse/internal/common"
	"github.com/Veraticus/agency-pulse/internal/model"
)

// Actor is the user performing an operation.
type Actor struct {
	UserID string
	Role   model.Role
}

// SystemActor is the local administrator used when no user is named.
var SystemActor = Actor{UserID: "local", Role: model.RoleAdmin}

// ActorFor builds the actor for a stored user.
func ActorFor(u *model.User) Actor {
	return Actor{UserID: u.ID, Role: u.Role}
}

// Permission is an action a role may be allowed to take.
type Permission string

// Permissions checked by the action layer.
const (
	PermView            Permission = "view"
	PermManageSources   Permission = "manage_sources"
	PermSync            Permission = "sync"
	PermEditTargets     Permission = "edit_targets"
	PermEditForecasts   Permission = "edit_forecasts"
	PermAdjustTargets   Permission = "adjust_targets"
	PermEditSummary     Permission = "edit_summary"
	PermManageHierarchy Permission = "manage_hierarchy"
	PermSubmitGoal      Permission = "submit_goal"
	PermViewAnyGoal     Permission = "view_any_goal"
	PermManageUsers     Permission = "manage_users"
)

var rolePermissions = map[model.Role][]Permission{
	model.RoleLeader: {PermView, PermEditForecasts, PermSubmitGoal, PermViewAnyGoal},
	model.RoleStaff:  {PermView, PermSubmitGoal},
}

// Can reports whether the actor holds a permission. Admins hold them all.
func (a Actor) Can(p Permission) bool {
	if a.Role == model.RoleAdmin {
		return true
	}
	for _, granted := range rolePermissions[a.Role] {
		if granted == p {
			return true
		}
	}
	return false
}

func (a Actor) require(p Permission) error {
	if a.Can(p) {
		return nil
	}
	role := a.Role
	if role == "" {
		role = "unknown"
	}
	return common.NewUserError(
		fmt.Sprintf("a %s may not %s", role, describe(p)),
		common.ErrPermissionDenied)
}

func describe(p Permission) string {
	switch p {
	case PermManageSources:
		return "configure sheet sources"
	case PermSync:
		return "sync sheets"
	case PermEditTargets:
		return "edit targets"
	case PermEditForecasts:
		return "edit forecasts"
	case PermAdjustTargets:
		return "adjust comparison targets"
	case PermEditSummary:
		return "edit the agency summary"
	case PermManageHierarchy:
		return "change the hierarchy"
	case PermSubmitGoal:
		return "submit goals"
	case PermViewAnyGoal:
		return "view other users' goals"
	case PermManageUsers:
		return "manage users"
	default:
		return string(p)
	}
}
