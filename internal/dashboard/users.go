package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/agency-pulse/internal/common"
	"github.com/Veraticus/agency-pulse/internal/model"
)

// RegisterUser creates or updates a user. Anyone may register themselves as
// staff; other registrations need an admin.
func (s *Service) RegisterUser(ctx context.Context, actor Actor, user model.User) Result[model.User] {
	const op = "register user"
	if user.Role == "" {
		user.Role = model.RoleStaff
	}
	self := user.ID == actor.UserID && user.Role == model.RoleStaff
	if !self {
		if err := actor.require(PermManageUsers); err != nil {
			return fail(op, user, err)
		}
	}
	if strings.TrimSpace(user.ID) == "" || strings.TrimSpace(user.Name) == "" {
		return fail(op, user, fmt.Errorf("%w: a user needs an id and a name", common.ErrInvalidInput))
	}
	if user.Agency == "" {
		user.Agency = s.config.Agency
	}
	if err := s.store.SaveUser(ctx, &user); err != nil {
		return fail(op, user, err)
	}
	return ok(user)
}

// GetUser returns a user by identity id.
func (s *Service) GetUser(ctx context.Context, actor Actor, id string) Result[*model.User] {
	const op = "get user"
	perm := PermManageUsers
	if id == actor.UserID {
		perm = PermView
	}
	if err := actor.require(perm); err != nil {
		return fail[*model.User](op, nil, err)
	}
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return fail[*model.User](op, nil, err)
	}
	return ok(user)
}

// Users lists the agency's users.
func (s *Service) Users(ctx context.Context, actor Actor) Result[[]model.User] {
	if err := actor.require(PermManageUsers); err != nil {
		return fail[[]model.User]("list users", nil, err)
	}
	users, err := s.store.ListUsers(ctx, s.config.Agency)
	if err != nil {
		return fail[[]model.User]("list users", nil, err)
	}
	return ok(users)
}
