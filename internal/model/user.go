package model

import (
	"fmt"
	"time"
)

// Role controls which edits a user may make.
type Role string

// Roles.
const (
	RoleAdmin  Role = "admin"
	RoleLeader Role = "leader"
	RoleStaff  Role = "staff"
)

// ParseRole validates a role name.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleLeader, RoleStaff:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User is a person signed in through the external identity provider.
type User struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Agency    string    `json:"agency"`
	Rank      Rank      `json:"rank"`
	Role      Role      `json:"role"`
}
