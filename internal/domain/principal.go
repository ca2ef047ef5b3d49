package domain

import (
	"errors"
	"fmt"
)

// ErrNotAuthorized is returned when a principal's role does not permit an action.
var ErrNotAuthorized = errors.New("not authorized")

// Principal is the acting user of a command.
type Principal struct {
	UserID string
	Role   Role
}

// IsAdmin reports whether the principal has an administrative role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin || p.Role == RoleSuperAdmin
}

// Require fails unless the principal holds one of roles. Admins always pass.
func (p Principal) Require(roles ...Role) error {
	if p.UserID == "" {
		return fmt.Errorf("anonymous principal: %w", ErrNotAuthorized)
	}
	if p.IsAdmin() {
		return nil
	}
	for _, r := range roles {
		if p.Role == r {
			return nil
		}
	}
	return fmt.Errorf("role %q: %w", p.Role, ErrNotAuthorized)
}
