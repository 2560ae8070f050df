package actor

import (
	"errors"
	"strings"
)

var ErrUnknownRole = errors.New("actor: unknown role")

type ID string

// Role is the closed set of platform roles. Authorization decisions take the
// role plus the actor's relationship to a resource, never ad-hoc strings.
type Role string

const (
	RoleTenant    Role = "tenant"
	RoleLandlord  Role = "landlord"
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleSales     Role = "sales"
)

// ParseRole maps an externally supplied role name onto the closed set.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleTenant:
		return RoleTenant, nil
	case RoleLandlord:
		return RoleLandlord, nil
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleModerator:
		return RoleModerator, nil
	case RoleSales:
		return RoleSales, nil
	default:
		return "", ErrUnknownRole
	}
}

// Actor is an authenticated identity attached to a request by the identity
// collaborator. The core never verifies credentials itself.
type Actor struct {
	ID   ID
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
