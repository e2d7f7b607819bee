package frontdesk

import (
	"strings"

	"hotel-frontdesk/models"
)

// Authorizer resolves a shared secret code to the role it grants.
type Authorizer interface {
	RoleForCode(code string) (models.Role, bool)
}

// Authorize returns the role for code or ErrUnauthorized.
func Authorize(a Authorizer, code string) (models.Role, error) {
	code = strings.TrimSpace(code)
	if a == nil || code == "" {
		return "", ErrUnauthorized
	}
	role, ok := a.RoleForCode(code)
	if !ok {
		return "", ErrUnauthorized
	}
	return role, nil
}
