package rbac

import (
	"errors"
	"fmt"

	"devsecops-platform/internal/auth"
)

// ErrInsufficientRole is returned when a resolved principal does not meet a
// route's required role.
var ErrInsufficientRole = errors.New("insufficient role")

// Policy is a required-role constraint attached to a protected operation.
// Policies are static: declared at route-registration time, never mutated.
type Policy struct {
	requiredRole string
}

// AnyAuthenticated allows any resolved principal.
func AnyAuthenticated() Policy {
	return Policy{}
}

// RequireRole requires the principal's role to satisfy r (admin covers user).
func RequireRole(r string) Policy {
	return Policy{requiredRole: r}
}

// RequiredRole exposes the constraint for error messages.
func (p Policy) RequiredRole() string { return p.requiredRole }

// Authorize checks a resolved principal against the policy. It has no side
// effects; denial is terminal for the request.
func (p Policy) Authorize(principal auth.Principal) error {
	if p.requiredRole == "" {
		return nil
	}
	if !Satisfies(principal.Role, p.requiredRole) {
		return fmt.Errorf("%w: require %s", ErrInsufficientRole, p.requiredRole)
	}
	return nil
}
