package auth

import "github.com/golang-jwt/jwt/v5"

// Claims are the only supported JWT claims shape for this service.
// The subject registered claim carries the user id. Role is optional in the
// token and defaults to "user" on extraction; there is exactly one place
// where that default is applied (Principal below).
type Claims struct {
	jwt.RegisteredClaims

	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Principal is the resolved identity attached to a request after a
// successful verification. It lives for the duration of one request and is
// never persisted.
type Principal struct {
	UserID string
	Email  string
	Role   string
}

// Principal builds the request identity from verified claims.
func (c Claims) Principal() Principal {
	role := c.Role
	if role == "" {
		role = "user"
	}
	return Principal{
		UserID: c.Subject,
		Email:  c.Email,
		Role:   role,
	}
}
