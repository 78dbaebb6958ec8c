package auth

import (
	"context"
	"errors"
)

type ctxKey int

const ctxPrincipal ctxKey = iota

// WithPrincipal stores the resolved request identity in context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxPrincipal, p)
}

// PrincipalFrom returns the request identity set by the auth middleware.
func PrincipalFrom(ctx context.Context) (Principal, error) {
	if p, ok := ctx.Value(ctxPrincipal).(Principal); ok && p.UserID != "" {
		return p, nil
	}
	return Principal{}, errors.New("principal not in context")
}
