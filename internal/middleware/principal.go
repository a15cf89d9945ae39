// Package middleware holds the gin middleware shared by every route: the
// Access Gate that authenticates requests and the request logger.
package middleware

import (
	"context"

	"budgetin/internal/domain"
)

type principalKey struct{}

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, principalKey{}, u)
}

// UserFromContext returns the user bound by AccessGate, if any.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(principalKey{}).(*domain.User)
	return u, ok && u != nil
}
