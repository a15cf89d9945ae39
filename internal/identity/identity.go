// Package identity verifies externally issued ID tokens and looks up the
// provider's canonical profile for a subject.
package identity

import (
	"context"
	"errors"

	"budgetin/internal/domain"
)

// ErrNoDirectory is returned by providers that have no user directory to
// query. Callers fall back to the verified token claims.
var ErrNoDirectory = errors.New("identity provider has no user directory")

// Provider is the identity verifier the rest of the service depends on.
//
// VerifyIDToken failures wrap domain.ErrInvalidToken or
// domain.ErrIdentityUnavailable so callers can tell a bad credential from an
// unreachable provider.
type Provider interface {
	VerifyIDToken(ctx context.Context, token string) (*domain.Identity, error)
	GetUser(ctx context.Context, subject string) (*domain.Identity, error)
}
