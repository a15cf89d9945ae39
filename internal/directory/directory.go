// Package directory bridges verified provider identities to local users.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"budgetin/internal/domain"
	"budgetin/internal/identity"

	"github.com/sirupsen/logrus"
)

// UserStore is the persistence the directory needs.
type UserStore interface {
	FindByFirebaseUID(ctx context.Context, uid string) (*domain.User, error)
	Upsert(ctx context.Context, id domain.Identity) (*domain.User, error)
}

// Directory resolves ID tokens to local users.
type Directory struct {
	provider identity.Provider
	users    UserStore
}

// New creates a Directory.
func New(provider identity.Provider, users UserStore) *Directory {
	return &Directory{provider: provider, users: users}
}

// Sync verifies token, reads the subject's canonical profile from the
// provider and creates or refreshes the matching local user.
func (d *Directory) Sync(ctx context.Context, token string) (*domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", domain.ErrValidation)
	}
	claims, err := d.provider.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, err
	}
	profile, err := d.provider.GetUser(ctx, claims.Subject)
	switch {
	case errors.Is(err, identity.ErrNoDirectory):
		profile = claims // Local verifier has no user lookup
	case err != nil:
		return nil, err
	}
	profile.Subject = claims.Subject // Token subject is authoritative
	if profile.Email == "" {
		return nil, fmt.Errorf("%w: identity has no email address", domain.ErrValidation)
	}
	u, err := d.users.Upsert(ctx, *profile)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":      u.ID,
		"firebase_uid": claims.Subject,
	}).Info("User synced")
	return u, nil
}

// Authenticate verifies token and returns the local user it belongs to.
// A verified subject with no local record is provisioned from the token
// claims; an existing record is refreshed only when the claims changed.
func (d *Directory) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := d.provider.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, err
	}
	u, err := d.users.FindByFirebaseUID(ctx, claims.Subject)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		if claims.Email == "" {
			return nil, fmt.Errorf("%w: token carries no email address", domain.ErrInvalidToken)
		}
		u, err = d.users.Upsert(ctx, *claims)
		if err != nil {
			return nil, err
		}
		logrus.WithFields(logrus.Fields{"user_id": u.ID, "firebase_uid": claims.Subject}).Info("User provisioned on first request")
		return u, nil
	case err != nil:
		return nil, err
	}
	if claims.Email == "" || !claims.Differs(u) {
		return u, nil // Stored record is current
	}
	refreshed, err := d.users.Upsert(ctx, *claims)
	if errors.Is(err, domain.ErrEmailTaken) {
		// The refresh is best effort; the verified principal still proceeds
		logrus.WithFields(logrus.Fields{
			"user_id":      u.ID,
			"firebase_uid": claims.Subject,
		}).Warn("Claims refresh skipped: email held by another account")
		return u, nil
	}
	if err != nil {
		return nil, err
	}
	return refreshed, nil
}
