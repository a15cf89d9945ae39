package identity

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	"budgetin/internal/domain"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/errorutils"
	"google.golang.org/api/option"
)

// Firebase verifies Firebase Authentication ID tokens and reads user records
// through the Admin SDK.
type Firebase struct {
	client *auth.Client
}

// NewFirebase initialises the Admin SDK. An empty credentials file falls back
// to Application Default Credentials.
func NewFirebase(ctx context.Context, projectID, credentialsFile string) (*Firebase, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}
	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}
	return &Firebase{client: client}, nil
}

// VerifyIDToken checks signature, expiry, audience and issuer of a Firebase ID token.
func (f *Firebase) VerifyIDToken(ctx context.Context, token string) (*domain.Identity, error) {
	tok, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, classify(ctx, err)
	}
	return &domain.Identity{
		Subject:  tok.UID,
		Email:    claimString(tok.Claims, "email"),
		Name:     claimString(tok.Claims, "name"),
		PhotoURL: claimString(tok.Claims, "picture"),
	}, nil
}

// GetUser fetches the provider's current record for subject.
func (f *Firebase) GetUser(ctx context.Context, subject string) (*domain.Identity, error) {
	u, err := f.client.GetUser(ctx, subject)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, fmt.Errorf("%w: subject no longer exists", domain.ErrInvalidToken)
		}
		return nil, classify(ctx, err)
	}
	return &domain.Identity{
		Subject:  u.UID,
		Email:    u.Email,
		Name:     u.DisplayName,
		PhotoURL: u.PhotoURL,
	}, nil
}

// classify separates transport trouble from credential rejection.
func classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded),
		errorutils.IsUnavailable(err), errorutils.IsDeadlineExceeded(err):
		return fmt.Errorf("%w: %v", domain.ErrIdentityUnavailable, err)
	}
	// Public key fetches use a plain http.Client, so transport failures arrive unwrapped
	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", domain.ErrIdentityUnavailable, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
}

func claimString(claims map[string]any, key string) string {
	v, _ := claims[key].(string)
	return v
}

var _ Provider = (*Firebase)(nil)
