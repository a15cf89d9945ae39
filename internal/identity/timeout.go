package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"budgetin/internal/domain"
)

type timeoutProvider struct {
	next    Provider
	timeout time.Duration
}

// WithTimeout bounds every provider call by d. A call that runs out of time
// fails with domain.ErrIdentityUnavailable instead of domain.ErrInvalidToken.
func WithTimeout(next Provider, d time.Duration) Provider {
	return &timeoutProvider{next: next, timeout: d}
}

func (p *timeoutProvider) VerifyIDToken(ctx context.Context, token string) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout) // Caller deadline still applies when shorter
	defer cancel()
	id, err := p.next.VerifyIDToken(ctx, token)
	return id, p.wrap(ctx, err)
}

func (p *timeoutProvider) GetUser(ctx context.Context, subject string) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	id, err := p.next.GetUser(ctx, subject)
	return id, p.wrap(ctx, err)
}

func (p *timeoutProvider) wrap(ctx context.Context, err error) error {
	if err == nil || errors.Is(err, domain.ErrIdentityUnavailable) {
		return err // Already classified
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: no answer within %s", domain.ErrIdentityUnavailable, p.timeout)
	}
	return err
}
