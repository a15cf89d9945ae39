package identity

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"budgetin/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingProvider waits for its context before answering.
type blockingProvider struct{}

func (blockingProvider) VerifyIDToken(ctx context.Context, _ string) (*domain.Identity, error) {
	<-ctx.Done()
	return nil, errors.New("transport: " + ctx.Err().Error())
}

func (blockingProvider) GetUser(ctx context.Context, _ string) (*domain.Identity, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestWithTimeoutReportsUnavailable(t *testing.T) {
	p := WithTimeout(blockingProvider{}, 20*time.Millisecond)

	_, err := p.VerifyIDToken(context.Background(), "tok")
	assert.ErrorIs(t, err, domain.ErrIdentityUnavailable)
	assert.NotErrorIs(t, err, domain.ErrInvalidToken)

	_, err = p.GetUser(context.Background(), "abc")
	assert.ErrorIs(t, err, domain.ErrIdentityUnavailable)
}

func TestWithTimeoutPassesThrough(t *testing.T) {
	l := NewLocal("secret", "iss")
	p := WithTimeout(l, time.Second)

	tok, err := l.Issue(domain.Identity{Subject: "abc", Email: "a@x.com"}, time.Hour)
	require.NoError(t, err)

	id, err := p.VerifyIDToken(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "abc", id.Subject)

	_, err = p.VerifyIDToken(context.Background(), "garbage")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = p.GetUser(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrNoDirectory)
}

func TestClassify(t *testing.T) {
	ctx := context.Background()
	assert.ErrorIs(t, classify(ctx, context.DeadlineExceeded), domain.ErrIdentityUnavailable)
	assert.ErrorIs(t, classify(ctx, errors.New("id token has expired")), domain.ErrInvalidToken)

	expired, cancel := context.WithDeadline(ctx, time.Now().Add(-time.Second))
	defer cancel()
	assert.ErrorIs(t, classify(expired, errors.New("fetch keys failed")), domain.ErrIdentityUnavailable)
}

func TestClassifyTransportFailures(t *testing.T) {
	ctx := context.Background()

	_, dialErr := http.Get("http://127.0.0.1:1/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com")
	require.Error(t, dialErr)
	assert.ErrorIs(t, classify(ctx, dialErr), domain.ErrIdentityUnavailable)

	wrapped := fmt.Errorf("failed to fetch keys: %w", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("no route to host")})
	assert.ErrorIs(t, classify(ctx, wrapped), domain.ErrIdentityUnavailable)

	assert.ErrorIs(t, classify(ctx, errors.New("invalid response; status: 500")), domain.ErrInvalidToken)
}

func TestClaimString(t *testing.T) {
	claims := map[string]any{"email": "a@x.com", "email_verified": true}
	assert.Equal(t, "a@x.com", claimString(claims, "email"))
	assert.Equal(t, "", claimString(claims, "email_verified"))
	assert.Equal(t, "", claimString(claims, "name"))
}
