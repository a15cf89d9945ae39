package identity

import (
	"context"
	"testing"
	"time"

	"budgetin/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalIssueAndVerify(t *testing.T) {
	l := NewLocal("secret", "budgetin-local")
	tok, err := l.Issue(domain.Identity{Subject: "abc123", Email: "a@x.com", Name: "Ann", PhotoURL: "https://img/a.png"}, time.Hour)
	require.NoError(t, err)

	id, err := l.VerifyIDToken(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{Subject: "abc123", Email: "a@x.com", Name: "Ann", PhotoURL: "https://img/a.png"}, *id)
}

func TestLocalRejectsBadTokens(t *testing.T) {
	l := NewLocal("secret", "budgetin-local")
	ctx := context.Background()

	expired, err := l.Issue(domain.Identity{Subject: "abc"}, -time.Minute)
	require.NoError(t, err)

	otherKey, err := NewLocal("other", "budgetin-local").Issue(domain.Identity{Subject: "abc"}, time.Hour)
	require.NoError(t, err)

	otherIssuer, err := NewLocal("secret", "someone-else").Issue(domain.Identity{Subject: "abc"}, time.Hour)
	require.NoError(t, err)

	noSubject, err := l.Issue(domain.Identity{Email: "a@x.com"}, time.Hour)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "abc", Issuer: "budgetin-local", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"expired":      expired,
		"wrong key":    otherKey,
		"wrong issuer": otherIssuer,
		"no subject":   noSubject,
		"alg none":     unsigned,
		"garbage":      "not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := l.VerifyIDToken(ctx, tok)
			assert.ErrorIs(t, err, domain.ErrInvalidToken)
		})
	}
}

func TestLocalHasNoDirectory(t *testing.T) {
	_, err := NewLocal("secret", "iss").GetUser(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrNoDirectory)
}
