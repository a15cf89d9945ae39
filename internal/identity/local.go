package identity

import (
	"context" // Provider signature
	"fmt"     // Error wrapping
	"time"    // Time for token expiration

	"budgetin/internal/domain" // Importing domain models

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// Claims carried by locally issued ID tokens
type Claims struct {
	Email                string `json:"email"`             // Subject email
	Name                 string `json:"name,omitempty"`    // Display name
	Picture              string `json:"picture,omitempty"` // Avatar URL
	jwt.RegisteredClaims        // Standard JWT claims, Subject is the user id
}

// Local issues and verifies HS256 ID tokens shaped like the provider's, for
// development and tests
type Local struct {
	secret []byte // HMAC key
	issuer string // Expected iss claim
}

// NewLocal creates a local token issuer
func NewLocal(secret, issuer string) *Local {
	return &Local{secret: []byte(secret), issuer: issuer}
}

// Issue creates a signed ID token for the given identity
func (l *Local) Issue(id domain.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	// Set token claims
	claims := Claims{
		Email:   id.Email,
		Name:    id.Name,
		Picture: id.PhotoURL,
		// Standard claims
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Subject,                       // Provider subject id
			Issuer:    l.issuer,                         // Who minted it
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)), // Token expiry
			IssuedAt:  jwt.NewNumericDate(now),          // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString(l.secret)                        // Sign the token with the secret
}

// VerifyIDToken parses and validates a locally issued token
func (l *Local) VerifyIDToken(_ context.Context, tokenStr string) (*domain.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return l.secret, nil // Return the secret key for validation
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), // Refuse alg switching
		jwt.WithIssuer(l.issuer),
		jwt.WithExpirationRequired(),
	)
	// Check for parsing errors
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, jwt.ErrSignatureInvalid)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrInvalidToken)
	}
	return &domain.Identity{
		Subject:  claims.Subject,
		Email:    claims.Email,
		Name:     claims.Name,
		PhotoURL: claims.Picture,
	}, nil
}

// GetUser reports ErrNoDirectory: the signed claims are the only record of a
// locally issued identity
func (l *Local) GetUser(context.Context, string) (*domain.Identity, error) {
	return nil, ErrNoDirectory
}

var _ Provider = (*Local)(nil)
