package middleware

import (
	"context"  // Context passed to the authenticator
	"errors"   // Error classification
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"budgetin/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Authenticator resolves a bearer token to a local user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// AccessGate verifies the bearer token on every request and binds the
// resolved user to the request context
func AccessGate(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenStr, ok := bearerToken(authHeader)
		if !ok {
			logrus.WithFields(logrus.Fields{
				"path":   c.Request.URL.Path,
				"reason": domain.ErrUnauthenticated.Error(),
			}).Warn("Authentication failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		user, err := auth.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			status, msg := gateFailure(err)
			logrus.WithFields(logrus.Fields{
				"path":   c.Request.URL.Path,
				"status": status,
				"reason": err.Error(),
			}).Warn("Authentication failed")
			c.AbortWithStatusJSON(status, gin.H{"error": msg})
			return
		}
		c.Request = c.Request.WithContext(WithUser(c.Request.Context(), user)) // Bind principal
		c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// gateFailure maps an authentication error to a status and a generic message
func gateFailure(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, "Invalid or expired token"
	case errors.Is(err, domain.ErrIdentityUnavailable):
		return http.StatusServiceUnavailable, "Identity provider unavailable"
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, "Email already in use"
	default:
		return http.StatusInternalServerError, "Authentication failed"
	}
}
