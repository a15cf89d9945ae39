package api

import (
	"errors"   // Error classification
	"net/http" // HTTP status codes

	"budgetin/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// respondError maps a domain error to a status and a message safe to return
func respondError(c *gin.Context, err error) {
	status, msg := http.StatusInternalServerError, "Internal server error"
	switch {
	case errors.Is(err, domain.ErrValidation):
		status, msg = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrUnauthenticated):
		status, msg = http.StatusUnauthorized, "Missing or invalid Authorization header"
	case errors.Is(err, domain.ErrInvalidToken):
		status, msg = http.StatusUnauthorized, "Invalid or expired token"
	case errors.Is(err, domain.ErrIdentityUnavailable):
		status, msg = http.StatusServiceUnavailable, "Identity provider unavailable"
	case errors.Is(err, domain.ErrWalletNotFound):
		status, msg = http.StatusNotFound, "Wallet not found"
	case errors.Is(err, domain.ErrTransactionNotFound):
		status, msg = http.StatusNotFound, "Transaction not found"
	case errors.Is(err, domain.ErrUserNotFound):
		status, msg = http.StatusNotFound, "User not found"
	case errors.Is(err, domain.ErrEmailTaken):
		status, msg = http.StatusConflict, "Email already in use"
	}
	entry := logrus.WithFields(logrus.Fields{
		"path":   c.Request.URL.Path,
		"status": status,
		"error":  err.Error(),
	})
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Debug("Request refused")
	}
	c.JSON(status, gin.H{"error": msg})
}
