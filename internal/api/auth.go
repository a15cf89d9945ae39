package api

import (
	"net/http" // HTTP status codes

	"budgetin/internal/directory"  // User directory
	"budgetin/internal/domain"     // Importing domain models
	"budgetin/internal/middleware" // Principal helpers

	"github.com/gin-gonic/gin" // Gin web framework
)

// SyncUserRequest carries the ID token obtained by the client at sign-in
type SyncUserRequest struct {
	Token string `json:"token" binding:"required,notblank"` // Provider ID token
}

// SyncUserResponse is returned after a successful sync
type SyncUserResponse struct {
	Message string       `json:"message"` // Human readable outcome
	User    *domain.User `json:"user"`    // The local user record
}

// SyncUserHandler creates or refreshes the local user behind an ID token
func SyncUserHandler(dir *directory.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SyncUserRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		user, err := dir.Sync(c.Request.Context(), req.Token)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, SyncUserResponse{Message: "User synced successfully", User: user})
	}
}

// CurrentUserHandler returns the authenticated user
func CurrentUserHandler() gin.HandlerFunc {
	return authed(func(c *gin.Context, user *domain.User) {
		c.JSON(http.StatusOK, user)
	})
}

// authed hands the principal bound by the Access Gate to h
func authed(h func(c *gin.Context, user *domain.User)) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.UserFromContext(c.Request.Context())
		if !ok {
			respondError(c, domain.ErrUnauthenticated)
			return
		}
		h(c, user)
	}
}
