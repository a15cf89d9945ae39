package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"budgetin/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthenticator struct {
	user  *domain.User
	err   error
	calls int
	token string
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, token string) (*domain.User, error) {
	f.calls++
	f.token = token
	return f.user, f.err
}

func init() {
	gin.SetMode(gin.TestMode)
}

func gatedRouter(auth Authenticator) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/me", AccessGate(auth), func(c *gin.Context) {
		u, ok := UserFromContext(c.Request.Context())
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": u.ID})
	})
	return r
}

func TestAccessGateBindsUser(t *testing.T) {
	auth := &fakeAuthenticator{user: &domain.User{ID: 7}}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer tok-123")
	gatedRouter(auth).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7}`, w.Body.String())
	assert.Equal(t, "tok-123", auth.token)
}

func TestAccessGateRejectsMissingToken(t *testing.T) {
	for _, header := range []string{"", "Basic abc", "Bearer", "Bearer   "} {
		auth := &fakeAuthenticator{user: &domain.User{ID: 1}}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		gatedRouter(auth).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
		assert.Zero(t, auth.calls, "header %q", header)
	}
}

func TestAccessGateMapsFailures(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: token is expired", domain.ErrInvalidToken), http.StatusUnauthorized},
		{domain.ErrIdentityUnavailable, http.StatusServiceUnavailable},
		{domain.ErrEmailTaken, http.StatusConflict},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer x")
		gatedRouter(&fakeAuthenticator{err: tc.err}).ServeHTTP(w, req)

		assert.Equal(t, tc.status, w.Code, tc.err.Error())
		assert.NotContains(t, w.Body.String(), tc.err.Error())
	}
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))
}

func TestUserFromContext(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithUser(context.Background(), &domain.User{ID: 3})
	u, ok := UserFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, uint(3), u.ID)

	_, ok = UserFromContext(WithUser(context.Background(), nil))
	assert.False(t, ok)
}
