package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planora/backend/internal/identity"
	"github.com/planora/backend/internal/middleware"
)

func TestIdentityResolver_ValidToken(t *testing.T) {
	resolver := identity.NewResolver("test-key", "planora-identity", "planora-api")
	userID := uuid.New()
	token, err := resolver.Mint(userID, time.Hour)
	require.NoError(t, err)

	var resolved uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := identity.FromContext(r.Context())
		got, ok := id.UserID()
		require.True(t, ok, "handler must see the authenticated identity")
		resolved = got
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	middleware.NewIdentityResolver(resolver)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, resolved)
}

func TestIdentityResolver_NoCredentialIsAnonymous(t *testing.T) {
	resolver := identity.NewResolver("test-key", "planora-identity", "planora-api")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, identity.FromContext(r.Context()).IsAnonymous())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	rec := httptest.NewRecorder()
	middleware.NewIdentityResolver(resolver)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIdentityResolver_InvalidTokenIs401(t *testing.T) {
	resolver := identity.NewResolver("test-key", "planora-identity", "planora-api")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for invalid credentials")
	})

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	middleware.NewIdentityResolver(resolver)(next).ServeHTTP(rec, req)

	// Invalid credentials are rejected, not downgraded to anonymous.
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"unauthorized","message":"invalid credentials"}}`, rec.Body.String())
}
