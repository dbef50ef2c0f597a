package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-admin/internal/auth"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
)

func loginToken(t *testing.T, svc *auth.Service, email string) string {
	t.Helper()
	session, err := svc.Login(context.Background(), email, "password123")
	require.NoError(t, err)
	return session.Token.Value
}

func bearerRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestBearerToken(t *testing.T) {
	cases := map[string]struct {
		header string
		token  string
		ok     bool
	}{
		"missing":      {"", "", false},
		"bearer":       {"Bearer abc.def.ghi", "abc.def.ghi", true},
		"lowercase":    {"bearer abc", "abc", true},
		"basic":        {"Basic dXNlcjpwYXNz", "", false},
		"empty token":  {"Bearer   ", "", false},
		"no separator": {"Bearerabc", "", false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			token, ok := auth.BearerToken(req)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.token, token)
		})
	}
}

func TestVerifyMissingToken(t *testing.T) {
	clock := newFakeClock()
	verifier := auth.NewVerifier(newTokens(t, clock), seededStore(t))

	_, err := verifier.Verify(bearerRequest(""))
	assert.ErrorIs(t, err, rbac.ErrMissingToken)
}

func TestVerifyIsIdempotent(t *testing.T) {
	clock := newFakeClock()
	store := seededStore(t)
	tokens := newTokens(t, clock)
	svc := auth.NewService(store, store, testHasher, tokens)
	verifier := auth.NewVerifier(tokens, store)
	token := loginToken(t, svc, "admin@test.com")

	first, err := verifier.Verify(bearerRequest(token))
	require.NoError(t, err)
	clock.Advance(time.Hour)
	second, err := verifier.Verify(bearerRequest(token))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first.PermissionNames(), second.PermissionNames())
}

func TestVerifyReadsStoreOnEveryCall(t *testing.T) {
	clock := newFakeClock()
	store := seededStore(t)
	tokens := newTokens(t, clock)
	svc := auth.NewService(store, store, testHasher, tokens)
	verifier := auth.NewVerifier(tokens, store)
	token := loginToken(t, svc, "admin@test.com")

	before := store.lookups
	for i := 0; i < 3; i++ {
		_, err := verifier.Verify(bearerRequest(token))
		require.NoError(t, err)
	}
	assert.Equal(t, before+3, store.lookups)
}

func TestRevocationTakesEffectOnNextRequest(t *testing.T) {
	clock := newFakeClock()
	store := seededStore(t)
	tokens := newTokens(t, clock)
	svc := auth.NewService(store, store, testHasher, tokens)
	verifier := auth.NewVerifier(tokens, store)
	token := loginToken(t, svc, "viewer@test.com")

	claims, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Contains(t, claims.Permissions, rbac.PermReadProducts)

	principal, err := verifier.Verify(bearerRequest(token))
	require.NoError(t, err)
	assert.Equal(t, rbac.Allow, rbac.Authorize(principal, rbac.PermReadProducts))

	store.setRolePermissions("role-viewer")

	principal, err = verifier.Verify(bearerRequest(token))
	require.NoError(t, err)
	assert.Equal(t, rbac.Deny, rbac.Authorize(principal, rbac.PermReadProducts))
}

func TestGrantTakesEffectOnNextRequest(t *testing.T) {
	clock := newFakeClock()
	store := seededStore(t)
	tokens := newTokens(t, clock)
	svc := auth.NewService(store, store, testHasher, tokens)
	verifier := auth.NewVerifier(tokens, store)
	token := loginToken(t, svc, "user@test.com")

	principal, err := verifier.Verify(bearerRequest(token))
	require.NoError(t, err)
	assert.Equal(t, rbac.Deny, rbac.Authorize(principal, rbac.PermViewReports))

	store.setRolePermissions("role-user", rbac.PermReadUsers, rbac.PermViewReports)

	principal, err = verifier.Verify(bearerRequest(token))
	require.NoError(t, err)
	assert.Equal(t, rbac.Allow, rbac.Authorize(principal, rbac.PermViewReports))
}

func TestVerifyDeletedPrincipal(t *testing.T) {
	clock := newFakeClock()
	store := seededStore(t)
	tokens := newTokens(t, clock)
	svc := auth.NewService(store, store, testHasher, tokens)
	verifier := auth.NewVerifier(tokens, store)
	token := loginToken(t, svc, "user@test.com")

	store.deleteUser("user")

	_, err := verifier.Verify(bearerRequest(token))
	assert.ErrorIs(t, err, rbac.ErrPrincipalNotFound)
}

func TestVerifyExpiredToken(t *testing.T) {
	clock := newFakeClock()
	store := seededStore(t)
	tokens := newTokens(t, clock)
	svc := auth.NewService(store, store, testHasher, tokens)
	verifier := auth.NewVerifier(tokens, store)
	token := loginToken(t, svc, "user@test.com")

	clock.Advance(auth.DefaultTokenTTL)
	lookups := store.lookups

	_, err := verifier.Verify(bearerRequest(token))
	assert.ErrorIs(t, err, rbac.ErrExpired)
	assert.Equal(t, lookups, store.lookups)
}
