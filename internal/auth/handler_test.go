package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-admin/internal/auth"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
)

func newAuthRouter(t *testing.T, store *memoryStore) http.Handler {
	t.Helper()
	tokens := newTokens(t, newFakeClock())
	svc := auth.NewService(store, store, testHasher, tokens)
	gate, err := rbac.NewGate(auth.NewVerifier(tokens, store), rbac.DefaultRouteTable(), rbac.DefaultRegistry(), nil)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Route("/api/auth", auth.NewHandler(nil, svc, gate).MountRoutes)
	return r
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)
	return res
}

func TestLoginEndpoint(t *testing.T) {
	router := newAuthRouter(t, seededStore(t))

	res := postJSON(t, router, "/api/auth/login", `{"email":"admin@test.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, res.Code)

	var body struct {
		Token string `json:"token"`
		User  struct {
			Email       string   `json:"email"`
			Roles       []string `json:"roles"`
			Permissions []string `json:"permissions"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, "admin@test.com", body.User.Email)
	assert.Equal(t, []string{"admin"}, body.User.Roles)
	assert.Len(t, body.User.Permissions, 10)
}

func TestLoginEndpointFailures(t *testing.T) {
	router := newAuthRouter(t, seededStore(t))

	res := postJSON(t, router, "/api/auth/login", `{"email":"admin@test.com","password":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "Wrong password")
	assert.NotContains(t, res.Body.String(), "token")

	res = postJSON(t, router, "/api/auth/login", `{"email":"ghost@test.com","password":"password123"}`)
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Contains(t, res.Body.String(), "User not found")

	res = postJSON(t, router, "/api/auth/login", `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "Validation failed")

	res = postJSON(t, router, "/api/auth/login", `{`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestRegisterThenMe(t *testing.T) {
	router := newAuthRouter(t, newMemoryStore())

	res := postJSON(t, router, "/api/auth/register", `{"username":"neo","email":"neo@test.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, res.Code)

	res = postJSON(t, router, "/api/auth/login", `{"email":"neo@test.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, res.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &login))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	me := httptest.NewRecorder()
	router.ServeHTTP(me, req)

	require.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), `"email":"neo@test.com"`)
	assert.Contains(t, me.Body.String(), `"permissions":[]`)
}

func TestMeRequiresToken(t *testing.T) {
	router := newAuthRouter(t, seededStore(t))

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Contains(t, res.Body.String(), "No token provided")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	res = httptest.NewRecorder()
	router.ServeHTTP(res, req)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Contains(t, res.Body.String(), "Invalid token")
}
