package auth_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/odyssey-erp/odyssey-admin/internal/auth"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
	_ "github.com/odyssey-erp/odyssey-admin/testing"
)

const testSecret = "test-secret"

var testHasher = auth.BcryptHasher{Cost: bcrypt.MinCost}

type storedUser struct {
	id       string
	email    string
	username string
	hash     string
	roles    []string
}

// memoryStore resolves roles and permissions on every lookup, like the Mongo store.
type memoryStore struct {
	mu      sync.Mutex
	users   map[string]*storedUser
	roles   map[string]*rbac.Role
	lookups int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: map[string]*storedUser{}, roles: map[string]*rbac.Role{}}
}

func (m *memoryStore) addRole(id, name string, perms ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := &rbac.Role{ID: id, Name: name}
	for _, p := range perms {
		r.Permissions = append(r.Permissions, rbac.Permission{ID: "perm-" + p, Name: p})
	}
	m.roles[id] = r
}

func (m *memoryStore) setRolePermissions(id string, perms ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.roles[id]
	r.Permissions = nil
	for _, p := range perms {
		r.Permissions = append(r.Permissions, rbac.Permission{ID: "perm-" + p, Name: p})
	}
}

func (m *memoryStore) addUser(t *testing.T, id, email, password string, roles ...string) {
	t.Helper()
	hash, err := testHasher.Hash(password)
	require.NoError(t, err)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id] = &storedUser{id: id, email: email, username: strings.Split(email, "@")[0], hash: hash, roles: roles}
}

func (m *memoryStore) deleteUser(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
}

func (m *memoryStore) resolve(u *storedUser) auth.Account {
	p := rbac.Principal{ID: u.id, Email: u.email, Username: u.username}
	for _, id := range u.roles {
		if r, ok := m.roles[id]; ok {
			copied := *r
			copied.Permissions = append([]rbac.Permission(nil), r.Permissions...)
			p.Roles = append(p.Roles, copied)
		}
	}
	return auth.Account{Principal: p, PasswordHash: u.hash}
}

func (m *memoryStore) FindAccountByEmail(ctx context.Context, email string) (auth.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	for _, u := range m.users {
		if strings.EqualFold(u.email, email) {
			return m.resolve(u), nil
		}
	}
	return auth.Account{}, rbac.ErrPrincipalNotFound
}

func (m *memoryStore) FindAccountByID(ctx context.Context, id string) (auth.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	u, ok := m.users[id]
	if !ok {
		return auth.Account{}, rbac.ErrPrincipalNotFound
	}
	return m.resolve(u), nil
}

func (m *memoryStore) Register(ctx context.Context, username, email, hash string) (rbac.Principal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := "u" + string(rune('a'+len(m.users)))
	m.users[id] = &storedUser{id: id, email: email, username: username, hash: hash}
	return rbac.Principal{ID: id, Email: email, Username: username}, nil
}

// seededStore mirrors the reference seed: admin holds every permission, user only read_users.
func seededStore(t *testing.T) *memoryStore {
	t.Helper()
	store := newMemoryStore()
	store.addRole("role-admin", "admin", rbac.DefaultRegistry().Names()...)
	store.addRole("role-user", "user", rbac.PermReadUsers)
	store.addRole("role-viewer", "viewer", rbac.PermReadProducts)
	store.addUser(t, "admin", "admin@test.com", "password123", "role-admin")
	store.addUser(t, "user", "user@test.com", "password123", "role-user")
	store.addUser(t, "viewer", "viewer@test.com", "password123", "role-viewer")
	return store
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTokens(t *testing.T, clock *fakeClock) *auth.Tokens {
	t.Helper()
	tokens, err := auth.NewTokens(testSecret, auth.DefaultTokenTTL, auth.WithClock(clock.Now), auth.WithIssuer("odyssey-admin"))
	require.NoError(t, err)
	return tokens
}
