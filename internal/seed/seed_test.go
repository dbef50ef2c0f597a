package seed

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/odyssey-erp/odyssey-admin/internal/auth"
	"github.com/odyssey-erp/odyssey-admin/internal/products"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
	"github.com/odyssey-erp/odyssey-admin/internal/users"
)

type fakeRoles struct {
	perms map[string]bson.ObjectID
	roles map[string]bson.ObjectID
	sets  map[string][]bson.ObjectID
}

func newFakeRoles() *fakeRoles {
	return &fakeRoles{
		perms: map[string]bson.ObjectID{},
		roles: map[string]bson.ObjectID{},
		sets:  map[string][]bson.ObjectID{},
	}
}

func (f *fakeRoles) EnsurePermissions(_ context.Context, names []string) error {
	for _, n := range names {
		if _, ok := f.perms[n]; !ok {
			f.perms[n] = bson.NewObjectID()
		}
	}
	return nil
}

func (f *fakeRoles) PermissionIDs(_ context.Context, names []string) ([]bson.ObjectID, error) {
	var ids []bson.ObjectID
	for _, n := range names {
		if id, ok := f.perms[n]; ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeRoles) UpsertRole(_ context.Context, name string, perms []bson.ObjectID) (bson.ObjectID, error) {
	if id, ok := f.roles[name]; ok {
		return id, nil
	}
	id := bson.NewObjectID()
	f.roles[name] = id
	f.sets[name] = perms
	return id, nil
}

func (f *fakeRoles) permNames(role string) []string {
	var names []string
	for _, id := range f.sets[role] {
		for n, pid := range f.perms {
			if pid == id {
				names = append(names, n)
			}
		}
	}
	sort.Strings(names)
	return names
}

type fakeUsers struct {
	byEmail map[string]users.Record
}

func (f *fakeUsers) UpsertByEmail(_ context.Context, rec users.Record) (bool, error) {
	if _, ok := f.byEmail[rec.Email]; ok {
		return false, nil
	}
	rec.ID = bson.NewObjectID()
	f.byEmail[rec.Email] = rec
	return true, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (users.Record, error) {
	rec, ok := f.byEmail[email]
	if !ok {
		return users.Record{}, users.ErrUserNotFound
	}
	return rec, nil
}

type fakeProducts struct {
	items []products.Record
}

func (f *fakeProducts) Count(context.Context) (int64, error) {
	return int64(len(f.items)), nil
}

func (f *fakeProducts) Insert(_ context.Context, rec products.Record) (products.Record, error) {
	rec.ID = bson.NewObjectID()
	f.items = append(f.items, rec)
	return rec, nil
}

func newSeeder() (*Seeder, *fakeRoles, *fakeUsers, *fakeProducts) {
	roles := newFakeRoles()
	accts := &fakeUsers{byEmail: map[string]users.Record{}}
	catalog := &fakeProducts{}
	s := New(roles, accts, catalog, auth.BcryptHasher{Cost: bcrypt.MinCost}, rbac.DefaultRegistry(), nil)
	return s, roles, accts, catalog
}

func TestRunProvisionsReferenceData(t *testing.T) {
	s, roles, accts, catalog := newSeeder()

	sum, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, sum.Permissions)
	assert.Equal(t, 5, sum.Roles)
	assert.Equal(t, 3, sum.AccountsCreated)
	assert.Equal(t, len(SampleProducts), sum.Products)

	assert.Len(t, roles.permNames("admin"), 10)
	assert.Equal(t, []string{rbac.PermReadUsers}, roles.permNames("user"))
	assert.Equal(t, []string{rbac.PermReadProducts, rbac.PermUpdateProducts}, roles.permNames("editor"))
	assert.Equal(t, []string{rbac.PermReadProducts, rbac.PermReadUsers}, roles.permNames("viewer"))
	assert.ElementsMatch(t, []string{rbac.PermReadUsers, rbac.PermCreateUsers, rbac.PermUpdateUsers, rbac.PermReadProducts}, roles.permNames("manager"))

	admin := accts.byEmail["admin@test.com"]
	assert.Equal(t, []bson.ObjectID{roles.roles["admin"]}, admin.Roles)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(DefaultPassword)))

	for _, p := range catalog.items {
		assert.Equal(t, admin.ID, p.CreatedBy)
		assert.Equal(t, products.StatusActive, p.Status)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	s, roles, accts, catalog := newSeeder()
	_, err := s.Run(context.Background())
	require.NoError(t, err)
	adminRole := roles.roles["admin"]
	adminHash := accts.byEmail["admin@test.com"].Password

	sum, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sum.AccountsCreated)
	assert.Zero(t, sum.Products)
	assert.Len(t, catalog.items, len(SampleProducts))
	assert.Equal(t, adminRole, roles.roles["admin"])
	assert.Equal(t, adminHash, accts.byEmail["admin@test.com"].Password)
}

func TestRunKeepsEditedRolePermissions(t *testing.T) {
	s, roles, _, _ := newSeeder()
	_, err := s.Run(context.Background())
	require.NoError(t, err)

	roles.sets["manager"] = []bson.ObjectID{roles.perms[rbac.PermReadProducts]}

	_, err = s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{rbac.PermReadProducts}, roles.permNames("manager"))
}

func TestRunWithoutCatalog(t *testing.T) {
	roles := newFakeRoles()
	accts := &fakeUsers{byEmail: map[string]users.Record{}}
	s := New(roles, accts, nil, auth.BcryptHasher{Cost: bcrypt.MinCost}, rbac.DefaultRegistry(), nil)

	sum, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sum.Products)
	assert.Len(t, accts.byEmail, 3)
}
