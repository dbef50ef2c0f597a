package roles

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/odyssey-erp/odyssey-admin/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
)

func TestCreateRoleResolvesPermissions(t *testing.T) {
	repo := newFakeRepo(rbac.PermReadProducts, rbac.PermReadUsers)
	svc := NewService(repo)
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, RoleInput{
		Name:        "  auditor ",
		Permissions: []string{repo.permissionID(rbac.PermReadUsers).Hex(), repo.permissionID(rbac.PermReadProducts).Hex()},
	})
	require.NoError(t, err)
	assert.Equal(t, "auditor", role.Name)
	assert.Equal(t, []string{rbac.PermReadProducts, rbac.PermReadUsers}, role.PermissionNames())

	_, err = svc.CreateRole(ctx, RoleInput{Name: "auditor"})
	assert.ErrorIs(t, err, ErrRoleExists)
	assert.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestCreateRoleRejectsUnknownPermission(t *testing.T) {
	repo := newFakeRepo(rbac.PermReadUsers)
	svc := NewService(repo)

	_, err := svc.CreateRole(context.Background(), RoleInput{Name: "ghost", Permissions: []string{bson.NewObjectID().Hex()}})
	assert.ErrorIs(t, err, ErrUnknownPermission)

	_, err = svc.CreateRole(context.Background(), RoleInput{Name: "ghost", Permissions: []string{"not-an-id"}})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdateRoleToEmptySet(t *testing.T) {
	repo := newFakeRepo(rbac.PermReadUsers)
	svc := NewService(repo)
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, RoleInput{Name: "user", Permissions: []string{repo.permissionID(rbac.PermReadUsers).Hex()}})
	require.NoError(t, err)

	updated, err := svc.UpdateRole(ctx, role.ID, RoleInput{Name: "user", Permissions: []string{}})
	require.NoError(t, err)
	assert.Empty(t, updated.PermissionNames())

	_, err = svc.UpdateRole(ctx, bson.NewObjectID().Hex(), RoleInput{Name: "user"})
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

func TestDeletedPermissionDropsFromRole(t *testing.T) {
	repo := newFakeRepo(rbac.PermReadUsers, rbac.PermViewReports)
	svc := NewService(repo)
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, RoleInput{Name: "analyst", Permissions: []string{
		repo.permissionID(rbac.PermReadUsers).Hex(),
		repo.permissionID(rbac.PermViewReports).Hex(),
	}})
	require.NoError(t, err)

	repo.deletePermission(rbac.PermViewReports)

	got, err := svc.GetRole(ctx, role.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{rbac.PermReadUsers}, got.PermissionNames())
}

func TestDeleteRoleAndAssignable(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	a, err := svc.CreateRole(ctx, RoleInput{Name: "viewer"})
	require.NoError(t, err)
	_, err = svc.CreateRole(ctx, RoleInput{Name: "editor"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRole(ctx, a.ID))
	assert.ErrorIs(t, svc.DeleteRole(ctx, a.ID), ErrRoleNotFound)

	assignable, err := svc.Assignable(ctx)
	require.NoError(t, err)
	require.Len(t, assignable, 1)
	assert.Equal(t, "editor", assignable[0].Name)
}

func TestResolvePipeline(t *testing.T) {
	id := bson.NewObjectID()
	pipeline := resolvePipeline(bson.D{{Key: "_id", Value: id}})
	require.Len(t, pipeline, 3)
	assert.Equal(t, "$match", pipeline[0][0].Key)
	assert.Equal(t, "$lookup", pipeline[1][0].Key)
	lookup, ok := pipeline[1][0].Value.(bson.D)
	require.True(t, ok)
	assert.Contains(t, lookup, bson.E{Key: "from", Value: "permissions"})
	assert.Contains(t, lookup, bson.E{Key: "as", Value: "permission_docs"})

	assert.Len(t, resolvePipeline(nil), 2)
}

func TestSeedRoleUpdateOnlySetsOnInsert(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	perm := bson.NewObjectID()

	update := seedRoleUpdate([]bson.ObjectID{perm}, now)
	require.Len(t, update, 1)
	assert.Equal(t, "$setOnInsert", update[0].Key)
	fields, ok := update[0].Value.(bson.D)
	require.True(t, ok)
	assert.Contains(t, fields, bson.E{Key: "permissions", Value: []bson.ObjectID{perm}})
	assert.Contains(t, fields, bson.E{Key: "createdAt", Value: now})

	empty := seedRoleUpdate(nil, now)[0].Value.(bson.D)
	assert.Contains(t, empty, bson.E{Key: "permissions", Value: []bson.ObjectID{}})
}
