package roles

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	platformmongo "github.com/odyssey-erp/odyssey-admin/internal/platform/mongo"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
)

// Repository provides MongoDB backed persistence for roles and permissions.
type Repository struct {
	roles       *mongo.Collection
	permissions *mongo.Collection
	now         func() time.Time
}

// NewRepository constructs a repository.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{
		roles:       db.Collection(platformmongo.CollectionRoles),
		permissions: db.Collection(platformmongo.CollectionPermissions),
		now:         time.Now,
	}
}

// resolvePipeline joins permission references onto roles. References to
// deleted permissions find no match in the lookup and drop out.
func resolvePipeline(match bson.D) mongo.Pipeline {
	pipeline := mongo.Pipeline{}
	if len(match) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}
	return append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: platformmongo.CollectionPermissions},
			{Key: "localField", Value: "permissions"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "permission_docs"},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "name", Value: 1}}}},
	)
}

func (r *Repository) aggregate(ctx context.Context, match bson.D) ([]rbac.Role, error) {
	cursor, err := r.roles.Aggregate(ctx, resolvePipeline(match))
	if err != nil {
		return nil, err
	}
	var docs []resolvedRoleDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]rbac.Role, len(docs))
	for i, doc := range docs {
		out[i] = doc.toRole()
	}
	return out, nil
}

// ResolveRoles loads the roles with the given ids and their permissions.
// Unknown ids are skipped.
func (r *Repository) ResolveRoles(ctx context.Context, ids []bson.ObjectID) ([]rbac.Role, error) {
	if len(ids) == 0 {
		return []rbac.Role{}, nil
	}
	roles, err := r.aggregate(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
	if err != nil {
		return nil, fmt.Errorf("roles: resolve: %w", err)
	}
	return roles, nil
}

// List returns every role.
func (r *Repository) List(ctx context.Context) ([]rbac.Role, error) {
	roles, err := r.aggregate(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("roles: list: %w", err)
	}
	return roles, nil
}

// Get returns one role.
func (r *Repository) Get(ctx context.Context, id bson.ObjectID) (rbac.Role, error) {
	roles, err := r.aggregate(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return rbac.Role{}, fmt.Errorf("roles: get: %w", err)
	}
	if len(roles) == 0 {
		return rbac.Role{}, ErrRoleNotFound
	}
	return roles[0], nil
}

// Create inserts a role.
func (r *Repository) Create(ctx context.Context, name string, permissions []bson.ObjectID) (rbac.Role, error) {
	now := r.now().UTC()
	res, err := r.roles.InsertOne(ctx, roleDoc{
		Name:        name,
		Permissions: nonNil(permissions),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return rbac.Role{}, ErrRoleExists
		}
		return rbac.Role{}, fmt.Errorf("roles: create: %w", err)
	}
	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return rbac.Role{}, fmt.Errorf("roles: create: unexpected id %T", res.InsertedID)
	}
	return r.Get(ctx, id)
}

// Update replaces the name and permission set of a role.
func (r *Repository) Update(ctx context.Context, id bson.ObjectID, name string, permissions []bson.ObjectID) (rbac.Role, error) {
	res, err := r.roles.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: name},
		{Key: "permissions", Value: nonNil(permissions)},
		{Key: "updatedAt", Value: r.now().UTC()},
	}}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return rbac.Role{}, ErrRoleExists
		}
		return rbac.Role{}, fmt.Errorf("roles: update: %w", err)
	}
	if res.MatchedCount == 0 {
		return rbac.Role{}, ErrRoleNotFound
	}
	return r.Get(ctx, id)
}

// Delete removes a role. Users still referencing it lose it at next resolution.
func (r *Repository) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := r.roles.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("roles: delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrRoleNotFound
	}
	return nil
}

// ListPermissions returns every stored permission ordered by name.
func (r *Repository) ListPermissions(ctx context.Context) ([]rbac.Permission, error) {
	cursor, err := r.permissions.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("roles: list permissions: %w", err)
	}
	var docs []permissionDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("roles: list permissions: %w", err)
	}
	out := make([]rbac.Permission, len(docs))
	for i, doc := range docs {
		out[i] = doc.toPermission()
	}
	return out, nil
}

// CountPermissions reports how many of ids exist.
func (r *Repository) CountPermissions(ctx context.Context, ids []bson.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := r.permissions.CountDocuments(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
	if err != nil {
		return 0, fmt.Errorf("roles: count permissions: %w", err)
	}
	return n, nil
}

// EnsurePermissions upserts one permission document per name.
func (r *Repository) EnsurePermissions(ctx context.Context, names []string) error {
	for _, name := range names {
		_, err := r.permissions.UpdateOne(ctx,
			bson.D{{Key: "name", Value: name}},
			bson.D{{Key: "$setOnInsert", Value: bson.D{{Key: "name", Value: name}}}},
			options.UpdateOne().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("roles: ensure permission %s: %w", name, err)
		}
	}
	return nil
}

// PermissionIDs maps permission names to their ids, skipping unknown names.
func (r *Repository) PermissionIDs(ctx context.Context, names []string) ([]bson.ObjectID, error) {
	cursor, err := r.permissions.Find(ctx, bson.D{{Key: "name", Value: bson.D{{Key: "$in", Value: names}}}})
	if err != nil {
		return nil, fmt.Errorf("roles: permission ids: %w", err)
	}
	var docs []permissionDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("roles: permission ids: %w", err)
	}
	ids := make([]bson.ObjectID, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
	}
	return ids, nil
}

// UpsertRole creates the named role with permissions when it is missing and
// returns its id. An existing role keeps its current permission set.
func (r *Repository) UpsertRole(ctx context.Context, name string, permissions []bson.ObjectID) (bson.ObjectID, error) {
	var doc roleDoc
	err := r.roles.FindOneAndUpdate(ctx,
		bson.D{{Key: "name", Value: name}},
		seedRoleUpdate(permissions, r.now().UTC()),
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return bson.ObjectID{}, fmt.Errorf("roles: upsert %s: %w", name, err)
	}
	return doc.ID, nil
}

func seedRoleUpdate(permissions []bson.ObjectID, now time.Time) bson.D {
	return bson.D{{Key: "$setOnInsert", Value: bson.D{
		{Key: "permissions", Value: nonNil(permissions)},
		{Key: "createdAt", Value: now},
		{Key: "updatedAt", Value: now},
	}}}
}

func nonNil(ids []bson.ObjectID) []bson.ObjectID {
	if ids == nil {
		return []bson.ObjectID{}
	}
	return ids
}
