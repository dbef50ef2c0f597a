package roles

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
)

type fakeRepo struct {
	mu    sync.Mutex
	roles map[bson.ObjectID]roleDoc
	perms map[bson.ObjectID]string
}

func newFakeRepo(permNames ...string) *fakeRepo {
	f := &fakeRepo{roles: map[bson.ObjectID]roleDoc{}, perms: map[bson.ObjectID]string{}}
	for _, name := range permNames {
		f.perms[bson.NewObjectID()] = name
	}
	return f
}

func (f *fakeRepo) permissionID(name string) bson.ObjectID {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, n := range f.perms {
		if n == name {
			return id
		}
	}
	return bson.ObjectID{}
}

func (f *fakeRepo) deletePermission(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, n := range f.perms {
		if n == name {
			delete(f.perms, id)
		}
	}
}

func (f *fakeRepo) resolve(doc roleDoc) rbac.Role {
	resolved := resolvedRoleDoc{ID: doc.ID, Name: doc.Name}
	for _, id := range doc.Permissions {
		if name, ok := f.perms[id]; ok {
			resolved.PermissionDocs = append(resolved.PermissionDocs, permissionDoc{ID: id, Name: name})
		}
	}
	return resolved.toRole()
}

func (f *fakeRepo) List(ctx context.Context) ([]rbac.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]rbac.Role, 0, len(f.roles))
	for _, doc := range f.roles {
		out = append(out, f.resolve(doc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeRepo) Get(ctx context.Context, id bson.ObjectID) (rbac.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.roles[id]
	if !ok {
		return rbac.Role{}, ErrRoleNotFound
	}
	return f.resolve(doc), nil
}

func (f *fakeRepo) nameTaken(name string, except bson.ObjectID) bool {
	for id, doc := range f.roles {
		if doc.Name == name && id != except {
			return true
		}
	}
	return false
}

func (f *fakeRepo) Create(ctx context.Context, name string, permissions []bson.ObjectID) (rbac.Role, error) {
	f.mu.Lock()
	if f.nameTaken(name, bson.ObjectID{}) {
		f.mu.Unlock()
		return rbac.Role{}, ErrRoleExists
	}
	id := bson.NewObjectID()
	f.roles[id] = roleDoc{ID: id, Name: name, Permissions: permissions}
	f.mu.Unlock()
	return f.Get(ctx, id)
}

func (f *fakeRepo) Update(ctx context.Context, id bson.ObjectID, name string, permissions []bson.ObjectID) (rbac.Role, error) {
	f.mu.Lock()
	if _, ok := f.roles[id]; !ok {
		f.mu.Unlock()
		return rbac.Role{}, ErrRoleNotFound
	}
	if f.nameTaken(name, id) {
		f.mu.Unlock()
		return rbac.Role{}, ErrRoleExists
	}
	f.roles[id] = roleDoc{ID: id, Name: name, Permissions: permissions}
	f.mu.Unlock()
	return f.Get(ctx, id)
}

func (f *fakeRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.roles[id]; !ok {
		return ErrRoleNotFound
	}
	delete(f.roles, id)
	return nil
}

func (f *fakeRepo) ListPermissions(ctx context.Context) ([]rbac.Permission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]rbac.Permission, 0, len(f.perms))
	for id, name := range f.perms {
		out = append(out, rbac.Permission{ID: id.Hex(), Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeRepo) CountPermissions(ctx context.Context, ids []bson.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := f.perms[id]; ok {
			n++
		}
	}
	return n, nil
}
