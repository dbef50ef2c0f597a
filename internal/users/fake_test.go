package users

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/odyssey-erp/odyssey-admin/internal/auth"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
)

var testHasher = auth.BcryptHasher{Cost: bcrypt.MinCost}

type fakeRepo struct {
	mu    sync.Mutex
	users map[bson.ObjectID]Record
	order []bson.ObjectID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[bson.ObjectID]Record{}}
}

func (f *fakeRepo) List(ctx context.Context) ([]Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Record, 0, len(f.order))
	for i := len(f.order) - 1; i >= 0; i-- {
		if rec, ok := f.users[f.order[i]]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id bson.ObjectID) (Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.users[id]
	if !ok {
		return Record{}, ErrUserNotFound
	}
	return rec, nil
}

func (f *fakeRepo) FindByEmail(ctx context.Context, email string) (Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.users {
		if rec.Email == email {
			return rec, nil
		}
	}
	return Record{}, ErrUserNotFound
}

func (f *fakeRepo) emailTaken(email string, except bson.ObjectID) bool {
	for id, rec := range f.users {
		if rec.Email == email && id != except {
			return true
		}
	}
	return false
}

func (f *fakeRepo) Insert(ctx context.Context, rec Record) (Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.emailTaken(rec.Email, bson.ObjectID{}) {
		return Record{}, ErrEmailTaken
	}
	rec.ID = bson.NewObjectID()
	rec.CreatedAt = time.Now().UTC()
	if rec.Roles == nil {
		rec.Roles = []bson.ObjectID{}
	}
	f.users[rec.ID] = rec
	f.order = append(f.order, rec.ID)
	return rec, nil
}

func (f *fakeRepo) Update(ctx context.Context, id bson.ObjectID, changes Changes) (Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.users[id]
	if !ok {
		return Record{}, ErrUserNotFound
	}
	if f.emailTaken(changes.Email, id) {
		return Record{}, ErrEmailTaken
	}
	rec.Username = changes.Username
	rec.Email = changes.Email
	if changes.PasswordHash != nil {
		rec.Password = *changes.PasswordHash
	}
	if changes.Roles != nil {
		rec.Roles = *changes.Roles
	}
	f.users[id] = rec
	return rec, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

// fakeRoles is a mutable role store; edits are visible to the next resolution.
type fakeRoles struct {
	mu    sync.Mutex
	roles map[bson.ObjectID]rbac.Role
}

func newFakeRoles() *fakeRoles {
	return &fakeRoles{roles: map[bson.ObjectID]rbac.Role{}}
}

func (f *fakeRoles) add(name string, perms ...string) bson.ObjectID {
	id := bson.NewObjectID()
	f.set(id, name, perms...)
	return id
}

func (f *fakeRoles) set(id bson.ObjectID, name string, perms ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	role := rbac.Role{ID: id.Hex(), Name: name, Permissions: []rbac.Permission{}}
	for _, p := range perms {
		role.Permissions = append(role.Permissions, rbac.Permission{ID: p, Name: p})
	}
	f.roles[id] = role
}

func (f *fakeRoles) remove(id bson.ObjectID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.roles, id)
}

func (f *fakeRoles) ResolveRoles(ctx context.Context, ids []bson.ObjectID) ([]rbac.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[bson.ObjectID]bool{}
	out := []rbac.Role{}
	for _, id := range ids {
		if role, ok := f.roles[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, role)
		}
	}
	return out, nil
}
