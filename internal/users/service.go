package users

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/odyssey-erp/odyssey-admin/internal/auth"
	platformmongo "github.com/odyssey-erp/odyssey-admin/internal/platform/mongo"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	List(ctx context.Context) ([]Record, error)
	FindByID(ctx context.Context, id bson.ObjectID) (Record, error)
	FindByEmail(ctx context.Context, email string) (Record, error)
	Insert(ctx context.Context, rec Record) (Record, error)
	Update(ctx context.Context, id bson.ObjectID, changes Changes) (Record, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}

// RoleResolver loads roles with their permissions. Unknown ids are skipped.
type RoleResolver interface {
	ResolveRoles(ctx context.Context, ids []bson.ObjectID) ([]rbac.Role, error)
}

// Service handles user business logic.
type Service struct {
	repo   RepositoryPort
	roles  RoleResolver
	hasher auth.PasswordHasher
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, roles RoleResolver, hasher auth.PasswordHasher) *Service {
	if hasher == nil {
		hasher = auth.BcryptHasher{}
	}
	return &Service{repo: repo, roles: roles, hasher: hasher}
}

// ListUsers returns all users with their roles.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	recs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	var ids []bson.ObjectID
	for _, rec := range recs {
		ids = append(ids, rec.Roles...)
	}
	resolved, err := s.roles.ResolveRoles(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]rbac.Role, len(resolved))
	for _, role := range resolved {
		byID[role.ID] = role
	}
	out := make([]User, len(recs))
	for i, rec := range recs {
		var roles []rbac.Role
		for _, id := range rec.Roles {
			if role, ok := byID[id.Hex()]; ok {
				roles = append(roles, role)
			}
		}
		out[i] = toUser(rec, roles)
	}
	return out, nil
}

// CreateUser hashes the password and stores a user with the given roles.
func (s *Service) CreateUser(ctx context.Context, input CreateInput) (User, error) {
	roleIDs, err := s.roleRefs(ctx, input.Roles)
	if err != nil {
		return User{}, err
	}
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return User{}, err
	}
	rec, err := s.repo.Insert(ctx, Record{
		Username: NormalizeUsername(input.Username),
		Email:    NormalizeEmail(input.Email),
		Password: hash,
		Roles:    roleIDs,
	})
	if err != nil {
		return User{}, err
	}
	return s.view(ctx, rec)
}

// UpdateUser applies input to the user. The password is re-hashed only when
// non-blank and roles are replaced only when present.
func (s *Service) UpdateUser(ctx context.Context, id string, input UpdateInput) (User, error) {
	oid, err := platformmongo.ParseID(id)
	if err != nil {
		return User{}, err
	}
	changes := Changes{
		Username: NormalizeUsername(input.Username),
		Email:    NormalizeEmail(input.Email),
	}
	if strings.TrimSpace(input.Password) != "" {
		hash, err := s.hasher.Hash(input.Password)
		if err != nil {
			return User{}, err
		}
		changes.PasswordHash = &hash
	}
	if input.Roles != nil {
		roleIDs, err := s.roleRefs(ctx, *input.Roles)
		if err != nil {
			return User{}, err
		}
		changes.Roles = &roleIDs
	}
	rec, err := s.repo.Update(ctx, oid, changes)
	if err != nil {
		return User{}, err
	}
	return s.view(ctx, rec)
}

// DeleteUser removes a user. Outstanding tokens stop verifying immediately.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	oid, err := platformmongo.ParseID(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, oid)
}

func (s *Service) view(ctx context.Context, rec Record) (User, error) {
	roles, err := s.roles.ResolveRoles(ctx, rec.Roles)
	if err != nil {
		return User{}, err
	}
	return toUser(rec, roles), nil
}

func (s *Service) roleRefs(ctx context.Context, hexes []string) ([]bson.ObjectID, error) {
	ids, err := platformmongo.ParseIDs(hexes)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return ids, nil
	}
	resolved, err := s.roles.ResolveRoles(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(resolved) != len(ids) {
		return nil, ErrUnknownRole
	}
	return ids, nil
}
