package roles

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	platformmongo "github.com/odyssey-erp/odyssey-admin/internal/platform/mongo"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
)

// RepositoryPort defines data access methods for roles.
type RepositoryPort interface {
	List(ctx context.Context) ([]rbac.Role, error)
	Get(ctx context.Context, id bson.ObjectID) (rbac.Role, error)
	Create(ctx context.Context, name string, permissions []bson.ObjectID) (rbac.Role, error)
	Update(ctx context.Context, id bson.ObjectID, name string, permissions []bson.ObjectID) (rbac.Role, error)
	Delete(ctx context.Context, id bson.ObjectID) error
	ListPermissions(ctx context.Context) ([]rbac.Permission, error)
	CountPermissions(ctx context.Context, ids []bson.ObjectID) (int64, error)
}

// Service handles role business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListRoles returns all roles.
func (s *Service) ListRoles(ctx context.Context) ([]rbac.Role, error) {
	return s.repo.List(ctx)
}

// GetRole returns the role with the given hex id.
func (s *Service) GetRole(ctx context.Context, id string) (rbac.Role, error) {
	oid, err := platformmongo.ParseID(id)
	if err != nil {
		return rbac.Role{}, err
	}
	return s.repo.Get(ctx, oid)
}

// CreateRole validates the permission references and inserts a role.
func (s *Service) CreateRole(ctx context.Context, input RoleInput) (rbac.Role, error) {
	perms, err := s.permissionRefs(ctx, input.Permissions)
	if err != nil {
		return rbac.Role{}, err
	}
	return s.repo.Create(ctx, strings.TrimSpace(input.Name), perms)
}

// UpdateRole replaces a role's name and permissions. The change applies to
// every holder on their next request.
func (s *Service) UpdateRole(ctx context.Context, id string, input RoleInput) (rbac.Role, error) {
	oid, err := platformmongo.ParseID(id)
	if err != nil {
		return rbac.Role{}, err
	}
	perms, err := s.permissionRefs(ctx, input.Permissions)
	if err != nil {
		return rbac.Role{}, err
	}
	return s.repo.Update(ctx, oid, strings.TrimSpace(input.Name), perms)
}

// DeleteRole removes a role.
func (s *Service) DeleteRole(ctx context.Context, id string) error {
	oid, err := platformmongo.ParseID(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, oid)
}

// ListPermissions returns the stored permissions.
func (s *Service) ListPermissions(ctx context.Context) ([]rbac.Permission, error) {
	return s.repo.ListPermissions(ctx)
}

// Assignable lists role ids and names without their permission sets.
func (s *Service) Assignable(ctx context.Context) ([]Assignable, error) {
	roles, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Assignable, len(roles))
	for i, role := range roles {
		out[i] = Assignable{ID: role.ID, Name: role.Name}
	}
	return out, nil
}

func (s *Service) permissionRefs(ctx context.Context, hexes []string) ([]bson.ObjectID, error) {
	ids, err := platformmongo.ParseIDs(hexes)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return ids, nil
	}
	n, err := s.repo.CountPermissions(ctx, ids)
	if err != nil {
		return nil, err
	}
	if n != int64(len(ids)) {
		return nil, ErrUnknownPermission
	}
	return ids, nil
}
