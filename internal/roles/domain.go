package roles

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/odyssey-erp/odyssey-admin/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
)

var (
	// ErrRoleNotFound is returned when no role matches the id.
	ErrRoleNotFound = httpx.NewError(httpx.ErrNotFound, "Role not found")
	// ErrRoleExists is returned when the role name is taken.
	ErrRoleExists = httpx.NewError(httpx.ErrDuplicate, "Role already exists")
	// ErrUnknownPermission is returned when a role references a permission that does not exist.
	ErrUnknownPermission = httpx.NewError(httpx.ErrValidation, "Unknown permission")
)

// RoleInput is the body of role create and update requests.
type RoleInput struct {
	Name        string   `json:"name" validate:"required,min=2,max=64"`
	Permissions []string `json:"permissions" validate:"omitempty,dive,required"`
}

// Assignable is the self-service view of a role.
type Assignable struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type roleDoc struct {
	ID          bson.ObjectID   `bson:"_id,omitempty"`
	Name        string          `bson:"name"`
	Permissions []bson.ObjectID `bson:"permissions"`
	CreatedAt   time.Time       `bson:"createdAt"`
	UpdatedAt   time.Time       `bson:"updatedAt"`
}

type permissionDoc struct {
	ID   bson.ObjectID `bson:"_id,omitempty"`
	Name string        `bson:"name"`
}

// resolvedRoleDoc is a role after its permission references were looked up.
type resolvedRoleDoc struct {
	ID             bson.ObjectID   `bson:"_id"`
	Name           string          `bson:"name"`
	PermissionDocs []permissionDoc `bson:"permission_docs"`
}

func (d resolvedRoleDoc) toRole() rbac.Role {
	perms := make([]rbac.Permission, 0, len(d.PermissionDocs))
	for _, p := range d.PermissionDocs {
		perms = append(perms, rbac.Permission{ID: p.ID.Hex(), Name: p.Name})
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i].Name < perms[j].Name })
	return rbac.Role{ID: d.ID.Hex(), Name: d.Name, Permissions: perms}
}

func (d permissionDoc) toPermission() rbac.Permission {
	return rbac.Permission{ID: d.ID.Hex(), Name: d.Name}
}
