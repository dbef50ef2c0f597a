package rbac

import "sort"

// Permission names provisioned into every deployment.
const (
	PermReadUsers      = "read_users"
	PermCreateUsers    = "create_users"
	PermUpdateUsers    = "update_users"
	PermDeleteUsers    = "delete_users"
	PermReadProducts   = "read_products"
	PermCreateProducts = "create_products"
	PermUpdateProducts = "update_products"
	PermDeleteProducts = "delete_products"
	PermViewReports    = "view_reports"
	PermManageRoles    = "manage_roles"
)

// Registry is the fixed catalog of permission names. It is read-only after
// construction and safe for concurrent use.
type Registry struct {
	names []string
	index map[string]struct{}
}

// NewRegistry builds a registry from the given names, dropping blanks and
// duplicates.
func NewRegistry(names ...string) *Registry {
	reg := &Registry{index: make(map[string]struct{}, len(names))}
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, ok := reg.index[name]; ok {
			continue
		}
		reg.index[name] = struct{}{}
		reg.names = append(reg.names, name)
	}
	sort.Strings(reg.names)
	return reg
}

// DefaultRegistry returns the catalog of all built-in permissions.
func DefaultRegistry() *Registry {
	return NewRegistry(
		PermReadUsers,
		PermCreateUsers,
		PermUpdateUsers,
		PermDeleteUsers,
		PermReadProducts,
		PermCreateProducts,
		PermUpdateProducts,
		PermDeleteProducts,
		PermViewReports,
		PermManageRoles,
	)
}

// Has reports whether name is a registered permission.
func (r *Registry) Has(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.index[name]
	return ok
}

// Names returns the registered permission names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
