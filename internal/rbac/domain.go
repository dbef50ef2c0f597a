package rbac

import "sort"

// Permission represents an atomic capability.
type Permission struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Role represents a named bundle of permissions.
type Role struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Permissions []Permission `json:"permissions"`
}

// PermissionNames returns the role's permission names, sorted and deduplicated.
func (r Role) PermissionNames() []string {
	return flatten([]Role{r})
}

// Principal describes the authenticated actor with its roles resolved.
type Principal struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Roles    []Role `json:"roles"`
}

// PermissionNames flattens permissions across all roles into a sorted set.
func (p Principal) PermissionNames() []string {
	return flatten(p.Roles)
}

// RoleNames returns the names of the principal's roles.
func (p Principal) RoleNames() []string {
	names := make([]string, 0, len(p.Roles))
	for _, role := range p.Roles {
		names = append(names, role.Name)
	}
	return names
}

func permissionSet(roles []Role) map[string]struct{} {
	set := make(map[string]struct{})
	for _, role := range roles {
		for _, perm := range role.Permissions {
			if perm.Name == "" {
				continue
			}
			set[perm.Name] = struct{}{}
		}
	}
	return set
}

func flatten(roles []Role) []string {
	set := permissionSet(roles)
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
