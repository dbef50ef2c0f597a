package rbac

// Decision is the outcome of an authorization check.
type Decision bool

const (
	// Deny rejects the request.
	Deny Decision = false
	// Allow lets the request through.
	Allow Decision = true
)

// String implements fmt.Stringer.
func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// Authorize allows the request iff required is one of the principal's
// permission names. Names match by exact string equality; there are no
// wildcards and no implied permissions.
func Authorize(p Principal, required string) Decision {
	if required == "" {
		return Deny
	}
	for _, role := range p.Roles {
		for _, perm := range role.Permissions {
			if perm.Name == required {
				return Allow
			}
		}
	}
	return Deny
}
