package auth

import (
	"context"
	"time"

	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
)

// Account pairs a resolved principal with its stored credential hash.
type Account struct {
	Principal    rbac.Principal
	PasswordHash string
}

// AccountFinder resolves accounts with their current roles and permissions.
// Implementations return rbac.ErrPrincipalNotFound when no account matches.
type AccountFinder interface {
	FindAccountByEmail(ctx context.Context, email string) (Account, error)
	FindAccountByID(ctx context.Context, id string) (Account, error)
}

// Registrar creates self-registered accounts with no roles.
type Registrar interface {
	Register(ctx context.Context, username, email, passwordHash string) (rbac.Principal, error)
}

// Session is the result of a successful login.
type Session struct {
	Token       Token
	Principal   rbac.Principal
	Permissions []string
}

// Token is a signed bearer token with its validity window.
type Token struct {
	Value     string
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
