package users

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/odyssey-erp/odyssey-admin/internal/auth"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
)

var (
	_ auth.AccountFinder = (*Service)(nil)
	_ auth.Registrar     = (*Service)(nil)
)

// FindAccountByEmail implements auth.AccountFinder.
func (s *Service) FindAccountByEmail(ctx context.Context, email string) (auth.Account, error) {
	rec, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return auth.Account{}, principalErr(err)
	}
	return s.account(ctx, rec)
}

// FindAccountByID implements auth.AccountFinder. Roles and permissions are
// read from the store on every call.
func (s *Service) FindAccountByID(ctx context.Context, id string) (auth.Account, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return auth.Account{}, rbac.ErrPrincipalNotFound
	}
	rec, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return auth.Account{}, principalErr(err)
	}
	return s.account(ctx, rec)
}

// Register implements auth.Registrar.
func (s *Service) Register(ctx context.Context, username, email, passwordHash string) (rbac.Principal, error) {
	rec, err := s.repo.Insert(ctx, Record{
		Username: NormalizeUsername(username),
		Email:    NormalizeEmail(email),
		Password: passwordHash,
	})
	if err != nil {
		return rbac.Principal{}, err
	}
	return rbac.Principal{ID: rec.ID.Hex(), Email: rec.Email, Username: rec.Username, Roles: []rbac.Role{}}, nil
}

func (s *Service) account(ctx context.Context, rec Record) (auth.Account, error) {
	roles, err := s.roles.ResolveRoles(ctx, rec.Roles)
	if err != nil {
		return auth.Account{}, err
	}
	return auth.Account{
		Principal: rbac.Principal{
			ID:       rec.ID.Hex(),
			Email:    rec.Email,
			Username: rec.Username,
			Roles:    roles,
		},
		PasswordHash: rec.Password,
	}, nil
}

func principalErr(err error) error {
	if errors.Is(err, ErrUserNotFound) {
		return rbac.ErrPrincipalNotFound
	}
	return err
}
