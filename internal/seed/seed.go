// Package seed provisions the reference permissions, roles, accounts and
// sample catalog. Every step is idempotent.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/odyssey-erp/odyssey-admin/internal/auth"
	"github.com/odyssey-erp/odyssey-admin/internal/products"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
	"github.com/odyssey-erp/odyssey-admin/internal/users"
)

// DefaultPassword is set on every seeded account.
const DefaultPassword = "password123"

// RoleStore provisions permissions and roles.
type RoleStore interface {
	EnsurePermissions(ctx context.Context, names []string) error
	PermissionIDs(ctx context.Context, names []string) ([]bson.ObjectID, error)
	UpsertRole(ctx context.Context, name string, permissions []bson.ObjectID) (bson.ObjectID, error)
}

// UserStore creates accounts that do not exist yet.
type UserStore interface {
	UpsertByEmail(ctx context.Context, rec users.Record) (bool, error)
	FindByEmail(ctx context.Context, email string) (users.Record, error)
}

// ProductStore seeds the sample catalog.
type ProductStore interface {
	Count(ctx context.Context) (int64, error)
	Insert(ctx context.Context, rec products.Record) (products.Record, error)
}

// RoleTemplate names a role and its permissions.
type RoleTemplate struct {
	Name        string
	Permissions []string
}

// Account describes a seeded account.
type Account struct {
	Username string
	Email    string
	Role     string
}

// DefaultRoles returns the reference roles built from reg.
func DefaultRoles(reg *rbac.Registry) []RoleTemplate {
	var reads []string
	for _, name := range reg.Names() {
		if strings.HasPrefix(name, "read_") {
			reads = append(reads, name)
		}
	}
	return []RoleTemplate{
		{Name: "admin", Permissions: reg.Names()},
		{Name: "user", Permissions: []string{rbac.PermReadUsers}},
		{Name: "manager", Permissions: []string{rbac.PermReadUsers, rbac.PermCreateUsers, rbac.PermUpdateUsers, rbac.PermReadProducts}},
		{Name: "editor", Permissions: []string{rbac.PermReadProducts, rbac.PermUpdateProducts}},
		{Name: "viewer", Permissions: reads},
	}
}

// DefaultAccounts returns the test accounts.
func DefaultAccounts() []Account {
	return []Account{
		{Username: "admin", Email: "admin@test.com", Role: "admin"},
		{Username: "user", Email: "user@test.com", Role: "user"},
		{Username: "manager", Email: "manager@test.com", Role: "manager"},
	}
}

// SampleProducts is inserted when the catalog is empty.
var SampleProducts = []products.Input{
	{Name: "Laptop", Description: "High-performance laptop", Price: 999, Category: "Electronics", Stock: 50},
	{Name: "Mouse", Description: "Wireless mouse", Price: 25, Category: "Electronics", Stock: 200},
	{Name: "Keyboard", Description: "Mechanical keyboard", Price: 75, Category: "Electronics", Stock: 150},
	{Name: "Monitor", Description: "27-inch 4K monitor", Price: 299, Category: "Electronics", Stock: 80},
	{Name: "Headphones", Description: "Noise-canceling headphones", Price: 149, Category: "Electronics", Stock: 120},
}

// Summary counts what a run changed.
type Summary struct {
	Permissions     int
	Roles           int
	AccountsCreated int
	Products        int
}

// Seeder runs the provisioning steps.
type Seeder struct {
	roles    RoleStore
	users    UserStore
	products ProductStore
	hasher   auth.PasswordHasher
	registry *rbac.Registry
	logger   *slog.Logger
}

// New constructs a Seeder. products may be nil to skip the sample catalog.
func New(roles RoleStore, users UserStore, products ProductStore, hasher auth.PasswordHasher, registry *rbac.Registry, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{roles: roles, users: users, products: products, hasher: hasher, registry: registry, logger: logger}
}

// Run provisions permissions, roles, accounts and, when the catalog is
// empty, sample products. Existing roles keep their permission sets and
// existing accounts keep their passwords and roles.
func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	names := s.registry.Names()
	if err := s.roles.EnsurePermissions(ctx, names); err != nil {
		return sum, err
	}
	sum.Permissions = len(names)
	s.logger.Info("seeded permissions", slog.Int("count", sum.Permissions))

	roleIDs := make(map[string]bson.ObjectID)
	for _, tmpl := range DefaultRoles(s.registry) {
		permIDs, err := s.roles.PermissionIDs(ctx, tmpl.Permissions)
		if err != nil {
			return sum, err
		}
		id, err := s.roles.UpsertRole(ctx, tmpl.Name, permIDs)
		if err != nil {
			return sum, err
		}
		roleIDs[tmpl.Name] = id
		sum.Roles++
	}
	s.logger.Info("seeded roles", slog.Int("count", sum.Roles))

	hash, err := s.hasher.Hash(DefaultPassword)
	if err != nil {
		return sum, fmt.Errorf("seed: hash password: %w", err)
	}
	for _, acct := range DefaultAccounts() {
		created, err := s.users.UpsertByEmail(ctx, users.Record{
			Username: acct.Username,
			Email:    acct.Email,
			Password: hash,
			Roles:    []bson.ObjectID{roleIDs[acct.Role]},
		})
		if err != nil {
			return sum, err
		}
		if created {
			sum.AccountsCreated++
		}
	}
	s.logger.Info("seeded accounts", slog.Int("created", sum.AccountsCreated))

	if s.products == nil {
		return sum, nil
	}
	n, err := s.products.Count(ctx)
	if err != nil {
		return sum, err
	}
	if n > 0 {
		return sum, nil
	}
	admin, err := s.users.FindByEmail(ctx, DefaultAccounts()[0].Email)
	if err != nil {
		return sum, fmt.Errorf("seed: find admin: %w", err)
	}
	for _, in := range SampleProducts {
		_, err := s.products.Insert(ctx, products.Record{
			Name:        in.Name,
			Description: in.Description,
			Price:       in.Price,
			Category:    in.Category,
			Stock:       in.Stock,
			Status:      products.StatusActive,
			CreatedBy:   admin.ID,
		})
		if err != nil {
			return sum, err
		}
		sum.Products++
	}
	s.logger.Info("seeded products", slog.Int("count", sum.Products))
	return sum, nil
}
