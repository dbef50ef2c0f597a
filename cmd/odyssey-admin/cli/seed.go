package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/odyssey-erp/odyssey-admin/internal/app"
	"github.com/odyssey-erp/odyssey-admin/internal/auth"
	"github.com/odyssey-erp/odyssey-admin/internal/products"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
	"github.com/odyssey-erp/odyssey-admin/internal/roles"
	"github.com/odyssey-erp/odyssey-admin/internal/seed"
	"github.com/odyssey-erp/odyssey-admin/internal/users"
)

func newSeedCommand() *cobra.Command {
	var skipProducts bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Provision permissions, reference roles and test accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), cmd.OutOrStdout(), skipProducts)
		},
	}
	cmd.Flags().BoolVar(&skipProducts, "skip-products", false, "Do not insert the sample catalog")
	return cmd
}

func runSeed(ctx context.Context, out io.Writer, skipProducts bool) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := app.NewLogger(cfg)

	client, db, err := app.ConnectMongo(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	var catalog seed.ProductStore
	if !skipProducts {
		catalog = products.NewRepository(db)
	}
	seeder := seed.New(
		roles.NewRepository(db),
		users.NewRepository(db),
		catalog,
		auth.BcryptHasher{Cost: cfg.BcryptCost},
		rbac.DefaultRegistry(),
		logger,
	)
	sum, err := seeder.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "permissions: %d, roles: %d, accounts created: %d, products: %d\n",
		sum.Permissions, sum.Roles, sum.AccountsCreated, sum.Products)
	fmt.Fprintln(out, "\n=== Test Credentials ===")
	for _, acct := range seed.DefaultAccounts() {
		fmt.Fprintf(out, "%s: %s / %s\n", acct.Role, acct.Email, seed.DefaultPassword)
	}
	return nil
}
