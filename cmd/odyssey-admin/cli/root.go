// Package cli holds the odyssey-admin commands.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand assembles the command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "odyssey-admin",
		Short: "Odyssey admin API",
		Long: `odyssey-admin serves the role-guarded admin API for users, products,
roles and sales, and provisions its reference data.`,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCommand(), newSeedCommand(), newRoutesCommand())
	return root
}
