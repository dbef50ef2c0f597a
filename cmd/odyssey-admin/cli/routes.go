package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
)

// RouteBinding is one row of the route listing.
type RouteBinding struct {
	Operation  string `json:"operation"`
	Permission string `json:"permission"`
}

// RoutesOptions configures the routes command.
type RoutesOptions struct {
	JSONOutput bool
	Stdout     io.Writer
}

func newRoutesCommand() *cobra.Command {
	var opts RoutesOptions
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the operation to permission bindings and validate them",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Stdout = cmd.OutOrStdout()
			return PrintRoutes(opts, rbac.DefaultRouteTable(), rbac.DefaultRegistry())
		},
	}
	cmd.Flags().BoolVar(&opts.JSONOutput, "json", false, "Emit JSON")
	return cmd
}

// PrintRoutes validates table against reg and writes the bindings.
func PrintRoutes(opts RoutesOptions, table rbac.RouteTable, reg *rbac.Registry) error {
	if err := table.Validate(reg); err != nil {
		return err
	}
	ops := table.Operations()
	rows := make([]RouteBinding, len(ops))
	for i, op := range ops {
		rows[i] = RouteBinding{Operation: string(op), Permission: table[op]}
	}

	if opts.JSONOutput {
		enc := json.NewEncoder(opts.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	tw := tabwriter.NewWriter(opts.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OPERATION\tPERMISSION")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", row.Operation, row.Permission)
	}
	return tw.Flush()
}
