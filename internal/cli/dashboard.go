package cli

import (
	"github.com/spf13/cobra"

	"github.com/jwalitptl/admin-console/internal/navigation"
)

func (c *CLI) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show today's appointments and the patient count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := c.app
			if err := app.visit(cmd.Context(), navigation.RouteDashboard, nil); err != nil {
				return err
			}
			// A failed section is printed empty; the error still sets the
			// exit code.
			view, err := app.dashboard.Load(cmd.Context())
			if perr := printDashboard(app.out, view); perr != nil {
				return perr
			}
			return err
		},
	}
}
