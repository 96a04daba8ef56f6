package cli

import (
	"fmt"

	"github.com/aussiebroadwan/inclusive/internal/app"
	"github.com/spf13/cobra"
)

func newStatusCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show API health and session state",
		Args:  cobra.NoArgs,
		RunE: r.run(func(cmd *cobra.Command, args []string, a *app.Application) error {
			out := cmd.OutOrStdout()
			cfg := a.Config()

			fmt.Fprintf(out, "%-9s %s\n", "API:", cfg.APIURL)
			health, err := a.Client().GetLiveness(cmd.Context())
			if err != nil {
				fmt.Fprintf(out, "%-9s unreachable (%v)\n", "Health:", err)
			} else {
				fmt.Fprintf(out, "%-9s %s (version %s, up %s)\n", "Health:", health.Status, health.Version, health.Uptime)
			}

			fmt.Fprintf(out, "%-9s %s\n", "State:", cfg.StateFile)
			fmt.Fprintf(out, "%-9s %s\n", "Session:", a.Session().State())
			return nil
		}),
	}
}
