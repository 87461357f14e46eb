package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/pmtwin/internal/probe"
)

func newProbeCommand() *cobra.Command {
	cfg := probe.Config{}
	cmd := &cobra.Command{
		Use:   "probe <catalog.yaml>",
		Short: "Query a running service for every request and company and verify the rankings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.CatalogPath = args[0]
			stats, err := probe.Run(cmd.Context(), &cfg)
			if stats != nil {
				if werr := writeJSON(cmd.OutOrStdout(), stats); werr != nil && err == nil {
					err = werr
				}
			}
			return err
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "base URL of the service")
	flags.IntVarP(&cfg.Limit, "limit", "n", 0, "matches requested per service request (default from server)")
	flags.IntVar(&cfg.Workers, "workers", probe.DefaultWorkers, "number of concurrent query workers")
	flags.DurationVar(&cfg.Timeout, "timeout", 10*time.Second, "HTTP request timeout")
	flags.StringSliceVar(&cfg.Roles, "roles", probe.DefaultRoles, "roles queried for every company")
	return cmd
}
