package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/pmtwin/internal/adapters/repository"
	"github.com/okian/pmtwin/internal/config"
	"github.com/okian/pmtwin/internal/probe"
)

func newImportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <catalog.yaml>",
		Short: "Import a YAML catalog into the sqlite store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			catalog, err := repository.LoadCatalog(args[0])
			if err != nil {
				return err
			}

			// The store is opened empty and filled through the service so
			// the import runs in one transaction.
			sqlite := *opts
			sqlite.driver = config.DriverSQLite
			sqlite.catalog = ""
			svc, cfg, err := sqlite.startService(ctx)
			if err != nil {
				return err
			}
			defer svc.Stop()

			if err := svc.Import(ctx, catalog); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"dsn":      cfg.SQLiteDSN,
				"entities": svc.GetStats()["entities"],
			})
		},
	}
}

func newGenerateCommand() *cobra.Command {
	var (
		cfg probe.GenerateConfig
		out string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a random catalog for load and consistency testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := probe.GenerateCatalog(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if out == "" {
				out = "generated_catalog_" + time.Now().Format("20060102_150405") + ".yaml"
			}
			if err := repository.WriteCatalog(out, catalog); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&out, "out", "o", "", "output file (default generated_catalog_<timestamp>.yaml)")
	flags.IntVar(&cfg.Providers, "providers", 200, "number of provider profiles")
	flags.IntVar(&cfg.Requests, "requests", 50, "number of service requests")
	flags.IntVar(&cfg.Projects, "projects", 30, "number of projects")
	flags.IntVar(&cfg.Companies, "companies", 10, "number of companies")
	flags.IntVar(&cfg.Workers, "workers", probe.DefaultWorkers, "number of generator workers")
	return cmd
}
