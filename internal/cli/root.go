// Package cli implements the pmtwin-match command line tool.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	app "github.com/okian/pmtwin/internal/app"
	"github.com/okian/pmtwin/internal/config"
	"github.com/okian/pmtwin/pkg/logger"
)

const name = "pmtwin-match"

// Actual version can be specified in build command.
var version = "unknown"

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configFile string
	catalog    string
	driver     string
	dsn        string
	debug      bool
	json       bool
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           name,
		Short:         name + " ranks service providers and discovers opportunities in a PMTwin catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.initLogging(cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "a YAML config file (default is $"+config.EnvConfigFile+")")
	flags.StringVar(&opts.catalog, "catalog", "", "catalog to load into the store")
	flags.StringVar(&opts.driver, "driver", "", "store driver: memory or sqlite")
	flags.StringVar(&opts.dsn, "dsn", "", "sqlite DSN")
	flags.BoolVarP(&opts.debug, "debug", "d", false, "verbose/debug output")
	flags.BoolVarP(&opts.json, "json", "j", false, "json format for logging")

	root.AddCommand(
		newMatchCommand(opts),
		newStatsCommand(opts),
		newOpportunitiesCommand(opts),
		newImportCommand(opts),
		newGenerateCommand(),
		newProbeCommand(),
		newVersionCommand(),
	)
	return root
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func (o *rootOptions) initLogging(w io.Writer) error {
	if err := logger.Init(logger.WithWriter(w), logger.WithJSON(o.json)); err != nil {
		return err
	}
	level := "warn"
	if o.debug {
		level = "debug"
	}
	return logger.SetLevelString(level)
}

// loadConfig layers the persistent flags over the config file and env.
func (o *rootOptions) loadConfig(ctx context.Context) (*config.Config, error) {
	path := o.configFile
	if path == "" {
		path = os.Getenv(config.EnvConfigFile)
	}
	cfg, err := config.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	if o.catalog != "" {
		cfg.CatalogPath = o.catalog
	}
	if o.driver != "" {
		cfg.StoreDriver = strings.ToLower(o.driver)
	}
	if o.dsn != "" {
		cfg.SQLiteDSN = o.dsn
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// startService loads the config and starts a service over its store. The
// caller must Stop the returned service.
func (o *rootOptions) startService(ctx context.Context) (*app.Service, *config.Config, error) {
	cfg, err := o.loadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	svc := app.New(append(app.OptionsFromConfig(cfg), app.WithLogger(logger.Named("cli")))...)
	if err := svc.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("start service: %w", err)
	}
	return svc, cfg, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
