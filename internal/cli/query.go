package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newMatchCommand(opts *rootOptions) *cobra.Command {
	var (
		limit    int
		minScore float64
	)
	cmd := &cobra.Command{
		Use:   "match <request-id>",
		Short: "Rank available providers for a service request",
		Long: "Rank available providers for a service request. With --min-score only " +
			"matches scoring at least the threshold are printed, otherwise the top --limit.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, _, err := opts.startService(ctx)
			if err != nil {
				return err
			}
			defer svc.Stop()

			if cmd.Flags().Changed("min-score") {
				if !(minScore >= 0 && minScore <= 1) {
					return errors.New("--min-score must be within [0, 1]")
				}
				return writeJSON(cmd.OutOrStdout(), svc.MatchesAboveThreshold(ctx, args[0], minScore))
			}
			if limit > svc.MaxMatchesLimit() {
				return fmt.Errorf("--limit exceeds the maximum of %d", svc.MaxMatchesLimit())
			}
			return writeJSON(cmd.OutOrStdout(), svc.TopMatches(ctx, args[0], limit))
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of matches (default from config)")
	cmd.Flags().Float64Var(&minScore, "min-score", 0, "only print matches scoring at least this")
	return cmd
}

func newStatsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <request-id>",
		Short: "Summarise the provider matches of a service request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, _, err := opts.startService(ctx)
			if err != nil {
				return err
			}
			defer svc.Stop()
			return writeJSON(cmd.OutOrStdout(), svc.MatchStatistics(ctx, args[0]))
		},
	}
}

func newOpportunitiesCommand(opts *rootOptions) *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "opportunities <company-id>",
		Short: "List projects or service requests a company could take on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, _, err := opts.startService(ctx)
			if err != nil {
				return err
			}
			defer svc.Stop()
			return writeJSON(cmd.OutOrStdout(), svc.Opportunities(ctx, args[0], role))
		},
	}
	cmd.Flags().StringVarP(&role, "role", "r", "", "company role, e.g. vendor, service_provider, consultant")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}
