package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/pmtwin/internal/adapters/repository"
	"github.com/okian/pmtwin/pkg/logger"
)

// Run checks a running service against the catalog it was seeded with.
// Every service request is ranked and every company is queried for each
// role; the responses must satisfy the ranking guarantees.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{
		StartTime: time.Now(),
	}
	roles := cfg.Roles
	if len(roles) == 0 {
		roles = DefaultRoles
	}

	logger.Get().Info(ctx, "starting pmtwin probe",
		logger.String("baseURL", cfg.BaseURL),
		logger.String("catalog", cfg.CatalogPath),
		logger.Int("workers", cfg.Workers),
		logger.String("timeout", cfg.Timeout.String()),
		logger.Strings("roles", roles))

	client := NewHTTPClient(cfg.BaseURL, cfg.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Load the catalog the service was seeded with
	catalog, err := repository.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return stats, err
	}
	idx := indexCatalog(catalog)

	// Step 3: Rank providers for every request
	requestIDs := make([]string, 0, len(catalog.Requests))
	for _, r := range catalog.Requests {
		requestIDs = append(requestIDs, r.ID)
	}
	matches, failed := queryAll(ctx, cfg.Workers, requestIDs, func(ctx context.Context, id string) (MatchesResult, error) {
		return client.FetchMatches(ctx, id, cfg.Limit)
	})
	stats.RequestsQueried = len(matches)
	stats.QueriesFailed += failed

	// Step 4: Discover opportunities for every company and role
	type companyRole struct{ companyID, role string }
	var jobs []companyRole
	for _, co := range catalog.Companies {
		for _, role := range roles {
			jobs = append(jobs, companyRole{companyID: co.ID, role: role})
		}
	}
	opportunities, failed := queryAll(ctx, cfg.Workers, jobs, func(ctx context.Context, j companyRole) (OpportunitiesResult, error) {
		return client.FetchOpportunities(ctx, j.companyID, j.role)
	})
	stats.CompaniesQueried = len(catalog.Companies)
	stats.QueriesFailed += failed

	// Step 5: Verify results
	var violations []error
	for _, res := range matches {
		stats.MatchesReturned += len(res.Matches)
		violations = append(violations, verifyMatches(idx, res)...)
	}
	for _, res := range opportunities {
		stats.OpportunitiesFound += len(res.Opportunities)
		violations = append(violations, verifyOpportunities(idx, res)...)
	}
	stats.InvariantViolations = len(violations)
	for _, v := range violations {
		logger.Get().Error(ctx, "verification failed", logger.Error(v))
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("probe interrupted: %w", err)
	}
	if len(violations) > 0 {
		return stats, fmt.Errorf("%w: %d violations, first: %w", ErrInvariant, len(violations), violations[0])
	}
	if stats.QueriesFailed > 0 {
		return stats, fmt.Errorf("%d queries failed", stats.QueriesFailed)
	}

	logger.Get().Info(ctx, "probe completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	logger.Get().Info(ctx, "checking service health")

	resp, err := client.Get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health check returned %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// displayFinalStats logs the final probe statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var queriesPerSecond float64
	if stats.Duration > 0 {
		queriesPerSecond = float64(stats.RequestsQueried+stats.CompaniesQueried) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("requestsQueried", stats.RequestsQueried),
		logger.Int("companiesQueried", stats.CompaniesQueried),
		logger.Int("matchesReturned", stats.MatchesReturned),
		logger.Int("opportunitiesFound", stats.OpportunitiesFound),
		logger.Int("queriesFailed", stats.QueriesFailed),
		logger.Int("invariantViolations", stats.InvariantViolations),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("queriesPerSecond", queriesPerSecond))
}
