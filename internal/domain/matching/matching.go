// Package matching ranks service providers against service requests and
// finds opportunities a company's skills can serve.
//
// Matchers never return errors. A missing data source, an unknown id or a
// failing read all degrade to an empty or neutral result, which is logged
// and counted in the fail-soft metric.
package matching

import (
	"context"

	"github.com/okian/pmtwin/internal/domain/model"
	"github.com/okian/pmtwin/pkg/logger"
	"github.com/okian/pmtwin/pkg/metrics"
)

// DataSource provides the entities the matchers read. A nil DataSource is
// accepted and treated as unavailable.
type DataSource interface {
	ServiceRequest(ctx context.Context, id string) (model.ServiceRequest, error)
	ServiceRequests(ctx context.Context) ([]model.ServiceRequest, error)
	ServiceProviderProfiles(ctx context.Context) ([]model.ServiceProviderProfile, error)
	Projects(ctx context.Context) ([]model.Project, error)
	CompanySkills(ctx context.Context, companyID string) ([]string, error)
}

// Metric operation labels.
const (
	opProviderMatch = "provider_match"
	opOpportunity   = "opportunity_match"
)

// Fail-soft reasons.
const (
	reasonNoSource      = "no_source"
	reasonRequest       = "request_unavailable"
	reasonProviders     = "providers_unavailable"
	reasonCompanySkills = "company_skills_unavailable"
	reasonOpportunities = "opportunities_unavailable"
)

func failSoft(ctx context.Context, log logger.Logger, op, reason string, fields ...logger.Field) {
	metrics.RecordFailSoft(op, reason)
	log.Warn(ctx, "matching degraded to empty result", append(fields, logger.String("reason", reason))...)
}
