package matching

import (
	"context"
	"time"

	"github.com/okian/pmtwin/internal/domain/model"
	"github.com/okian/pmtwin/internal/domain/scoring"
	"github.com/okian/pmtwin/pkg/logger"
	"github.com/okian/pmtwin/pkg/metrics"
)

// ServiceMatcher ranks available service providers against one service
// request. It is safe for concurrent use.
type ServiceMatcher struct {
	source DataSource
	settings
}

// NewServiceMatcher creates a matcher reading from source.
func NewServiceMatcher(source DataSource, opts ...Option) *ServiceMatcher {
	return &ServiceMatcher{source: source, settings: newSettings(opts)}
}

// MatchServiceProvidersToRequest scores every AVAILABLE provider against the
// request and returns them ordered by overall score, best first. Providers
// with equal scores keep the order the data source returned them in.
func (m *ServiceMatcher) MatchServiceProvidersToRequest(ctx context.Context, requestID string) []model.ScoredMatch {
	start := time.Now()
	defer func() {
		metrics.RecordMatchQuery(opProviderMatch, float64(time.Since(start).Microseconds())/1000)
	}()

	if m.source == nil {
		failSoft(ctx, m.logger, opProviderMatch, reasonNoSource, logger.String("requestId", requestID))
		return []model.ScoredMatch{}
	}

	req, err := m.source.ServiceRequest(ctx, requestID)
	if err != nil {
		failSoft(ctx, m.logger, opProviderMatch, reasonRequest, logger.String("requestId", requestID), logger.Error(err))
		return []model.ScoredMatch{}
	}

	profiles, err := m.source.ServiceProviderProfiles(ctx)
	if err != nil {
		failSoft(ctx, m.logger, opProviderMatch, reasonProviders, logger.String("requestId", requestID), logger.Error(err))
		return []model.ScoredMatch{}
	}

	available := make([]model.ServiceProviderProfile, 0, len(profiles))
	for _, p := range profiles {
		if p.IsAvailable() {
			available = append(available, p)
		}
	}
	metrics.RecordCandidatesEvaluated(opProviderMatch, len(available))

	candidates := m.skills.FindMatchingProviders(available, req.RequiredSkills)
	scored := make([]model.ScoredMatch, 0, len(candidates))
	for _, c := range candidates {
		// The skill score comes from the annotating matcher; the scorer
		// only contributes availability, pricing and the weighting.
		pricing := m.scorer.PricingScore(c.Provider.Pricing(), req.Budget)
		match := model.ScoredMatch{
			Provider:          c.Provider,
			MatchedSkills:     c.MatchedSkills,
			SkillMatchScore:   c.SkillMatchScore,
			AvailabilityScore: m.scorer.AvailabilityScore(c.Provider.AvailabilityStatus),
			PricingScore:      pricing,
		}
		match.OverallScore = m.scorer.OverallScore(scoring.Parts{
			SkillMatch:   match.SkillMatchScore,
			Availability: match.AvailabilityScore,
			Pricing:      &pricing,
		})
		scored = append(scored, match)
	}
	ranked := m.scorer.RankMatches(scored)

	metrics.RecordMatchResults(opProviderMatch, len(ranked))
	for _, r := range ranked {
		metrics.RecordMatchScore(opProviderMatch, r.OverallScore)
	}
	m.logger.Debug(ctx, "matched providers to request",
		logger.String("requestId", requestID),
		logger.Int("profiles", len(profiles)),
		logger.Int("candidates", len(available)),
	)
	return ranked
}

// GetTopMatches returns at most limit ranked matches. A non-positive limit
// uses the configured default.
func (m *ServiceMatcher) GetTopMatches(ctx context.Context, requestID string, limit int) []model.ScoredMatch {
	if limit <= 0 {
		limit = m.topLimit
	}
	ranked := m.MatchServiceProvidersToRequest(ctx, requestID)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// GetMatchesAboveThreshold returns the ranked matches whose overall score is
// at least minScore.
func (m *ServiceMatcher) GetMatchesAboveThreshold(ctx context.Context, requestID string, minScore float64) []model.ScoredMatch {
	ranked := m.MatchServiceProvidersToRequest(ctx, requestID)
	out := make([]model.ScoredMatch, 0, len(ranked))
	for _, r := range ranked {
		if r.OverallScore >= minScore {
			out = append(out, r)
		}
	}
	return out
}

// GetMatchStatistics summarises the ranked matches of a request. An empty
// match set yields all-zero statistics.
func (m *ServiceMatcher) GetMatchStatistics(ctx context.Context, requestID string) model.MatchStatistics {
	return Summarize(m.MatchServiceProvidersToRequest(ctx, requestID), m.buckets)
}

// Summarize computes statistics over matches using the given score ranges.
func Summarize(matches []model.ScoredMatch, b Buckets) model.MatchStatistics {
	var stats model.MatchStatistics
	if len(matches) == 0 {
		return stats
	}

	var sum float64
	for _, match := range matches {
		score := match.OverallScore
		sum += score
		if score > stats.TopScore {
			stats.TopScore = score
		}
		switch {
		case score >= b.Excellent:
			stats.MatchesByScoreRange.Excellent++
		case score >= b.Good:
			stats.MatchesByScoreRange.Good++
		case score >= b.Fair:
			stats.MatchesByScoreRange.Fair++
		default:
			stats.MatchesByScoreRange.Poor++
		}
	}
	stats.TotalMatches = len(matches)
	stats.AverageScore = sum / float64(len(matches))
	return stats
}
