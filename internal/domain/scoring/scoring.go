// Package scoring combines skill, availability and pricing sub-scores into a
// single overall score used to rank providers.
package scoring

import (
	"math"
	"sort"

	"github.com/okian/pmtwin/internal/domain/model"
	"github.com/okian/pmtwin/internal/domain/skills"
)

// Default scoring configuration constants.
const (
	defaultSkillWeight        = 0.6
	defaultAvailabilityWeight = 0.2
	defaultPricingWeight      = 0.2
	defaultHoursPerProject    = 40
	defaultBelowBudgetScore   = 0.7
	defaultNeutralPricing     = 0.5
	maxScoreValue             = 1.0
)

// Weights are the coefficients of the overall score.
type Weights struct {
	Skill        float64
	Availability float64
	Pricing      float64
}

// DefaultWeights returns the standard 0.6/0.2/0.2 split.
func DefaultWeights() Weights {
	return Weights{
		Skill:        defaultSkillWeight,
		Availability: defaultAvailabilityWeight,
		Pricing:      defaultPricingWeight,
	}
}

// PricingParams tunes the pricing heuristic.
type PricingParams struct {
	// HoursPerProject converts an hourly rate into a project-equivalent amount.
	HoursPerProject float64
	// BelowBudgetScore is awarded when the estimate is under the budget minimum.
	BelowBudgetScore float64
	// NeutralScore is returned when pricing or budget data is missing.
	NeutralScore float64
}

// DefaultPricingParams returns the standard pricing heuristic.
func DefaultPricingParams() PricingParams {
	return PricingParams{
		HoursPerProject:  defaultHoursPerProject,
		BelowBudgetScore: defaultBelowBudgetScore,
		NeutralScore:     defaultNeutralPricing,
	}
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithWeights sets the overall score weights. Negative weights are ignored.
func WithWeights(w Weights) Option {
	return func(s *Scorer) {
		if w.Skill >= 0 && w.Availability >= 0 && w.Pricing >= 0 {
			s.weights = w
		}
	}
}

// WithPricingParams sets the pricing heuristic parameters.
func WithPricingParams(p PricingParams) Option {
	return func(s *Scorer) {
		if p.HoursPerProject > 0 {
			s.pricing.HoursPerProject = p.HoursPerProject
		}
		if p.BelowBudgetScore >= 0 && p.BelowBudgetScore <= maxScoreValue {
			s.pricing.BelowBudgetScore = p.BelowBudgetScore
		}
		if p.NeutralScore >= 0 && p.NeutralScore <= maxScoreValue {
			s.pricing.NeutralScore = p.NeutralScore
		}
	}
}

// WithSkillMatcher sets the skill matcher used by ScoreProviderMatch.
func WithSkillMatcher(m *skills.Matcher) Option {
	return func(s *Scorer) {
		if m != nil {
			s.skills = m
		}
	}
}

// Parts are the inputs of the overall score. A nil Pricing is treated as
// the neutral pricing score.
type Parts struct {
	SkillMatch   float64
	Availability float64
	Pricing      *float64
}

// Scorer computes match sub-scores and the weighted overall score. It holds
// only immutable configuration.
type Scorer struct {
	weights Weights
	pricing PricingParams
	skills  *skills.Matcher
}

// NewScorer creates a new scorer with configuration options.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		weights: DefaultWeights(),
		pricing: DefaultPricingParams(),
		skills:  skills.NewMatcher(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AvailabilityScore maps a provider availability status to [0, 1].
// Unknown statuses score 0.
func (s *Scorer) AvailabilityScore(status model.AvailabilityStatus) float64 {
	switch status.Normalize() {
	case model.AvailabilityAvailable:
		return 1.0
	case model.AvailabilityBusy:
		return 0.5
	default:
		return 0
	}
}

// PricingScore rates a provider's price against a request budget.
//
// Hourly rates are converted to a project estimate; otherwise the flat
// amount is used. Estimates under the minimum get BelowBudgetScore, inside
// the window 1, and above the maximum a penalty proportional to the overrun.
func (s *Scorer) PricingScore(p *model.Pricing, budget *model.Budget) float64 {
	if p == nil || budget == nil {
		return s.pricing.NeutralScore
	}

	var amount float64
	switch {
	case p.HourlyRate > 0:
		amount = p.HourlyRate * s.pricing.HoursPerProject
	case p.Amount > 0:
		amount = p.Amount
	default:
		return s.pricing.NeutralScore
	}

	upper := budget.Max
	if upper <= 0 {
		upper = math.Inf(1)
	}

	switch {
	case amount < budget.Min:
		return s.pricing.BelowBudgetScore
	case amount <= upper:
		return maxScoreValue
	}

	span := budget.Max - budget.Min
	if budget.Min == 0 || span <= 0 {
		span = budget.Max
	}
	if span <= 0 {
		return 0
	}
	overrun := math.Min(maxScoreValue, (amount-budget.Max)/span)
	return math.Max(0, maxScoreValue-overrun)
}

// OverallScore returns the weighted sum of parts clamped to [0, 1].
func (s *Scorer) OverallScore(parts Parts) float64 {
	pricing := s.pricing.NeutralScore
	if parts.Pricing != nil {
		pricing = *parts.Pricing
	}
	score := parts.SkillMatch*s.weights.Skill +
		parts.Availability*s.weights.Availability +
		pricing*s.weights.Pricing
	return clamp(score)
}

// ScoreProviderMatch scores one provider against one request.
func (s *Scorer) ScoreProviderMatch(provider model.ServiceProviderProfile, req model.ServiceRequest) model.ScoredMatch {
	match := model.ScoredMatch{
		Provider:          provider,
		MatchedSkills:     []string{},
		SkillMatchScore:   s.skills.Match(provider.Skills, req.RequiredSkills),
		AvailabilityScore: s.AvailabilityScore(provider.AvailabilityStatus),
		PricingScore:      s.PricingScore(provider.Pricing(), req.Budget),
	}
	match.OverallScore = s.OverallScore(partsOf(match))
	return match
}

// RankMatches recomputes each overall score and returns a new slice sorted
// by overall score descending. Equal scores keep their input order.
func (s *Scorer) RankMatches(matches []model.ScoredMatch) []model.ScoredMatch {
	ranked := make([]model.ScoredMatch, len(matches))
	copy(ranked, matches)
	for i := range ranked {
		ranked[i].OverallScore = s.OverallScore(partsOf(ranked[i]))
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].OverallScore > ranked[j].OverallScore
	})
	return ranked
}

func partsOf(m model.ScoredMatch) Parts {
	pricing := m.PricingScore
	return Parts{SkillMatch: m.SkillMatchScore, Availability: m.AvailabilityScore, Pricing: &pricing}
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(maxScoreValue, v))
}
