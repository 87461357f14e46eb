package matching

import (
	"github.com/okian/pmtwin/internal/domain/scoring"
	"github.com/okian/pmtwin/internal/domain/skills"
	"github.com/okian/pmtwin/pkg/logger"
)

// Default matcher configuration constants.
const (
	DefaultTopMatchesLimit = 10
	DefaultMinScore        = 0.5
)

// Buckets are the lower bounds of the excellent, good and fair score ranges.
// Scores below Fair are counted as poor.
type Buckets struct {
	Excellent float64
	Good      float64
	Fair      float64
}

// DefaultBuckets returns the 0.8/0.6/0.4 score ranges.
func DefaultBuckets() Buckets {
	return Buckets{Excellent: 0.8, Good: 0.6, Fair: 0.4}
}

type settings struct {
	logger   logger.Logger
	scorer   *scoring.Scorer
	skills   *skills.Matcher
	buckets  Buckets
	topLimit int
}

func newSettings(opts []Option) settings {
	s := settings{
		logger:   logger.Nop(),
		skills:   skills.NewMatcher(),
		buckets:  DefaultBuckets(),
		topLimit: DefaultTopMatchesLimit,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.scorer == nil {
		s.scorer = scoring.NewScorer(scoring.WithSkillMatcher(s.skills))
	}
	return s
}

// Option applies a configuration option to a matcher.
type Option func(*settings)

// WithLogger sets the logger used for query and fail-soft messages.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithScorer sets the scorer used to rank provider matches.
func WithScorer(sc *scoring.Scorer) Option {
	return func(s *settings) {
		if sc != nil {
			s.scorer = sc
		}
	}
}

// WithSkillMatcher sets the skill matcher used to annotate candidates. When
// no scorer is given, the default scorer shares this matcher.
func WithSkillMatcher(m *skills.Matcher) Option {
	return func(s *settings) {
		if m != nil {
			s.skills = m
		}
	}
}

// WithBuckets sets the statistic score ranges. Thresholds that are not
// strictly descending are ignored.
func WithBuckets(b Buckets) Option {
	return func(s *settings) {
		if b.Excellent > b.Good && b.Good > b.Fair && b.Fair >= 0 {
			s.buckets = b
		}
	}
}

// WithTopMatchesLimit sets the limit used by GetTopMatches when the caller
// passes a non-positive one.
func WithTopMatchesLimit(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.topLimit = n
		}
	}
}
