// Package service wires the data store and the matchers into the business
// service behind the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	repository "github.com/okian/pmtwin/internal/adapters/repository"
	"github.com/okian/pmtwin/internal/domain/matching"
	"github.com/okian/pmtwin/internal/domain/model"
	"github.com/okian/pmtwin/internal/domain/scoring"
	"github.com/okian/pmtwin/internal/domain/skills"
	"github.com/okian/pmtwin/pkg/logger"
	"github.com/okian/pmtwin/pkg/metrics"
)

// Default limits.
const (
	defaultMaxMatchesLimit = 100
)

// ErrNotStarted is returned by operations that need an open store.
var ErrNotStarted = errors.New("service not started")

// Service implements the API dependencies for the matching system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store         repository.Store
	providers     *matching.ServiceMatcher
	opportunities *matching.OpportunityMatcher

	// Configuration
	storeOpts     repository.Options
	weights       scoring.Weights
	pricing       scoring.PricingParams
	partialCredit float64
	buckets       matching.Buckets
	topLimit      int
	maxLimit      int
	minScore      float64

	// State
	started   bool
	startedAt time.Time

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore uses an already opened store. The service takes ownership and
// closes it on Stop.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithStoreOptions selects the store opened by Start when none was given.
func WithStoreOptions(opts repository.Options) Option {
	return func(s *Service) {
		s.storeOpts = opts
	}
}

// WithWeights sets the overall score weights.
func WithWeights(w scoring.Weights) Option {
	return func(s *Service) {
		s.weights = w
	}
}

// WithPricingParams sets the pricing heuristic parameters.
func WithPricingParams(p scoring.PricingParams) Option {
	return func(s *Service) {
		s.pricing = p
	}
}

// WithPartialSkillCredit sets the credit for a substring skill match.
func WithPartialSkillCredit(credit float64) Option {
	return func(s *Service) {
		s.partialCredit = credit
	}
}

// WithBuckets sets the score ranges used by match statistics.
func WithBuckets(b matching.Buckets) Option {
	return func(s *Service) {
		s.buckets = b
	}
}

// WithTopMatchesLimit sets the default number of top matches.
func WithTopMatchesLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topLimit = n
		}
	}
}

// WithMaxMatchesLimit caps the number of top matches a caller may request.
func WithMaxMatchesLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithMinMatchScore sets the default threshold of qualified matches.
func WithMinMatchScore(score float64) Option {
	return func(s *Service) {
		if score >= 0 && score <= 1 {
			s.minScore = score
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		storeOpts:     repository.Options{Driver: repository.DriverMemory},
		weights:       scoring.DefaultWeights(),
		pricing:       scoring.DefaultPricingParams(),
		partialCredit: skills.DefaultPartialCredit,
		buckets:       matching.DefaultBuckets(),
		topLimit:      matching.DefaultTopMatchesLimit,
		maxLimit:      defaultMaxMatchesLimit,
		minScore:      matching.DefaultMinScore,
		logger:        nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start opens the data store and builds the matchers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting matching service...")

	if s.store == nil {
		store, err := repository.Open(ctx, s.storeOpts)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		s.store = store
		s.logger.Info(ctx, "opened data store",
			logger.String("driver", s.storeOpts.Driver),
			logger.String("catalog", s.storeOpts.CatalogPath),
		)
	}

	skillMatcher := skills.NewMatcher(skills.WithPartialCredit(s.partialCredit))
	scorer := scoring.NewScorer(
		scoring.WithWeights(s.weights),
		scoring.WithPricingParams(s.pricing),
		scoring.WithSkillMatcher(skillMatcher),
	)
	opts := []matching.Option{
		matching.WithLogger(s.logger.Named("matching")),
		matching.WithScorer(scorer),
		matching.WithSkillMatcher(skillMatcher),
		matching.WithBuckets(s.buckets),
		matching.WithTopMatchesLimit(s.topLimit),
	}
	s.providers = matching.NewServiceMatcher(s.store, opts...)
	s.opportunities = matching.NewOpportunityMatcher(s.store, opts...)

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "matching service started",
		logger.Int("topMatchesLimit", s.topLimit),
		logger.Int("maxMatchesLimit", s.maxLimit),
		logger.Float64("minMatchScore", s.minScore),
	)

	return nil
}

// Stop closes the data store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping matching service...")

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(ctx, "failed to close data store", logger.Error(err))
		}
		s.store = nil
	}
	s.providers = nil
	s.opportunities = nil

	s.started = false
	s.logger.Info(ctx, "matching service stopped")
}

// matchers returns the current matchers. Before Start they have no data
// source and degrade to empty results.
func (s *Service) matchers() (*matching.ServiceMatcher, *matching.OpportunityMatcher) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return matching.NewServiceMatcher(nil), matching.NewOpportunityMatcher(nil)
	}
	return s.providers, s.opportunities
}

// TopMatches returns the best ranked providers for a request. A
// non-positive limit uses the configured default, and limits above the
// configured maximum are capped.
func (s *Service) TopMatches(ctx context.Context, requestID string, limit int) []model.ScoredMatch {
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	providers, _ := s.matchers()
	return providers.GetTopMatches(ctx, requestID, limit)
}

// MatchesAboveThreshold returns the ranked providers scoring at least
// minScore.
func (s *Service) MatchesAboveThreshold(ctx context.Context, requestID string, minScore float64) []model.ScoredMatch {
	providers, _ := s.matchers()
	return providers.GetMatchesAboveThreshold(ctx, requestID, minScore)
}

// MinMatchScore returns the default threshold of qualified matches.
func (s *Service) MinMatchScore() float64 {
	return s.minScore
}

// MaxMatchesLimit returns the largest accepted top-matches limit.
func (s *Service) MaxMatchesLimit() int {
	return s.maxLimit
}

// MatchStatistics summarises the ranked providers of a request.
func (s *Service) MatchStatistics(ctx context.Context, requestID string) model.MatchStatistics {
	providers, _ := s.matchers()
	return providers.GetMatchStatistics(ctx, requestID)
}

// Opportunities returns the opportunities a company can serve in role.
func (s *Service) Opportunities(ctx context.Context, companyID, role string) []model.OpportunityMatch {
	_, opportunities := s.matchers()
	return opportunities.FindMatchesForCompany(ctx, companyID, matching.Role(role))
}

// Import loads a catalog into the data store. Only stores that support
// bulk import accept it.
func (s *Service) Import(ctx context.Context, c repository.Catalog) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	switch st := s.store.(type) {
	case *repository.SQLStore:
		return st.Import(ctx, c)
	case *repository.MemoryStore:
		st.Replace(c)
		return nil
	default:
		return fmt.Errorf("store %T does not support import", s.store)
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"storeDriver":     s.storeOpts.Driver,
		"topMatchesLimit": s.topLimit,
		"maxMatchesLimit": s.maxLimit,
		"minMatchScore":   s.minScore,
	}

	if s.started {
		stats["uptimeSeconds"] = int(time.Since(s.startedAt).Seconds())
		counts, err := s.store.Counts(context.Background())
		if err != nil {
			s.logger.Warn(context.Background(), "failed to count store entities", logger.Error(err))
			return stats
		}
		entities := make(map[string]int, len(counts))
		for kind, n := range counts {
			entities[kind] = n
			metrics.UpdateCatalogEntities(kind, n)
		}
		stats["entities"] = entities
	}

	return stats
}
