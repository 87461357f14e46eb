package service

import (
	repository "github.com/okian/pmtwin/internal/adapters/repository"
	"github.com/okian/pmtwin/internal/config"
	"github.com/okian/pmtwin/internal/domain/matching"
	"github.com/okian/pmtwin/internal/domain/scoring"
)

// OptionsFromConfig maps a loaded configuration onto service options.
func OptionsFromConfig(cfg *config.Config) []Option {
	return []Option{
		WithStoreOptions(repository.Options{
			Driver:      cfg.StoreDriver,
			CatalogPath: cfg.CatalogPath,
			DSN:         cfg.SQLiteDSN,
		}),
		WithWeights(scoring.Weights{
			Skill:        cfg.Scoring.SkillWeight,
			Availability: cfg.Scoring.AvailabilityWeight,
			Pricing:      cfg.Scoring.PricingWeight,
		}),
		WithPricingParams(scoring.PricingParams{
			HoursPerProject:  cfg.Scoring.HoursPerProject,
			BelowBudgetScore: cfg.Scoring.BelowBudgetScore,
			NeutralScore:     cfg.Scoring.NeutralPricingScore,
		}),
		WithPartialSkillCredit(cfg.Scoring.PartialSkillCredit),
		WithBuckets(matching.Buckets{
			Excellent: cfg.Buckets.Excellent,
			Good:      cfg.Buckets.Good,
			Fair:      cfg.Buckets.Fair,
		}),
		WithTopMatchesLimit(cfg.TopMatchesLimit),
		WithMaxMatchesLimit(cfg.MaxMatchesLimit),
		WithMinMatchScore(cfg.MinMatchScore),
	}
}
