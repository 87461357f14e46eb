// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"context"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// StoreDriver selects the data store: memory or sqlite.
	StoreDriver string `koanf:"store_driver"`

	// CatalogPath is a YAML catalog loaded into the memory store.
	CatalogPath string `koanf:"catalog_path"`

	// SQLiteDSN is the DSN used by the sqlite store.
	SQLiteDSN string `koanf:"sqlite_dsn"`

	// TopMatchesLimit is the default size of a top-matches query.
	TopMatchesLimit int `koanf:"top_matches_limit"`

	// MaxMatchesLimit caps the limit query parameter.
	MaxMatchesLimit int `koanf:"max_matches_limit"`

	// MinMatchScore is the default threshold of a threshold query.
	MinMatchScore float64 `koanf:"min_match_score"`

	Scoring Scoring `koanf:"scoring"`
	Buckets Buckets `koanf:"buckets"`
}

// Scoring holds the tunable constants of the match scorer.
type Scoring struct {
	SkillWeight         float64 `koanf:"skill_weight"`
	AvailabilityWeight  float64 `koanf:"availability_weight"`
	PricingWeight       float64 `koanf:"pricing_weight"`
	HoursPerProject     float64 `koanf:"hours_per_project"`
	BelowBudgetScore    float64 `koanf:"below_budget_score"`
	NeutralPricingScore float64 `koanf:"neutral_pricing_score"`
	PartialSkillCredit  float64 `koanf:"partial_skill_credit"`
}

// Buckets are the lower bounds of the excellent, good and fair score ranges.
// Anything below Fair is poor.
type Buckets struct {
	Excellent float64 `koanf:"excellent"`
	Good      float64 `koanf:"good"`
	Fair      float64 `koanf:"fair"`
}

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// New creates a Config with defaults. Context is accepted first to follow
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		StoreDriver:     DriverMemory,
		SQLiteDSN:       "file:pmtwin.db",
		TopMatchesLimit: 10,
		MaxMatchesLimit: 100,
		MinMatchScore:   0.5,
		Scoring: Scoring{
			SkillWeight:         0.6,
			AvailabilityWeight:  0.2,
			PricingWeight:       0.2,
			HoursPerProject:     40,
			BelowBudgetScore:    0.7,
			NeutralPricingScore: 0.5,
			PartialSkillCredit:  0.5,
		},
		Buckets: Buckets{
			Excellent: 0.8,
			Good:      0.6,
			Fair:      0.4,
		},
	}
}
