package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables read by the loader.
const (
	EnvPrefix     = "PMTWIN_"
	EnvConfigFile = "PMTWIN_CONFIG"
)

// Load builds a Config by layering defaults, the file named by PMTWIN_CONFIG
// and PMTWIN_ environment variables.
func Load(ctx context.Context) (*Config, error) {
	return LoadFile(ctx, os.Getenv(EnvConfigFile))
}

// LoadFile is Load with an explicit YAML file path. Order of precedence
// (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if path is not empty
//  3. env (prefix PMTWIN_); nested keys use a double underscore,
//     e.g. PMTWIN_SCORING__SKILL_WEIGHT
func LoadFile(ctx context.Context, path string) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the config for values the service cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.StoreDriver != DriverMemory && c.StoreDriver != DriverSQLite:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	case c.StoreDriver == DriverSQLite && c.SQLiteDSN == "":
		return fmt.Errorf("%w: sqlite_dsn must not be empty", ErrInvalidConfig)
	case c.TopMatchesLimit < 1:
		return fmt.Errorf("%w: top_matches_limit must be positive", ErrInvalidConfig)
	case c.MaxMatchesLimit < c.TopMatchesLimit:
		return fmt.Errorf("%w: max_matches_limit must be at least top_matches_limit", ErrInvalidConfig)
	case !(c.MinMatchScore >= 0 && c.MinMatchScore <= 1):
		return fmt.Errorf("%w: min_match_score must be within [0,1]", ErrInvalidConfig)
	}

	s := c.Scoring
	if s.SkillWeight < 0 || s.AvailabilityWeight < 0 || s.PricingWeight < 0 {
		return fmt.Errorf("%w: scoring weights must not be negative", ErrInvalidConfig)
	}
	if s.SkillWeight+s.AvailabilityWeight+s.PricingWeight == 0 {
		return fmt.Errorf("%w: scoring weights must not all be zero", ErrInvalidConfig)
	}
	if s.HoursPerProject <= 0 {
		return fmt.Errorf("%w: hours_per_project must be positive", ErrInvalidConfig)
	}
	for name, v := range map[string]float64{
		"below_budget_score":    s.BelowBudgetScore,
		"neutral_pricing_score": s.NeutralPricingScore,
		"partial_skill_credit":  s.PartialSkillCredit,
	} {
		if !(v >= 0 && v <= 1) {
			return fmt.Errorf("%w: %s must be within [0,1]", ErrInvalidConfig, name)
		}
	}

	b := c.Buckets
	if !(b.Excellent > b.Good && b.Good > b.Fair && b.Fair > 0 && b.Excellent <= 1) {
		return fmt.Errorf("%w: buckets must satisfy 1 >= excellent > good > fair > 0", ErrInvalidConfig)
	}
	return nil
}
