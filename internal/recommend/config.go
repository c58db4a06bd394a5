// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Defaults are the request parameter defaults applied when a caller
	// omits a field.
	Defaults DefaultsConfig `json:"defaults" koanf:"defaults"`

	// Limits contains operational bounds.
	Limits LimitsConfig `json:"limits" koanf:"limits"`

	// Cache controls response caching.
	Cache CacheConfig `json:"cache" koanf:"cache"`

	// FilterExpression is an optional CEL expression applied to merged
	// candidates before reranking. Empty disables filtering.
	FilterExpression string `json:"filter_expression" koanf:"filter_expression"`

	// SnapshotDir is where CF model snapshots are persisted for
	// warm-starting. Empty disables persistence.
	SnapshotDir string `json:"snapshot_dir" koanf:"snapshot_dir"`
}

// DefaultsConfig holds the request parameter defaults.
type DefaultsConfig struct {
	// TopN is the default number of recommendations (10).
	TopN int `json:"top_n" koanf:"top_n"`

	// Strategy is the default merge strategy ("weighted").
	Strategy string `json:"strategy" koanf:"strategy"`

	// ContentWeight and CFWeight are the default merge weights
	// (0.6 / 0.4).
	ContentWeight float64 `json:"content_weight" koanf:"content_weight"`
	CFWeight      float64 `json:"cf_weight" koanf:"cf_weight"`

	// DiversityWeight, NoveltyWeight, and MMRLambda are the default
	// reranking parameters (0.3 / 0.2 / 0.7).
	DiversityWeight float64 `json:"diversity_weight" koanf:"diversity_weight"`
	NoveltyWeight   float64 `json:"novelty_weight" koanf:"novelty_weight"`
	MMRLambda       float64 `json:"mmr_lambda" koanf:"mmr_lambda"`
}

// LimitsConfig holds operational bounds.
type LimitsConfig struct {
	// MaxTopN caps the requested list length (50).
	MaxTopN int `json:"max_top_n" koanf:"max_top_n"`

	// PoolMultiplier sizes the per-source candidate pools fetched before
	// merging: pool = PoolMultiplier * top_n (2).
	PoolMultiplier int `json:"pool_multiplier" koanf:"pool_multiplier"`
}

// CacheConfig controls response caching.
type CacheConfig struct {
	// Enabled turns the response cache on.
	Enabled bool `json:"enabled" koanf:"enabled"`

	// TTL is how long a cached response stays fresh.
	TTL time.Duration `json:"ttl" koanf:"ttl"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			TopN:            10,
			Strategy:        StrategyWeighted,
			ContentWeight:   0.6,
			CFWeight:        0.4,
			DiversityWeight: 0.3,
			NoveltyWeight:   0.2,
			MMRLambda:       0.7,
		},
		Limits: LimitsConfig{
			MaxTopN:        50,
			PoolMultiplier: 2,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     60 * time.Second,
		},
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Defaults.TopN < 1 {
		return fmt.Errorf("defaults.top_n must be >= 1, got %d", c.Defaults.TopN)
	}
	if !validStrategy(c.Defaults.Strategy) {
		return fmt.Errorf("defaults.strategy %q is not one of weighted, cascade, mixed", c.Defaults.Strategy)
	}
	for name, w := range map[string]float64{
		"defaults.content_weight":   c.Defaults.ContentWeight,
		"defaults.cf_weight":        c.Defaults.CFWeight,
		"defaults.diversity_weight": c.Defaults.DiversityWeight,
		"defaults.novelty_weight":   c.Defaults.NoveltyWeight,
		"defaults.mmr_lambda":       c.Defaults.MMRLambda,
	} {
		if w < 0 || w > 1 {
			return fmt.Errorf("%s must be in [0,1], got %v", name, w)
		}
	}
	if c.Defaults.ContentWeight+c.Defaults.CFWeight <= 0 {
		return fmt.Errorf("defaults.content_weight + defaults.cf_weight must be > 0")
	}
	if c.Defaults.DiversityWeight+c.Defaults.NoveltyWeight > 1 {
		return fmt.Errorf("defaults.diversity_weight + defaults.novelty_weight must be <= 1")
	}
	if c.Limits.MaxTopN < 1 {
		return fmt.Errorf("limits.max_top_n must be >= 1, got %d", c.Limits.MaxTopN)
	}
	if c.Defaults.TopN > c.Limits.MaxTopN {
		return fmt.Errorf("defaults.top_n %d exceeds limits.max_top_n %d", c.Defaults.TopN, c.Limits.MaxTopN)
	}
	if c.Limits.PoolMultiplier < 1 {
		return fmt.Errorf("limits.pool_multiplier must be >= 1, got %d", c.Limits.PoolMultiplier)
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be > 0 when the cache is enabled")
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func validStrategy(s string) bool {
	return s == StrategyWeighted || s == StrategyCascade || s == StrategyMixed
}
