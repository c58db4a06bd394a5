// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package cache

import (
	"fmt"

	"github.com/tomtom215/vocatio/internal/config"
	"github.com/tomtom215/vocatio/internal/recommend"
)

// New builds the configured response cache backend. Returns nil when the
// cache is disabled; the engine treats a nil cache as caching off.
func New(cfg *config.CacheConfig) (recommend.ResponseCache, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	switch cfg.Backend {
	case "redis":
		return NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.TTL)
	case "memory":
		return NewMemory(cfg.MaxCostBytes, cfg.TTL)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
