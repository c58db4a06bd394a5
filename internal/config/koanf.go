// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/vocatio/config.yaml",
	"/etc/vocatio/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all defaults applied. Defaults load
// first, then the config file, then environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8970,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Database: DatabaseConfig{
			Path:      "/data/vocatio.duckdb",
			MaxMemory: "2GB",
			Threads:   0, // 0 = runtime.NumCPU()
		},
		Embedding: EmbeddingConfig{
			Path:         "/data/embeddings",
			Dimensions:   384,
			HotCacheSize: 4096,
		},
		Search: SearchConfig{
			Path:       "/data/search.bleve",
			MaxResults: 100,
		},
		Cache: CacheConfig{
			Enabled:      true,
			TTL:          60 * time.Second,
			Backend:      "memory",
			MaxCostBytes: 64 << 20, // 64MB
		},
		NATS: NATSConfig{
			Enabled:                    false,
			URL:                        "nats://127.0.0.1:4222",
			EmbeddedServer:             true,
			StoreDir:                   "/data/nats/jetstream",
			MaxMemory:                  1 << 30,
			MaxStore:                   4 << 30,
			QueueGroup:                 "vocatio",
			DurableName:                "interaction-processor",
			RouterRetryCount:           3,
			RouterRetryInitialInterval: 100 * time.Millisecond,
			RouterThrottlePerSecond:    0, // unlimited
			RouterPoisonQueueEnabled:   true,
			RouterPoisonQueueTopic:     "interactions.poison",
			RouterCloseTimeout:         30 * time.Second,
		},
		Recommend: RecommendConfig{
			TopN:             10,
			MaxTopN:          50,
			Strategy:         "weighted",
			ContentWeight:    0.6,
			CFWeight:         0.4,
			DiversityWeight:  0.3,
			NoveltyWeight:    0.2,
			MMRLambda:        0.7,
			PoolMultiplier:   2,
			SnapshotDir:      "/data/model",
			RebuildInterval:  15 * time.Minute,
			RebuildOnStartup: false,
		},
		Embedder: EmbedderConfig{
			URL:                "",
			Timeout:            10 * time.Second,
			RequestsPerSecond:  20,
			BreakerMaxFailures: 5,
			BreakerOpenTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			AuthMode:        "jwt",
			JWTSecret:       "",
			SessionTimeout:  24 * time.Hour,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
			TrustedProxies:  []string{},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in values
//  2. Config file: optional YAML file
//  3. Environment variables: override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// VOCATIO_SERVER_PORT -> server.port
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file path, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are the paths parsed as comma-separated slices when they
// arrive as env var strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.trusted_proxies",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars arrive as strings but the config expects
// slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - DUCKDB_PATH -> database.path
//   - RECOMMEND_STRATEGY -> recommend.strategy
//
// Unmapped keys return "" and are skipped, so unrelated environment
// variables never pollute the config.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server
		"http_port":    "server.port",
		"http_host":    "server.host",
		"http_timeout": "server.timeout",
		"environment":  "server.environment",

		// Database
		"duckdb_path":       "database.path",
		"duckdb_max_memory": "database.max_memory",
		"duckdb_threads":    "database.threads",
		"seed_sample_data":  "database.seed_sample_data",

		// Embedding store
		"embedding_path":           "embedding.path",
		"embedding_dimensions":     "embedding.dimensions",
		"embedding_hot_cache_size": "embedding.hot_cache_size",

		// Search index
		"search_path":        "search.path",
		"search_max_results": "search.max_results",

		// Cache
		"cache_enabled":        "cache.enabled",
		"cache_ttl":            "cache.ttl",
		"cache_backend":        "cache.backend",
		"cache_max_cost_bytes": "cache.max_cost_bytes",
		"redis_addr":           "cache.redis_addr",
		"redis_password":       "cache.redis_password",
		"redis_db":             "cache.redis_db",

		// NATS
		"nats_enabled":               "nats.enabled",
		"nats_url":                   "nats.url",
		"nats_embedded":              "nats.embedded_server",
		"nats_store_dir":             "nats.store_dir",
		"nats_max_memory":            "nats.max_memory",
		"nats_max_store":             "nats.max_store",
		"nats_queue_group":           "nats.queue_group",
		"nats_durable_name":          "nats.durable_name",
		"nats_router_retry_count":    "nats.router_retry_count",
		"nats_router_retry_interval": "nats.router_retry_initial_interval",
		"nats_router_throttle":       "nats.router_throttle_per_second",
		"nats_router_poison_enabled": "nats.router_poison_queue_enabled",
		"nats_router_poison_topic":   "nats.router_poison_queue_topic",
		"nats_router_close_timeout":  "nats.router_close_timeout",

		// Recommendation engine
		"recommend_top_n":              "recommend.top_n",
		"recommend_max_top_n":          "recommend.max_top_n",
		"recommend_strategy":           "recommend.strategy",
		"recommend_content_weight":     "recommend.content_weight",
		"recommend_cf_weight":          "recommend.cf_weight",
		"recommend_diversity_weight":   "recommend.diversity_weight",
		"recommend_novelty_weight":     "recommend.novelty_weight",
		"recommend_mmr_lambda":         "recommend.mmr_lambda",
		"recommend_pool_multiplier":    "recommend.pool_multiplier",
		"recommend_filter_expression":  "recommend.filter_expression",
		"recommend_snapshot_dir":       "recommend.snapshot_dir",
		"recommend_rebuild_interval":   "recommend.rebuild_interval",
		"recommend_rebuild_on_startup": "recommend.rebuild_on_startup",

		// Embedder client
		"embedder_url":                  "embedder.url",
		"embedder_timeout":              "embedder.timeout",
		"embedder_requests_per_second":  "embedder.requests_per_second",
		"embedder_breaker_max_failures": "embedder.breaker_max_failures",
		"embedder_breaker_open_timeout": "embedder.breaker_open_timeout",

		// Security
		"auth_mode":           "security.auth_mode",
		"jwt_secret":          "security.jwt_secret",
		"session_timeout":     "security.session_timeout",
		"admin_username":      "security.admin_username",
		"admin_password":      "security.admin_password",
		"rate_limit_requests": "security.rate_limit_reqs",
		"rate_limit_window":   "security.rate_limit_window",
		"disable_rate_limit":  "security.rate_limit_disabled",
		"cors_origins":        "security.cors_origins",
		"trusted_proxies":     "security.trusted_proxies",
		"casbin_model_path":   "security.casbin_model_path",
		"casbin_policy_path":  "security.casbin_policy_path",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}

// WatchConfigFile sets up a file watcher for hot-reload. The caller owns
// mutex protection when swapping configuration during reloads.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)
	return provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
