// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file, and environment variables (highest priority).
//
// Categories:
//
//  1. Infrastructure: Database (DuckDB), Embeddings (Badger), Search
//     (Bleve), Cache (in-memory or Redis), NATS (embedded JetStream).
//  2. Recommendation: engine defaults, limits, and the rebuild schedule.
//  3. Embedder: the external embedding service client.
//  4. API & Security: HTTP server, auth, rate limiting, CORS.
//  5. Observability: logging.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Embedding EmbeddingConfig `koanf:"embedding"`
	Search    SearchConfig    `koanf:"search"`
	Cache     CacheConfig     `koanf:"cache"`
	NATS      NATSConfig      `koanf:"nats"`
	Recommend RecommendConfig `koanf:"recommend"`
	Embedder  EmbedderConfig  `koanf:"embedder"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// DatabaseConfig configures the DuckDB store for jobs and interactions.
type DatabaseConfig struct {
	// Path is the DuckDB database file. Empty runs in-memory.
	Path string `koanf:"path"`

	// MaxMemory is DuckDB's memory limit, e.g. "2GB".
	MaxMemory string `koanf:"max_memory"`

	// Threads is DuckDB's thread count. 0 uses runtime.NumCPU().
	Threads int `koanf:"threads"`

	// SeedSampleData loads a small fixture catalog on first start.
	SeedSampleData bool `koanf:"seed_sample_data"`
}

// EmbeddingConfig configures the Badger-backed embedding store.
type EmbeddingConfig struct {
	// Path is the Badger directory. Empty runs in-memory.
	Path string `koanf:"path"`

	// Dimensions is the expected embedding vector length.
	Dimensions int `koanf:"dimensions"`

	// HotCacheSize is the in-process LRU capacity for recently used
	// vectors.
	HotCacheSize int `koanf:"hot_cache_size"`
}

// SearchConfig configures the Bleve job search index.
type SearchConfig struct {
	// Path is the Bleve index directory. Empty runs in-memory.
	Path string `koanf:"path"`

	// MaxResults caps a single search response.
	MaxResults int `koanf:"max_results"`
}

// CacheConfig configures the recommendation response cache.
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	TTL     time.Duration `koanf:"ttl"`

	// Backend selects the cache implementation: "memory" (Ristretto)
	// or "redis".
	Backend string `koanf:"backend"`

	// MaxCostBytes bounds the in-memory backend.
	MaxCostBytes int64 `koanf:"max_cost_bytes"`

	// RedisAddr, RedisPassword, and RedisDB configure the redis backend.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
}

// NATSConfig configures event processing with Watermill over NATS JetStream.
type NATSConfig struct {
	Enabled        bool   `koanf:"enabled"`
	URL            string `koanf:"url"`
	EmbeddedServer bool   `koanf:"embedded_server"`
	StoreDir       string `koanf:"store_dir"`
	MaxMemory      int64  `koanf:"max_memory"`
	MaxStore       int64  `koanf:"max_store"`
	QueueGroup     string `koanf:"queue_group"`
	DurableName    string `koanf:"durable_name"`

	// Watermill router middleware settings.
	RouterRetryCount           int           `koanf:"router_retry_count"`
	RouterRetryInitialInterval time.Duration `koanf:"router_retry_initial_interval"`
	RouterThrottlePerSecond    int           `koanf:"router_throttle_per_second"`
	RouterPoisonQueueEnabled   bool          `koanf:"router_poison_queue_enabled"`
	RouterPoisonQueueTopic     string        `koanf:"router_poison_queue_topic"`
	RouterCloseTimeout         time.Duration `koanf:"router_close_timeout"`
}

// RecommendConfig configures the recommendation engine and its rebuild
// schedule. The per-request defaults mirror recommend.DefaultsConfig.
type RecommendConfig struct {
	TopN            int     `koanf:"top_n"`
	MaxTopN         int     `koanf:"max_top_n"`
	Strategy        string  `koanf:"strategy"`
	ContentWeight   float64 `koanf:"content_weight"`
	CFWeight        float64 `koanf:"cf_weight"`
	DiversityWeight float64 `koanf:"diversity_weight"`
	NoveltyWeight   float64 `koanf:"novelty_weight"`
	MMRLambda       float64 `koanf:"mmr_lambda"`
	PoolMultiplier  int     `koanf:"pool_multiplier"`

	// FilterExpression is an optional CEL filter over merged candidates.
	FilterExpression string `koanf:"filter_expression"`

	// SnapshotDir persists CF model snapshots for warm starts.
	SnapshotDir string `koanf:"snapshot_dir"`

	// RebuildInterval is the periodic model rebuild cadence. 0 disables
	// the ticker; rebuilds then only happen via the admin endpoint.
	RebuildInterval time.Duration `koanf:"rebuild_interval"`

	// RebuildOnStartup triggers a rebuild during boot.
	RebuildOnStartup bool `koanf:"rebuild_on_startup"`
}

// EmbedderConfig configures the external embedding service client.
type EmbedderConfig struct {
	// URL is the embedding service endpoint. Empty disables the client;
	// embeddings must then be supplied via the API.
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`

	// RequestsPerSecond rate-limits outbound calls. 0 means unlimited.
	RequestsPerSecond float64 `koanf:"requests_per_second"`

	// Breaker settings (gobreaker).
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"`
	BreakerOpenTimeout time.Duration `koanf:"breaker_open_timeout"`
}

// SecurityConfig configures authentication and request limits.
type SecurityConfig struct {
	// AuthMode is "jwt", "basic", or "none".
	AuthMode string `koanf:"auth_mode"`

	JWTSecret      string        `koanf:"jwt_secret"`
	SessionTimeout time.Duration `koanf:"session_timeout"`
	AdminUsername  string        `koanf:"admin_username"`
	AdminPassword  string        `koanf:"admin_password"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	CORSOrigins    []string `koanf:"cors_origins"`
	TrustedProxies []string `koanf:"trusted_proxies"`

	// Casbin policy files for admin-route authorization. Empty paths use
	// the built-in model and policy.
	CasbinModelPath  string `koanf:"casbin_model_path"`
	CasbinPolicyPath string `koanf:"casbin_policy_path"`
}

// LoggingConfig configures zerolog output.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// Validate checks the configuration for consistency. Called after loading;
// a failed validation aborts startup.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive")
	}

	if c.Embedding.Dimensions < 1 {
		return fmt.Errorf("embedding.dimensions must be >= 1, got %d", c.Embedding.Dimensions)
	}
	if c.Embedding.HotCacheSize < 1 {
		return fmt.Errorf("embedding.hot_cache_size must be >= 1, got %d", c.Embedding.HotCacheSize)
	}

	if c.Search.MaxResults < 1 {
		return fmt.Errorf("search.max_results must be >= 1, got %d", c.Search.MaxResults)
	}

	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("cache.backend must be memory or redis, got %q", c.Cache.Backend)
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when the cache is enabled")
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisAddr == "" {
		return fmt.Errorf("cache.redis_addr is required for the redis backend")
	}

	if c.NATS.Enabled {
		if c.NATS.URL == "" {
			return fmt.Errorf("nats.url is required when NATS is enabled")
		}
		if _, err := url.Parse(c.NATS.URL); err != nil {
			return fmt.Errorf("nats.url is not a valid URL: %w", err)
		}
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if c.Embedder.URL != "" {
		u, err := url.Parse(c.Embedder.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("embedder.url is not a valid URL: %q", c.Embedder.URL)
		}
		if c.Embedder.Timeout <= 0 {
			return fmt.Errorf("embedder.timeout must be positive")
		}
	}

	return c.validateSecurity()
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.TopN < 1 {
		return fmt.Errorf("recommend.top_n must be >= 1, got %d", r.TopN)
	}
	if r.MaxTopN < r.TopN {
		return fmt.Errorf("recommend.max_top_n %d is below recommend.top_n %d", r.MaxTopN, r.TopN)
	}
	switch r.Strategy {
	case "weighted", "cascade", "mixed":
	default:
		return fmt.Errorf("recommend.strategy must be weighted, cascade, or mixed, got %q", r.Strategy)
	}
	for name, w := range map[string]float64{
		"recommend.content_weight":   r.ContentWeight,
		"recommend.cf_weight":        r.CFWeight,
		"recommend.diversity_weight": r.DiversityWeight,
		"recommend.novelty_weight":   r.NoveltyWeight,
		"recommend.mmr_lambda":       r.MMRLambda,
	} {
		if w < 0 || w > 1 {
			return fmt.Errorf("%s must be in [0,1], got %v", name, w)
		}
	}
	if r.DiversityWeight+r.NoveltyWeight > 1 {
		return fmt.Errorf("recommend.diversity_weight + recommend.novelty_weight must be <= 1")
	}
	if r.PoolMultiplier < 1 {
		return fmt.Errorf("recommend.pool_multiplier must be >= 1, got %d", r.PoolMultiplier)
	}
	if r.RebuildInterval < 0 {
		return fmt.Errorf("recommend.rebuild_interval must not be negative")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	s := c.Security
	switch s.AuthMode {
	case "jwt", "basic", "none":
	default:
		return fmt.Errorf("security.auth_mode must be jwt, basic, or none, got %q", s.AuthMode)
	}
	if s.AuthMode == "jwt" {
		if len(s.JWTSecret) < 32 {
			return fmt.Errorf("security.jwt_secret must be at least 32 bytes for jwt auth")
		}
		if s.SessionTimeout <= 0 {
			return fmt.Errorf("security.session_timeout must be positive")
		}
	}
	if s.AuthMode == "basic" && (s.AdminUsername == "" || s.AdminPassword == "") {
		return fmt.Errorf("security.admin_username and security.admin_password are required for basic auth")
	}
	if c.IsProduction() && s.AuthMode == "none" {
		return fmt.Errorf("security.auth_mode none is not allowed in production")
	}
	if !s.RateLimitDisabled {
		if s.RateLimitReqs < 1 {
			return fmt.Errorf("security.rate_limit_reqs must be >= 1, got %d", s.RateLimitReqs)
		}
		if s.RateLimitWindow <= 0 {
			return fmt.Errorf("security.rate_limit_window must be positive")
		}
	}
	return nil
}
