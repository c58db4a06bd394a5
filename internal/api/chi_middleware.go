// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/vocatio/internal/config"
	"github.com/tomtom215/vocatio/internal/metrics"
)

// ChiMiddlewareConfig holds configuration for the chi middleware factories.
type ChiMiddlewareConfig struct {
	CORSAllowedOrigins   []string
	CORSAllowedMethods   []string
	CORSAllowedHeaders   []string
	CORSAllowCredentials bool
	CORSMaxAge           int // seconds

	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
}

// DefaultChiMiddlewareConfig returns a secure default configuration. CORS
// origins default to empty so deployments must opt in explicitly.
func DefaultChiMiddlewareConfig() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins:   []string{},
		CORSAllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		CORSAllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		CORSAllowCredentials: false,
		CORSMaxAge:           86400,

		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
	}
}

// ChiMiddlewareConfigFromSecurity builds the middleware configuration from
// the security section of the application config.
func ChiMiddlewareConfigFromSecurity(sec *config.SecurityConfig) *ChiMiddlewareConfig {
	cfg := DefaultChiMiddlewareConfig()
	if sec == nil {
		return cfg
	}
	if len(sec.CORSOrigins) > 0 {
		cfg.CORSAllowedOrigins = sec.CORSOrigins
	}
	if sec.RateLimitReqs > 0 {
		cfg.RateLimitRequests = sec.RateLimitReqs
	}
	if sec.RateLimitWindow > 0 {
		cfg.RateLimitWindow = sec.RateLimitWindow
	}
	cfg.RateLimitDisabled = sec.RateLimitDisabled
	return cfg
}

// ChiMiddleware provides chi-compatible middleware built on the
// production-hardened go-chi/cors and go-chi/httprate packages.
type ChiMiddleware struct {
	config *ChiMiddlewareConfig
	cors   func(http.Handler) http.Handler
}

// NewChiMiddleware creates the middleware factory.
func NewChiMiddleware(config *ChiMiddlewareConfig) *ChiMiddleware {
	if config == nil {
		config = DefaultChiMiddlewareConfig()
	}

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   config.CORSAllowedOrigins,
		AllowedMethods:   config.CORSAllowedMethods,
		AllowedHeaders:   config.CORSAllowedHeaders,
		AllowCredentials: config.CORSAllowCredentials,
		MaxAge:           config.CORSMaxAge,
	})

	return &ChiMiddleware{
		config: config,
		cors:   corsHandler,
	}
}

// CORS returns the chi-compatible CORS middleware.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit returns an IP-keyed rate limiter for the data endpoints. Over the
// limit, clients get a RATE_LIMIT_EXCEEDED envelope with status 429.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	return m.limit(m.config.RateLimitRequests, m.config.RateLimitWindow)
}

// RateLimitAuth returns a strict limiter for the login endpoint to slow down
// credential stuffing.
func (m *ChiMiddleware) RateLimitAuth() func(http.Handler) http.Handler {
	return m.limit(5, 5*time.Minute)
}

func (m *ChiMiddleware) limit(requests int, window time.Duration) func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.APIRateLimitHits.WithLabelValues(r.URL.Path).Inc()
			respondError(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Too many requests", nil)
		}),
	)
}
