// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/vocatio/internal/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit_RejectsOverLimit(t *testing.T) {
	t.Parallel()

	mw := NewChiMiddleware(&ChiMiddlewareConfig{
		RateLimitRequests: 2,
		RateLimitWindow:   time.Minute,
	})
	handler := mw.RateLimit()(okHandler())

	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		last = rec.Code
	}

	if last != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", last)
	}
}

func TestRateLimit_DisabledPassesThrough(t *testing.T) {
	t.Parallel()

	mw := NewChiMiddleware(&ChiMiddlewareConfig{
		RateLimitRequests: 1,
		RateLimitWindow:   time.Minute,
		RateLimitDisabled: true,
	})
	handler := mw.RateLimit()(okHandler())

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, rec.Code)
		}
	}
}

func TestChiMiddlewareConfigFromSecurity(t *testing.T) {
	t.Parallel()

	sec := &config.SecurityConfig{
		CORSOrigins:     []string{"https://example.com"},
		RateLimitReqs:   42,
		RateLimitWindow: 30 * time.Second,
	}
	cfg := ChiMiddlewareConfigFromSecurity(sec)

	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "https://example.com" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitRequests != 42 || cfg.RateLimitWindow != 30*time.Second {
		t.Errorf("rate limit = %d/%s", cfg.RateLimitRequests, cfg.RateLimitWindow)
	}

	// Nil security config falls back to secure defaults.
	def := ChiMiddlewareConfigFromSecurity(nil)
	if len(def.CORSAllowedOrigins) != 0 {
		t.Errorf("default origins = %v, want empty", def.CORSAllowedOrigins)
	}
}

func TestGenerateETag_StableForSameBody(t *testing.T) {
	t.Parallel()

	a := generateETag([]byte(`{"status":"success"}`))
	b := generateETag([]byte(`{"status":"success"}`))
	c := generateETag([]byte(`{"status":"error"}`))

	if a != b {
		t.Errorf("same body produced different ETags: %s vs %s", a, b)
	}
	if a == c {
		t.Error("different bodies produced the same ETag")
	}
}
