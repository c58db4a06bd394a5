// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package auth

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/vocatio/internal/config"
	"github.com/tomtom215/vocatio/internal/logging"
)

func claimsCapturingHandler(got **Claims) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := ClaimsFromContext(r.Context()); ok {
			*got = claims
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_NoneMode(t *testing.T) {
	t.Parallel()

	var got *Claims
	m := NewMiddleware(&config.SecurityConfig{AuthMode: "none"}, nil, nil)

	rec := httptest.NewRecorder()
	m.Authenticate(claimsCapturingHandler(&got)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got != nil {
		t.Errorf("claims attached in none mode: %+v", got)
	}
}

func TestAuthenticate_JWTMode(t *testing.T) {
	t.Parallel()

	jm := newTestJWTManager(t, time.Hour)
	m := NewMiddleware(&config.SecurityConfig{AuthMode: "jwt"}, jm, nil)

	token, err := jm.GenerateToken("alice", "admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	t.Run("valid bearer", func(t *testing.T) {
		t.Parallel()

		var got *Claims
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		m.Authenticate(claimsCapturingHandler(&got)).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if got == nil || got.Username != "alice" || got.Role != "admin" {
			t.Errorf("claims = %+v", got)
		}
	})

	t.Run("token via query parameter", func(t *testing.T) {
		t.Parallel()

		var got *Claims
		req := httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
		rec := httptest.NewRecorder()
		m.Authenticate(claimsCapturingHandler(&got)).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK || got == nil {
			t.Errorf("status = %d, claims = %+v", rec.Code, got)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()

		var got *Claims
		rec := httptest.NewRecorder()
		m.Authenticate(claimsCapturingHandler(&got)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		t.Parallel()

		var got *Claims
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		m.Authenticate(claimsCapturingHandler(&got)).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func TestAuthenticate_RejectedTokenEmitsSecurityEvent(t *testing.T) {
	// Not parallel: captures the global logger.
	var buf bytes.Buffer
	logging.SetLogger(zerolog.New(&buf))
	t.Cleanup(func() { logging.Init(logging.DefaultConfig()) })

	jm := newTestJWTManager(t, time.Hour)
	m := NewMiddleware(&config.SecurityConfig{AuthMode: "jwt"}, jm, nil)

	var got *Claims
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	m.Authenticate(claimsCapturingHandler(&got)).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(buf.String(), "login_failed") {
		t.Errorf("expected login_failed security event, got: %s", buf.String())
	}
}

func TestAuthenticate_BasicMode(t *testing.T) {
	t.Parallel()

	bm, err := NewBasicAuthManager("admin", "correct-horse")
	if err != nil {
		t.Fatalf("NewBasicAuthManager: %v", err)
	}
	m := NewMiddleware(&config.SecurityConfig{AuthMode: "basic"}, nil, bm)

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		var got *Claims
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", basicHeader("admin", "correct-horse"))
		rec := httptest.NewRecorder()
		m.Authenticate(claimsCapturingHandler(&got)).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if got == nil || got.Role != "admin" {
			t.Errorf("claims = %+v", got)
		}
	})

	t.Run("challenge on missing credentials", func(t *testing.T) {
		t.Parallel()

		var got *Claims
		rec := httptest.NewRecorder()
		m.Authenticate(claimsCapturingHandler(&got)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		if rec.Header().Get("WWW-Authenticate") == "" {
			t.Error("missing WWW-Authenticate challenge")
		}
	})
}
