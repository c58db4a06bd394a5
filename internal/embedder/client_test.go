// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package embedder

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/vocatio/internal/config"
)

func TestNewClient_DisabledWithoutURL(t *testing.T) {
	t.Parallel()

	if c := NewClient(nil); c != nil {
		t.Error("nil config should yield nil client")
	}
	if c := NewClient(&config.EmbedderConfig{}); c != nil {
		t.Error("empty URL should yield nil client")
	}
}

func TestEmbed_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Text != "senior go engineer" {
			t.Errorf("text = %q", req.Text)
		}
		_ = json.NewEncoder(w).Encode(embedResponse{Embedding: []float32{0.1, 0.2, 0.3}})
	}))
	defer srv.Close()

	c := NewClient(&config.EmbedderConfig{URL: srv.URL, Timeout: time.Second})
	vec, err := c.Embed(context.Background(), "senior go engineer")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 3 || vec[0] != 0.1 {
		t.Errorf("vec = %v", vec)
	}
}

func TestEmbed_ServerErrorSurfaced(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(&config.EmbedderConfig{URL: srv.URL, Timeout: time.Second})
	if _, err := c.Embed(context.Background(), "text"); err == nil {
		t.Fatal("expected error on 503")
	}
}

func TestEmbed_EmptyVectorRejected(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(embedResponse{})
	}))
	defer srv.Close()

	c := NewClient(&config.EmbedderConfig{URL: srv.URL, Timeout: time.Second})
	if _, err := c.Embed(context.Background(), "text"); err == nil {
		t.Fatal("expected error for empty vector")
	}
}

func TestEmbed_BreakerOpensAfterFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(&config.EmbedderConfig{
		URL:                srv.URL,
		Timeout:            time.Second,
		BreakerMaxFailures: 2,
		BreakerOpenTimeout: time.Minute,
	})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := c.Embed(ctx, "text"); err == nil {
			t.Fatalf("call %d: expected failure", i)
		}
	}

	// Breaker is now open: the next call must be rejected without
	// reaching the server.
	before := calls.Load()
	_, err := c.Embed(ctx, "text")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if calls.Load() != before {
		t.Errorf("open breaker still forwarded a request")
	}
}

func TestEmbed_RateLimiterHonorsContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(embedResponse{Embedding: []float32{1}})
	}))
	defer srv.Close()

	c := NewClient(&config.EmbedderConfig{
		URL:               srv.URL,
		Timeout:           time.Second,
		RequestsPerSecond: 0.001, // effectively one call per long interval
	})

	ctx := context.Background()
	if _, err := c.Embed(ctx, "first"); err != nil {
		t.Fatalf("first call: %v", err)
	}

	shortCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err := c.Embed(shortCtx, "second")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable from limiter", err)
	}
}
