// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

// Package embedder provides an HTTP client for an external text embedding
// service. Calls are rate-limited and wrapped in a circuit breaker so a slow
// or failing embedder degrades job ingestion gracefully instead of stalling
// the whole API.
package embedder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/vocatio/internal/config"
	"github.com/tomtom215/vocatio/internal/logging"
)

// ErrUnavailable is returned when the circuit is open or the limiter rejects
// the call. Callers treat it as "embedding not generated", not a hard failure.
var ErrUnavailable = errors.New("embedding service unavailable")

// embedRequest is the wire format sent to the embedding service.
type embedRequest struct {
	Text string `json:"text"`
}

// embedResponse is the wire format returned by the embedding service.
type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Client calls an external embedding service over HTTP.
type Client struct {
	url     string
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]float32]
	logger  zerolog.Logger
}

// NewClient builds a client from cfg. Returns nil when no URL is configured;
// callers must handle a nil client as "embedder disabled".
func NewClient(cfg *config.EmbedderConfig) *Client {
	if cfg == nil || cfg.URL == "" {
		return nil
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	maxFailures := cfg.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	openTimeout := cfg.BreakerOpenTimeout
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}

	logger := logging.WithComponent("embedder")

	breaker := gobreaker.NewCircuitBreaker[[]float32](gobreaker.Settings{
		Name:        "embedder",
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state transition")
		},
	})

	return &Client{
		url:     cfg.URL,
		http:    &http.Client{Timeout: timeout},
		limiter: limiter,
		breaker: breaker,
		logger:  logger,
	}
}

// Embed generates an embedding vector for text. Returns ErrUnavailable when
// the breaker is open or the rate limiter cannot admit the call before ctx
// expires.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	vec, err := c.breaker.Execute(func() ([]float32, error) {
		return c.callService(ctx, text)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.logger.Warn().Err(err).Msg("Embedding request rejected by circuit breaker")
			return nil, ErrUnavailable
		}
		return nil, err
	}
	return vec, nil
}

func (c *Client) callService(ctx context.Context, text string) ([]float32, error) {
	payload, err := json.Marshal(embedRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn().Err(cerr).Msg("Failed to close embed response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("embedding service returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode embed response: %w", err)
	}
	if len(out.Embedding) == 0 {
		return nil, fmt.Errorf("embedding service returned an empty vector")
	}
	return out.Embedding, nil
}
