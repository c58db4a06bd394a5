// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

// Package middleware provides HTTP middleware shared across all routes:
// request ID propagation and Prometheus instrumentation. Rate limiting and
// CORS come from the chi ecosystem and are wired in the api package.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/tomtom215/vocatio/internal/logging"
)

type contextKey string

// RequestIDKey carries the request ID in the request context.
const RequestIDKey contextKey = "request_id"

// RequestID assigns each request a unique ID, honoring an upstream
// X-Request-ID header, and attaches it to the response header, the request
// context, and the logging context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", requestID)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		ctx = logging.ContextWithRequestID(ctx, requestID)
		ctx = logging.ContextWithNewCorrelationID(ctx)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request ID from context, or "" when absent.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
