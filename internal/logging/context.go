// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Context keys for logging.
type contextKey string

const (
	// correlationIDKey is the context key for correlation IDs.
	correlationIDKey contextKey = "correlation_id"

	// requestIDKey is the context key for HTTP request IDs.
	requestIDKey contextKey = "request_id"
)

// GenerateCorrelationID creates a new unique correlation ID.
// Returns the first 8 characters of a UUID for readability.
func GenerateCorrelationID() string {
	return uuid.New().String()[:8]
}

// ContextWithCorrelationID returns a new context with the given correlation ID.
//
//	ctx = logging.ContextWithCorrelationID(ctx, logging.GenerateCorrelationID())
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// ContextWithNewCorrelationID returns a context with a newly generated correlation ID.
//
//	ctx = logging.ContextWithNewCorrelationID(ctx)
func ContextWithNewCorrelationID(ctx context.Context) context.Context {
	return ContextWithCorrelationID(ctx, GenerateCorrelationID())
}

// CorrelationIDFromContext retrieves the correlation ID from context.
// Returns empty string if not present.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithRequestID returns a new context with the given request ID.
//
//	ctx = logging.ContextWithRequestID(ctx, requestID)
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns empty string if not present.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// WithComponent creates a child logger with a component field.
// Use this to create component-specific loggers.
//
//	engineLogger := logging.WithComponent("engine")
//	engineLogger.Info().Msg("Engine ready")
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}
