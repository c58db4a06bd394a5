// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// EventLogger provides specialized logging for event processing.
// This logger is designed for NATS/Watermill event handlers with
// domain-specific methods for common event processing scenarios.
type EventLogger struct {
	logger zerolog.Logger
}

// NewEventLogger creates a logger configured for event processing.
func NewEventLogger() *EventLogger {
	return &EventLogger{
		logger: With().Str("component", "messaging").Logger(),
	}
}

// NewEventLoggerWithLogger creates an EventLogger with a custom logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value (copy-on-write semantics)
func NewEventLoggerWithLogger(logger zerolog.Logger) *EventLogger {
	return &EventLogger{
		logger: logger.With().Str("component", "messaging").Logger(),
	}
}

// loggerWithContext returns a logger with context fields added.
func (e *EventLogger) loggerWithContext(ctx context.Context) zerolog.Logger {
	logCtx := e.logger.With()

	if correlationID := CorrelationIDFromContext(ctx); correlationID != "" {
		logCtx = logCtx.Str("correlation_id", correlationID)
	}

	if requestID := RequestIDFromContext(ctx); requestID != "" {
		logCtx = logCtx.Str("request_id", requestID)
	}

	return logCtx.Logger()
}

// LogEventReceived logs when an event is received.
func (e *EventLogger) LogEventReceived(ctx context.Context, eventID, source, interactionType string) {
	logger := e.loggerWithContext(ctx)
	logger.Info().
		Str("event_id", eventID).
		Str("source", source).
		Str("interaction_type", interactionType).
		Msg("event received")
}

// LogEventProcessed logs when an event is successfully processed.
func (e *EventLogger) LogEventProcessed(ctx context.Context, eventID string, durationMs int64) {
	logger := e.loggerWithContext(ctx)
	logger.Info().
		Str("event_id", eventID).
		Int64("duration_ms", durationMs).
		Msg("event processed")
}

// LogEventFailed logs when event processing fails.
func (e *EventLogger) LogEventFailed(ctx context.Context, eventID string, err error) {
	logger := e.loggerWithContext(ctx)
	logger.Error().
		Str("event_id", eventID).
		Err(err).
		Msg("event processing failed")
}

// LogPoisoned logs when a message exhausts its retries and is routed to the
// poison queue.
func (e *EventLogger) LogPoisoned(ctx context.Context, eventID, reason string) {
	logger := e.loggerWithContext(ctx)
	logger.Warn().
		Str("event_id", eventID).
		Str("reason", reason).
		Msg("event sent to poison queue")
}

// LogEventPublished logs when an event is published to NATS.
func (e *EventLogger) LogEventPublished(ctx context.Context, eventID, topic string) {
	logger := e.loggerWithContext(ctx)
	logger.Debug().
		Str("event_id", eventID).
		Str("topic", topic).
		Msg("event published")
}

// LogSubscriptionStarted logs when a subscription is started.
func (e *EventLogger) LogSubscriptionStarted(topic, queue string) {
	e.logger.Info().
		Str("topic", topic).
		Str("queue", queue).
		Msg("subscription started")
}

// LogRouterStarted logs when the Watermill router starts.
func (e *EventLogger) LogRouterStarted() {
	e.logger.Info().Msg("router started")
}

// LogRouterStopped logs when the Watermill router stops.
func (e *EventLogger) LogRouterStopped() {
	e.logger.Info().Msg("router stopped")
}
