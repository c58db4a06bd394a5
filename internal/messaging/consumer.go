// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package messaging

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/vocatio/internal/logging"
	"github.com/tomtom215/vocatio/internal/metrics"
)

// Invalidator drops cached recommendation responses for a resume.
// Satisfied by recommend.Engine.
type Invalidator interface {
	InvalidateCache(ctx context.Context, resumeID int64)
}

// Notifier receives interaction events for live feeds. Satisfied by the
// WebSocket hub. May be nil.
type Notifier interface {
	NotifyInteraction(ev *InteractionEvent)
}

// InteractionConsumer processes interaction events: it invalidates the
// actor's cached recommendations, feeds the activity stream, and tracks how
// many interactions arrived since the last model rebuild so the rebuild
// ticker can skip no-op rebuilds.
type InteractionConsumer struct {
	invalidator Invalidator
	notifier    Notifier
	events      *logging.EventLogger

	sinceRebuild atomic.Int64
}

// NewInteractionConsumer builds a consumer. notifier may be nil.
func NewInteractionConsumer(invalidator Invalidator, notifier Notifier) *InteractionConsumer {
	return &InteractionConsumer{
		invalidator: invalidator,
		notifier:    notifier,
		events:      logging.NewEventLogger(),
	}
}

// Handle is the router handler for TopicInteractions. Malformed payloads are
// acked and dropped: retrying cannot fix them and the poison queue is for
// handler failures, not parse failures.
func (c *InteractionConsumer) Handle(msg *message.Message) error {
	started := time.Now()
	metrics.NATSConsumed.Inc()

	ev, err := ParseInteractionEvent(msg)
	if err != nil {
		metrics.NATSParseFailures.Inc()
		c.events.LogEventFailed(msg.Context(), msg.UUID, err)
		return nil
	}
	c.events.LogEventReceived(msg.Context(), msg.UUID, TopicInteractions, ev.Type)

	if c.invalidator != nil {
		c.invalidator.InvalidateCache(msg.Context(), ev.ResumeID)
		metrics.CacheInvalidations.Inc()
	}
	if c.notifier != nil {
		c.notifier.NotifyInteraction(ev)
	}

	c.sinceRebuild.Add(1)
	metrics.NATSProcessed.Inc()

	c.events.LogEventProcessed(msg.Context(), msg.UUID, time.Since(started).Milliseconds())
	return nil
}

// SinceRebuild returns the number of interactions processed since the last
// ResetSinceRebuild call.
func (c *InteractionConsumer) SinceRebuild() int64 {
	return c.sinceRebuild.Load()
}

// ResetSinceRebuild zeroes the staleness counter. Called after a successful
// model rebuild.
func (c *InteractionConsumer) ResetSinceRebuild() {
	c.sinceRebuild.Store(0)
}
