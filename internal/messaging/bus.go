// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

// Package messaging is the interaction event pipeline: interactions recorded
// via the API are published to a NATS JetStream stream and consumed in
// process to invalidate caches, feed the activity stream, and track model
// staleness. The broker can be the embedded server or an external one.
package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/vocatio/internal/config"
	"github.com/tomtom215/vocatio/internal/logging"
)

// Bus owns the full pipeline: optional embedded server, stream provisioning,
// publisher, subscriber, router, and the interaction consumer.
type Bus struct {
	cfg      *config.NATSConfig
	embedded *EmbeddedServer
	pub      *Publisher
	router   *Router
	consumer *InteractionConsumer
	logger   zerolog.Logger
	events   *logging.EventLogger
}

// NewBus wires the pipeline. When cfg.EmbeddedServer is set an in-process
// NATS server is started and cfg.URL is ignored. notifier may be nil.
func NewBus(ctx context.Context, cfg *config.NATSConfig, invalidator Invalidator, notifier Notifier) (*Bus, error) {
	logger := logging.WithComponent("messaging")
	wmLogger := NewLoggerAdapter(logger)

	b := &Bus{
		cfg:    cfg,
		logger: logger,
		events: logging.NewEventLogger(),
	}

	url := cfg.URL
	if cfg.EmbeddedServer {
		srv, err := NewEmbeddedServer(cfg)
		if err != nil {
			return nil, err
		}
		b.embedded = srv
		url = srv.ClientURL()
		logger.Info().Str("url", url).Msg("Embedded NATS server started")
	}

	if err := EnsureStream(ctx, url); err != nil {
		b.shutdownEmbedded()
		return nil, err
	}

	pub, err := NewPublisher(url, wmLogger)
	if err != nil {
		b.shutdownEmbedded()
		return nil, err
	}
	b.pub = pub

	sub, err := NewSubscriber(cfg, url, wmLogger)
	if err != nil {
		b.closePartial()
		return nil, err
	}

	var poisonPub *Publisher
	if cfg.RouterPoisonQueueEnabled {
		poisonPub = pub
	}
	router, err := NewRouter(cfg, poisonPub, wmLogger)
	if err != nil {
		b.closePartial()
		return nil, err
	}
	b.router = router

	b.consumer = NewInteractionConsumer(invalidator, notifier)
	router.AddConsumerHandler("interaction-consumer", TopicInteractions, sub, b.consumer.Handle)

	queueGroup := cfg.QueueGroup
	if queueGroup == "" {
		queueGroup = "vocatio"
	}
	b.events.LogSubscriptionStarted(TopicInteractions, queueGroup)

	return b, nil
}

// PublishInteraction encodes and publishes an interaction event. Errors are
// returned for the caller to log; the interaction itself is already durable
// in DuckDB.
func (b *Bus) PublishInteraction(ev *InteractionEvent) error {
	msg, err := NewInteractionMessage(ev)
	if err != nil {
		return err
	}
	if err := b.pub.Publish(TopicInteractions, msg); err != nil {
		return err
	}
	b.events.LogEventPublished(context.Background(), msg.UUID, TopicInteractions)
	return nil
}

// Consumer exposes the interaction consumer for staleness checks.
func (b *Bus) Consumer() *InteractionConsumer {
	return b.consumer
}

// Serve runs the router until ctx is cancelled. Implements suture.Service.
func (b *Bus) Serve(ctx context.Context) error {
	b.events.LogRouterStarted()
	err := b.router.Run(ctx)
	b.events.LogRouterStopped()
	return err
}

// Close tears the pipeline down in reverse order of construction.
func (b *Bus) Close() error {
	var firstErr error
	if b.router != nil {
		if err := b.router.Close(); err != nil {
			firstErr = fmt.Errorf("failed to close router: %w", err)
		}
	}
	if b.pub != nil {
		if err := b.pub.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close publisher: %w", err)
		}
	}
	b.shutdownEmbedded()
	return firstErr
}

func (b *Bus) closePartial() {
	if b.pub != nil {
		if err := b.pub.Close(); err != nil {
			b.logger.Warn().Err(err).Msg("Failed to close publisher during teardown")
		}
	}
	b.shutdownEmbedded()
}

func (b *Bus) shutdownEmbedded() {
	if b.embedded == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := b.embedded.Shutdown(ctx); err != nil {
		b.logger.Warn().Err(err).Msg("Embedded NATS shutdown failed")
	}
	b.embedded = nil
}
