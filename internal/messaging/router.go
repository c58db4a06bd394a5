// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/tomtom215/vocatio/internal/config"
	"github.com/tomtom215/vocatio/internal/logging"
	"github.com/tomtom215/vocatio/internal/metrics"
)

// Router wraps the Watermill router with the middleware chain used for all
// Vocatio consumers: panic recovery, exponential-backoff retry, optional
// throttling, and poison queue routing for messages that exhaust retries.
type Router struct {
	router *message.Router
	logger watermill.LoggerAdapter
}

// NewRouter builds the router from cfg. poisonPublisher may be nil when the
// poison queue is disabled.
func NewRouter(cfg *config.NATSConfig, poisonPublisher message.Publisher, logger watermill.LoggerAdapter) (*Router, error) {
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}

	closeTimeout := cfg.RouterCloseTimeout
	if closeTimeout <= 0 {
		closeTimeout = 30 * time.Second
	}

	wmRouter, err := message.NewRouter(message.RouterConfig{CloseTimeout: closeTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}

	wmRouter.AddMiddleware(middleware.Recoverer)

	retryCount := cfg.RouterRetryCount
	if retryCount <= 0 {
		retryCount = 5
	}
	initialInterval := cfg.RouterRetryInitialInterval
	if initialInterval <= 0 {
		initialInterval = time.Second
	}
	retry := middleware.Retry{
		MaxRetries:      retryCount,
		InitialInterval: initialInterval,
		MaxInterval:     time.Minute,
		Multiplier:      2.0,
		Logger:          logger,
	}
	wmRouter.AddMiddleware(retry.Middleware)

	if cfg.RouterThrottlePerSecond > 0 {
		throttle := middleware.NewThrottle(int64(cfg.RouterThrottlePerSecond), time.Second)
		wmRouter.AddMiddleware(throttle.Middleware)
	}

	if cfg.RouterPoisonQueueEnabled && poisonPublisher != nil {
		topic := cfg.RouterPoisonQueueTopic
		if topic == "" {
			topic = DefaultPoisonTopic
		}
		poison, err := middleware.PoisonQueue(&countingPublisher{
			inner:  poisonPublisher,
			events: logging.NewEventLogger(),
		}, topic)
		if err != nil {
			return nil, fmt.Errorf("failed to create poison queue middleware: %w", err)
		}
		wmRouter.AddMiddleware(poison)
	}

	return &Router{router: wmRouter, logger: logger}, nil
}

// countingPublisher tracks and logs poison queue deliveries.
type countingPublisher struct {
	inner  message.Publisher
	events *logging.EventLogger
}

func (p *countingPublisher) Publish(topic string, messages ...*message.Message) error {
	if err := p.inner.Publish(topic, messages...); err != nil {
		return err
	}
	metrics.NATSPoisoned.Add(float64(len(messages)))
	for _, msg := range messages {
		p.events.LogPoisoned(msg.Context(), msg.UUID, msg.Metadata.Get(middleware.ReasonForPoisonedKey))
	}
	return nil
}

func (p *countingPublisher) Close() error {
	return p.inner.Close()
}

// AddConsumerHandler registers a no-output handler for a topic.
func (r *Router) AddConsumerHandler(name, topic string, subscriber message.Subscriber, handler message.NoPublishHandlerFunc) {
	r.router.AddConsumerHandler(name, topic, subscriber, handler)
}

// Run starts the router and blocks until ctx is cancelled or the router
// fails. Running returns a channel closed once all handlers are up.
func (r *Router) Run(ctx context.Context) error {
	return r.router.Run(ctx)
}

// Running returns a channel that closes when all handlers are started.
func (r *Router) Running() <-chan struct{} {
	return r.router.Running()
}

// Close shuts down the router, waiting up to CloseTimeout for handlers.
func (r *Router) Close() error {
	return r.router.Close()
}
