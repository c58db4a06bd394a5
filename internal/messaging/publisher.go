// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package messaging

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/vocatio/internal/metrics"
)

// Publisher wraps a Watermill NATS publisher with a circuit breaker so a
// broker outage degrades event delivery instead of failing writes. Callers
// treat publish errors as non-fatal: the interaction is already persisted.
type Publisher struct {
	publisher message.Publisher
	breaker   *gobreaker.CircuitBreaker[any]
	mu        sync.RWMutex
	closed    bool
	logger    watermill.LoggerAdapter
}

// NewPublisher creates a JetStream publisher with reconnect handling and
// message ID tracking for broker-side deduplication.
func NewPublisher(url string, logger watermill.LoggerAdapter) (*Publisher, error) {
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(time.Second),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			AutoProvision: false,
			TrackMsgId:    true,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create publisher: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "nats-publisher",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("Publisher circuit breaker transition", watermill.LogFields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
		},
	})

	return &Publisher{
		publisher: pub,
		breaker:   breaker,
		logger:    logger,
	}, nil
}

// Publish sends messages to topic. Each message UUID becomes its
// Nats-Msg-Id header when not already set. Implements message.Publisher.
func (p *Publisher) Publish(topic string, messages ...*message.Message) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return fmt.Errorf("publisher is closed")
	}
	p.mu.RUnlock()

	for _, msg := range messages {
		if msg.Metadata.Get(natsgo.MsgIdHdr) == "" {
			msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)
		}
	}

	_, err := p.breaker.Execute(func() (any, error) {
		return nil, p.publisher.Publish(topic, messages...)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("publish rejected, circuit open: %w", err)
		}
		return fmt.Errorf("publish failed: %w", err)
	}

	metrics.NATSPublished.Add(float64(len(messages)))
	return nil
}

// Close shuts down the underlying publisher. Safe to call more than once.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.publisher.Close()
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}
