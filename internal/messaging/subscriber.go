// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package messaging

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/vocatio/internal/config"
)

// NewSubscriber creates a durable JetStream subscriber bound to the
// interactions stream. The queue group load-balances consumption when
// multiple instances run against an external broker.
func NewSubscriber(cfg *config.NATSConfig, url string, logger watermill.LoggerAdapter) (message.Subscriber, error) {
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}

	queueGroup := cfg.QueueGroup
	if queueGroup == "" {
		queueGroup = "vocatio"
	}
	durableName := cfg.DurableName
	if durableName == "" {
		durableName = "vocatio-consumer"
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(time.Second),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("Subscriber disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("Subscriber reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}

	subOpts := []natsgo.SubOpt{
		natsgo.MaxDeliver(5),
		natsgo.MaxAckPending(256),
		natsgo.AckWait(30 * time.Second),
		natsgo.DeliverNew(),
		natsgo.BindStream(StreamName),
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              url,
		QueueGroupPrefix: queueGroup,
		SubscribersCount: 1,
		AckWaitTimeout:   30 * time.Second,
		CloseTimeout:     30 * time.Second,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			AutoProvision:    false,
			SubscribeOptions: subOpts,
			DurablePrefix:    durableName,
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscriber: %w", err)
	}
	return sub, nil
}
