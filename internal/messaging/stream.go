// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// EnsureStream provisions the interactions stream before publishers and
// subscribers start. Idempotent: an existing stream is updated in place.
func EnsureStream(ctx context.Context, url string) error {
	nc, err := natsgo.Connect(url)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	defer nc.Close()

	js, err := jetstream.New(nc)
	if err != nil {
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	streamCfg := jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{"interactions.>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      7 * 24 * time.Hour,
		Duplicates:  2 * time.Minute,
		Storage:     jetstream.FileStorage,
		AllowDirect: true,
		Discard:     jetstream.DiscardOld,
	}

	if _, err := js.Stream(ctx, StreamName); err == nil {
		if _, err := js.UpdateStream(ctx, streamCfg); err != nil {
			return fmt.Errorf("failed to update stream %s: %w", StreamName, err)
		}
		return nil
	} else if !errors.Is(err, jetstream.ErrStreamNotFound) {
		return fmt.Errorf("failed to check stream %s: %w", StreamName, err)
	}

	if _, err := js.CreateStream(ctx, streamCfg); err != nil {
		return fmt.Errorf("failed to create stream %s: %w", StreamName, err)
	}
	return nil
}
