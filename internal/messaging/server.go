// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"

	"github.com/tomtom215/vocatio/internal/config"
)

// EmbeddedServer wraps an in-process NATS JetStream server for
// single-instance deployments that do not run an external broker.
type EmbeddedServer struct {
	server    *server.Server
	clientURL string
}

// NewEmbeddedServer creates and starts an embedded NATS server with
// JetStream enabled. Port 0 picks a random free port; the client URL is
// exposed via ClientURL.
func NewEmbeddedServer(cfg *config.NATSConfig) (*EmbeddedServer, error) {
	opts := &server.Options{
		ServerName:         "vocatio-events",
		Host:               "127.0.0.1",
		Port:               -1,
		JetStream:          true,
		StoreDir:           cfg.StoreDir,
		JetStreamMaxMemory: cfg.MaxMemory,
		JetStreamMaxStore:  cfg.MaxStore,
		NoLog:              true,
		MaxPayload:         1 << 20,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS server: %w", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(30 * time.Second) {
		ns.Shutdown()
		return nil, fmt.Errorf("NATS server not ready within timeout")
	}

	return &EmbeddedServer{
		server:    ns,
		clientURL: ns.ClientURL(),
	}, nil
}

// ClientURL returns the connection URL for clients.
func (s *EmbeddedServer) ClientURL() string {
	return s.clientURL
}

// Shutdown stops the server, waiting for in-flight work or ctx cancellation.
func (s *EmbeddedServer) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.server.Shutdown()
		s.server.WaitForShutdown()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("NATS shutdown timed out: %w", ctx.Err())
	}
}
