// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// TreeConfig holds supervisor tree configuration. Zero values fall back to
// suture's documented defaults.
type TreeConfig struct {
	// FailureThreshold is the number of failures before entering backoff.
	FailureThreshold float64

	// FailureDecay is the rate at which failures decay, in seconds.
	FailureDecay float64

	// FailureBackoff is the wait when the threshold is exceeded.
	FailureBackoff time.Duration

	// ShutdownTimeout bounds graceful shutdown per service.
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns production-ready defaults matching suture's own.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// Tree is the hierarchical supervisor for the application.
type Tree struct {
	root      *suture.Supervisor
	data      *suture.Supervisor
	messaging *suture.Supervisor
	api       *suture.Supervisor
	config    TreeConfig
}

// NewTree creates the supervision tree. Supervisor lifecycle events go to
// logger via sutureslog.
func NewTree(logger *slog.Logger, config TreeConfig) *Tree {
	if config.FailureThreshold == 0 {
		config.FailureThreshold = 5.0
	}
	if config.FailureDecay == 0 {
		config.FailureDecay = 30.0
	}
	if config.FailureBackoff == 0 {
		config.FailureBackoff = 15 * time.Second
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 10 * time.Second
	}

	// sutureslog's hook constructor has a pointer receiver.
	handler := &sutureslog.Handler{Logger: logger}
	eventHook := handler.MustHook()

	rootSpec := suture.Spec{
		EventHook:        eventHook,
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	}
	childSpec := suture.Spec{
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	}

	root := suture.New("vocatio", rootSpec)
	data := suture.New("data-layer", childSpec)
	messaging := suture.New("messaging-layer", childSpec)
	api := suture.New("api-layer", childSpec)

	root.Add(data)
	root.Add(messaging)
	root.Add(api)

	return &Tree{
		root:      root,
		data:      data,
		messaging: messaging,
		api:       api,
		config:    config,
	}
}

// Root returns the root supervisor for direct access.
func (t *Tree) Root() *suture.Supervisor {
	return t.root
}

// AddDataService adds a service to the data layer.
func (t *Tree) AddDataService(svc suture.Service) suture.ServiceToken {
	return t.data.Add(svc)
}

// AddMessagingService adds a service to the messaging layer: the websocket
// hub, the event pipeline, and the rebuild ticker.
func (t *Tree) AddMessagingService(svc suture.Service) suture.ServiceToken {
	return t.messaging.Add(svc)
}

// AddAPIService adds a service to the API layer.
func (t *Tree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.api.Add(svc)
}

// Serve starts the tree and blocks until the context is canceled.
func (t *Tree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// ServeBackground starts the tree in a background goroutine and returns the
// channel that receives the terminal error.
func (t *Tree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// Remove stops and removes a service by token.
func (t *Tree) Remove(token suture.ServiceToken) error {
	return t.root.Remove(token)
}

// UnstoppedServiceReport lists services that missed the shutdown timeout.
func (t *Tree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
