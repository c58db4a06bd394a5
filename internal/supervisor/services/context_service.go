// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package services

import (
	"context"
)

// ContextServer is any component whose Serve blocks until the context is
// canceled. The websocket hub and the event pipeline both satisfy it.
type ContextServer interface {
	Serve(ctx context.Context) error
}

// ContextService adapts a ContextServer to suture.Service and gives it a
// stable name for supervisor logs.
type ContextService struct {
	server ContextServer
	name   string
}

// NewWebSocketHubService wraps the websocket activity hub.
func NewWebSocketHubService(hub ContextServer) *ContextService {
	return &ContextService{server: hub, name: "websocket-hub"}
}

// NewEventPipelineService wraps the NATS/watermill interaction pipeline.
func NewEventPipelineService(bus ContextServer) *ContextService {
	return &ContextService{server: bus, name: "event-pipeline"}
}

// Serve implements suture.Service.
func (s *ContextService) Serve(ctx context.Context) error {
	return s.server.Serve(ctx)
}

// String implements fmt.Stringer for supervisor logs.
func (s *ContextService) String() string {
	return s.name
}
