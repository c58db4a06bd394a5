// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

// Package websocket streams live activity to connected clients: recorded
// interactions and completed model rebuilds. Clients connect via /ws and
// receive typed JSON messages.
package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/vocatio/internal/logging"
	"github.com/tomtom215/vocatio/internal/messaging"
	"github.com/tomtom215/vocatio/internal/metrics"
)

// Message types sent to clients.
const (
	MessageTypeInteraction      = "interaction"
	MessageTypeRebuildCompleted = "rebuild_completed"
	MessageTypePing             = "ping"
	MessageTypePong             = "pong"
)

// Message is the envelope for all WebSocket traffic.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// RebuildCompletedData is the payload for rebuild_completed messages.
type RebuildCompletedData struct {
	Timestamp    string `json:"timestamp"`
	ModelVersion int64  `json:"model_version"`
	Users        int    `json:"users"`
	Items        int    `json:"items"`
	DurationMs   int64  `json:"duration_ms"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a hub. Serve must be running for clients to receive
// messages.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Serve runs the hub until ctx is cancelled, then closes all clients and
// returns ctx.Err(). Designed for suture supervision.
//
// Client lifecycle events are drained before broadcasts so client state is
// consistent when a message fans out.
func (h *Hub) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WebSocketConnections.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("WebSocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WebSocketConnections.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("WebSocket client disconnected")
}

// broadcastToClients fans a message out to all clients in client-ID order.
// Clients with a full send buffer are dropped rather than blocking the hub.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- message:
			metrics.WebSocketMessagesSent.Inc()
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
	}
	if len(toRemove) > 0 {
		metrics.WebSocketConnections.Set(float64(len(h.clients)))
		logging.Warn().Int("dropped", len(toRemove)).Msg("Dropped slow WebSocket clients")
	}
}

func (h *Hub) shutdown(ctx context.Context) {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.mu.Unlock()

	metrics.WebSocketConnections.Set(0)

	reason := "context_canceled"
	if ctx.Err() == context.DeadlineExceeded {
		reason = "context_deadline"
	}
	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", reason).
		Int("clients_closed", len(clients)).
		Msg("WebSocket hub stopped")
}

// NotifyInteraction broadcasts a recorded interaction to all clients.
// Implements messaging.Notifier.
func (h *Hub) NotifyInteraction(ev *messaging.InteractionEvent) {
	h.enqueue(Message{Type: MessageTypeInteraction, Data: ev})
}

// BroadcastRebuildCompleted notifies clients that a model rebuild finished.
func (h *Hub) BroadcastRebuildCompleted(version int64, users, items int, duration time.Duration) {
	h.enqueue(Message{
		Type: MessageTypeRebuildCompleted,
		Data: RebuildCompletedData{
			Timestamp:    time.Now().UTC().Format(time.RFC3339),
			ModelVersion: version,
			Users:        users,
			Items:        items,
			DurationMs:   duration.Milliseconds(),
		},
	})
}

func (h *Hub) enqueue(message Message) {
	select {
	case h.broadcast <- message:
	default:
		logging.Warn().Str("message_type", message.Type).Msg("Broadcast channel full, dropping message")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
