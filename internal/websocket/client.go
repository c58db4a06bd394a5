// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package websocket

import (
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/vocatio/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// clientIDCounter assigns monotonically increasing IDs so broadcast and
// shutdown iterate clients in a stable order.
var clientIDCounter atomic.Uint64

// Client is the middleman between a websocket connection and the hub.
type Client struct {
	id   uint64
	hub  *Hub
	conn *websocket.Conn
	send chan Message
}

// NewClient creates a client for an upgraded connection.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:   clientIDCounter.Add(1),
		hub:  hub,
		conn: conn,
		send: make(chan Message, 256),
	}
}

// Start begins the read and write pumps.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

// readPump drains inbound frames. The only client-initiated message is the
// application-level ping.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("Failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Error().Err(err).Msg("Unexpected WebSocket close")
			}
			break
		}

		if msg.Type == MessageTypePing {
			select {
			case c.send <- Message{Type: MessageTypePong}:
			default:
			}
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("Failed to set write deadline")
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				logging.Error().Err(err).Msg("Failed to write WebSocket message")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
