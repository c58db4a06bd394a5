// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package messaging

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
)

// Topics. The stream covers "interactions.>" so new event kinds can be added
// without reprovisioning.
const (
	StreamName         = "INTERACTIONS"
	TopicInteractions  = "interactions.recorded"
	DefaultPoisonTopic = "interactions.poison"
)

// InteractionEvent is published after an interaction is persisted. Consumers
// use it for cache invalidation, staleness tracking, and activity feeds.
type InteractionEvent struct {
	InteractionID int64     `json:"interaction_id"`
	ResumeID      int64     `json:"resume_id"`
	JobID         int64     `json:"job_id"`
	Type          string    `json:"interaction_type"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewInteractionMessage encodes an event as a Watermill message. The message
// UUID doubles as the NATS deduplication ID.
func NewInteractionMessage(ev *InteractionEvent) (*message.Message, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("failed to encode interaction event: %w", err)
	}
	return message.NewMessage(watermill.NewUUID(), payload), nil
}

// ParseInteractionEvent decodes a message payload.
func ParseInteractionEvent(msg *message.Message) (*InteractionEvent, error) {
	var ev InteractionEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return nil, fmt.Errorf("failed to decode interaction event: %w", err)
	}
	if ev.ResumeID <= 0 || ev.JobID <= 0 || ev.Type == "" {
		return nil, fmt.Errorf("interaction event missing required fields")
	}
	return &ev, nil
}
