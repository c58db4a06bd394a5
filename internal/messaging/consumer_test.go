// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package messaging

import (
	"context"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type recordingInvalidator struct {
	resumeIDs []int64
}

func (r *recordingInvalidator) InvalidateCache(_ context.Context, resumeID int64) {
	r.resumeIDs = append(r.resumeIDs, resumeID)
}

type recordingNotifier struct {
	events []*InteractionEvent
}

func (r *recordingNotifier) NotifyInteraction(ev *InteractionEvent) {
	r.events = append(r.events, ev)
}

func TestInteractionConsumer_Handle(t *testing.T) {
	t.Parallel()

	inv := &recordingInvalidator{}
	not := &recordingNotifier{}
	c := NewInteractionConsumer(inv, not)

	msg, err := NewInteractionMessage(&InteractionEvent{
		ResumeID: 5, JobID: 9, Type: "save",
	})
	if err != nil {
		t.Fatalf("NewInteractionMessage: %v", err)
	}

	if err := c.Handle(msg); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if len(inv.resumeIDs) != 1 || inv.resumeIDs[0] != 5 {
		t.Errorf("invalidations = %v, want [5]", inv.resumeIDs)
	}
	if len(not.events) != 1 || not.events[0].JobID != 9 {
		t.Errorf("notifications = %+v", not.events)
	}
	if got := c.SinceRebuild(); got != 1 {
		t.Errorf("SinceRebuild = %d, want 1", got)
	}

	c.ResetSinceRebuild()
	if got := c.SinceRebuild(); got != 0 {
		t.Errorf("SinceRebuild after reset = %d, want 0", got)
	}
}

func TestInteractionConsumer_MalformedPayloadAcked(t *testing.T) {
	t.Parallel()

	inv := &recordingInvalidator{}
	c := NewInteractionConsumer(inv, nil)

	msg := message.NewMessage(watermill.NewUUID(), []byte(`{broken`))
	if err := c.Handle(msg); err != nil {
		t.Fatalf("malformed payload should be dropped, got error: %v", err)
	}
	if len(inv.resumeIDs) != 0 {
		t.Errorf("invalidations = %v, want none", inv.resumeIDs)
	}
	if got := c.SinceRebuild(); got != 0 {
		t.Errorf("SinceRebuild = %d, want 0", got)
	}
}

func TestInteractionConsumer_NilCollaborators(t *testing.T) {
	t.Parallel()

	c := NewInteractionConsumer(nil, nil)
	msg, err := NewInteractionMessage(&InteractionEvent{ResumeID: 1, JobID: 2, Type: "view"})
	if err != nil {
		t.Fatalf("NewInteractionMessage: %v", err)
	}
	if err := c.Handle(msg); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if got := c.SinceRebuild(); got != 1 {
		t.Errorf("SinceRebuild = %d, want 1", got)
	}
}
