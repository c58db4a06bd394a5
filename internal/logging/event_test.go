// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func newCapturedEventLogger() (*EventLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewEventLoggerWithLogger(zerolog.New(&buf)), &buf
}

func TestEventLogger_LogEventProcessed(t *testing.T) {
	t.Parallel()

	logger, buf := newCapturedEventLogger()
	logger.LogEventProcessed(context.Background(), "evt-123", 42)

	out := buf.String()
	for _, want := range []string{`"event_id":"evt-123"`, `"duration_ms":42`, "event processed", `"component":"messaging"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestEventLogger_LogEventFailedIsErrorLevel(t *testing.T) {
	t.Parallel()

	logger, buf := newCapturedEventLogger()
	logger.LogEventFailed(context.Background(), "evt-9", errors.New("bad payload"))

	out := buf.String()
	if !strings.Contains(out, `"level":"error"`) {
		t.Errorf("expected error level: %s", out)
	}
	if !strings.Contains(out, "bad payload") {
		t.Errorf("expected error detail: %s", out)
	}
}

func TestEventLogger_ContextCorrelationID(t *testing.T) {
	t.Parallel()

	logger, buf := newCapturedEventLogger()
	ctx := ContextWithCorrelationID(context.Background(), "corr-77")
	logger.LogEventReceived(ctx, "evt-1", "interactions.recorded", "apply")

	out := buf.String()
	if !strings.Contains(out, `"correlation_id":"corr-77"`) {
		t.Errorf("expected correlation id: %s", out)
	}
	if !strings.Contains(out, `"interaction_type":"apply"`) {
		t.Errorf("expected interaction type: %s", out)
	}
}

func TestEventLogger_LogPoisoned(t *testing.T) {
	t.Parallel()

	logger, buf := newCapturedEventLogger()
	logger.LogPoisoned(context.Background(), "evt-4", "retries exhausted")

	out := buf.String()
	if !strings.Contains(out, `"level":"warn"`) {
		t.Errorf("expected warn level: %s", out)
	}
	if !strings.Contains(out, `"reason":"retries exhausted"`) {
		t.Errorf("expected poison reason: %s", out)
	}
}
