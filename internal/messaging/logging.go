// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package messaging

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

// zerologAdapter bridges Watermill's logger interface onto zerolog so the
// event pipeline shares the application's structured log output.
type zerologAdapter struct {
	logger zerolog.Logger
}

// NewLoggerAdapter wraps a zerolog logger as a watermill.LoggerAdapter.
func NewLoggerAdapter(logger zerolog.Logger) watermill.LoggerAdapter {
	return &zerologAdapter{logger: logger}
}

func (a *zerologAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.event(a.logger.Error().Err(err), fields).Msg(msg)
}

func (a *zerologAdapter) Info(msg string, fields watermill.LogFields) {
	a.event(a.logger.Info(), fields).Msg(msg)
}

func (a *zerologAdapter) Debug(msg string, fields watermill.LogFields) {
	a.event(a.logger.Debug(), fields).Msg(msg)
}

func (a *zerologAdapter) Trace(msg string, fields watermill.LogFields) {
	a.event(a.logger.Trace(), fields).Msg(msg)
}

func (a *zerologAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	ctx := a.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &zerologAdapter{logger: ctx.Logger()}
}

func (a *zerologAdapter) event(ev *zerolog.Event, fields watermill.LogFields) *zerolog.Event {
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	return ev
}
