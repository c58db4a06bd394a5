// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/vocatio/internal/metrics"
	"github.com/tomtom215/vocatio/internal/recommend"
)

// Rebuilder triggers a collaborative model rebuild. *recommend.Engine
// satisfies it.
type Rebuilder interface {
	Rebuild(ctx context.Context) (*recommend.RebuildInfo, error)
}

// StalenessCounter reports how many interactions arrived since the last
// rebuild. *messaging.InteractionConsumer satisfies it.
type StalenessCounter interface {
	SinceRebuild() int64
	ResetSinceRebuild()
}

// RebuildBroadcaster announces completed rebuilds to websocket clients.
// *websocket.Hub satisfies it.
type RebuildBroadcaster interface {
	BroadcastRebuildCompleted(version int64, users, items int, duration time.Duration)
}

// RebuildServiceConfig configures the rebuild ticker.
type RebuildServiceConfig struct {
	// RebuildOnStartup triggers a rebuild when the service starts.
	RebuildOnStartup bool

	// Interval is the periodic rebuild cadence. Zero or negative disables
	// the ticker; rebuilds then only happen via the admin endpoint.
	Interval time.Duration

	// RebuildTimeout bounds a single rebuild. Default 30 minutes.
	RebuildTimeout time.Duration
}

// RebuildService periodically rebuilds the collaborative model. Scheduled
// rebuilds are skipped while no new interactions have arrived, so an idle
// instance does not churn identical models.
type RebuildService struct {
	engine      Rebuilder
	counter     StalenessCounter
	broadcaster RebuildBroadcaster
	config      RebuildServiceConfig
	logger      zerolog.Logger
	name        string
}

// NewRebuildService creates the rebuild ticker. counter and broadcaster may
// be nil; a nil counter disables the staleness check and a nil broadcaster
// disables websocket announcements.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRebuildService(engine Rebuilder, counter StalenessCounter, broadcaster RebuildBroadcaster, cfg RebuildServiceConfig, logger zerolog.Logger) *RebuildService {
	if cfg.RebuildTimeout <= 0 {
		cfg.RebuildTimeout = 30 * time.Minute
	}
	return &RebuildService{
		engine:      engine,
		counter:     counter,
		broadcaster: broadcaster,
		config:      cfg,
		logger:      logger.With().Str("service", "rebuild").Logger(),
		name:        "rebuild-service",
	}
}

// Serve implements suture.Service.
func (s *RebuildService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("rebuild_on_startup", s.config.RebuildOnStartup).
		Dur("interval", s.config.Interval).
		Msg("rebuild service starting")

	if s.config.RebuildOnStartup {
		if err := s.rebuild(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("startup rebuild failed (will retry on schedule)")
		}
	}

	if s.config.Interval <= 0 {
		s.logger.Info().Msg("periodic rebuilds disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("rebuild service shutting down")
			return ctx.Err()

		case <-ticker.C:
			if s.counter != nil && s.counter.SinceRebuild() == 0 {
				s.logger.Debug().Msg("no new interactions since last rebuild, skipping")
				continue
			}
			if err := s.rebuild(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled rebuild failed")
			}
		}
	}
}

// rebuild runs one rebuild cycle with its own timeout.
func (s *RebuildService) rebuild(ctx context.Context) error {
	rebuildCtx, cancel := context.WithTimeout(ctx, s.config.RebuildTimeout)
	defer cancel()

	started := time.Now()
	info, err := s.engine.Rebuild(rebuildCtx)
	if err != nil {
		if errors.Is(err, recommend.ErrRebuildInProgress) {
			s.logger.Debug().Msg("rebuild already running, skipping")
			return nil
		}
		metrics.RecordModelRebuild(time.Since(started), 0, 0, 0, err)
		return err
	}
	metrics.RecordModelRebuild(info.Duration, info.ModelVersion, info.Users, info.Items, nil)

	if s.counter != nil {
		s.counter.ResetSinceRebuild()
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastRebuildCompleted(info.ModelVersion, info.Users, info.Items, info.Duration)
	}

	s.logger.Info().
		Int64("model_version", info.ModelVersion).
		Int("users", info.Users).
		Int("items", info.Items).
		Int("interactions", info.Interactions).
		Dur("duration", info.Duration).
		Msg("model rebuild complete")

	return nil
}

// String returns the service name for supervisor logs.
func (s *RebuildService) String() string {
	return s.name
}
