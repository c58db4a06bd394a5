// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package api

import (
	"context"
	"time"

	"github.com/tomtom215/vocatio/internal/auth"
	"github.com/tomtom215/vocatio/internal/config"
	"github.com/tomtom215/vocatio/internal/database"
	"github.com/tomtom215/vocatio/internal/embedder"
	"github.com/tomtom215/vocatio/internal/embedding"
	"github.com/tomtom215/vocatio/internal/logging"
	"github.com/tomtom215/vocatio/internal/messaging"
	"github.com/tomtom215/vocatio/internal/recommend"
	"github.com/tomtom215/vocatio/internal/search"
	ws "github.com/tomtom215/vocatio/internal/websocket"
)

// Engine is the slice of the recommendation engine the handlers call.
// *recommend.Engine satisfies it; tests substitute fakes.
type Engine interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
	Analyze(ctx context.Context, req recommend.Request) (*recommend.Analysis, error)
	Similar(ctx context.Context, jobID int64, n int) ([]recommend.SimilarItem, error)
	Stats(ctx context.Context) (*recommend.Stats, error)
	Rebuild(ctx context.Context) (*recommend.RebuildInfo, error)
	InvalidateCache(ctx context.Context, resumeID int64)
	CacheStats() (requests, hits, misses int64)
}

// InteractionPublisher pushes accepted interactions onto the event pipeline.
// *messaging.Bus satisfies it. A nil publisher means the pipeline is off.
type InteractionPublisher interface {
	PublishInteraction(ev *messaging.InteractionEvent) error
}

// Handler contains the dependencies shared by all API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_recommend.go: recommendation, analysis, similar, stats
//   - handlers_jobs.go: job upsert/fetch/list/search
//   - handlers_interactions.go: interaction and resume-embedding ingestion
//   - handlers_admin.go: rebuild, login, health, websocket
type Handler struct {
	db         *database.DB
	engine     Engine
	embeddings *embedding.Store
	search     *search.Index
	embedder   *embedder.Client
	publisher  InteractionPublisher
	consumer   *messaging.InteractionConsumer
	wsHub      *ws.Hub
	config     *config.Config
	jwtManager *auth.JWTManager
	basicAuth  *auth.BasicAuthManager
	security   *logging.SecurityLogger
	startTime  time.Time
}

// HandlerDeps collects everything NewHandler needs. Optional collaborators
// (embedder, publisher, consumer, wsHub, auth managers) may be nil and the
// affected endpoints degrade gracefully.
type HandlerDeps struct {
	DB         *database.DB
	Engine     Engine
	Embeddings *embedding.Store
	Search     *search.Index
	Embedder   *embedder.Client
	Publisher  InteractionPublisher
	Consumer   *messaging.InteractionConsumer
	WSHub      *ws.Hub
	Config     *config.Config
	JWTManager *auth.JWTManager
	BasicAuth  *auth.BasicAuthManager
}

// NewHandler creates the API handler.
func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{
		db:         deps.DB,
		engine:     deps.Engine,
		embeddings: deps.Embeddings,
		search:     deps.Search,
		embedder:   deps.Embedder,
		publisher:  deps.Publisher,
		consumer:   deps.Consumer,
		wsHub:      deps.WSHub,
		config:     deps.Config,
		jwtManager: deps.JWTManager,
		basicAuth:  deps.BasicAuth,
		security:   logging.NewSecurityLogger(),
		startTime:  time.Now(),
	}
}
