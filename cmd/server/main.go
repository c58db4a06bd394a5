// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/vocatio/docs" // generated swagger docs
	"github.com/tomtom215/vocatio/internal/api"
	"github.com/tomtom215/vocatio/internal/auth"
	"github.com/tomtom215/vocatio/internal/authz"
	"github.com/tomtom215/vocatio/internal/cache"
	"github.com/tomtom215/vocatio/internal/config"
	"github.com/tomtom215/vocatio/internal/database"
	"github.com/tomtom215/vocatio/internal/embedder"
	"github.com/tomtom215/vocatio/internal/embedding"
	"github.com/tomtom215/vocatio/internal/logging"
	"github.com/tomtom215/vocatio/internal/messaging"
	"github.com/tomtom215/vocatio/internal/recommend"
	"github.com/tomtom215/vocatio/internal/search"
	"github.com/tomtom215/vocatio/internal/supervisor"
	"github.com/tomtom215/vocatio/internal/supervisor/services"
	ws "github.com/tomtom215/vocatio/internal/websocket"
)

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("auth_mode", cfg.Security.AuthMode).
		Bool("nats_enabled", cfg.NATS.Enabled).
		Msg("Starting Vocatio")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	embeddings, err := embedding.NewStore(&cfg.Embedding)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open embedding store")
	}
	defer func() {
		if err := embeddings.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing embedding store")
		}
	}()

	searchIndex, err := search.NewIndex(&cfg.Search)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open search index")
	}
	defer func() {
		if err := searchIndex.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing search index")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// An in-memory index starts empty; rebuild it from the catalog so search
	// works without re-upserting every posting.
	if cfg.Search.Path == "" {
		if err := reindexCatalog(ctx, db, searchIndex); err != nil {
			logging.Warn().Err(err).Msg("Failed to reindex catalog for search")
		}
	}

	responseCache, err := cache.New(&cfg.Cache)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize response cache")
	}

	engine, err := recommend.NewEngine(buildEngineConfig(cfg), recommend.Deps{
		Embeddings:   embeddings,
		Interactions: db,
		Catalog:      db,
		Cache:        responseCache,
	}, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	// Warm-start from the last persisted CF snapshot; the engine runs
	// content-only until the first rebuild otherwise.
	if err := engine.WarmStart(ctx); err != nil {
		logging.Warn().Err(err).Msg("Warm start failed, continuing content-only")
	}

	embedderClient := embedder.NewClient(&cfg.Embedder)
	if embedderClient != nil {
		logging.Info().Str("url", cfg.Embedder.URL).Msg("External embedder enabled")
	}

	jwtManager, basicAuthManager := setupAuth(cfg)

	var authMiddleware *auth.Middleware
	var authzMiddleware *authz.Middleware
	if cfg.Security.AuthMode != "none" {
		authMiddleware = auth.NewMiddleware(&cfg.Security, jwtManager, basicAuthManager)

		enforcer, err := authz.NewEnforcer(&cfg.Security)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize authorization enforcer")
		}
		authzMiddleware = authz.NewMiddleware(enforcer, cfg.Security.AuthMode)
	}

	wsHub := ws.NewHub()

	var bus *messaging.Bus
	var consumer *messaging.InteractionConsumer
	var publisher api.InteractionPublisher
	if cfg.NATS.Enabled {
		bus, err = messaging.NewBus(ctx, &cfg.NATS, engine, wsHub)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize event pipeline")
		}
		defer func() {
			if err := bus.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing event pipeline")
			}
		}()
		consumer = bus.Consumer()
		publisher = bus
		logging.Info().Msg("Event pipeline initialized")
	} else {
		logging.Info().Msg("Event pipeline disabled, interactions handled inline")
	}

	handler := api.NewHandler(api.HandlerDeps{
		DB:         db,
		Engine:     engine,
		Embeddings: embeddings,
		Search:     searchIndex,
		Embedder:   embedderClient,
		Publisher:  publisher,
		Consumer:   consumer,
		WSHub:      wsHub,
		Config:     cfg,
		JWTManager: jwtManager,
		BasicAuth:  basicAuthManager,
	})

	chiMw := api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security))
	router := api.NewRouter(handler, chiMw, authMiddleware, authzMiddleware)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       120 * time.Second,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())

	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	if bus != nil {
		tree.AddMessagingService(services.NewEventPipelineService(bus))
	}
	tree.AddMessagingService(services.NewRebuildService(engine, consumer, wsHub, services.RebuildServiceConfig{
		RebuildOnStartup: cfg.Recommend.RebuildOnStartup,
		Interval:         cfg.Recommend.RebuildInterval,
	}, logging.Logger()))
	tree.AddAPIService(services.NewHTTPServerService(httpServer, 10*time.Second))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", httpServer.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Vocatio stopped gracefully")
}

// setupAuth initializes the credential managers for the configured mode.
// JWT mode also needs the basic-auth manager: the login endpoint validates
// credentials against it before minting tokens.
func setupAuth(cfg *config.Config) (*auth.JWTManager, *auth.BasicAuthManager) {
	switch cfg.Security.AuthMode {
	case "jwt":
		jwtManager, err := auth.NewJWTManager(&cfg.Security)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
		}
		basicAuthManager, err := auth.NewBasicAuthManager(cfg.Security.AdminUsername, cfg.Security.AdminPassword)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize admin credentials")
		}
		logging.Info().Msg("JWT authentication enabled")
		return jwtManager, basicAuthManager

	case "basic":
		basicAuthManager, err := auth.NewBasicAuthManager(cfg.Security.AdminUsername, cfg.Security.AdminPassword)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize Basic Auth manager")
		}
		logging.Info().Msg("Basic authentication enabled")
		logging.Warn().Msg("Basic Auth transmits credentials with each request. Use HTTPS in production!")
		return nil, basicAuthManager

	default:
		logging.Warn().Msg("Authentication is DISABLED (AUTH_MODE=none); all endpoints are public")
		return nil, nil
	}
}

// buildEngineConfig maps the flat application config onto the engine's
// structured config.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	ec := recommend.DefaultConfig()

	rc := cfg.Recommend
	if rc.TopN > 0 {
		ec.Defaults.TopN = rc.TopN
	}
	if rc.Strategy != "" {
		ec.Defaults.Strategy = rc.Strategy
	}
	if rc.ContentWeight > 0 {
		ec.Defaults.ContentWeight = rc.ContentWeight
	}
	if rc.CFWeight > 0 {
		ec.Defaults.CFWeight = rc.CFWeight
	}
	if rc.DiversityWeight > 0 {
		ec.Defaults.DiversityWeight = rc.DiversityWeight
	}
	if rc.NoveltyWeight > 0 {
		ec.Defaults.NoveltyWeight = rc.NoveltyWeight
	}
	if rc.MMRLambda > 0 {
		ec.Defaults.MMRLambda = rc.MMRLambda
	}
	if rc.MaxTopN > 0 {
		ec.Limits.MaxTopN = rc.MaxTopN
	}
	if rc.PoolMultiplier > 0 {
		ec.Limits.PoolMultiplier = rc.PoolMultiplier
	}
	ec.FilterExpression = rc.FilterExpression
	ec.SnapshotDir = rc.SnapshotDir

	ec.Cache.Enabled = cfg.Cache.Enabled
	if cfg.Cache.TTL > 0 {
		ec.Cache.TTL = cfg.Cache.TTL
	}

	return ec
}

// reindexCatalog pages through the job catalog and feeds the search index.
func reindexCatalog(ctx context.Context, db *database.DB, idx *search.Index) error {
	const pageSize = 500
	offset := 0
	indexed := 0
	for {
		jobs, total, err := db.ListJobs(ctx, database.ListJobsOptions{Limit: pageSize, Offset: offset})
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			break
		}
		if err := idx.IndexJobs(jobs); err != nil {
			return err
		}
		indexed += len(jobs)
		offset += len(jobs)
		if indexed >= total {
			break
		}
	}
	if indexed > 0 {
		logging.Info().Int("jobs", indexed).Msg("Search index rebuilt from catalog")
	}
	return nil
}
