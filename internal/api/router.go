// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/vocatio/internal/auth"
	"github.com/tomtom215/vocatio/internal/authz"
	"github.com/tomtom215/vocatio/internal/middleware"
)

// Router wires handlers, auth, and the chi middleware stack.
type Router struct {
	handler        *Handler
	chiMiddleware  *ChiMiddleware
	authMiddleware *auth.Middleware
	authz          *authz.Middleware
}

// NewRouter creates a router. authMiddleware and authzMiddleware may be nil
// when the instance runs with auth mode "none".
func NewRouter(handler *Handler, chiMw *ChiMiddleware, authMw *auth.Middleware, authzMw *authz.Middleware) *Router {
	if chiMw == nil {
		chiMw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:        handler,
		chiMiddleware:  chiMw,
		authMiddleware: authMw,
		authz:          authzMw,
	}
}

// Setup builds the full route tree.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight works

	// Unauthenticated operational endpoints.
	r.Get("/health", router.handler.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler())

	// Login gets the strictest rate limit to slow down brute force.
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitAuth())
		r.Post("/login", router.handler.Login)
	})

	// Data endpoints: rate limited, measured, authenticated, authorized.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.authenticate())
		r.Use(router.authorize())

		r.Get("/recommendations/jobs/{resumeID}", router.handler.Recommendations)
		r.Get("/recommendations/jobs/{resumeID}/analysis", router.handler.RecommendationAnalysis)
		r.Get("/recommendations/similar/{jobID}", router.handler.SimilarJobs)
		r.Get("/recommendations/stats", router.handler.RecommendationStats)

		r.Post("/interactions", router.handler.RecordInteraction)

		r.Post("/jobs", router.handler.UpsertJob)
		r.Get("/jobs", router.handler.ListJobs)
		r.Get("/jobs/search", router.handler.SearchJobs)
		r.Get("/jobs/{jobID}", router.handler.GetJob)

		r.Post("/resumes/{resumeID}/embedding", router.handler.UpsertResumeEmbedding)

		r.Post("/admin/model/rebuild", router.handler.RebuildModel)
	})

	// The websocket feed authenticates like the API (token query parameter
	// supported for browser clients) but skips the rate limiter: one
	// long-lived connection should not consume the request budget.
	r.Route("/ws", func(r chi.Router) {
		r.Use(router.authenticate())
		r.Use(router.authorize())
		r.Get("/", router.handler.WebSocket)
	})

	return r
}

func (router *Router) authenticate() func(http.Handler) http.Handler {
	if router.authMiddleware == nil {
		return passthrough
	}
	return router.authMiddleware.Authenticate
}

func (router *Router) authorize() func(http.Handler) http.Handler {
	if router.authz == nil {
		return passthrough
	}
	return router.authz.Authorize
}

func passthrough(next http.Handler) http.Handler {
	return next
}
