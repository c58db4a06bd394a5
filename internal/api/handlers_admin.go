// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/vocatio/internal/logging"
	"github.com/tomtom215/vocatio/internal/metrics"
	"github.com/tomtom215/vocatio/internal/models"
	"github.com/tomtom215/vocatio/internal/recommend"
	ws "github.com/tomtom215/vocatio/internal/websocket"
)

// RebuildModel forces a collaborative model rebuild.
//
// @Summary Rebuild the collaborative model
// @Description Rebuilds the item-item similarity model from all stored interactions
// @Tags Admin
// @Produce json
// @Success 200 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse "A rebuild is already running"
// @Router /admin/model/rebuild [post]
func (h *Handler) RebuildModel(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	info, err := h.engine.Rebuild(r.Context())
	if err != nil {
		// A concurrent rebuild is a conflict, not a rebuild failure.
		if !errors.Is(err, recommend.ErrRebuildInProgress) {
			metrics.RecordModelRebuild(time.Since(started), 0, 0, 0, err)
		}
		respondEngineError(w, err)
		return
	}
	metrics.RecordModelRebuild(info.Duration, info.ModelVersion, info.Users, info.Items, nil)

	if h.consumer != nil {
		h.consumer.ResetSinceRebuild()
	}
	if h.wsHub != nil {
		h.wsHub.BroadcastRebuildCompleted(info.ModelVersion, info.Users, info.Items, info.Duration)
	}

	respondSuccess(w, http.StatusOK, &models.RebuildResponse{
		ModelVersion: info.ModelVersion,
		Users:        info.Users,
		Items:        info.Items,
		Interactions: info.Interactions,
		DurationMS:   info.Duration.Milliseconds(),
		RebuiltAt:    info.RebuiltAt,
	}, started, false)
}

// Login authenticates against the configured admin account and returns a JWT.
//
// @Summary Authenticate
// @Description Validates credentials and returns a signed JWT token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "Credentials"
// @Success 200 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse "Invalid credentials"
// @Failure 403 {object} models.APIResponse "JWT authentication disabled"
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err)
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Username and password are required", nil)
		return
	}

	if h.config == nil || h.config.Security.AuthMode != "jwt" || h.jwtManager == nil || h.basicAuth == nil {
		respondError(w, http.StatusForbidden, "AUTH_DISABLED", "JWT authentication is not enabled", nil)
		return
	}

	if err := h.basicAuth.ValidateLogin(req.Username, req.Password); err != nil {
		h.security.LogLoginFailure(req.Username, "jwt", r.RemoteAddr, r.UserAgent(), "invalid credentials")
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Invalid username or password", nil)
		return
	}
	h.security.LogLoginSuccess(req.Username, req.Username, "jwt", r.RemoteAddr, r.UserAgent())

	role := "admin"
	token, err := h.jwtManager.GenerateToken(req.Username, role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate token", err)
		return
	}
	h.security.LogTokenIssued(req.Username, req.Username, "jwt")

	respondSuccess(w, http.StatusOK, &models.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(h.jwtManager.SessionTimeout()),
		Username:  req.Username,
		Role:      role,
	}, started, false)
}

// Health reports liveness plus a shallow dependency check.
//
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse
// @Failure 503 {object} models.APIResponse "Database unreachable"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	dbStatus := "ok"
	status := http.StatusOK
	if err := h.db.Ping(r.Context()); err != nil {
		dbStatus = "unreachable"
		status = http.StatusServiceUnavailable
	}

	clients := 0
	if h.wsHub != nil {
		clients = h.wsHub.ClientCount()
	}

	respondSuccess(w, status, map[string]interface{}{
		"status":            dbStatus,
		"uptime_seconds":    int64(time.Since(h.startTime).Seconds()),
		"database":          dbStatus,
		"websocket_clients": clients,
		"search_enabled":    h.search != nil,
		"embedder_enabled":  h.embedder != nil,
		"pipeline_enabled":  h.publisher != nil,
	}, started, false)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS for the upgrade request is enforced by the router middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebSocket upgrades the connection and registers it with the activity hub.
//
// @Summary Websocket activity feed
// @Description Streams accepted interactions and completed model rebuilds
// @Tags Realtime
// @Success 101 {string} string "Switching Protocols"
// @Failure 503 {object} models.APIResponse "Hub unavailable"
// @Router /ws [get]
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "WebSocket service unavailable", nil)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	h.wsHub.Register <- client
	client.Start()
}
