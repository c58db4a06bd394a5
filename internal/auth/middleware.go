// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/tomtom215/vocatio/internal/config"
	"github.com/tomtom215/vocatio/internal/logging"
)

type contextKey string

// ClaimsContextKey carries the authenticated *Claims in the request context.
const ClaimsContextKey contextKey = "claims"

// Middleware enforces the configured auth mode on HTTP requests.
type Middleware struct {
	jwtManager       *JWTManager
	basicAuthManager *BasicAuthManager
	authMode         string
	security         *logging.SecurityLogger
}

// NewMiddleware builds the middleware for mode "jwt", "basic", or "none".
// The managers required by the active mode must be non-nil.
func NewMiddleware(cfg *config.SecurityConfig, jwtManager *JWTManager, basicAuthManager *BasicAuthManager) *Middleware {
	return &Middleware{
		jwtManager:       jwtManager,
		basicAuthManager: basicAuthManager,
		authMode:         cfg.AuthMode,
		security:         logging.NewSecurityLogger(),
	}
}

// Authenticate wraps next with authentication. In mode "none" requests pass
// through with no claims attached.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch m.authMode {
		case "none":
			next.ServeHTTP(w, r)
		case "basic":
			m.handleBasicAuth(w, r, next)
		default:
			m.handleJWTAuth(w, r, next)
		}
	})
}

func (m *Middleware) handleBasicAuth(w http.ResponseWriter, r *http.Request, next http.Handler) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		m.sendBasicChallenge(w, "authentication required")
		return
	}

	username, err := m.basicAuthManager.ValidateCredentials(authHeader)
	if err != nil {
		m.security.LogLoginFailure("", "basic", r.RemoteAddr, r.UserAgent(), err.Error())
		m.sendBasicChallenge(w, "invalid credentials")
		return
	}

	// The single basic-auth account administers the instance.
	claims := &Claims{Username: username, Role: "admin"}
	next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
}

func (m *Middleware) handleJWTAuth(w http.ResponseWriter, r *http.Request, next http.Handler) {
	token := extractBearerToken(r)
	if token == "" {
		http.Error(w, "Unauthorized: missing bearer token", http.StatusUnauthorized)
		return
	}

	claims, err := m.jwtManager.ValidateToken(token)
	if err != nil {
		m.security.LogLoginFailure("", "jwt", r.RemoteAddr, r.UserAgent(), err.Error())
		http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
		return
	}

	next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
}

func (m *Middleware) sendBasicChallenge(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", m.basicAuthManager.WWWAuthenticateHeader())
	http.Error(w, "Unauthorized: "+message, http.StatusUnauthorized)
}

func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return token
	}
	// WebSocket clients cannot set headers from browsers; allow a query
	// parameter fallback for /ws.
	return r.URL.Query().Get("token")
}

func withClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ClaimsContextKey, claims)
}

// ClaimsFromContext retrieves the authenticated claims, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok
}
