// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package authz

import (
	"net/http"

	"github.com/tomtom215/vocatio/internal/auth"
	"github.com/tomtom215/vocatio/internal/logging"
)

// Middleware enforces the Casbin policy on authenticated requests.
type Middleware struct {
	enforcer *Enforcer
	authMode string
	security *logging.SecurityLogger
}

// NewMiddleware builds the authorization middleware. In auth mode "none"
// enforcement is skipped entirely; without identities there is nothing to
// authorize against.
func NewMiddleware(enforcer *Enforcer, authMode string) *Middleware {
	return &Middleware{
		enforcer: enforcer,
		authMode: authMode,
		security: logging.NewSecurityLogger(),
	}
}

// Authorize checks the request path and method against the caller's role.
func (m *Middleware) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.authMode == "none" {
			next.ServeHTTP(w, r)
			return
		}

		claims, ok := auth.ClaimsFromContext(r.Context())
		if !ok {
			http.Error(w, "Forbidden: no identity", http.StatusForbidden)
			return
		}

		role := claims.Role
		if role == "" {
			role = "viewer"
		}

		allowed, err := m.enforcer.Enforce(role, r.URL.Path, r.Method)
		if err != nil {
			logging.Error().Err(err).Str("path", r.URL.Path).Msg("Authorization check failed")
			http.Error(w, "Internal authorization error", http.StatusInternalServerError)
			return
		}
		if !allowed {
			m.security.LogAccessDenied(claims.Username, r.RemoteAddr, r.URL.Path, "denied by policy for role "+role)
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
