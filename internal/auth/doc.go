// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

// Package auth implements request authentication in three modes:
//
//   - jwt: HS256 bearer tokens issued by the login endpoint
//   - basic: HTTP Basic against the configured admin account (bcrypt)
//   - none: no authentication (development only; rejected in production)
//
// Authenticated requests carry *Claims in the request context; the authz
// package consumes the role claim for admin-route enforcement.
package auth
