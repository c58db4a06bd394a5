// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

// Package api exposes the HTTP surface: recommendation queries, job and
// interaction ingestion, full-text search, admin rebuilds, and the websocket
// activity feed. Routing uses chi with CORS and rate limiting from the chi
// ecosystem; every response is a models.APIResponse envelope.
package api
