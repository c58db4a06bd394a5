// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

// Package supervisor builds the suture v4 supervision tree.
//
// The tree has three layers for failure isolation:
//
//   - data: long-lived stores (reserved; stores today are opened in main)
//   - messaging: websocket hub, event pipeline, rebuild ticker
//   - api: HTTP server
//
// A crash in the messaging layer restarts only that layer; the API keeps
// serving from the last swapped-in model. Supervisor events are logged
// through sutureslog into the zerolog-backed slog handler.
package supervisor
