// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

// Package database provides DuckDB-backed storage for the job catalog and
// the interaction log.
//
// The DB type implements the recommend package's InteractionLog and
// JobCatalog interfaces, so the engine consumes this package only through
// those interfaces. Schema setup runs at startup: base tables and indexes
// from schema.go, then any pending versioned migrations.
//
// All statements are parameterized. Prepared statements for hot paths are
// cached per query text.
package database
