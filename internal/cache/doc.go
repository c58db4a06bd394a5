// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

// Package cache provides recommendation response caches.
//
// Two backends implement recommend.ResponseCache: an in-process Ristretto
// cache (the default) and Redis for multi-instance deployments. Both scope
// invalidation per resume with a generation counter: entries embed the
// resume's current generation in their key, so bumping the generation
// orphans every cached entry for that resume at once without key scans.
// Orphaned entries age out via TTL.
package cache
