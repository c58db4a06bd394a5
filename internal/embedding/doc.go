// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

// Package embedding persists resume and job embedding vectors.
//
// Vectors live in BadgerDB under "resume:<id>" and "job:<id>" keys, packed
// as little-endian float32 bits. A hashicorp LRU keeps recently used single
// vectors in memory; bulk reads (JobEmbeddings) always hit Badger so the
// engine scores against the full catalog.
package embedding
