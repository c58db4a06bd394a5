// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

/*
Package recommend implements the hybrid job recommendation engine.

The engine blends two independent relevance signals for a resume:

  - Content-based: cosine similarity between the resume embedding and each
    job embedding (package scoring).
  - Collaborative: item-based collaborative filtering over an implicit-rating
    user-item interaction matrix (package cf).

Candidate lists from both sources are merged with one of three strategies
(package merge): weighted, cascade, or mixed. An optional reranking stage
(package rerank) applies Maximal Marginal Relevance for diversity plus a
novelty signal built from per-user view staleness and posting recency.

# Pipeline

	resume embedding ─┐
	                  ├─ scoring.TopN ──┐
	job embeddings ───┘                 ├─ merge ─ (filter) ─ (rerank) ─ Response
	interaction log ── cf.Model.TopN ───┘

Every stage is a pure function over immutable inputs; a request performs no
I/O after the initial prefetch. The collaborative model is a process-wide
snapshot published through an atomic pointer: readers never block on a
rebuild and a rebuild never blocks readers.

# Degradation

A missing resume embedding is a NotFoundError. An empty or unbuilt
collaborative model silently degrades recommendations to content-only.
An empty candidate set produces an empty response, not an error.

# Dependencies

This package has no dependencies on other internal packages apart from its
own subpackages. The EmbeddingStore, InteractionLog, JobCatalog, and
ResponseCache interfaces let the database, embedding, and cache layers plug
in without circular imports.
*/
package recommend
