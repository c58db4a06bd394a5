// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

// Package scoring computes content-based relevance: cosine similarity
// between a resume embedding and job embeddings.
//
// All functions are pure and deterministic; identical inputs produce
// identical output, including ordering. Zero-norm and length-mismatched
// vectors score 0, never NaN.
package scoring

import (
	"math"
	"sort"

	"github.com/viterin/vek/vek32"
)

// ScoredItem is a job with its cosine similarity to the query.
type ScoredItem struct {
	JobID int64   `json:"job_id"`
	Score float64 `json:"score"`
}

// Cosine returns the cosine similarity between two vectors. Vectors of
// different lengths, empty vectors, and zero-norm vectors yield 0.
//
// For normalized embeddings the result lies in [0,1]; for general vectors
// in [-1,1].
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	dot := float64(vek32.Dot(a, b))
	normA := math.Sqrt(float64(vek32.Dot(a, a)))
	normB := math.Sqrt(float64(vek32.Dot(b, b)))

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (normA * normB)
}

// ScoreAll scores every item against the query and returns the full list
// ordered by score descending, ties broken by ascending job id.
func ScoreAll(query []float32, items map[int64][]float32) []ScoredItem {
	if len(items) == 0 {
		return nil
	}

	scored := make([]ScoredItem, 0, len(items))
	for id, vec := range items {
		scored = append(scored, ScoredItem{JobID: id, Score: Cosine(query, vec)})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].JobID < scored[j].JobID
	})
	return scored
}

// TopN returns the n best-scoring items against the query.
func TopN(query []float32, items map[int64][]float32, n int) []ScoredItem {
	if n <= 0 {
		return nil
	}
	scored := ScoreAll(query, items)
	if len(scored) > n {
		scored = scored[:n]
	}
	return scored
}
