// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

// Package rerank implements the diversity-novelty reranking stage: greedy
// Maximal Marginal Relevance selection over job-embedding similarity,
// blended with a time-decayed novelty signal.
//
// The MMR formula is:
//
//	mmr(d) = lambda*relevance(d) - (1-lambda)*max_{s in S} cos(emb(d), emb(s))
//
// where S is the already-selected set. lambda=1 is pure relevance, lambda=0
// pure diversity.
//
// Reference:
// Carbonell, J., & Goldstein, J. (1998). "The Use of MMR, Diversity-Based
// Reranking for Reordering Documents and Producing Summaries." SIGIR 1998.
//
// Everything in this package is pure and deterministic; candidates are
// pre-sorted by relevance (ties ascending job id) so argmax tie-breaking is
// stable across runs.
package rerank

import (
	"sort"

	"github.com/tomtom215/vocatio/internal/recommend/merge"
	"github.com/tomtom215/vocatio/internal/recommend/scoring"
)

// mmrSelect runs greedy MMR over the candidates that carry embeddings and
// returns the selection in pick order. The first pick is always the
// argmax-relevance candidate. Selection is bounded by topN.
//
// Candidates without an embedding cannot participate in the similarity term
// and are dropped from selection; when none carry embeddings the caller
// falls back to the merged order.
func mmrSelect(candidates []merge.Candidate, embeddings map[int64][]float32, lambda float64, topN int) []merge.Candidate {
	pool := make([]merge.Candidate, 0, len(candidates))
	for i := range candidates {
		if _, ok := embeddings[candidates[i].JobID]; ok {
			pool = append(pool, candidates[i])
		}
	}
	if len(pool) == 0 || topN <= 0 {
		return nil
	}

	// Stable base order: relevance descending, ties ascending job id.
	// The argmax below uses strict >, so equal MMR scores resolve to the
	// earlier (higher-relevance) candidate.
	sort.Slice(pool, func(i, j int) bool {
		if pool[i].Relevance != pool[j].Relevance {
			return pool[i].Relevance > pool[j].Relevance
		}
		return pool[i].JobID < pool[j].JobID
	})

	k := topN
	if k > len(pool) {
		k = len(pool)
	}

	selected := make([]merge.Candidate, 0, k)
	used := make([]bool, len(pool))

	// Pairwise similarity to selected items, maintained incrementally:
	// maxSim[i] is max over selected s of cos(pool[i], s).
	maxSim := make([]float64, len(pool))

	for len(selected) < k {
		best := -1
		bestScore := 0.0
		for i := range pool {
			if used[i] {
				continue
			}
			score := lambda * pool[i].Relevance
			if len(selected) > 0 {
				score -= (1 - lambda) * maxSim[i]
			}
			if best < 0 || score > bestScore {
				best = i
				bestScore = score
			}
		}
		if best < 0 {
			break
		}

		used[best] = true
		selected = append(selected, pool[best])

		pickedEmb := embeddings[pool[best].JobID]
		for i := range pool {
			if used[i] {
				continue
			}
			if sim := scoring.Cosine(embeddings[pool[i].JobID], pickedEmb); sim > maxSim[i] {
				maxSim[i] = sim
			}
		}
	}

	return selected
}

// diversityScore returns the rank-based diversity score for 1-indexed
// selection position k in a list of length n: 1.0 - (k-1)/n. The first pick
// always scores 1.0.
func diversityScore(k, n int) float64 {
	if n <= 0 {
		return 0
	}
	return 1.0 - float64(k-1)/float64(n)
}
