// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package rerank

import (
	"github.com/tomtom215/vocatio/internal/recommend/scoring"
)

// Report aggregates pairwise embedding similarity over a recommendation
// list. DiversityScore is 1 - AvgSimilarity: higher means a more varied
// list.
type Report struct {
	AvgSimilarity  float64 `json:"avg_similarity"`
	MinSimilarity  float64 `json:"min_similarity"`
	MaxSimilarity  float64 `json:"max_similarity"`
	DiversityScore float64 `json:"diversity_score"`
}

// AnalyzeDiversity computes the pairwise-similarity report for the jobs
// that carry embeddings, diagonal excluded. Fewer than two embedded jobs
// yield zero similarities and a diversity score of 1.0.
func AnalyzeDiversity(jobIDs []int64, embeddings map[int64][]float32) Report {
	vecs := make([][]float32, 0, len(jobIDs))
	for _, id := range jobIDs {
		if v, ok := embeddings[id]; ok {
			vecs = append(vecs, v)
		}
	}

	if len(vecs) < 2 {
		return Report{DiversityScore: 1.0}
	}

	var sum, lo, hi float64
	first := true
	pairs := 0
	for i := 0; i < len(vecs); i++ {
		for j := i + 1; j < len(vecs); j++ {
			sim := scoring.Cosine(vecs[i], vecs[j])
			sum += sim
			pairs++
			if first {
				lo, hi = sim, sim
				first = false
				continue
			}
			if sim < lo {
				lo = sim
			}
			if sim > hi {
				hi = sim
			}
		}
	}

	avg := sum / float64(pairs)
	return Report{
		AvgSimilarity:  avg,
		MinSimilarity:  lo,
		MaxSimilarity:  hi,
		DiversityScore: 1.0 - avg,
	}
}
