// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package rerank

import (
	"sort"
	"time"

	"github.com/tomtom215/vocatio/internal/recommend/merge"
)

// Params controls the reranking stage. All weights lie in [0,1];
// DiversityWeight + NoveltyWeight must not exceed 1 (request validation
// rejects such requests before the pipeline runs). The residual
// 1 - diversity - novelty is the relevance weight, clamped at 0.
type Params struct {
	DiversityWeight float64
	NoveltyWeight   float64
	MMRLambda       float64
	TopN            int
}

// Scored is one reranked candidate with its score breakdown.
type Scored struct {
	merge.Candidate

	// FinalScore is the blend the output list is sorted by.
	FinalScore float64

	// DiversityScore is the rank-based MMR selection score: the first
	// pick scores 1.0 and later picks decrease linearly.
	DiversityScore float64

	// NoveltyScore = 0.6*UserNovelty + 0.4*RecencyFactor.
	NoveltyScore  float64
	UserNovelty   float64
	RecencyFactor float64
}

// Rerank applies MMR selection and novelty scoring to a merged candidate
// list.
//
// Inputs: the merged candidates with relevance scores, job embeddings for
// the pairwise similarity term, the resume's view history (most recent
// view/click per job), and posting dates (nil for undated postings). The
// result is sorted by FinalScore descending, ties ascending job id, and
// never exceeds Params.TopN items.
//
// Candidates without embeddings cannot enter MMR selection; when no
// candidate carries an embedding the merged order is kept and only the
// diversity/novelty annotation is applied.
func Rerank(
	candidates []merge.Candidate,
	embeddings map[int64][]float32,
	viewHistory map[int64]time.Time,
	postedAt map[int64]*time.Time,
	now time.Time,
	p Params,
) []Scored {
	if len(candidates) == 0 || p.TopN <= 0 {
		return nil
	}

	selection := mmrSelect(candidates, embeddings, p.MMRLambda, p.TopN)
	if len(selection) == 0 {
		// No embeddings anywhere: keep the merged order.
		selection = candidates
		if len(selection) > p.TopN {
			selection = selection[:p.TopN]
		}
	}

	relevanceWeight := 1.0 - p.DiversityWeight - p.NoveltyWeight
	if relevanceWeight < 0 {
		relevanceWeight = 0
	}

	out := make([]Scored, 0, len(selection))
	for i := range selection {
		c := selection[i]

		lastViewed, viewed := viewHistory[c.JobID]
		un := userNovelty(lastViewed, now, viewed)
		rf := recencyFactor(postedAt[c.JobID], now)
		nov := noveltyScore(un, rf)
		div := diversityScore(i+1, len(selection))

		out = append(out, Scored{
			Candidate:      c,
			FinalScore:     c.Relevance*relevanceWeight + div*p.DiversityWeight + nov*p.NoveltyWeight,
			DiversityScore: div,
			NoveltyScore:   nov,
			UserNovelty:    un,
			RecencyFactor:  rf,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].FinalScore != out[j].FinalScore {
			return out[i].FinalScore > out[j].FinalScore
		}
		return out[i].JobID < out[j].JobID
	})
	return out
}
