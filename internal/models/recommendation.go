// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package models

import (
	"time"
)

// Recommendation is a single recommended job posting as returned by the
// recommendation endpoints.
//
// Score fields are populated depending on how the item was produced:
//   - HybridScore: the merged score (always present)
//   - Similarity: raw content-based cosine similarity (present when the item
//     came from the content source)
//   - CFScore: raw collaborative-filtering predicted rating (present when the
//     item came from the collaborative source)
//   - Strategy: the merge strategy used for the request (weighted, cascade, mixed)
//   - Source: which source produced the item (content, collaborative, both)
//
// When diversity reranking is enabled the reranking fields are populated:
//   - FinalScore: blended relevance/diversity/novelty score (the sort key)
//   - DiversityScore: MMR selection-rank score in (0, 1], first pick is 1.0
//   - NoveltyScore: 0.6*user_novelty + 0.4*recency_factor
//   - UserNovelty: per-user staleness (1.0 if the user never viewed the job)
//   - RecencyFactor: global posting-age factor
//
// Example:
//
//	{
//	  "job_id": 17,
//	  "title": "Backend Engineer",
//	  "company": "Acme",
//	  "hybrid_score": 0.8123,
//	  "similarity": 0.91,
//	  "cf_score": 3.2,
//	  "strategy": "weighted",
//	  "source": "both",
//	  "final_score": 0.7741,
//	  "diversity_score": 1.0,
//	  "novelty_score": 0.5444,
//	  "user_novelty": 0.5,
//	  "recency_factor": 0.6111
//	}
type Recommendation struct {
	JobID          int64    `json:"job_id"`
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	HybridScore    float64  `json:"hybrid_score"`
	Similarity     *float64 `json:"similarity,omitempty"`
	CFScore        *float64 `json:"cf_score,omitempty"`
	Strategy       string   `json:"strategy"`
	Source         string   `json:"source,omitempty"`
	FinalScore     *float64 `json:"final_score,omitempty"`
	DiversityScore *float64 `json:"diversity_score,omitempty"`
	NoveltyScore   *float64 `json:"novelty_score,omitempty"`
	UserNovelty    *float64 `json:"user_novelty,omitempty"`
	RecencyFactor  *float64 `json:"recency_factor,omitempty"`
}

// RecommendationList is the envelope for a recommendation response.
//
// Fields:
//   - ResumeID: the resume (user) the recommendations were generated for
//   - TotalCount: number of recommendations returned
//   - Strategy: merge strategy applied
//   - ContentWeight, CFWeight: the weights used for the weighted strategy
//   - Recommendations: the ranked items
//   - GeneratedAt: server time of generation
type RecommendationList struct {
	ResumeID        int64            `json:"resume_id"`
	TotalCount      int              `json:"total_count"`
	Strategy        string           `json:"strategy"`
	ContentWeight   float64          `json:"content_weight"`
	CFWeight        float64          `json:"cf_weight"`
	Recommendations []Recommendation `json:"recommendations"`
	GeneratedAt     time.Time        `json:"generated_at"`
}

// DiversityReport summarizes pairwise embedding similarity across a
// recommendation list. Produced by the analysis endpoint.
//
// DiversityScore is 1 - AvgSimilarity; a list with fewer than two items that
// carry embeddings reports zero similarities and a diversity score of 1.0.
type DiversityReport struct {
	AvgSimilarity  float64 `json:"avg_similarity"`
	MinSimilarity  float64 `json:"min_similarity"`
	MaxSimilarity  float64 `json:"max_similarity"`
	DiversityScore float64 `json:"diversity_score"`
}

// RecommendationAnalysis pairs a reranked recommendation list with its
// diversity report.
type RecommendationAnalysis struct {
	RecommendationList
	Analysis DiversityReport `json:"analysis"`
}

// SimilarJob is a job similar to a reference job, either by co-interaction
// (collaborative similarity) or by embedding cosine (content fallback).
type SimilarJob struct {
	JobID      int64   `json:"job_id"`
	Title      string  `json:"title"`
	Company    string  `json:"company"`
	Similarity float64 `json:"similarity"`
	Basis      string  `json:"basis"` // "collaborative" or "content"
}

// SimilarJobsResponse is the envelope for the similar-jobs endpoint.
type SimilarJobsResponse struct {
	JobID       int64        `json:"job_id"`
	TotalCount  int          `json:"total_count"`
	Similar     []SimilarJob `json:"similar"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// ContentStats reports the state of the embedding stores.
type ContentStats struct {
	ResumesWithEmbeddings int `json:"resumes_with_embeddings"`
	JobsWithEmbeddings    int `json:"jobs_with_embeddings"`
}

// CollaborativeStats reports the state of the collaborative-filtering model.
//
// Available is false when no model has been built yet (or the interaction log
// was empty at build time); in that state recommendations silently degrade to
// content-only. Sparsity is 1 - nnz/(users*items), rounded to 4 decimals.
type CollaborativeStats struct {
	Available         bool    `json:"available"`
	TotalInteractions int     `json:"total_interactions"`
	UniqueUsers       int     `json:"unique_users"`
	UniqueItems       int     `json:"unique_items"`
	MatrixUsers       int     `json:"matrix_users"`
	MatrixItems       int     `json:"matrix_items"`
	Sparsity          float64 `json:"sparsity"`
	ModelVersion      int64   `json:"model_version"`
	LastRebuiltAt     *string `json:"last_rebuilt_at,omitempty"`
}

// HybridStats reports merge strategies and default weights.
type HybridStats struct {
	StrategiesAvailable  []string `json:"strategies_available"`
	DefaultStrategy      string   `json:"default_strategy"`
	DefaultContentWeight float64  `json:"default_content_weight"`
	DefaultCFWeight      float64  `json:"default_cf_weight"`
}

// EngineStats is the envelope for the stats endpoint.
type EngineStats struct {
	ContentBased           ContentStats       `json:"content_based"`
	CollaborativeFiltering CollaborativeStats `json:"collaborative_filtering"`
	Hybrid                 HybridStats        `json:"hybrid"`
}

// RebuildResponse reports the outcome of an admin-triggered model rebuild.
type RebuildResponse struct {
	ModelVersion int64     `json:"model_version"`
	Users        int       `json:"users"`
	Items        int       `json:"items"`
	Interactions int       `json:"interactions"`
	DurationMS   int64     `json:"duration_ms"`
	RebuiltAt    time.Time `json:"rebuilt_at"`
}
