// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package recommend

import (
	"context"
	"time"

	"github.com/tomtom215/vocatio/internal/recommend/cf"
)

// Merge strategy names accepted by Request.Strategy.
const (
	StrategyWeighted = "weighted"
	StrategyCascade  = "cascade"
	StrategyMixed    = "mixed"
)

// Strategies lists the supported merge strategies in presentation order.
func Strategies() []string {
	return []string{StrategyWeighted, StrategyCascade, StrategyMixed}
}

// Request parameterizes one recommendation run.
//
// Zero values are replaced with the configured defaults by the engine before
// validation, so callers only set the fields they want to override. Note the
// zero-value ambiguity for weights: a caller that genuinely wants a zero
// weight must set the corresponding Has flag through the API layer; the HTTP
// handler does this by distinguishing absent from present query parameters.
type Request struct {
	// ResumeID is the resume (user) to generate recommendations for.
	ResumeID int64 `json:"resume_id"`

	// TopN is the number of recommendations to return (1..50, default 10).
	TopN int `json:"top_n,omitempty"`

	// Strategy selects the merge strategy: weighted, cascade, or mixed.
	Strategy string `json:"strategy,omitempty"`

	// ContentWeight and CFWeight control the weighted strategy. They need
	// not sum to 1; the merger normalizes by their sum.
	ContentWeight *float64 `json:"content_weight,omitempty"`
	CFWeight      *float64 `json:"cf_weight,omitempty"`

	// EnableDiversity turns on the MMR + novelty reranking stage.
	EnableDiversity bool `json:"enable_diversity,omitempty"`

	// DiversityWeight, NoveltyWeight, and MMRLambda parameterize the
	// reranking stage. All lie in [0,1]; diversity + novelty must not
	// exceed 1 (the residual is the relevance weight).
	DiversityWeight *float64 `json:"diversity_weight,omitempty"`
	NoveltyWeight   *float64 `json:"novelty_weight,omitempty"`
	MMRLambda       *float64 `json:"mmr_lambda,omitempty"`
}

// Item is one recommended job posting.
//
// Pointer fields carry scores only the stage that produced them can supply:
// Similarity for content-sourced items, CFScore for collaborative-sourced
// items, and the reranking block when diversity ran. Items are ordered by
// HybridScore, or by FinalScore when reranking is enabled.
type Item struct {
	JobID       int64   `json:"job_id"`
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	HybridScore float64 `json:"hybrid_score"`

	Similarity *float64 `json:"similarity,omitempty"`
	CFScore    *float64 `json:"cf_score,omitempty"`

	// Strategy echoes the request strategy; Source records which signal
	// produced the item: content, collaborative, or both.
	Strategy string `json:"strategy"`
	Source   string `json:"source,omitempty"`

	FinalScore     *float64 `json:"final_score,omitempty"`
	DiversityScore *float64 `json:"diversity_score,omitempty"`
	NoveltyScore   *float64 `json:"novelty_score,omitempty"`
	UserNovelty    *float64 `json:"user_novelty,omitempty"`
	RecencyFactor  *float64 `json:"recency_factor,omitempty"`
}

// Response is the engine output for one request.
type Response struct {
	ResumeID      int64     `json:"resume_id"`
	TotalCount    int       `json:"total_count"`
	Strategy      string    `json:"strategy"`
	ContentWeight float64   `json:"content_weight"`
	CFWeight      float64   `json:"cf_weight"`
	Items         []Item    `json:"recommendations"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// DiversityReport aggregates pairwise embedding similarity over a
// recommendation list. DiversityScore is 1 - AvgSimilarity.
type DiversityReport struct {
	AvgSimilarity  float64 `json:"avg_similarity"`
	MinSimilarity  float64 `json:"min_similarity"`
	MaxSimilarity  float64 `json:"max_similarity"`
	DiversityScore float64 `json:"diversity_score"`
}

// Analysis pairs a diversity-reranked response with its diversity report.
type Analysis struct {
	Response
	Report DiversityReport `json:"analysis"`
}

// SimilarItem is a job related to a reference job, via the collaborative
// similarity matrix or, when the model knows nothing about the job, via
// embedding cosine (Basis records which).
type SimilarItem struct {
	JobID      int64   `json:"job_id"`
	Title      string  `json:"title"`
	Company    string  `json:"company"`
	Similarity float64 `json:"similarity"`
	Basis      string  `json:"basis"`
}

// Basis values for SimilarItem.
const (
	BasisCollaborative = "collaborative"
	BasisContent       = "content"
)

// Stats summarizes the engine state for the stats endpoint.
type Stats struct {
	ResumesWithEmbeddings int        `json:"resumes_with_embeddings"`
	JobsWithEmbeddings    int        `json:"jobs_with_embeddings"`
	Model                 cf.Stats   `json:"model"`
	ModelAvailable        bool       `json:"model_available"`
	ModelVersion          int64      `json:"model_version"`
	LastRebuiltAt         *time.Time `json:"last_rebuilt_at,omitempty"`
	Strategies            []string   `json:"strategies_available"`
	DefaultStrategy       string     `json:"default_strategy"`
	DefaultContentWeight  float64    `json:"default_content_weight"`
	DefaultCFWeight       float64    `json:"default_cf_weight"`
}

// RebuildInfo reports the outcome of a completed model rebuild.
type RebuildInfo struct {
	ModelVersion int64         `json:"model_version"`
	Users        int           `json:"users"`
	Items        int           `json:"items"`
	Interactions int           `json:"interactions"`
	Duration     time.Duration `json:"-"`
	RebuiltAt    time.Time     `json:"rebuilt_at"`
}

// JobMeta is the catalog metadata the engine needs to label output and
// compute posting recency. PostedAt is nil for postings without a date; the
// reranker substitutes a fixed recency factor.
type JobMeta struct {
	Title    string
	Company  string
	PostedAt *time.Time
}

// EmbeddingStore supplies resume and job embedding vectors.
//
// Implementations must return a NotFoundError (via recommend.NotFoundError
// or a wrapper of it) when a resume embedding is absent; the engine
// propagates it without producing a partial result.
type EmbeddingStore interface {
	// ResumeEmbedding returns the embedding for a resume.
	ResumeEmbedding(ctx context.Context, resumeID int64) ([]float32, error)

	// JobEmbedding returns the embedding for a single job, or a
	// NotFoundError when it has none.
	JobEmbedding(ctx context.Context, jobID int64) ([]float32, error)

	// JobEmbeddings returns all stored job embeddings.
	JobEmbeddings(ctx context.Context) (map[int64][]float32, error)

	// Counts returns how many resumes and jobs have stored embeddings.
	Counts(ctx context.Context) (resumes, jobs int, err error)
}

// InteractionLog supplies recorded user actions. AllInteractions is used
// only at model-build time; ViewHistory feeds the novelty signal.
type InteractionLog interface {
	// AllInteractions returns every recorded interaction.
	AllInteractions(ctx context.Context) ([]cf.Interaction, error)

	// ViewHistory returns, per job, the most recent time the resume
	// viewed or clicked it. Jobs the resume never viewed are absent.
	ViewHistory(ctx context.Context, resumeID int64) (map[int64]time.Time, error)
}

// JobCatalog supplies posting metadata for output labeling and recency.
type JobCatalog interface {
	// Metadata returns metadata for the given jobs. Unknown ids are
	// simply absent from the result, not an error.
	Metadata(ctx context.Context, jobIDs []int64) (map[int64]JobMeta, error)
}

// ResponseCache caches rendered responses per (resume, parameters) key.
// Implementations are expected to scope invalidation per resume so an
// interaction write drops only that resume's entries.
type ResponseCache interface {
	// Get returns the cached payload for key, if present and fresh.
	Get(ctx context.Context, resumeID int64, key string) ([]byte, bool)

	// Set stores a payload under key with the cache's configured TTL.
	Set(ctx context.Context, resumeID int64, key string, payload []byte)

	// Invalidate drops every cached entry for the resume.
	Invalidate(ctx context.Context, resumeID int64)
}
