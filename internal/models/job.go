// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package models

import (
	"time"
)

// Job is a job posting in the catalog.
//
// PostedAt is a pointer because postings imported from external feeds do not
// always carry a posting date; the reranker falls back to a fixed recency
// factor in that case.
type Job struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Description string     `json:"description,omitempty"`
	PostedAt    *time.Time `json:"posted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// JobUpsertRequest creates or replaces a job posting.
//
// Embedding is optional: when absent and an external embedder is configured,
// the server generates one from the title and description. Dimension limits
// guard against accidental giant payloads.
type JobUpsertRequest struct {
	ID          int64      `json:"id" validate:"required,min=1"`
	Title       string     `json:"title" validate:"required,min=1,max=300"`
	Company     string     `json:"company" validate:"required,min=1,max=200"`
	Description string     `json:"description,omitempty" validate:"max=20000"`
	PostedAt    *time.Time `json:"posted_at,omitempty"`
	Embedding   []float32  `json:"embedding,omitempty" validate:"omitempty,min=8,max=4096"`
}

// Interaction is a recorded user action on a job posting.
//
// Type is one of: view, click, save, like, apply. The collaborative model
// maps these to implicit ratings (view=1, click=2, save=3, like=4, apply=5).
type Interaction struct {
	ID         int64     `json:"id"`
	ResumeID   int64     `json:"resume_id"`
	JobID      int64     `json:"job_id"`
	Type       string    `json:"interaction_type"`
	OccurredAt time.Time `json:"occurred_at"`
}

// InteractionRequest records a new interaction.
//
// OccurredAt is optional; the server timestamp is used when absent.
type InteractionRequest struct {
	ResumeID   int64      `json:"resume_id" validate:"required,min=1"`
	JobID      int64      `json:"job_id" validate:"required,min=1"`
	Type       string     `json:"interaction_type" validate:"required,oneof=view click save like apply"`
	OccurredAt *time.Time `json:"occurred_at,omitempty"`
}

// ResumeEmbeddingRequest upserts the embedding vector for a resume.
type ResumeEmbeddingRequest struct {
	Embedding []float32 `json:"embedding" validate:"required,min=8,max=4096"`
}

// JobSearchResult is a single full-text search hit.
type JobSearchResult struct {
	JobID   int64   `json:"job_id"`
	Title   string  `json:"title"`
	Company string  `json:"company"`
	Score   float64 `json:"score"`
}

// JobSearchResponse is the envelope for the job search endpoint.
type JobSearchResponse struct {
	Query      string            `json:"query"`
	TotalCount int               `json:"total_count"`
	Results    []JobSearchResult `json:"results"`
}
