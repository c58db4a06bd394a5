// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/vocatio/internal/database"
	"github.com/tomtom215/vocatio/internal/embedder"
	"github.com/tomtom215/vocatio/internal/logging"
	"github.com/tomtom215/vocatio/internal/metrics"
	"github.com/tomtom215/vocatio/internal/models"
)

// UpsertJob creates or replaces a job posting.
//
// When the request carries no embedding and an external embedder is
// configured, the server generates one from the posting text. The posting is
// also added to the full-text search index.
//
// @Summary Upsert a job posting
// @Description Creates or replaces a job posting, generating an embedding when the embedder is configured
// @Tags Jobs
// @Accept json
// @Produce json
// @Param job body models.JobUpsertRequest true "Job posting"
// @Success 200 {object} models.APIResponse "Updated"
// @Success 201 {object} models.APIResponse "Created"
// @Failure 400 {object} models.APIResponse "Invalid request body"
// @Router /jobs [post]
func (h *Handler) UpsertJob(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.JobUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	if len(req.Embedding) == 0 && h.embedder != nil {
		vec, err := h.embedder.Embed(r.Context(), req.Title+" "+req.Description)
		switch {
		case err == nil:
			req.Embedding = vec
		case errors.Is(err, embedder.ErrUnavailable):
			// Degraded ingestion: the posting is stored without a vector and
			// stays out of content-based scoring until re-upserted.
			logging.Warn().Int64("job_id", req.ID).Err(err).Msg("Embedder unavailable, job stored without embedding")
		default:
			respondError(w, http.StatusBadGateway, "EMBEDDER_ERROR", "Embedding generation failed", err)
			return
		}
	}

	job, created, err := h.db.UpsertJob(r.Context(), &req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to store job", err)
		return
	}

	if len(req.Embedding) > 0 && h.embeddings != nil {
		if err := h.embeddings.PutJobEmbedding(r.Context(), job.ID, req.Embedding); err != nil {
			respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to store job embedding", err)
			return
		}
	}

	if h.search != nil {
		if err := h.search.IndexJob(job); err != nil {
			logging.Error().Int64("job_id", job.ID).Err(err).Msg("Failed to index job for search")
		}
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondSuccess(w, status, job, started, false)
}

// GetJob fetches one job posting.
//
// @Summary Get a job posting
// @Tags Jobs
// @Produce json
// @Param jobID path int true "Job ID"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse "Unknown job"
// @Router /jobs/{jobID} [get]
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	jobID, err := pathID(chi.URLParam(r, "jobID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid job ID", err)
		return
	}

	job, err := h.db.GetJob(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Job not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch job", err)
		return
	}

	respondSuccess(w, http.StatusOK, job, started, false)
}

// ListJobs returns a paginated job listing.
//
// @Summary List job postings
// @Tags Jobs
// @Produce json
// @Param limit query int false "Page size (default 50, max 500)"
// @Param offset query int false "Page offset"
// @Success 200 {object} models.APIResponse
// @Router /jobs [get]
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	limit, err := getIntParam(r, "limit", 50)
	if err != nil {
		respondInvalidParam(w, err)
		return
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	offset, err := getIntParam(r, "offset", 0)
	if err != nil {
		respondInvalidParam(w, err)
		return
	}
	if offset < 0 {
		offset = 0
	}

	jobs, total, err := h.db.ListJobs(r.Context(), database.ListJobsOptions{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list jobs", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"jobs":        jobs,
		"total_count": total,
		"limit":       limit,
		"offset":      offset,
	}, started, false)
}

// SearchJobs runs a full-text query over the posting index.
//
// @Summary Search job postings
// @Description Full-text search over title, company, and description
// @Tags Jobs
// @Produce json
// @Param q query string true "Search query"
// @Param limit query int false "Maximum hits"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse "Missing query"
// @Failure 503 {object} models.APIResponse "Search index disabled"
// @Router /jobs/search [get]
func (h *Handler) SearchJobs(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	if h.search == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Search index not configured", nil)
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Query parameter q is required", nil)
		return
	}
	limit, err := getIntParam(r, "limit", 0)
	if err != nil {
		respondInvalidParam(w, err)
		return
	}

	resp, err := h.search.Search(r.Context(), query, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "SEARCH_ERROR", "Search failed", err)
		return
	}
	metrics.RecordSearch(time.Since(started))

	respondSuccess(w, http.StatusOK, resp, started, false)
}
