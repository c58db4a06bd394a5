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
	"github.com/tomtom215/vocatio/internal/logging"
	"github.com/tomtom215/vocatio/internal/messaging"
	"github.com/tomtom215/vocatio/internal/metrics"
	"github.com/tomtom215/vocatio/internal/models"
)

// RecordInteraction persists a resume/job interaction and publishes it to the
// event pipeline.
//
// The write to DuckDB is the source of truth; the event publication is
// best-effort. When the pipeline is off or the publish fails, cache
// invalidation and the websocket notification run inline instead.
//
// @Summary Record an interaction
// @Description Records a view/click/save/like/apply interaction and feeds the collaborative model
// @Tags Interactions
// @Accept json
// @Produce json
// @Param interaction body models.InteractionRequest true "Interaction"
// @Success 201 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse "Invalid request body"
// @Router /interactions [post]
func (h *Handler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.InteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	interaction, err := h.db.InsertInteraction(r.Context(), &req)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Job not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to store interaction", err)
		return
	}
	metrics.InteractionsRecorded.WithLabelValues(interaction.Type).Inc()

	ev := &messaging.InteractionEvent{
		InteractionID: interaction.ID,
		ResumeID:      interaction.ResumeID,
		JobID:         interaction.JobID,
		Type:          interaction.Type,
		OccurredAt:    interaction.OccurredAt,
	}

	published := false
	if h.publisher != nil {
		if err := h.publisher.PublishInteraction(ev); err != nil {
			logging.Warn().Int64("interaction_id", interaction.ID).Err(err).Msg("Interaction event publish failed, handling inline")
		} else {
			published = true
		}
	}
	if !published {
		h.engine.InvalidateCache(r.Context(), interaction.ResumeID)
		metrics.CacheInvalidations.Inc()
		if h.wsHub != nil {
			h.wsHub.NotifyInteraction(ev)
		}
	}

	respondSuccess(w, http.StatusCreated, interaction, started, false)
}

// UpsertResumeEmbedding stores the embedding vector for a resume.
//
// @Summary Upsert a resume embedding
// @Tags Resumes
// @Accept json
// @Produce json
// @Param resumeID path int true "Resume ID"
// @Param embedding body models.ResumeEmbeddingRequest true "Embedding vector"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse "Invalid request body"
// @Router /resumes/{resumeID}/embedding [post]
func (h *Handler) UpsertResumeEmbedding(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	resumeID, err := pathID(chi.URLParam(r, "resumeID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid resume ID", err)
		return
	}

	var req models.ResumeEmbeddingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	if err := h.embeddings.PutResumeEmbedding(r.Context(), resumeID, req.Embedding); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to store resume embedding", err)
		return
	}

	// Stale cached recommendations would otherwise survive until TTL.
	h.engine.InvalidateCache(r.Context(), resumeID)

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"resume_id":  resumeID,
		"dimensions": len(req.Embedding),
	}, started, false)
}
