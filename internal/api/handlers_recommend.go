// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/vocatio/internal/metrics"
	"github.com/tomtom215/vocatio/internal/recommend"
)

// strategyLabel keeps the strategy metric label non-empty when the request
// left the strategy to the engine default.
func strategyLabel(strategy string) string {
	if strategy == "" {
		return "default"
	}
	return strategy
}

// recommendRequestFromQuery builds the engine request from query parameters.
// Weight parameters stay nil when absent so the engine's configured defaults
// apply; a present-but-malformed value rejects the request.
func recommendRequestFromQuery(r *http.Request, resumeID int64) (recommend.Request, error) {
	req := recommend.Request{
		ResumeID: resumeID,
		Strategy: r.URL.Query().Get("strategy"),
	}

	var err error
	if req.TopN, err = getIntParam(r, "top_n", 0); err != nil {
		return recommend.Request{}, err
	}
	if req.ContentWeight, err = getFloatParam(r, "content_weight"); err != nil {
		return recommend.Request{}, err
	}
	if req.CFWeight, err = getFloatParam(r, "cf_weight"); err != nil {
		return recommend.Request{}, err
	}
	if req.EnableDiversity, err = getBoolParam(r, "enable_diversity", false); err != nil {
		return recommend.Request{}, err
	}
	if req.DiversityWeight, err = getFloatParam(r, "diversity_weight"); err != nil {
		return recommend.Request{}, err
	}
	if req.NoveltyWeight, err = getFloatParam(r, "novelty_weight"); err != nil {
		return recommend.Request{}, err
	}
	if req.MMRLambda, err = getFloatParam(r, "mmr_lambda"); err != nil {
		return recommend.Request{}, err
	}
	return req, nil
}

// Recommendations returns hybrid job recommendations for a resume.
//
// @Summary Get job recommendations
// @Description Generates hybrid (content + collaborative) job recommendations for a resume
// @Tags Recommendations
// @Produce json
// @Param resumeID path int true "Resume ID"
// @Param top_n query int false "Number of recommendations (1-50, default 10)"
// @Param strategy query string false "Merge strategy: weighted, cascade, or mixed"
// @Param content_weight query number false "Weight of the content-based score"
// @Param cf_weight query number false "Weight of the collaborative score"
// @Param enable_diversity query bool false "Enable MMR + novelty reranking"
// @Param diversity_weight query number false "Diversity weight (0-1)"
// @Param novelty_weight query number false "Novelty weight (0-1)"
// @Param mmr_lambda query number false "MMR relevance/diversity trade-off (0-1)"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse "Invalid parameters"
// @Failure 404 {object} models.APIResponse "Resume has no embedding"
// @Router /recommendations/jobs/{resumeID} [get]
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	resumeID, err := pathID(chi.URLParam(r, "resumeID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid resume ID", err)
		return
	}

	req, err := recommendRequestFromQuery(r, resumeID)
	if err != nil {
		respondInvalidParam(w, err)
		return
	}

	resp, err := h.engine.Recommend(r.Context(), req)
	if err != nil {
		metrics.RecordRecommendation(strategyLabel(req.Strategy), time.Since(started), err)
		respondEngineError(w, err)
		return
	}
	metrics.RecordRecommendation(resp.Strategy, time.Since(started), nil)

	// Responses served from the cache carry the GeneratedAt of the original
	// computation, which predates this request.
	cached := resp.GeneratedAt.Before(started)
	respondSuccess(w, http.StatusOK, resp, started, cached)
}

// RecommendationAnalysis returns diversity-reranked recommendations with
// pairwise-similarity aggregates.
//
// @Summary Analyze recommendation diversity
// @Description Generates diversity-reranked recommendations plus a pairwise similarity report
// @Tags Recommendations
// @Produce json
// @Param resumeID path int true "Resume ID"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse "Invalid parameters"
// @Failure 404 {object} models.APIResponse "Resume has no embedding"
// @Router /recommendations/jobs/{resumeID}/analysis [get]
func (h *Handler) RecommendationAnalysis(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	resumeID, err := pathID(chi.URLParam(r, "resumeID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid resume ID", err)
		return
	}

	req, err := recommendRequestFromQuery(r, resumeID)
	if err != nil {
		respondInvalidParam(w, err)
		return
	}

	analysis, err := h.engine.Analyze(r.Context(), req)
	if err != nil {
		metrics.RecordRecommendation(strategyLabel(req.Strategy), time.Since(started), err)
		respondEngineError(w, err)
		return
	}
	metrics.RecordRecommendation(analysis.Strategy, time.Since(started), nil)

	respondSuccess(w, http.StatusOK, analysis, started, false)
}

// SimilarJobs returns jobs related to a reference job.
//
// @Summary Get similar jobs
// @Description Returns jobs similar to the given one, from the collaborative model or embedding cosine fallback
// @Tags Recommendations
// @Produce json
// @Param jobID path int true "Job ID"
// @Param n query int false "Number of similar jobs (default 10)"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse "Unknown job"
// @Router /recommendations/similar/{jobID} [get]
func (h *Handler) SimilarJobs(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	jobID, err := pathID(chi.URLParam(r, "jobID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid job ID", err)
		return
	}

	n, err := getIntParam(r, "n", 0)
	if err != nil {
		respondInvalidParam(w, err)
		return
	}

	items, err := h.engine.Similar(r.Context(), jobID, n)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"job_id":       jobID,
		"similar_jobs": items,
		"total_count":  len(items),
	}, started, false)
}

// RecommendationStats reports engine statistics.
//
// @Summary Get engine statistics
// @Description Reports content store counts, collaborative model shape, and response cache counters
// @Tags Recommendations
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /recommendations/stats [get]
func (h *Handler) RecommendationStats(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	stats, err := h.engine.Stats(r.Context())
	if err != nil {
		respondEngineError(w, err)
		return
	}

	requests, hits, misses := h.engine.CacheStats()

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"engine": stats,
		"cache": map[string]int64{
			"requests": requests,
			"hits":     hits,
			"misses":   misses,
		},
	}, started, false)
}
