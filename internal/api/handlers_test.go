// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/vocatio/internal/config"
	"github.com/tomtom215/vocatio/internal/database"
	"github.com/tomtom215/vocatio/internal/embedding"
	"github.com/tomtom215/vocatio/internal/messaging"
	"github.com/tomtom215/vocatio/internal/models"
	"github.com/tomtom215/vocatio/internal/recommend"
	"github.com/tomtom215/vocatio/internal/search"
)

// fakeEngine records the request it received and returns canned values.
type fakeEngine struct {
	mu sync.Mutex

	calls       int
	lastRequest recommend.Request
	invalidated []int64

	recommendResp *recommend.Response
	recommendErr  error
	analysis      *recommend.Analysis
	similar       []recommend.SimilarItem
	similarErr    error
	stats         *recommend.Stats
	rebuild       *recommend.RebuildInfo
	rebuildErr    error
}

func (f *fakeEngine) Recommend(_ context.Context, req recommend.Request) (*recommend.Response, error) {
	f.mu.Lock()
	f.calls++
	f.lastRequest = req
	f.mu.Unlock()
	return f.recommendResp, f.recommendErr
}

func (f *fakeEngine) Analyze(_ context.Context, req recommend.Request) (*recommend.Analysis, error) {
	f.mu.Lock()
	f.calls++
	f.lastRequest = req
	f.mu.Unlock()
	if f.analysis == nil {
		return nil, f.recommendErr
	}
	return f.analysis, nil
}

func (f *fakeEngine) Similar(context.Context, int64, int) ([]recommend.SimilarItem, error) {
	return f.similar, f.similarErr
}

func (f *fakeEngine) Stats(context.Context) (*recommend.Stats, error) {
	if f.stats == nil {
		return &recommend.Stats{}, nil
	}
	return f.stats, nil
}

func (f *fakeEngine) Rebuild(context.Context) (*recommend.RebuildInfo, error) {
	return f.rebuild, f.rebuildErr
}

func (f *fakeEngine) InvalidateCache(_ context.Context, resumeID int64) {
	f.mu.Lock()
	f.invalidated = append(f.invalidated, resumeID)
	f.mu.Unlock()
}

func (f *fakeEngine) CacheStats() (int64, int64, int64) { return 10, 7, 3 }

func (f *fakeEngine) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeEngine) last() recommend.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastRequest
}

func (f *fakeEngine) invalidations() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.invalidated...)
}

// fakePublisher captures published interaction events.
type fakePublisher struct {
	mu     sync.Mutex
	events []*messaging.InteractionEvent
	err    error
}

func (f *fakePublisher) PublishInteraction(ev *messaging.InteractionEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

func (f *fakePublisher) published() []*messaging.InteractionEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*messaging.InteractionEvent(nil), f.events...)
}

type testFixture struct {
	handler   *Handler
	engine    *fakeEngine
	publisher *fakePublisher
	db        *database.DB
}

func newTestFixture(t *testing.T) *testFixture {
	t.Helper()

	db, err := database.New(&config.DatabaseConfig{})
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store, err := embedding.NewStore(&config.EmbeddingConfig{Dimensions: 8, HotCacheSize: 16})
	if err != nil {
		t.Fatalf("embedding.NewStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	idx, err := search.NewIndex(&config.SearchConfig{MaxResults: 10})
	if err != nil {
		t.Fatalf("search.NewIndex: %v", err)
	}
	t.Cleanup(func() { _ = idx.Close() })

	engine := &fakeEngine{}
	publisher := &fakePublisher{}

	handler := NewHandler(HandlerDeps{
		DB:         db,
		Engine:     engine,
		Embeddings: store,
		Search:     idx,
		Publisher:  publisher,
		Config:     &config.Config{},
	})

	return &testFixture{handler: handler, engine: engine, publisher: publisher, db: db}
}

// serve routes the request through the full chi router so URL parameters and
// middleware behave as in production.
func (f *testFixture) serve(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	router := NewRouter(f.handler, NewChiMiddleware(&ChiMiddlewareConfig{RateLimitDisabled: true}), nil, nil)
	rec := httptest.NewRecorder()
	router.Setup().ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) *models.APIResponse {
	t.Helper()
	var envelope models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	return &envelope
}

func TestRecommendations_QueryParamsReachEngine(t *testing.T) {
	t.Parallel()
	f := newTestFixture(t)

	f.engine.recommendResp = &recommend.Response{
		ResumeID:    42,
		Strategy:    "weighted",
		TotalCount:  1,
		Items:       []recommend.Item{{JobID: 7, HybridScore: 0.9, Title: "Backend Engineer", Company: "Acme"}},
		GeneratedAt: time.Now(),
	}

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/recommendations/jobs/42?top_n=5&strategy=weighted&content_weight=0.7&enable_diversity=true&mmr_lambda=0.6", nil)
	rec := f.serve(t, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	got := f.engine.last()
	if got.ResumeID != 42 || got.TopN != 5 || got.Strategy != "weighted" {
		t.Errorf("engine request = %+v", got)
	}
	if got.ContentWeight == nil || *got.ContentWeight != 0.7 {
		t.Errorf("ContentWeight = %v, want 0.7", got.ContentWeight)
	}
	if got.CFWeight != nil {
		t.Errorf("CFWeight = %v, want nil for absent parameter", got.CFWeight)
	}
	if !got.EnableDiversity {
		t.Error("EnableDiversity not set")
	}
	if got.MMRLambda == nil || *got.MMRLambda != 0.6 {
		t.Errorf("MMRLambda = %v, want 0.6", got.MMRLambda)
	}

	envelope := decodeEnvelope(t, rec)
	if envelope.Status != "success" {
		t.Errorf("envelope status = %q", envelope.Status)
	}
	if rec.Header().Get("ETag") == "" {
		t.Error("ETag header missing")
	}
}

func TestRecommendations_EngineErrorsMapped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "validation error",
			err:        &recommend.ValidationError{Field: "top_n", Message: "top_n must be between 1 and 50"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "not found",
			err:        &recommend.NotFoundError{Kind: "resume", ID: 42},
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "rebuild in progress",
			err:        recommend.ErrRebuildInProgress,
			wantStatus: http.StatusConflict,
			wantCode:   "REBUILD_IN_PROGRESS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newTestFixture(t)
			f.engine.recommendErr = tt.err

			req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/jobs/42", nil)
			rec := f.serve(t, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			envelope := decodeEnvelope(t, rec)
			if envelope.Error == nil || envelope.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", envelope.Error, tt.wantCode)
			}
		})
	}
}

func TestRecommendations_InvalidResumeID(t *testing.T) {
	t.Parallel()
	f := newTestFixture(t)

	for _, path := range []string{
		"/api/v1/recommendations/jobs/abc",
		"/api/v1/recommendations/jobs/-1",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := f.serve(t, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rec.Code)
		}
	}
}

func TestRecommendations_MalformedQueryParamRejected(t *testing.T) {
	t.Parallel()
	f := newTestFixture(t)

	tests := []struct {
		name  string
		query string
	}{
		{"non-numeric weight", "?content_weight=abc"},
		{"non-numeric top_n", "?top_n=notanumber"},
		{"non-boolean diversity flag", "?enable_diversity=maybe"},
		{"bad param alongside good ones", "?top_n=5&mmr_lambda=high"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/jobs/1"+tt.query, nil)
			rec := f.serve(t, req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			env := decodeEnvelope(t, rec)
			if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
				t.Fatalf("error = %+v, want VALIDATION_ERROR", env.Error)
			}
			// Malformed input must never reach the engine.
			if got := f.engine.callCount(); got != 0 {
				t.Errorf("engine calls = %d, want 0", got)
			}
		})
	}
}

func TestListJobs_MalformedPaginationRejected(t *testing.T) {
	t.Parallel()
	f := newTestFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs?limit=ten", nil)
	rec := f.serve(t, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("error = %+v, want VALIDATION_ERROR", env.Error)
	}
}

// seedJob inserts a job row directly so interaction tests have a target.
func (f *testFixture) seedJob(t *testing.T, id int64, title string) {
	t.Helper()
	_, _, err := f.db.UpsertJob(context.Background(), &models.JobUpsertRequest{
		ID:      id,
		Title:   title,
		Company: "Acme",
	})
	if err != nil {
		t.Fatalf("seed job %d: %v", id, err)
	}
}

func TestRecordInteraction_PersistsAndPublishes(t *testing.T) {
	t.Parallel()
	f := newTestFixture(t)
	f.seedJob(t, 11, "Backend Engineer")

	body, _ := json.Marshal(models.InteractionRequest{ResumeID: 3, JobID: 11, Type: "apply"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/interactions", bytes.NewReader(body))
	rec := f.serve(t, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}

	events := f.publisher.published()
	if len(events) != 1 {
		t.Fatalf("published %d events, want 1", len(events))
	}
	if events[0].ResumeID != 3 || events[0].JobID != 11 || events[0].Type != "apply" {
		t.Errorf("event = %+v", events[0])
	}

	// The pipeline consumer owns invalidation on the happy path.
	if got := f.engine.invalidations(); len(got) != 0 {
		t.Errorf("inline invalidations = %v, want none", got)
	}

	count, err := f.db.CountInteractions(context.Background())
	if err != nil {
		t.Fatalf("CountInteractions: %v", err)
	}
	if count != 1 {
		t.Errorf("stored interactions = %d, want 1", count)
	}
}

func TestRecordInteraction_PublishFailureInvalidatesInline(t *testing.T) {
	t.Parallel()
	f := newTestFixture(t)
	f.publisher.err = context.DeadlineExceeded
	f.seedJob(t, 2, "SRE")

	body, _ := json.Marshal(models.InteractionRequest{ResumeID: 8, JobID: 2, Type: "view"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/interactions", bytes.NewReader(body))
	rec := f.serve(t, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 despite publish failure", rec.Code)
	}
	if got := f.engine.invalidations(); len(got) != 1 || got[0] != 8 {
		t.Errorf("invalidations = %v, want [8]", got)
	}
}

func TestRecordInteraction_RejectsInvalidType(t *testing.T) {
	t.Parallel()
	f := newTestFixture(t)

	body, _ := json.Marshal(models.InteractionRequest{ResumeID: 3, JobID: 11, Type: "hover"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/interactions", bytes.NewReader(body))
	rec := f.serve(t, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.Error == nil || envelope.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("error = %+v", envelope.Error)
	}
}

func TestRecordInteraction_UnknownJob(t *testing.T) {
	t.Parallel()
	f := newTestFixture(t)

	body, _ := json.Marshal(models.InteractionRequest{ResumeID: 3, JobID: 404, Type: "view"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/interactions", bytes.NewReader(body))
	rec := f.serve(t, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestUpsertJob_CreateThenUpdate(t *testing.T) {
	t.Parallel()
	f := newTestFixture(t)

	job := models.JobUpsertRequest{
		ID:          101,
		Title:       "Platform Engineer",
		Company:     "Acme",
		Description: "Go services and infrastructure",
		Embedding:   []float32{1, 0, 0, 0, 0, 0, 0, 0},
	}
	body, _ := json.Marshal(job)

	rec := f.serve(t, httptest.NewRequest(http.MethodPost, "/api/v1/jobs", bytes.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("first upsert status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}

	body, _ = json.Marshal(job)
	rec = f.serve(t, httptest.NewRequest(http.MethodPost, "/api/v1/jobs", bytes.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("second upsert status = %d, want 200", rec.Code)
	}

	// The stored embedding is retrievable.
	vec, err := f.handler.embeddings.JobEmbedding(context.Background(), 101)
	if err != nil {
		t.Fatalf("JobEmbedding: %v", err)
	}
	if len(vec) != 8 || vec[0] != 1 {
		t.Errorf("stored embedding = %v", vec)
	}

	// The posting is searchable.
	recSearch := f.serve(t, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/search?q=platform", nil))
	if recSearch.Code != http.StatusOK {
		t.Fatalf("search status = %d", recSearch.Code)
	}
	envelope := decodeEnvelope(t, recSearch)
	data, _ := json.Marshal(envelope.Data)
	var resp models.JobSearchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("decode search response: %v", err)
	}
	if resp.TotalCount != 1 || resp.Results[0].JobID != 101 {
		t.Errorf("search response = %+v", resp)
	}
}

func TestUpsertJob_RejectsMissingTitle(t *testing.T) {
	t.Parallel()
	f := newTestFixture(t)

	body, _ := json.Marshal(models.JobUpsertRequest{ID: 1, Company: "Acme"})
	rec := f.serve(t, httptest.NewRequest(http.MethodPost, "/api/v1/jobs", bytes.NewReader(body)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetJob_NotFound(t *testing.T) {
	t.Parallel()
	f := newTestFixture(t)

	rec := f.serve(t, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/9999", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.Error == nil || envelope.Error.Code != "NOT_FOUND" {
		t.Errorf("error = %+v", envelope.Error)
	}
}

func TestUpsertResumeEmbedding_InvalidatesCache(t *testing.T) {
	t.Parallel()
	f := newTestFixture(t)

	body, _ := json.Marshal(models.ResumeEmbeddingRequest{Embedding: []float32{0, 1, 0, 0, 0, 0, 0, 0}})
	rec := f.serve(t, httptest.NewRequest(http.MethodPost, "/api/v1/resumes/5/embedding", bytes.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	vec, err := f.handler.embeddings.ResumeEmbedding(context.Background(), 5)
	if err != nil {
		t.Fatalf("ResumeEmbedding: %v", err)
	}
	if len(vec) != 8 {
		t.Errorf("stored vector length = %d", len(vec))
	}
	if got := f.engine.invalidations(); len(got) != 1 || got[0] != 5 {
		t.Errorf("invalidations = %v, want [5]", got)
	}
}

func TestUpsertResumeEmbedding_RejectsShortVector(t *testing.T) {
	t.Parallel()
	f := newTestFixture(t)

	body, _ := json.Marshal(models.ResumeEmbeddingRequest{Embedding: []float32{1, 2}})
	rec := f.serve(t, httptest.NewRequest(http.MethodPost, "/api/v1/resumes/5/embedding", bytes.NewReader(body)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRebuildModel_Success(t *testing.T) {
	t.Parallel()
	f := newTestFixture(t)
	f.engine.rebuild = &recommend.RebuildInfo{
		ModelVersion: 2,
		Users:        10,
		Items:        40,
		Interactions: 500,
		Duration:     120 * time.Millisecond,
		RebuiltAt:    time.Now(),
	}

	rec := f.serve(t, httptest.NewRequest(http.MethodPost, "/api/v1/admin/model/rebuild", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	envelope := decodeEnvelope(t, rec)
	data, _ := json.Marshal(envelope.Data)
	var resp models.RebuildResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("decode rebuild response: %v", err)
	}
	if resp.ModelVersion != 2 || resp.Users != 10 || resp.Items != 40 || resp.DurationMS != 120 {
		t.Errorf("rebuild response = %+v", resp)
	}
}

func TestRebuildModel_ConflictWhenRunning(t *testing.T) {
	t.Parallel()
	f := newTestFixture(t)
	f.engine.rebuildErr = recommend.ErrRebuildInProgress

	rec := f.serve(t, httptest.NewRequest(http.MethodPost, "/api/v1/admin/model/rebuild", nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestHealth_ReportsComponents(t *testing.T) {
	t.Parallel()
	f := newTestFixture(t)

	rec := f.serve(t, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	data, ok := envelope.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("health data = %T", envelope.Data)
	}
	if data["database"] != "ok" {
		t.Errorf("database = %v", data["database"])
	}
	if data["search_enabled"] != true {
		t.Errorf("search_enabled = %v", data["search_enabled"])
	}
}

func TestSearchJobs_RequiresQuery(t *testing.T) {
	t.Parallel()
	f := newTestFixture(t)

	rec := f.serve(t, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/search", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRecommendationStats_IncludesCacheCounters(t *testing.T) {
	t.Parallel()
	f := newTestFixture(t)

	rec := f.serve(t, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	data, ok := envelope.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("stats data = %T", envelope.Data)
	}
	cache, ok := data["cache"].(map[string]interface{})
	if !ok {
		t.Fatalf("cache block = %T", data["cache"])
	}
	if cache["hits"] != float64(7) {
		t.Errorf("cache hits = %v, want 7", cache["hits"])
	}
}
