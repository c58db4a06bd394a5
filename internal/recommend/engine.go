// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/vocatio/internal/recommend/cf"
	"github.com/tomtom215/vocatio/internal/recommend/filter"
	"github.com/tomtom215/vocatio/internal/recommend/merge"
	"github.com/tomtom215/vocatio/internal/recommend/rerank"
	"github.com/tomtom215/vocatio/internal/recommend/scoring"
	"github.com/tomtom215/vocatio/internal/recommend/storage"
)

// Engine coordinates the content-based and collaborative recommenders and
// produces merged, optionally reranked recommendation lists. It is safe for
// concurrent use: the CF model is swapped atomically, so readers never block
// on a rebuild.
type Engine struct {
	config *Config
	logger zerolog.Logger

	embeddings   EmbeddingStore
	interactions InteractionLog
	catalog      JobCatalog
	cache        ResponseCache

	filter *filter.Filter
	store  *storage.Store

	// model is the current CF snapshot. Nil until the first successful
	// rebuild or warm start; the engine degrades to content-only until
	// then.
	model        atomic.Pointer[cf.Model]
	modelVersion atomic.Int64
	lastRebuilt  atomic.Pointer[time.Time]

	// rebuildMu serializes rebuilds. TryLock only: a rebuild that finds
	// the lock held reports busy instead of queueing.
	rebuildMu sync.Mutex

	requestCount atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64

	// now is injectable for tests.
	now func() time.Time
}

// Deps are the engine's data collaborators. Embeddings, Interactions, and
// Catalog are required; Cache is optional (nil disables response caching).
type Deps struct {
	Embeddings   EmbeddingStore
	Interactions InteractionLog
	Catalog      JobCatalog
	Cache        ResponseCache
}

// NewEngine creates a recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, deps Deps, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if deps.Embeddings == nil || deps.Interactions == nil || deps.Catalog == nil {
		return nil, errors.New("embeddings, interactions, and catalog dependencies are required")
	}

	e := &Engine{
		config:       cfg,
		logger:       logger.With().Str("component", "recommend").Logger(),
		embeddings:   deps.Embeddings,
		interactions: deps.Interactions,
		catalog:      deps.Catalog,
		now:          time.Now,
	}
	if cfg.Cache.Enabled && deps.Cache != nil {
		e.cache = deps.Cache
	}

	if cfg.FilterExpression != "" {
		f, err := filter.Compile(cfg.FilterExpression)
		if err != nil {
			return nil, fmt.Errorf("compile filter expression: %w", err)
		}
		e.filter = f
		e.logger.Info().Str("expression", cfg.FilterExpression).Msg("candidate filter enabled")
	}

	if cfg.SnapshotDir != "" {
		st, err := storage.NewStore(cfg.SnapshotDir)
		if err != nil {
			return nil, fmt.Errorf("open snapshot store: %w", err)
		}
		e.store = st
	}

	return e, nil
}

// WarmStart loads the persisted CF model snapshot, if one exists. Missing
// snapshots are not an error; the engine simply starts content-only.
func (e *Engine) WarmStart(ctx context.Context) error {
	if e.store == nil {
		return nil
	}

	model, meta, err := e.store.Load()
	if err != nil {
		if errors.Is(err, storage.ErrNoSnapshot) {
			e.logger.Info().Msg("no model snapshot found, starting cold")
			return nil
		}
		return fmt.Errorf("load model snapshot: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e.model.Store(model)
	e.modelVersion.Store(meta.ModelVersion)
	builtAt := meta.BuiltAt
	e.lastRebuilt.Store(&builtAt)

	e.logger.Info().
		Int64("model_version", meta.ModelVersion).
		Int("users", meta.Users).
		Int("items", meta.Items).
		Time("built_at", meta.BuiltAt).
		Msg("warm-started from model snapshot")
	return nil
}

// Recommend generates recommendations for a resume.
//
// The pipeline: resolve request parameters, check the response cache, fetch
// embeddings (and view history when reranking), score both sources into
// candidate pools, merge per strategy, filter, optionally rerank, and join
// catalog metadata.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	e.requestCount.Add(1)

	p, err := e.resolve(req)
	if err != nil {
		return nil, err
	}

	logger := e.logger.With().
		Int64("resume_id", req.ResumeID).
		Str("strategy", p.strategy).
		Int("top_n", p.topN).
		Logger()

	key := p.cacheKey()
	if resp, ok := e.cachedResponse(ctx, req.ResumeID, key); ok {
		e.cacheHits.Add(1)
		logger.Debug().Msg("response served from cache")
		return resp, nil
	}
	e.cacheMisses.Add(1)

	resp, _, err := e.generate(ctx, req.ResumeID, p, logger)
	if err != nil {
		return nil, err
	}

	e.storeResponse(ctx, req.ResumeID, key, resp)
	return resp, nil
}

// Analyze generates a diversity-reranked recommendation list together with
// its pairwise-similarity report. Analysis responses bypass the cache.
func (e *Engine) Analyze(ctx context.Context, req Request) (*Analysis, error) {
	req.EnableDiversity = true

	p, err := e.resolve(req)
	if err != nil {
		return nil, err
	}

	logger := e.logger.With().
		Int64("resume_id", req.ResumeID).
		Str("strategy", p.strategy).
		Logger()

	resp, embeddings, err := e.generate(ctx, req.ResumeID, p, logger)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(resp.Items))
	for i, it := range resp.Items {
		ids[i] = it.JobID
	}
	report := rerank.AnalyzeDiversity(ids, embeddings)

	return &Analysis{
		Response: *resp,
		Report: DiversityReport{
			AvgSimilarity:  report.AvgSimilarity,
			MinSimilarity:  report.MinSimilarity,
			MaxSimilarity:  report.MaxSimilarity,
			DiversityScore: report.DiversityScore,
		},
	}, nil
}

// Similar returns jobs related to a reference job. The collaborative
// similarity matrix answers when the model knows the job; otherwise the
// engine falls back to embedding cosine over the catalog.
func (e *Engine) Similar(ctx context.Context, jobID int64, n int) ([]SimilarItem, error) {
	if n <= 0 {
		n = e.config.Defaults.TopN
	}
	if n > e.config.Limits.MaxTopN {
		n = e.config.Limits.MaxTopN
	}

	basis := BasisCollaborative
	var scored []cf.ScoredItem
	if m := e.model.Load(); m != nil && m.Knows(jobID) {
		scored = m.Similar(jobID, n)
	}

	if scored == nil {
		basis = BasisContent
		query, err := e.embeddings.JobEmbedding(ctx, jobID)
		if err != nil {
			if IsNotFound(err) {
				return nil, &NotFoundError{Kind: "job", ID: jobID}
			}
			return nil, fmt.Errorf("load job embedding: %w", err)
		}

		all, err := e.embeddings.JobEmbeddings(ctx)
		if err != nil {
			return nil, fmt.Errorf("load job embeddings: %w", err)
		}
		delete(all, jobID)

		for _, s := range scoring.TopN(query, all, n) {
			if s.Score <= 0 {
				continue
			}
			scored = append(scored, cf.ScoredItem{JobID: s.JobID, Score: s.Score})
		}
	}

	if len(scored) == 0 {
		return []SimilarItem{}, nil
	}

	ids := make([]int64, len(scored))
	for i, s := range scored {
		ids[i] = s.JobID
	}
	meta, err := e.catalog.Metadata(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load job metadata: %w", err)
	}

	items := make([]SimilarItem, len(scored))
	for i, s := range scored {
		m := meta[s.JobID]
		items[i] = SimilarItem{
			JobID:      s.JobID,
			Title:      m.Title,
			Company:    m.Company,
			Similarity: s.Score,
			Basis:      basis,
		}
	}
	return items, nil
}

// Stats reports the engine and model state.
func (e *Engine) Stats(ctx context.Context) (*Stats, error) {
	resumes, jobs, err := e.embeddings.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count embeddings: %w", err)
	}

	s := &Stats{
		ResumesWithEmbeddings: resumes,
		JobsWithEmbeddings:    jobs,
		ModelVersion:          e.modelVersion.Load(),
		LastRebuiltAt:         e.lastRebuilt.Load(),
		Strategies:            Strategies(),
		DefaultStrategy:       e.config.Defaults.Strategy,
		DefaultContentWeight:  e.config.Defaults.ContentWeight,
		DefaultCFWeight:       e.config.Defaults.CFWeight,
	}
	if m := e.model.Load(); m != nil {
		s.Model = m.Stats()
		s.ModelAvailable = !m.Empty()
	}
	return s, nil
}

// Rebuild reconstructs the CF model from the full interaction log and swaps
// it in atomically. Only one rebuild runs at a time; a rebuild that finds
// another in flight returns ErrRebuildInProgress immediately.
func (e *Engine) Rebuild(ctx context.Context) (*RebuildInfo, error) {
	if !e.rebuildMu.TryLock() {
		return nil, ErrRebuildInProgress
	}
	defer e.rebuildMu.Unlock()

	start := e.now()
	e.logger.Info().Msg("model rebuild started")

	interactions, err := e.interactions.AllInteractions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load interactions: %w", err)
	}

	model := cf.Build(interactions)
	version := e.modelVersion.Add(1)
	e.model.Store(model)
	rebuiltAt := e.now()
	e.lastRebuilt.Store(&rebuiltAt)

	stats := model.Stats()
	info := &RebuildInfo{
		ModelVersion: version,
		Users:        stats.Users,
		Items:        stats.Items,
		Interactions: stats.Interactions,
		Duration:     rebuiltAt.Sub(start),
		RebuiltAt:    rebuiltAt,
	}

	if e.store != nil {
		if _, err := e.store.Save(model, version); err != nil {
			// Persistence failure does not invalidate the in-memory swap.
			e.logger.Error().Err(err).Msg("failed to persist model snapshot")
		}
	}

	e.logger.Info().
		Int64("model_version", version).
		Int("users", stats.Users).
		Int("items", stats.Items).
		Int("interactions", stats.Interactions).
		Dur("duration", info.Duration).
		Msg("model rebuild complete")
	return info, nil
}

// InvalidateCache drops every cached response for a resume. Called after an
// interaction write so the next request reflects it.
func (e *Engine) InvalidateCache(ctx context.Context, resumeID int64) {
	if e.cache != nil {
		e.cache.Invalidate(ctx, resumeID)
	}
}

// CacheStats returns request and cache hit/miss counters.
func (e *Engine) CacheStats() (requests, hits, misses int64) {
	return e.requestCount.Load(), e.cacheHits.Load(), e.cacheMisses.Load()
}

// params holds a request with all defaults resolved and validated.
type params struct {
	topN            int
	strategy        string
	contentWeight   float64
	cfWeight        float64
	enableDiversity bool
	diversityWeight float64
	noveltyWeight   float64
	mmrLambda       float64
}

func (p params) cacheKey() string {
	return fmt.Sprintf("n=%d:s=%s:cw=%g:fw=%g:d=%t:dw=%g:nw=%g:l=%g",
		p.topN, p.strategy, p.contentWeight, p.cfWeight,
		p.enableDiversity, p.diversityWeight, p.noveltyWeight, p.mmrLambda)
}

// resolve applies configured defaults to a request and validates the result.
func (e *Engine) resolve(req Request) (params, error) {
	d := e.config.Defaults
	p := params{
		topN:            req.TopN,
		strategy:        req.Strategy,
		contentWeight:   orDefault(req.ContentWeight, d.ContentWeight),
		cfWeight:        orDefault(req.CFWeight, d.CFWeight),
		enableDiversity: req.EnableDiversity,
		diversityWeight: orDefault(req.DiversityWeight, d.DiversityWeight),
		noveltyWeight:   orDefault(req.NoveltyWeight, d.NoveltyWeight),
		mmrLambda:       orDefault(req.MMRLambda, d.MMRLambda),
	}
	if p.topN == 0 {
		p.topN = d.TopN
	}
	if p.strategy == "" {
		p.strategy = d.Strategy
	}

	if p.topN < 1 || p.topN > e.config.Limits.MaxTopN {
		return params{}, &ValidationError{
			Field:   "top_n",
			Message: fmt.Sprintf("must be between 1 and %d", e.config.Limits.MaxTopN),
		}
	}
	if !validStrategy(p.strategy) {
		return params{}, &ValidationError{
			Field:   "strategy",
			Message: "must be one of weighted, cascade, mixed",
		}
	}
	for _, w := range []struct {
		name  string
		value float64
	}{
		{"content_weight", p.contentWeight},
		{"cf_weight", p.cfWeight},
		{"diversity_weight", p.diversityWeight},
		{"novelty_weight", p.noveltyWeight},
		{"mmr_lambda", p.mmrLambda},
	} {
		if w.value < 0 || w.value > 1 {
			return params{}, &ValidationError{Field: w.name, Message: "must be between 0 and 1"}
		}
	}
	if p.contentWeight+p.cfWeight <= 0 {
		return params{}, &ValidationError{
			Field:   "content_weight",
			Message: "content_weight and cf_weight must not both be zero",
		}
	}
	if p.diversityWeight+p.noveltyWeight > 1 {
		return params{}, &ValidationError{
			Field:   "diversity_weight",
			Message: "diversity_weight + novelty_weight must not exceed 1",
		}
	}
	return p, nil
}

// generate runs the recommendation pipeline. It returns the response and the
// job embedding map so Analyze can reuse it for the diversity report.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog
func (e *Engine) generate(ctx context.Context, resumeID int64, p params, logger zerolog.Logger) (*Response, map[int64][]float32, error) {
	var (
		query       []float32
		jobVecs     map[int64][]float32
		viewHistory map[int64]time.Time
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vec, err := e.embeddings.ResumeEmbedding(gctx, resumeID)
		if err != nil {
			if IsNotFound(err) {
				return &NotFoundError{Kind: "resume", ID: resumeID}
			}
			return fmt.Errorf("load resume embedding: %w", err)
		}
		query = vec
		return nil
	})
	g.Go(func() error {
		vecs, err := e.embeddings.JobEmbeddings(gctx)
		if err != nil {
			return fmt.Errorf("load job embeddings: %w", err)
		}
		jobVecs = vecs
		return nil
	})
	if p.enableDiversity {
		g.Go(func() error {
			h, err := e.interactions.ViewHistory(gctx, resumeID)
			if err != nil {
				return fmt.Errorf("load view history: %w", err)
			}
			viewHistory = h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	pool := p.topN * e.config.Limits.PoolMultiplier

	content := make([]merge.Input, 0, pool)
	for _, s := range scoring.TopN(query, jobVecs, pool) {
		content = append(content, merge.Input{JobID: s.JobID, Score: s.Score})
	}

	var collaborative []merge.Input
	if m := e.model.Load(); m != nil && !m.Empty() {
		cfTop := m.TopN(resumeID, pool)
		collaborative = make([]merge.Input, 0, len(cfTop))
		for _, s := range cfTop {
			collaborative = append(collaborative, merge.Input{JobID: s.JobID, Score: s.Score})
		}
	}

	logger.Debug().
		Int("content_pool", len(content)).
		Int("cf_pool", len(collaborative)).
		Msg("candidate pools fetched")

	// When reranking, merge a full pool so MMR has candidates to choose
	// from; the reranker cuts back to top_n.
	mergeN := p.topN
	if p.enableDiversity {
		mergeN = pool
	}

	var candidates []merge.Candidate
	switch p.strategy {
	case StrategyCascade:
		candidates = merge.Cascade(content, collaborative, mergeN)
	case StrategyMixed:
		candidates = merge.Mixed(content, collaborative, mergeN)
	default:
		candidates = merge.Weighted(content, collaborative, p.contentWeight, p.cfWeight, mergeN)
	}

	if e.filter != nil {
		filtered, err := e.filter.Apply(candidates)
		if err != nil {
			logger.Warn().Err(err).Msg("filter evaluation errors, affected candidates dropped")
		}
		candidates = filtered
	}

	resp := &Response{
		ResumeID:      resumeID,
		Strategy:      p.strategy,
		ContentWeight: p.contentWeight,
		CFWeight:      p.cfWeight,
		GeneratedAt:   e.now().UTC(),
	}

	if len(candidates) == 0 {
		resp.Items = []Item{}
		return resp, jobVecs, nil
	}

	if p.enableDiversity {
		items, err := e.rerankItems(ctx, candidates, jobVecs, viewHistory, p)
		if err != nil {
			return nil, nil, err
		}
		resp.Items = items
	} else {
		if len(candidates) > p.topN {
			candidates = candidates[:p.topN]
		}
		items, err := e.plainItems(ctx, candidates, p.strategy)
		if err != nil {
			return nil, nil, err
		}
		resp.Items = items
	}

	resp.TotalCount = len(resp.Items)
	return resp, jobVecs, nil
}

// plainItems joins catalog metadata onto merged candidates without
// reranking.
func (e *Engine) plainItems(ctx context.Context, candidates []merge.Candidate, strategy string) ([]Item, error) {
	ids := make([]int64, len(candidates))
	for i, c := range candidates {
		ids[i] = c.JobID
	}
	meta, err := e.catalog.Metadata(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load job metadata: %w", err)
	}

	items := make([]Item, len(candidates))
	for i, c := range candidates {
		m := meta[c.JobID]
		items[i] = Item{
			JobID:       c.JobID,
			Title:       m.Title,
			Company:     m.Company,
			HybridScore: c.Relevance,
			Similarity:  c.Similarity,
			CFScore:     c.CFScore,
			Strategy:    strategy,
			Source:      c.Source,
		}
	}
	return items, nil
}

// rerankItems applies MMR + novelty reranking and joins catalog metadata.
func (e *Engine) rerankItems(
	ctx context.Context,
	candidates []merge.Candidate,
	jobVecs map[int64][]float32,
	viewHistory map[int64]time.Time,
	p params,
) ([]Item, error) {
	ids := make([]int64, len(candidates))
	for i, c := range candidates {
		ids[i] = c.JobID
	}
	meta, err := e.catalog.Metadata(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load job metadata: %w", err)
	}

	postedAt := make(map[int64]*time.Time, len(meta))
	for id, m := range meta {
		postedAt[id] = m.PostedAt
	}

	scored := rerank.Rerank(candidates, jobVecs, viewHistory, postedAt, e.now(), rerank.Params{
		DiversityWeight: p.diversityWeight,
		NoveltyWeight:   p.noveltyWeight,
		MMRLambda:       p.mmrLambda,
		TopN:            p.topN,
	})

	items := make([]Item, len(scored))
	for i := range scored {
		s := scored[i]
		m := meta[s.JobID]
		items[i] = Item{
			JobID:          s.JobID,
			Title:          m.Title,
			Company:        m.Company,
			HybridScore:    s.Relevance,
			Similarity:     s.Similarity,
			CFScore:        s.CFScore,
			Strategy:       p.strategy,
			Source:         s.Source,
			FinalScore:     &s.FinalScore,
			DiversityScore: &s.DiversityScore,
			NoveltyScore:   &s.NoveltyScore,
			UserNovelty:    &s.UserNovelty,
			RecencyFactor:  &s.RecencyFactor,
		}
	}
	return items, nil
}

func (e *Engine) cachedResponse(ctx context.Context, resumeID int64, key string) (*Response, bool) {
	if e.cache == nil {
		return nil, false
	}
	payload, ok := e.cache.Get(ctx, resumeID, key)
	if !ok {
		return nil, false
	}
	var resp Response
	if err := json.Unmarshal(payload, &resp); err != nil {
		e.logger.Warn().Err(err).Msg("dropping undecodable cached response")
		return nil, false
	}
	return &resp, true
}

func (e *Engine) storeResponse(ctx context.Context, resumeID int64, key string, resp *Response) {
	if e.cache == nil {
		return
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		e.logger.Warn().Err(err).Msg("failed to encode response for cache")
		return
	}
	e.cache.Set(ctx, resumeID, key, payload)
}

func orDefault(v *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	return def
}
