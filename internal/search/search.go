// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

// Package search provides full-text search over the job catalog using a
// Bleve index. The index is rebuilt incrementally: jobs are indexed on
// upsert and removed on delete, so it stays consistent with the catalog
// without periodic reindex passes.
package search

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/rs/zerolog"

	"github.com/tomtom215/vocatio/internal/config"
	"github.com/tomtom215/vocatio/internal/logging"
	"github.com/tomtom215/vocatio/internal/models"
)

// jobDocument is the shape indexed in Bleve. Description carries the most
// weight for matching; title and company are also searchable and stored for
// result rendering.
type jobDocument struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description"`
}

// Index wraps a Bleve index over job postings.
type Index struct {
	mu         sync.RWMutex
	index      bleve.Index
	maxResults int
	closed     bool
	logger     zerolog.Logger
}

// NewIndex opens the index at cfg.Path, creating it when absent. An empty
// path builds a memory-only index, which is useful in tests and when search
// persistence is not needed.
func NewIndex(cfg *config.SearchConfig) (*Index, error) {
	if cfg == nil {
		return nil, fmt.Errorf("search config is required")
	}

	idx, err := openOrCreate(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open search index: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}

	return &Index{
		index:      idx,
		maxResults: maxResults,
		logger:     logging.WithComponent("search"),
	}, nil
}

func openOrCreate(path string) (bleve.Index, error) {
	if path == "" {
		return bleve.NewMemOnly(buildIndexMapping())
	}

	idx, err := bleve.Open(path)
	if err == nil {
		return idx, nil
	}

	return bleve.New(path, buildIndexMapping())
}

func buildIndexMapping() mapping.IndexMapping {
	textField := bleve.NewTextFieldMapping()
	textField.Store = true

	jobMapping := bleve.NewDocumentMapping()
	jobMapping.AddFieldMappingsAt("title", textField)
	jobMapping.AddFieldMappingsAt("company", textField)
	jobMapping.AddFieldMappingsAt("description", textField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = jobMapping
	return indexMapping
}

// IndexJob adds or replaces a job posting in the index.
func (i *Index) IndexJob(job *models.Job) error {
	if job == nil {
		return fmt.Errorf("job is required")
	}

	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.closed {
		return fmt.Errorf("search index is closed")
	}

	doc := jobDocument{
		Title:       job.Title,
		Company:     job.Company,
		Description: job.Description,
	}
	if err := i.index.Index(docID(job.ID), doc); err != nil {
		return fmt.Errorf("failed to index job %d: %w", job.ID, err)
	}
	return nil
}

// IndexJobs indexes a batch of jobs in a single Bleve batch. Used when
// backfilling the index from the catalog on startup.
func (i *Index) IndexJobs(jobs []models.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.closed {
		return fmt.Errorf("search index is closed")
	}

	batch := i.index.NewBatch()
	for idx := range jobs {
		job := &jobs[idx]
		doc := jobDocument{
			Title:       job.Title,
			Company:     job.Company,
			Description: job.Description,
		}
		if err := batch.Index(docID(job.ID), doc); err != nil {
			return fmt.Errorf("failed to batch job %d: %w", job.ID, err)
		}
	}
	return i.index.Batch(batch)
}

// DeleteJob removes a job from the index. Deleting an unknown job is a no-op.
func (i *Index) DeleteJob(jobID int64) error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.closed {
		return fmt.Errorf("search index is closed")
	}
	return i.index.Delete(docID(jobID))
}

// Search runs a full-text match query over title, company, and description.
// Limit is clamped to the configured maximum; a non-positive limit uses 10.
func (i *Index) Search(ctx context.Context, queryStr string, limit int) (*models.JobSearchResponse, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if limit <= 0 {
		limit = 10
	}
	if limit > i.maxResults {
		limit = i.maxResults
	}

	req := bleve.NewSearchRequest(bleve.NewMatchQuery(queryStr))
	req.Size = limit
	req.Fields = []string{"title", "company"}

	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.closed {
		return nil, fmt.Errorf("search index is closed")
	}

	result, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	resp := &models.JobSearchResponse{
		Query:      queryStr,
		TotalCount: int(result.Total),
		Results:    make([]models.JobSearchResult, 0, len(result.Hits)),
	}
	for _, hit := range result.Hits {
		jobID, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			i.logger.Warn().Str("doc_id", hit.ID).Msg("Skipping hit with malformed document ID")
			continue
		}
		resp.Results = append(resp.Results, models.JobSearchResult{
			JobID:   jobID,
			Title:   fieldString(hit.Fields, "title"),
			Company: fieldString(hit.Fields, "company"),
			Score:   hit.Score,
		})
	}
	return resp, nil
}

// Count returns the number of indexed documents.
func (i *Index) Count() (uint64, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.closed {
		return 0, fmt.Errorf("search index is closed")
	}
	return i.index.DocCount()
}

// Close flushes and closes the index. Safe to call more than once.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return nil
	}
	i.closed = true
	return i.index.Close()
}

func docID(jobID int64) string {
	return strconv.FormatInt(jobID, 10)
}

func fieldString(fields map[string]interface{}, name string) string {
	if v, ok := fields[name].(string); ok {
		return v
	}
	return ""
}
