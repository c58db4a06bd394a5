// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package search

import (
	"context"
	"testing"

	"github.com/tomtom215/vocatio/internal/config"
	"github.com/tomtom215/vocatio/internal/models"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()

	idx, err := NewIndex(&config.SearchConfig{Path: "", MaxResults: 25})
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	t.Cleanup(func() {
		if err := idx.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return idx
}

func seedIndex(t *testing.T, idx *Index) {
	t.Helper()

	jobs := []models.Job{
		{ID: 1, Title: "Senior Backend Engineer", Company: "Acme", Description: "Distributed systems in Go"},
		{ID: 2, Title: "Frontend Developer", Company: "Globex", Description: "React and TypeScript"},
		{ID: 3, Title: "Site Reliability Engineer", Company: "Initech", Description: "Kubernetes, observability, Go services"},
	}
	if err := idx.IndexJobs(jobs); err != nil {
		t.Fatalf("IndexJobs: %v", err)
	}
}

func TestSearch_MatchesAcrossFields(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	seedIndex(t, idx)

	resp, err := idx.Search(context.Background(), "Go", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.TotalCount != 2 {
		t.Fatalf("TotalCount = %d, want 2", resp.TotalCount)
	}

	found := map[int64]bool{}
	for _, r := range resp.Results {
		found[r.JobID] = true
		if r.Title == "" || r.Company == "" {
			t.Errorf("job %d: stored fields missing: %+v", r.JobID, r)
		}
		if r.Score <= 0 {
			t.Errorf("job %d: score = %v, want > 0", r.JobID, r.Score)
		}
	}
	if !found[1] || !found[3] {
		t.Errorf("expected jobs 1 and 3, got %v", found)
	}
}

func TestSearch_CompanyMatch(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	seedIndex(t, idx)

	resp, err := idx.Search(context.Background(), "Globex", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].JobID != 2 {
		t.Fatalf("results = %+v, want single hit for job 2", resp.Results)
	}
}

func TestSearch_NoHits(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	seedIndex(t, idx)

	resp, err := idx.Search(context.Background(), "haskell", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.TotalCount != 0 || len(resp.Results) != 0 {
		t.Errorf("expected no hits, got %+v", resp)
	}
}

func TestSearch_LimitClamped(t *testing.T) {
	t.Parallel()

	idx, err := NewIndex(&config.SearchConfig{Path: "", MaxResults: 1})
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	t.Cleanup(func() { _ = idx.Close() })
	seedIndex(t, idx)

	resp, err := idx.Search(context.Background(), "engineer", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) > 1 {
		t.Errorf("limit not clamped: %d results", len(resp.Results))
	}
}

func TestIndexJob_UpdateAndDelete(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)

	job := &models.Job{ID: 9, Title: "Data Engineer", Company: "Umbrella", Description: "Pipelines"}
	if err := idx.IndexJob(job); err != nil {
		t.Fatalf("IndexJob: %v", err)
	}

	// Reindexing under the same ID replaces, not duplicates.
	job.Title = "Platform Engineer"
	if err := idx.IndexJob(job); err != nil {
		t.Fatalf("IndexJob update: %v", err)
	}

	n, err := idx.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Fatalf("Count = %d, want 1", n)
	}

	resp, err := idx.Search(context.Background(), "platform", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Title != "Platform Engineer" {
		t.Fatalf("results = %+v, want updated title", resp.Results)
	}

	if err := idx.DeleteJob(9); err != nil {
		t.Fatalf("DeleteJob: %v", err)
	}
	n, err = idx.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Errorf("Count after delete = %d, want 0", n)
	}
}

func TestSearch_PersistentIndexReopens(t *testing.T) {
	t.Parallel()

	dir := t.TempDir() + "/jobs.bleve"

	idx, err := NewIndex(&config.SearchConfig{Path: dir, MaxResults: 10})
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	if err := idx.IndexJob(&models.Job{ID: 1, Title: "Go Engineer", Company: "Acme"}); err != nil {
		t.Fatalf("IndexJob: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewIndex(&config.SearchConfig{Path: dir, MaxResults: 10})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })

	resp, err := reopened.Search(context.Background(), "go", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("results = %+v, want the persisted job", resp.Results)
	}
}

func TestSearch_ClosedIndexRejected(t *testing.T) {
	t.Parallel()

	idx, err := NewIndex(&config.SearchConfig{})
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	if _, err := idx.Search(context.Background(), "go", 10); err == nil {
		t.Error("Search on closed index succeeded")
	}
	if err := idx.IndexJob(&models.Job{ID: 1}); err == nil {
		t.Error("IndexJob on closed index succeeded")
	}
}
