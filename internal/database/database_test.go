// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/vocatio/internal/config"
	"github.com/tomtom215/vocatio/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Path:      filepath.Join(t.TempDir(), "test.duckdb"),
		MaxMemory: "512MB",
	}
	db, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return db
}

func mustUpsertJob(t *testing.T, db *DB, id int64, title, company string, postedAt *time.Time) {
	t.Helper()
	_, _, err := db.UpsertJob(context.Background(), &models.JobUpsertRequest{
		ID:       id,
		Title:    title,
		Company:  company,
		PostedAt: postedAt,
	})
	if err != nil {
		t.Fatalf("UpsertJob(%d): %v", id, err)
	}
}

func TestUpsertJob_CreateThenUpdate(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	posted := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	job, created, err := db.UpsertJob(ctx, &models.JobUpsertRequest{
		ID:          42,
		Title:       "Backend Engineer",
		Company:     "Acme",
		Description: "Go services",
		PostedAt:    &posted,
	})
	if err != nil {
		t.Fatalf("UpsertJob: %v", err)
	}
	if !created {
		t.Error("first upsert should report created")
	}
	if job.Title != "Backend Engineer" || job.Company != "Acme" {
		t.Errorf("unexpected job: %+v", job)
	}
	if job.PostedAt == nil || !job.PostedAt.Equal(posted) {
		t.Errorf("posted_at = %v, want %v", job.PostedAt, posted)
	}

	job2, created2, err := db.UpsertJob(ctx, &models.JobUpsertRequest{
		ID:      42,
		Title:   "Senior Backend Engineer",
		Company: "Acme",
	})
	if err != nil {
		t.Fatalf("second UpsertJob: %v", err)
	}
	if created2 {
		t.Error("second upsert should report updated, not created")
	}
	if job2.Title != "Senior Backend Engineer" {
		t.Errorf("title not updated: %q", job2.Title)
	}
	if job2.PostedAt != nil {
		t.Errorf("posted_at should be cleared when absent from request, got %v", job2.PostedAt)
	}

	n, err := db.CountJobs(ctx)
	if err != nil {
		t.Fatalf("CountJobs: %v", err)
	}
	if n != 1 {
		t.Errorf("job count = %d, want 1", n)
	}
}

func TestGetJob_NotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	_, err := db.GetJob(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListJobs_FiltersAndPagination(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := int64(1); i <= 5; i++ {
		posted := base.AddDate(0, 0, int(i))
		company := "Acme"
		if i > 3 {
			company = "Globex"
		}
		mustUpsertJob(t, db, i, "Role", company, &posted)
	}
	// Undated posting sorts last.
	mustUpsertJob(t, db, 6, "Role", "Acme", nil)

	jobs, total, err := db.ListJobs(ctx, ListJobsOptions{Limit: 10})
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if total != 6 || len(jobs) != 6 {
		t.Fatalf("total/len = %d/%d, want 6/6", total, len(jobs))
	}
	if jobs[0].ID != 5 {
		t.Errorf("newest job first: got %d, want 5", jobs[0].ID)
	}
	if jobs[5].ID != 6 {
		t.Errorf("undated job last: got %d, want 6", jobs[5].ID)
	}

	acme, total, err := db.ListJobs(ctx, ListJobsOptions{Companies: []string{"Acme"}, Limit: 10})
	if err != nil {
		t.Fatalf("ListJobs(Acme): %v", err)
	}
	if total != 4 || len(acme) != 4 {
		t.Errorf("Acme total/len = %d/%d, want 4/4", total, len(acme))
	}

	since := base.AddDate(0, 0, 4)
	recent, total, err := db.ListJobs(ctx, ListJobsOptions{PostedSince: &since, Limit: 10})
	if err != nil {
		t.Fatalf("ListJobs(since): %v", err)
	}
	if total != 2 || len(recent) != 2 {
		t.Errorf("recent total/len = %d/%d, want 2/2", total, len(recent))
	}

	page, total, err := db.ListJobs(ctx, ListJobsOptions{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("ListJobs(page): %v", err)
	}
	if total != 6 || len(page) != 2 {
		t.Errorf("page total/len = %d/%d, want 6/2", total, len(page))
	}
}

func TestMetadata(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	posted := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)
	mustUpsertJob(t, db, 1, "Backend Engineer", "Acme", &posted)
	mustUpsertJob(t, db, 2, "Data Engineer", "Globex", nil)

	meta, err := db.Metadata(ctx, []int64{1, 2, 999})
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if len(meta) != 2 {
		t.Fatalf("got %d entries, want 2 (unknown ids absent)", len(meta))
	}
	if meta[1].Title != "Backend Engineer" || meta[1].PostedAt == nil {
		t.Errorf("meta[1] = %+v", meta[1])
	}
	if meta[2].PostedAt != nil {
		t.Errorf("meta[2].PostedAt should be nil, got %v", meta[2].PostedAt)
	}

	empty, err := db.Metadata(ctx, nil)
	if err != nil {
		t.Fatalf("Metadata(nil): %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("empty query returned %d entries", len(empty))
	}
}

func TestInsertInteraction(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	mustUpsertJob(t, db, 1, "Backend Engineer", "Acme", nil)

	in, err := db.InsertInteraction(ctx, &models.InteractionRequest{
		ResumeID: 7,
		JobID:    1,
		Type:     "apply",
	})
	if err != nil {
		t.Fatalf("InsertInteraction: %v", err)
	}
	if in.ID == 0 {
		t.Error("interaction id not assigned")
	}
	if in.OccurredAt.IsZero() {
		t.Error("occurred_at not defaulted")
	}

	// Explicit timestamp round-trips.
	at := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)
	in2, err := db.InsertInteraction(ctx, &models.InteractionRequest{
		ResumeID:   7,
		JobID:      1,
		Type:       "view",
		OccurredAt: &at,
	})
	if err != nil {
		t.Fatalf("second InsertInteraction: %v", err)
	}
	if !in2.OccurredAt.Equal(at) {
		t.Errorf("occurred_at = %v, want %v", in2.OccurredAt, at)
	}

	n, err := db.CountInteractions(ctx)
	if err != nil {
		t.Fatalf("CountInteractions: %v", err)
	}
	if n != 2 {
		t.Errorf("interaction count = %d, want 2", n)
	}
}

func TestInsertInteraction_UnknownJob(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	_, err := db.InsertInteraction(context.Background(), &models.InteractionRequest{
		ResumeID: 7,
		JobID:    999,
		Type:     "view",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAllInteractions_OrderedByInsertion(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	mustUpsertJob(t, db, 1, "Backend Engineer", "Acme", nil)
	mustUpsertJob(t, db, 2, "Data Engineer", "Globex", nil)

	for _, in := range []models.InteractionRequest{
		{ResumeID: 1, JobID: 1, Type: "view"},
		{ResumeID: 1, JobID: 2, Type: "save"},
		{ResumeID: 2, JobID: 1, Type: "apply"},
	} {
		req := in
		if _, err := db.InsertInteraction(ctx, &req); err != nil {
			t.Fatalf("InsertInteraction: %v", err)
		}
	}

	all, err := db.AllInteractions(ctx)
	if err != nil {
		t.Fatalf("AllInteractions: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d interactions, want 3", len(all))
	}
	if all[0].Type != "view" || all[2].Type != "apply" {
		t.Errorf("insertion order not preserved: %+v", all)
	}
	if all[2].ResumeID != 2 || all[2].JobID != 1 {
		t.Errorf("unexpected last interaction: %+v", all[2])
	}
}

func TestViewHistory_ViewsAndClicksOnly(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	mustUpsertJob(t, db, 1, "Backend Engineer", "Acme", nil)
	mustUpsertJob(t, db, 2, "Data Engineer", "Globex", nil)
	mustUpsertJob(t, db, 3, "ML Engineer", "Initech", nil)

	t0 := time.Date(2026, 8, 10, 10, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	for _, in := range []models.InteractionRequest{
		{ResumeID: 5, JobID: 1, Type: "view", OccurredAt: &t0},
		{ResumeID: 5, JobID: 1, Type: "click", OccurredAt: &t1},
		{ResumeID: 5, JobID: 2, Type: "save", OccurredAt: &t0},
		{ResumeID: 6, JobID: 3, Type: "view", OccurredAt: &t0},
	} {
		req := in
		if _, err := db.InsertInteraction(ctx, &req); err != nil {
			t.Fatalf("InsertInteraction: %v", err)
		}
	}

	history, err := db.ViewHistory(ctx, 5)
	if err != nil {
		t.Fatalf("ViewHistory: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("got %d viewed jobs, want 1 (saves do not count)", len(history))
	}
	last, ok := history[1]
	if !ok {
		t.Fatal("job 1 missing from view history")
	}
	if !last.Equal(t1) {
		t.Errorf("last view = %v, want most recent %v", last, t1)
	}
}

func TestInteractionsForResume(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	mustUpsertJob(t, db, 1, "Backend Engineer", "Acme", nil)

	t0 := time.Date(2026, 8, 10, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		at := t0.Add(time.Duration(i) * time.Hour)
		req := models.InteractionRequest{ResumeID: 9, JobID: 1, Type: "view", OccurredAt: &at}
		if _, err := db.InsertInteraction(ctx, &req); err != nil {
			t.Fatalf("InsertInteraction: %v", err)
		}
	}

	list, err := db.InteractionsForResume(ctx, 9, 2)
	if err != nil {
		t.Fatalf("InteractionsForResume: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d interactions, want limit 2", len(list))
	}
	if !list[0].OccurredAt.After(list[1].OccurredAt) {
		t.Error("interactions not newest-first")
	}
}

func TestSeedSampleData(t *testing.T) {
	t.Parallel()

	cfg := &config.DatabaseConfig{
		Path:           filepath.Join(t.TempDir(), "seeded.duckdb"),
		MaxMemory:      "512MB",
		SeedSampleData: true,
	}
	db, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer db.Close()

	n, err := db.CountJobs(context.Background())
	if err != nil {
		t.Fatalf("CountJobs: %v", err)
	}
	if n == 0 {
		t.Error("seed produced no jobs")
	}

	// Seeding is idempotent: a second initialization leaves the catalog
	// unchanged.
	if err := db.seedSampleData(); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	n2, err := db.CountJobs(context.Background())
	if err != nil {
		t.Fatalf("CountJobs: %v", err)
	}
	if n2 != n {
		t.Errorf("second seed changed count: %d -> %d", n, n2)
	}
}
