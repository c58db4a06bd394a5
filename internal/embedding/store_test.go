// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/vocatio/internal/config"
	"github.com/tomtom215/vocatio/internal/recommend"
)

func newTestStore(t *testing.T, dims int) *Store {
	t.Helper()

	s, err := NewStore(&config.EmbeddingConfig{
		Path:         "", // in-memory
		Dimensions:   dims,
		HotCacheSize: 8,
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func vecEqual(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPutAndGetRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, 4)
	ctx := context.Background()

	resume := []float32{0.1, -0.2, 0.3, 0.4}
	job := []float32{1, 0, 0, 0}

	if err := s.PutResumeEmbedding(ctx, 1, resume); err != nil {
		t.Fatalf("PutResumeEmbedding: %v", err)
	}
	if err := s.PutJobEmbedding(ctx, 10, job); err != nil {
		t.Fatalf("PutJobEmbedding: %v", err)
	}

	gotResume, err := s.ResumeEmbedding(ctx, 1)
	if err != nil {
		t.Fatalf("ResumeEmbedding: %v", err)
	}
	if !vecEqual(gotResume, resume) {
		t.Errorf("resume vector = %v, want %v", gotResume, resume)
	}

	gotJob, err := s.JobEmbedding(ctx, 10)
	if err != nil {
		t.Fatalf("JobEmbedding: %v", err)
	}
	if !vecEqual(gotJob, job) {
		t.Errorf("job vector = %v, want %v", gotJob, job)
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, 4)
	ctx := context.Background()

	_, err := s.ResumeEmbedding(ctx, 123)
	if !recommend.IsNotFound(err) {
		t.Errorf("missing resume: got %v, want NotFoundError", err)
	}
	_, err = s.JobEmbedding(ctx, 456)
	if !recommend.IsNotFound(err) {
		t.Errorf("missing job: got %v, want NotFoundError", err)
	}
}

func TestPutRejectsWrongDimensions(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, 4)
	err := s.PutJobEmbedding(context.Background(), 1, []float32{1, 2})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestPutReplacesVector(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, 2)
	ctx := context.Background()

	if err := s.PutJobEmbedding(ctx, 1, []float32{1, 0}); err != nil {
		t.Fatal(err)
	}
	// Read once so the vector enters the hot cache, then overwrite.
	if _, err := s.JobEmbedding(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.PutJobEmbedding(ctx, 1, []float32{0, 1}); err != nil {
		t.Fatal(err)
	}

	got, err := s.JobEmbedding(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !vecEqual(got, []float32{0, 1}) {
		t.Errorf("stale vector served after overwrite: %v", got)
	}
}

func TestJobEmbeddings_BulkRead(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, 2)
	ctx := context.Background()

	want := map[int64][]float32{
		1: {1, 0},
		2: {0, 1},
		3: {0.5, 0.5},
	}
	for id, vec := range want {
		if err := s.PutJobEmbedding(ctx, id, vec); err != nil {
			t.Fatal(err)
		}
	}
	// Resume vectors must not leak into the job scan.
	if err := s.PutResumeEmbedding(ctx, 1, []float32{9, 9}); err != nil {
		t.Fatal(err)
	}

	got, err := s.JobEmbeddings(ctx)
	if err != nil {
		t.Fatalf("JobEmbeddings: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d vectors, want %d", len(got), len(want))
	}
	for id, vec := range want {
		if !vecEqual(got[id], vec) {
			t.Errorf("job %d = %v, want %v", id, got[id], vec)
		}
	}

	// The returned map is a copy; mutating it must not affect the store.
	delete(got, 1)
	again, err := s.JobEmbeddings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != 3 {
		t.Error("mutating the returned map affected the store")
	}
}

func TestDeleteJobEmbedding(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, 2)
	ctx := context.Background()

	if err := s.PutJobEmbedding(ctx, 1, []float32{1, 0}); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteJobEmbedding(ctx, 1); err != nil {
		t.Fatalf("DeleteJobEmbedding: %v", err)
	}
	if _, err := s.JobEmbedding(ctx, 1); !recommend.IsNotFound(err) {
		t.Errorf("deleted job still readable: %v", err)
	}
	// Deleting a missing key is a no-op.
	if err := s.DeleteJobEmbedding(ctx, 999); err != nil {
		t.Errorf("delete of missing key: %v", err)
	}
}

func TestCounts(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, 2)
	ctx := context.Background()

	for i := int64(1); i <= 2; i++ {
		if err := s.PutResumeEmbedding(ctx, i, []float32{1, 0}); err != nil {
			t.Fatal(err)
		}
	}
	for i := int64(1); i <= 3; i++ {
		if err := s.PutJobEmbedding(ctx, i, []float32{0, 1}); err != nil {
			t.Fatal(err)
		}
	}

	resumes, jobs, err := s.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if resumes != 2 || jobs != 3 {
		t.Errorf("counts = %d/%d, want 2/3", resumes, jobs)
	}
}

func TestEncodeDecodeVector(t *testing.T) {
	t.Parallel()

	vec := []float32{0, 1, -1, 0.5, 3.14159}
	got, err := decodeVector(encodeVector(vec))
	if err != nil {
		t.Fatalf("decodeVector: %v", err)
	}
	if !vecEqual(got, vec) {
		t.Errorf("round trip = %v, want %v", got, vec)
	}

	if _, err := decodeVector([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for truncated value")
	}
}
