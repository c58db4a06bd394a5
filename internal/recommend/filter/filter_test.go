// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package filter

import (
	"testing"

	"github.com/tomtom215/vocatio/internal/recommend/merge"
)

func float64Ptr(v float64) *float64 { return &v }

func testCandidates() []merge.Candidate {
	return []merge.Candidate{
		{JobID: 1, Relevance: 0.9, Source: merge.SourceContent, Similarity: float64Ptr(0.9)},
		{JobID: 2, Relevance: 0.5, Source: merge.SourceBoth, Similarity: float64Ptr(0.4), CFScore: float64Ptr(3.0)},
		{JobID: 3, Relevance: 0.1, Source: merge.SourceCollaborative, CFScore: float64Ptr(1.0)},
	}
}

func TestCompile_EmptyIsPassThrough(t *testing.T) {
	t.Parallel()

	f, err := Compile("")
	if err != nil {
		t.Fatalf("Compile(\"\") error: %v", err)
	}

	in := testCandidates()
	got, err := f.Apply(in)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if len(got) != len(in) {
		t.Errorf("pass-through kept %d of %d", len(got), len(in))
	}
}

func TestCompile_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		expr string
	}{
		{"syntax error", "relevance >"},
		{"unknown variable", "rating > 2"},
		{"non-boolean result", "relevance + 1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Compile(tt.expr); err == nil {
				t.Errorf("Compile(%q) succeeded, want error", tt.expr)
			}
		})
	}
}

func TestApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		expr    string
		wantIDs []int64
	}{
		{"relevance threshold", "relevance > 0.2", []int64{1, 2}},
		{"source match", `source == "both"`, []int64{2}},
		{"cf score with absent default", "cf_score >= 1.0", []int64{2, 3}},
		{"job id exclusion", "job_id != 2", []int64{1, 3}},
		{"conjunction", `relevance > 0.05 && source != "collaborative"`, []int64{1, 2}},
		{"keeps nothing", "relevance > 2.0", []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, err := Compile(tt.expr)
			if err != nil {
				t.Fatalf("Compile(%q) error: %v", tt.expr, err)
			}

			got, err := f.Apply(testCandidates())
			if err != nil {
				t.Fatalf("Apply error: %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("kept %d candidates, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].JobID != id {
					t.Errorf("position %d = job %d, want %d", i, got[i].JobID, id)
				}
			}
		})
	}
}

func TestApply_NilFilter(t *testing.T) {
	t.Parallel()

	var f *Filter
	in := testCandidates()
	got, err := f.Apply(in)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if len(got) != len(in) {
		t.Errorf("nil filter kept %d of %d", len(got), len(in))
	}
}
