// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package merge

import (
	"math"
	"testing"
)

func ids(cs []Candidate) []int64 {
	out := make([]int64, len(cs))
	for i := range cs {
		out[i] = cs[i].JobID
	}
	return out
}

func equalIDs(a, b []int64) bool {
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

func assertNoDuplicates(t *testing.T, cs []Candidate) {
	t.Helper()
	seen := make(map[int64]struct{}, len(cs))
	for i := range cs {
		if _, dup := seen[cs[i].JobID]; dup {
			t.Errorf("duplicate job %d in output", cs[i].JobID)
		}
		seen[cs[i].JobID] = struct{}{}
	}
}

func TestWeighted(t *testing.T) {
	t.Parallel()

	content := []Input{{JobID: 1, Score: 0.9}, {JobID: 2, Score: 0.5}, {JobID: 3, Score: 0.1}}
	collab := []Input{{JobID: 2, Score: 4.0}, {JobID: 4, Score: 2.0}}

	got := Weighted(content, collab, 0.6, 0.4, 10)

	assertNoDuplicates(t, got)

	// Normalized: content 1->1.0, 2->0.5, 3->0.0; cf 2->1.0, 4->0.0.
	// final(1) = 0.6*1.0/1.0 = 0.6
	// final(2) = (0.6*0.5 + 0.4*1.0)/1.0 = 0.7
	// final(3) = 0, final(4) = 0 (tie, job id ascending)
	if !equalIDs(ids(got), []int64{2, 1, 3, 4}) {
		t.Fatalf("order = %v, want [2 1 3 4]", ids(got))
	}
	if math.Abs(got[0].Relevance-0.7) > 1e-9 {
		t.Errorf("relevance(2) = %v, want 0.7", got[0].Relevance)
	}
	if math.Abs(got[1].Relevance-0.6) > 1e-9 {
		t.Errorf("relevance(1) = %v, want 0.6", got[1].Relevance)
	}

	// Source tagging: job 2 came from both, job 1 content-only, job 4 cf-only.
	if got[0].Source != SourceBoth {
		t.Errorf("source(2) = %q, want both", got[0].Source)
	}
	if got[1].Source != SourceContent || got[1].Similarity == nil || got[1].CFScore != nil {
		t.Errorf("job 1 = %+v, want content source with similarity only", got[1])
	}
	if got[3].Source != SourceCollaborative || got[3].CFScore == nil {
		t.Errorf("job 4 = %+v, want collaborative source with cf score", got[3])
	}
	if got[0].Similarity == nil || *got[0].Similarity != 0.5 {
		t.Errorf("job 2 raw similarity = %v, want 0.5", got[0].Similarity)
	}
	if got[0].CFScore == nil || *got[0].CFScore != 4.0 {
		t.Errorf("job 2 raw cf score = %v, want 4.0", got[0].CFScore)
	}
}

// TestWeighted_DegenerateWeights: content_weight=1, cf_weight=0 must
// reproduce the content-only ranking exactly.
func TestWeighted_DegenerateWeights(t *testing.T) {
	t.Parallel()

	content := []Input{
		{JobID: 5, Score: 0.95}, {JobID: 9, Score: 0.80},
		{JobID: 2, Score: 0.60}, {JobID: 7, Score: 0.40},
	}
	collab := []Input{{JobID: 7, Score: 5.0}, {JobID: 1, Score: 4.0}}

	got := Weighted(content, collab, 1.0, 0.0, 4)

	if !equalIDs(ids(got), []int64{5, 9, 2, 7}) {
		t.Errorf("order = %v, want content ranking [5 9 2 7]", ids(got))
	}
}

func TestWeighted_SingleDistinctValueNormalizesToOne(t *testing.T) {
	t.Parallel()

	// All-equal content scores carry no ranking information; each
	// normalizes to 1.0 so the collaborative signal decides the order.
	content := []Input{{JobID: 1, Score: 0.5}, {JobID: 2, Score: 0.5}}
	collab := []Input{{JobID: 2, Score: 3.0}, {JobID: 1, Score: 1.0}}

	got := Weighted(content, collab, 0.5, 0.5, 2)

	if !equalIDs(ids(got), []int64{2, 1}) {
		t.Errorf("order = %v, want [2 1]", ids(got))
	}
	// final(2) = (0.5*1.0 + 0.5*1.0)/1.0 = 1.0
	if math.Abs(got[0].Relevance-1.0) > 1e-9 {
		t.Errorf("relevance(2) = %v, want 1.0", got[0].Relevance)
	}
}

func TestWeighted_WeightSumNormalization(t *testing.T) {
	t.Parallel()

	// Weights 3 and 1 behave exactly like 0.75 and 0.25.
	content := []Input{{JobID: 1, Score: 0.9}, {JobID: 2, Score: 0.1}}
	collab := []Input{{JobID: 2, Score: 5.0}, {JobID: 1, Score: 1.0}}

	a := Weighted(content, collab, 3, 1, 2)
	b := Weighted(content, collab, 0.75, 0.25, 2)

	if !equalIDs(ids(a), ids(b)) {
		t.Fatalf("orders differ: %v vs %v", ids(a), ids(b))
	}
	for i := range a {
		if math.Abs(a[i].Relevance-b[i].Relevance) > 1e-9 {
			t.Errorf("relevance[%d] = %v vs %v", i, a[i].Relevance, b[i].Relevance)
		}
	}
}

func TestWeighted_EmptySources(t *testing.T) {
	t.Parallel()

	if got := Weighted(nil, nil, 0.6, 0.4, 5); len(got) != 0 {
		t.Errorf("both empty = %v, want empty", got)
	}

	collab := []Input{{JobID: 1, Score: 2.0}, {JobID: 2, Score: 1.0}}
	got := Weighted(nil, collab, 0.6, 0.4, 5)
	if !equalIDs(ids(got), []int64{1, 2}) {
		t.Errorf("cf-only order = %v, want [1 2]", ids(got))
	}
}

// TestCascade_WorkedExample: content [J1,J2,J3], cf [J4,J1,J5], top_n=4
// gives [J1,J2,J3,J4] (J1 skipped as duplicate, J4 appended).
func TestCascade_WorkedExample(t *testing.T) {
	t.Parallel()

	content := []Input{{JobID: 1, Score: 0.9}, {JobID: 2, Score: 0.8}, {JobID: 3, Score: 0.7}}
	collab := []Input{{JobID: 4, Score: 4.0}, {JobID: 1, Score: 3.0}, {JobID: 5, Score: 2.0}}

	got := Cascade(content, collab, 4)

	if !equalIDs(ids(got), []int64{1, 2, 3, 4}) {
		t.Fatalf("order = %v, want [1 2 3 4]", ids(got))
	}
	assertNoDuplicates(t, got)

	// J1 appears in both sources.
	if got[0].Source != SourceBoth {
		t.Errorf("source(1) = %q, want both", got[0].Source)
	}
	if got[3].Source != SourceCollaborative {
		t.Errorf("source(4) = %q, want collaborative", got[3].Source)
	}
}

func TestCascade_ContentFillsTopN(t *testing.T) {
	t.Parallel()

	content := []Input{{JobID: 1, Score: 0.9}, {JobID: 2, Score: 0.8}, {JobID: 3, Score: 0.7}}
	collab := []Input{{JobID: 4, Score: 4.0}}

	got := Cascade(content, collab, 2)
	if !equalIDs(ids(got), []int64{1, 2}) {
		t.Errorf("order = %v, want [1 2]", ids(got))
	}
}

func TestCascade_ExhaustedSources(t *testing.T) {
	t.Parallel()

	content := []Input{{JobID: 1, Score: 0.9}}
	collab := []Input{{JobID: 2, Score: 1.0}}

	got := Cascade(content, collab, 10)
	if !equalIDs(ids(got), []int64{1, 2}) {
		t.Errorf("order = %v, want [1 2]", ids(got))
	}
}

func TestMixed_Interleaves(t *testing.T) {
	t.Parallel()

	content := []Input{{JobID: 1, Score: 0.9}, {JobID: 2, Score: 0.8}, {JobID: 3, Score: 0.7}}
	collab := []Input{{JobID: 4, Score: 4.0}, {JobID: 5, Score: 3.0}}

	got := Mixed(content, collab, 5)

	if !equalIDs(ids(got), []int64{1, 4, 2, 5, 3}) {
		t.Errorf("order = %v, want [1 4 2 5 3]", ids(got))
	}
	assertNoDuplicates(t, got)
}

func TestMixed_SkipsDuplicates(t *testing.T) {
	t.Parallel()

	content := []Input{{JobID: 1, Score: 0.9}, {JobID: 2, Score: 0.8}}
	collab := []Input{{JobID: 1, Score: 4.0}, {JobID: 3, Score: 3.0}}

	got := Mixed(content, collab, 4)

	// content[0]=1, cf[0]=1 (dup), content[1]=2, cf[1]=3.
	if !equalIDs(ids(got), []int64{1, 2, 3}) {
		t.Errorf("order = %v, want [1 2 3]", ids(got))
	}
	if got[0].Source != SourceBoth {
		t.Errorf("source(1) = %q, want both (first occurrence wins, both scored it)", got[0].Source)
	}
}

func TestMixed_BoundedAndUnevenSources(t *testing.T) {
	t.Parallel()

	content := []Input{{JobID: 1, Score: 0.9}}
	collab := []Input{
		{JobID: 2, Score: 5.0}, {JobID: 3, Score: 4.0},
		{JobID: 4, Score: 3.0}, {JobID: 5, Score: 2.0},
	}

	got := Mixed(content, collab, 3)
	if !equalIDs(ids(got), []int64{1, 2, 3}) {
		t.Errorf("order = %v, want [1 2 3]", ids(got))
	}
}

func TestStrategies_ZeroN(t *testing.T) {
	t.Parallel()

	content := []Input{{JobID: 1, Score: 0.9}}
	collab := []Input{{JobID: 2, Score: 1.0}}

	if got := Weighted(content, collab, 0.6, 0.4, 0); got != nil {
		t.Errorf("Weighted n=0 = %v, want nil", got)
	}
	if got := Cascade(content, collab, 0); got != nil {
		t.Errorf("Cascade n=0 = %v, want nil", got)
	}
	if got := Mixed(content, collab, 0); got != nil {
		t.Errorf("Mixed n=0 = %v, want nil", got)
	}
}
