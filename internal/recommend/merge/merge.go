// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

// Package merge combines content-based and collaborative candidate lists
// into a single ranked list.
//
// Three strategies are provided:
//
//   - Weighted: min-max normalize each source independently, then blend by
//     the supplied weights (normalized by their sum).
//   - Cascade: content candidates first in their order, then collaborative
//     candidates fill the remaining slots.
//   - Mixed: alternate one from each source, skipping duplicates.
//
// All strategies are pure, deterministic, and never emit a duplicate id or
// more than n candidates. A candidate that appears in both inputs is tagged
// SourceBoth and carries both raw scores.
package merge

import "sort"

// Source identifies which signal produced a candidate.
const (
	SourceContent       = "content"
	SourceCollaborative = "collaborative"
	SourceBoth          = "both"
)

// Input is one scored candidate from a single source.
type Input struct {
	JobID int64
	Score float64
}

// Candidate is one merged candidate. Relevance is the merge score the
// reranker consumes; Similarity and CFScore preserve the raw per-source
// scores for the response.
type Candidate struct {
	JobID      int64
	Relevance  float64
	Similarity *float64
	CFScore    *float64
	Source     string
}

// Weighted merges by independent min-max normalization and weighted
// averaging:
//
//	final = (cw*normContent + cfw*normCF) / (cw + cfw)
//
// A source whose scores are all equal normalizes every score to 1.0 (the
// degenerate range carries no ranking information, and 1.0 keeps a
// single-source run from zeroing out). Items absent from one source get 0
// for that term. Output is sorted final descending, ties ascending job id,
// cut to n. cw+cfw must be positive; request validation guarantees it.
func Weighted(content, collaborative []Input, contentWeight, cfWeight float64, n int) []Candidate {
	if n <= 0 {
		return nil
	}

	// A zero-weight source contributes nothing but its items would still
	// tie at 0 with the other source's worst item; dropping it keeps
	// cw=1, cfw=0 an exact reproduction of the content ranking.
	if contentWeight == 0 {
		content = nil
	}
	if cfWeight == 0 {
		collaborative = nil
	}

	normContent := minMaxNormalize(content)
	normCF := minMaxNormalize(collaborative)

	merged := make(map[int64]*Candidate, len(content)+len(collaborative))
	for i := range content {
		in := content[i]
		sim := in.Score
		merged[in.JobID] = &Candidate{
			JobID:      in.JobID,
			Relevance:  contentWeight * normContent[in.JobID],
			Similarity: &sim,
			Source:     SourceContent,
		}
	}
	for i := range collaborative {
		in := collaborative[i]
		cfs := in.Score
		if c, ok := merged[in.JobID]; ok {
			c.Relevance += cfWeight * normCF[in.JobID]
			c.CFScore = &cfs
			c.Source = SourceBoth
			continue
		}
		merged[in.JobID] = &Candidate{
			JobID:     in.JobID,
			Relevance: cfWeight * normCF[in.JobID],
			CFScore:   &cfs,
			Source:    SourceCollaborative,
		}
	}

	sum := contentWeight + cfWeight
	out := make([]Candidate, 0, len(merged))
	for _, c := range merged {
		c.Relevance /= sum
		out = append(out, *c)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Relevance != out[j].Relevance {
			return out[i].Relevance > out[j].Relevance
		}
		return out[i].JobID < out[j].JobID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Cascade takes content candidates in order up to n, then appends
// collaborative candidates in their order, skipping ids already included,
// until n is reached or both sources are exhausted. A candidate's Relevance
// is the raw score from the source it was taken from.
func Cascade(content, collaborative []Input, n int) []Candidate {
	if n <= 0 {
		return nil
	}

	seen := make(map[int64]struct{}, n)
	inContent := make(map[int64]float64, len(content))
	for i := range content {
		inContent[content[i].JobID] = content[i].Score
	}
	inCF := make(map[int64]float64, len(collaborative))
	for i := range collaborative {
		inCF[collaborative[i].JobID] = collaborative[i].Score
	}

	out := make([]Candidate, 0, n)
	for i := range content {
		if len(out) >= n {
			return out
		}
		if _, dup := seen[content[i].JobID]; dup {
			continue
		}
		seen[content[i].JobID] = struct{}{}
		out = append(out, fromContent(content[i], inCF))
	}
	for i := range collaborative {
		if len(out) >= n {
			break
		}
		if _, dup := seen[collaborative[i].JobID]; dup {
			continue
		}
		seen[collaborative[i].JobID] = struct{}{}
		out = append(out, fromCollaborative(collaborative[i], inContent))
	}
	return out
}

// Mixed interleaves content[0], collaborative[0], content[1],
// collaborative[1], and so on, skipping duplicates (first occurrence wins),
// until n unique candidates are collected or both sources are exhausted.
func Mixed(content, collaborative []Input, n int) []Candidate {
	if n <= 0 {
		return nil
	}

	seen := make(map[int64]struct{}, n)
	inContent := make(map[int64]float64, len(content))
	for i := range content {
		inContent[content[i].JobID] = content[i].Score
	}
	inCF := make(map[int64]float64, len(collaborative))
	for i := range collaborative {
		inCF[collaborative[i].JobID] = collaborative[i].Score
	}

	out := make([]Candidate, 0, n)
	for i := 0; i < len(content) || i < len(collaborative); i++ {
		if i < len(content) && len(out) < n {
			if _, dup := seen[content[i].JobID]; !dup {
				seen[content[i].JobID] = struct{}{}
				out = append(out, fromContent(content[i], inCF))
			}
		}
		if i < len(collaborative) && len(out) < n {
			if _, dup := seen[collaborative[i].JobID]; !dup {
				seen[collaborative[i].JobID] = struct{}{}
				out = append(out, fromCollaborative(collaborative[i], inContent))
			}
		}
		if len(out) >= n {
			break
		}
	}
	return out
}

// fromContent builds a content-sourced candidate, marking it SourceBoth
// when the collaborative list also scored the id.
func fromContent(in Input, inCF map[int64]float64) Candidate {
	sim := in.Score
	c := Candidate{
		JobID:      in.JobID,
		Relevance:  in.Score,
		Similarity: &sim,
		Source:     SourceContent,
	}
	if cfs, ok := inCF[in.JobID]; ok {
		v := cfs
		c.CFScore = &v
		c.Source = SourceBoth
	}
	return c
}

// fromCollaborative builds a collaborative-sourced candidate, marking it
// SourceBoth when the content list also scored the id.
func fromCollaborative(in Input, inContent map[int64]float64) Candidate {
	cfs := in.Score
	c := Candidate{
		JobID:     in.JobID,
		Relevance: in.Score,
		CFScore:   &cfs,
		Source:    SourceCollaborative,
	}
	if sim, ok := inContent[in.JobID]; ok {
		v := sim
		c.Similarity = &v
		c.Source = SourceBoth
	}
	return c
}

// minMaxNormalize maps scores to [0,1] per source. A list whose scores are
// all equal maps every score to 1.0, avoiding a divide by zero while
// keeping the items rankable by the other source.
func minMaxNormalize(in []Input) map[int64]float64 {
	norm := make(map[int64]float64, len(in))
	if len(in) == 0 {
		return norm
	}

	lo, hi := in[0].Score, in[0].Score
	for i := 1; i < len(in); i++ {
		if in[i].Score < lo {
			lo = in[i].Score
		}
		if in[i].Score > hi {
			hi = in[i].Score
		}
	}

	if hi == lo {
		for i := range in {
			norm[in[i].JobID] = 1.0
		}
		return norm
	}
	for i := range in {
		norm[in[i].JobID] = (in[i].Score - lo) / (hi - lo)
	}
	return norm
}
