// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

// Package cf implements item-based collaborative filtering over implicit
// ratings.
//
// Interactions are mapped to an ordered implicit-rating scale (view=1,
// click=2, save=3, like=4, apply=5) and collapsed into a dense user-item
// matrix; duplicate (user, item) pairs keep the maximum rating observed, so
// the strongest signal governs. Item-item cosine similarity over the matrix
// columns drives prediction by similarity-weighted neighbor averaging:
//
//	predicted(u, i) = sum_j sim(i, j) * rating(u, j) / sum_j |sim(i, j)|
//
// summed over the items j the user actually rated.
//
// # Thread Safety
//
// A Model is an immutable snapshot: every method is read-only and safe for
// unlimited concurrent use. Rebuilds construct a fresh Model and publish it
// by pointer swap at the engine level; a Model is never mutated in place.
package cf

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Interaction is one recorded user action on a job posting.
type Interaction struct {
	// ResumeID is the acting user (matrix row).
	ResumeID int64 `json:"resume_id"`

	// JobID is the item acted on (matrix column).
	JobID int64 `json:"job_id"`

	// Type is the action class: view, click, save, like, or apply.
	Type string `json:"interaction_type"`

	// OccurredAt is when the action happened.
	OccurredAt time.Time `json:"occurred_at"`
}

// Interaction type names, ordered by signal strength.
const (
	TypeView  = "view"
	TypeClick = "click"
	TypeSave  = "save"
	TypeLike  = "like"
	TypeApply = "apply"
)

// Rating maps an interaction type to its implicit rating. Unknown types map
// to 0 and are ignored at build time.
func Rating(interactionType string) float64 {
	switch interactionType {
	case TypeView:
		return 1
	case TypeClick:
		return 2
	case TypeSave:
		return 3
	case TypeLike:
		return 4
	case TypeApply:
		return 5
	default:
		return 0
	}
}

// ValidType reports whether t is a known interaction type.
func ValidType(t string) bool {
	return Rating(t) > 0
}

// ScoredItem is a job with a predicted rating or similarity score.
type ScoredItem struct {
	JobID int64   `json:"job_id"`
	Score float64 `json:"score"`
}

// Stats describes a built model.
type Stats struct {
	// Users and Items are the matrix dimensions.
	Users int `json:"users"`
	Items int `json:"items"`

	// Interactions is the number of nonzero matrix cells.
	Interactions int `json:"interactions"`

	// Sparsity is 1 - nnz/(users*items), rounded to 4 decimals.
	// An empty model reports 0.
	Sparsity float64 `json:"sparsity"`
}

// Model is an immutable collaborative-filtering snapshot: the user-item
// rating matrix plus the derived item-item cosine similarity matrix.
type Model struct {
	users   []int64 // sorted unique resume ids
	items   []int64 // sorted unique job ids
	userIdx map[int64]int
	itemIdx map[int64]int

	ratings *mat.Dense    // len(users) x len(items)
	sim     *mat.SymDense // len(items) x len(items), zero diagonal

	nnz     int
	builtAt time.Time
}

// Build constructs a model from the full interaction set. Duplicate
// (user, item) pairs collapse to the maximum rating. Interactions with an
// unknown type are skipped. Zero interactions produce an empty model, which
// is valid and predicts 0 for everything.
func Build(interactions []Interaction) *Model {
	ratings := make(map[int64]map[int64]float64)
	for i := range interactions {
		r := Rating(interactions[i].Type)
		if r == 0 {
			continue
		}
		row := ratings[interactions[i].ResumeID]
		if row == nil {
			row = make(map[int64]float64)
			ratings[interactions[i].ResumeID] = row
		}
		if r > row[interactions[i].JobID] {
			row[interactions[i].JobID] = r
		}
	}

	if len(ratings) == 0 {
		return &Model{builtAt: time.Now().UTC()}
	}

	users := make([]int64, 0, len(ratings))
	itemSet := make(map[int64]struct{})
	for u, row := range ratings {
		users = append(users, u)
		for j := range row {
			itemSet[j] = struct{}{}
		}
	}
	items := make([]int64, 0, len(itemSet))
	for j := range itemSet {
		items = append(items, j)
	}
	sort.Slice(users, func(a, b int) bool { return users[a] < users[b] })
	sort.Slice(items, func(a, b int) bool { return items[a] < items[b] })

	m := &Model{
		users:   users,
		items:   items,
		userIdx: indexOf(users),
		itemIdx: indexOf(items),
		builtAt: time.Now().UTC(),
	}

	m.ratings = mat.NewDense(len(users), len(items), nil)
	for u, row := range ratings {
		ui := m.userIdx[u]
		for j, r := range row {
			m.ratings.Set(ui, m.itemIdx[j], r)
			m.nnz++
		}
	}

	m.sim = itemSimilarity(m.ratings)
	return m
}

// indexOf builds an id -> position map for a sorted id slice.
func indexOf(ids []int64) map[int64]int {
	idx := make(map[int64]int, len(ids))
	for i, id := range ids {
		idx[id] = i
	}
	return idx
}

// itemSimilarity computes the item-item cosine similarity matrix from the
// columns of the rating matrix. The diagonal is zeroed so an item is never
// its own neighbor, and zero-norm columns get similarity 0 everywhere
// (never NaN).
func itemSimilarity(ratings *mat.Dense) *mat.SymDense {
	_, n := ratings.Dims()

	// Gram matrix: gram[i][j] = dot(col_i, col_j).
	var gram mat.Dense
	gram.Mul(ratings.T(), ratings)

	norms := make([]float64, n)
	for j := 0; j < n; j++ {
		norms[j] = math.Sqrt(gram.At(j, j))
	}

	sim := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if norms[i] == 0 || norms[j] == 0 {
				continue
			}
			sim.SetSym(i, j, gram.At(i, j)/(norms[i]*norms[j]))
		}
	}
	return sim
}

// Empty reports whether the model has no interactions.
func (m *Model) Empty() bool {
	return m == nil || m.nnz == 0
}

// BuiltAt returns when the model was constructed.
func (m *Model) BuiltAt() time.Time {
	if m == nil {
		return time.Time{}
	}
	return m.builtAt
}

// Predict returns the predicted implicit rating for a (resume, job) pair.
// Unknown resumes or jobs, and pairs where the job has zero similarity to
// everything the resume rated, yield 0 rather than an error: collaborative
// filtering degrades gracefully when data is sparse.
//
// Non-negative ratings keep item-item cosine in [0,1], so the
// similarity-weighted average of ratings in [0,5] stays in [0,5]; no clamp
// is applied.
func (m *Model) Predict(resumeID, jobID int64) float64 {
	if m.Empty() {
		return 0
	}
	ui, ok := m.userIdx[resumeID]
	if !ok {
		return 0
	}
	ii, ok := m.itemIdx[jobID]
	if !ok {
		return 0
	}
	return m.predictIdx(ui, ii)
}

func (m *Model) predictIdx(ui, ii int) float64 {
	var num, den float64
	row := m.ratings.RawRowView(ui)
	for j, r := range row {
		if r == 0 || j == ii {
			continue
		}
		s := m.sim.At(ii, j)
		num += s * r
		den += math.Abs(s)
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// TopN returns the n items with the highest predicted rating among items the
// resume has not interacted with, keeping only predictions > 0. Ordering is
// score descending, ties broken by ascending job id, so output is
// deterministic. An unknown resume yields an empty slice.
func (m *Model) TopN(resumeID int64, n int) []ScoredItem {
	if m.Empty() || n <= 0 {
		return nil
	}
	ui, ok := m.userIdx[resumeID]
	if !ok {
		return nil
	}

	row := m.ratings.RawRowView(ui)
	scored := make([]ScoredItem, 0, len(m.items))
	for ii, jobID := range m.items {
		if row[ii] > 0 {
			continue // already interacted
		}
		if p := m.predictIdx(ui, ii); p > 0 {
			scored = append(scored, ScoredItem{JobID: jobID, Score: p})
		}
	}

	sortScored(scored)
	if len(scored) > n {
		scored = scored[:n]
	}
	return scored
}

// Similar returns the n items most similar to jobID by co-interaction,
// keeping only similarities > 0. An unknown job yields an empty slice.
func (m *Model) Similar(jobID int64, n int) []ScoredItem {
	if m.Empty() || n <= 0 {
		return nil
	}
	ii, ok := m.itemIdx[jobID]
	if !ok {
		return nil
	}

	scored := make([]ScoredItem, 0, len(m.items))
	for j, other := range m.items {
		if j == ii {
			continue
		}
		if s := m.sim.At(ii, j); s > 0 {
			scored = append(scored, ScoredItem{JobID: other, Score: s})
		}
	}

	sortScored(scored)
	if len(scored) > n {
		scored = scored[:n]
	}
	return scored
}

// Knows reports whether the model has at least one similarity signal for the
// job. The engine uses it to decide between collaborative similarity and the
// content fallback on the similar-jobs endpoint.
func (m *Model) Knows(jobID int64) bool {
	if m.Empty() {
		return false
	}
	ii, ok := m.itemIdx[jobID]
	if !ok {
		return false
	}
	for j := range m.items {
		if j != ii && m.sim.At(ii, j) > 0 {
			return true
		}
	}
	return false
}

// Stats returns the model dimensions and sparsity.
func (m *Model) Stats() Stats {
	if m.Empty() {
		return Stats{}
	}
	u, i := len(m.users), len(m.items)
	sparsity := 1 - float64(m.nnz)/float64(u*i)
	return Stats{
		Users:        u,
		Items:        i,
		Interactions: m.nnz,
		Sparsity:     math.Round(sparsity*10000) / 10000,
	}
}

// sortScored orders by score descending, ties by ascending job id.
func sortScored(s []ScoredItem) {
	sort.Slice(s, func(a, b int) bool {
		if s[a].Score != s[b].Score {
			return s[a].Score > s[b].Score
		}
		return s[a].JobID < s[b].JobID
	})
}
