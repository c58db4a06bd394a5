// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package cf

import (
	"time"

	"gonum.org/v1/gonum/mat"
)

// Snapshot is the gob-portable form of a Model. Only the rating matrix is
// persisted; the similarity matrix is recomputed on restore, which keeps
// snapshot files roughly items-squared smaller and restore deterministic.
type Snapshot struct {
	Users   []int64
	Items   []int64
	Ratings []float64 // row-major, len(Users) x len(Items)
	BuiltAt time.Time
}

// Snapshot extracts a portable copy of the model state.
func (m *Model) Snapshot() *Snapshot {
	if m.Empty() {
		return &Snapshot{BuiltAt: m.BuiltAt()}
	}
	raw := m.ratings.RawMatrix()
	data := make([]float64, len(raw.Data))
	copy(data, raw.Data)
	return &Snapshot{
		Users:   append([]int64(nil), m.users...),
		Items:   append([]int64(nil), m.items...),
		Ratings: data,
		BuiltAt: m.builtAt,
	}
}

// Restore reconstructs a Model from a snapshot, recomputing the item
// similarity matrix. A snapshot with no users restores to an empty model.
func Restore(s *Snapshot) *Model {
	if s == nil || len(s.Users) == 0 || len(s.Items) == 0 {
		return &Model{builtAt: s.builtAtOrNow()}
	}

	m := &Model{
		users:   append([]int64(nil), s.Users...),
		items:   append([]int64(nil), s.Items...),
		userIdx: indexOf(s.Users),
		itemIdx: indexOf(s.Items),
		builtAt: s.BuiltAt,
	}

	data := make([]float64, len(s.Ratings))
	copy(data, s.Ratings)
	m.ratings = mat.NewDense(len(s.Users), len(s.Items), data)

	for _, v := range data {
		if v != 0 {
			m.nnz++
		}
	}

	m.sim = itemSimilarity(m.ratings)
	return m
}

func (s *Snapshot) builtAtOrNow() time.Time {
	if s != nil && !s.BuiltAt.IsZero() {
		return s.BuiltAt
	}
	return time.Now().UTC()
}
