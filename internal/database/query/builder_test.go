// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package query

import (
	"testing"
	"time"
)

func TestWhereBuilder_Empty(t *testing.T) {
	wb := NewWhereBuilder()

	if !wb.IsEmpty() {
		t.Error("Expected new builder to be empty")
	}

	if wb.Count() != 0 {
		t.Errorf("Expected count 0, got %d", wb.Count())
	}

	whereClause, args := wb.Build()
	if whereClause != "1=1" {
		t.Errorf("Expected '1=1' for empty builder, got %q", whereClause)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestWhereBuilder_AddPostedRange(t *testing.T) {
	wb := NewWhereBuilder()
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC)

	wb.AddPostedRange(&since, &until)

	whereClause, args := wb.Build()
	expected := "posted_at >= ? AND posted_at <= ?"
	if whereClause != expected {
		t.Errorf("Expected %q, got %q", expected, whereClause)
	}
	if len(args) != 2 {
		t.Errorf("Expected 2 args, got %d", len(args))
	}
}

func TestWhereBuilder_AddPostedRangeOpenEnded(t *testing.T) {
	wb := NewWhereBuilder()
	since := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	wb.AddPostedRange(&since, nil)

	whereClause, args := wb.Build()
	if whereClause != "posted_at >= ?" {
		t.Errorf("Expected open-ended range, got %q", whereClause)
	}
	if len(args) != 1 {
		t.Errorf("Expected 1 arg, got %d", len(args))
	}
}

func TestWhereBuilder_AddCompanies(t *testing.T) {
	wb := NewWhereBuilder()
	wb.AddCompanies([]string{"Acme", "Globex", "Initech"})

	whereClause, args := wb.Build()
	expected := "company IN (?, ?, ?)"
	if whereClause != expected {
		t.Errorf("Expected %q, got %q", expected, whereClause)
	}
	if len(args) != 3 {
		t.Errorf("Expected 3 args, got %d", len(args))
	}
}

func TestWhereBuilder_AddCompaniesEmpty(t *testing.T) {
	wb := NewWhereBuilder()
	wb.AddCompanies(nil)

	if !wb.IsEmpty() {
		t.Error("Empty company list should not add a clause")
	}
}

func TestWhereBuilder_AddInteractionTypes(t *testing.T) {
	wb := NewWhereBuilder()
	wb.AddInteractionTypes([]string{"view", "apply"})

	whereClause, args := wb.Build()
	expected := "interaction_type IN (?, ?)"
	if whereClause != expected {
		t.Errorf("Expected %q, got %q", expected, whereClause)
	}
	if len(args) != 2 {
		t.Errorf("Expected 2 args, got %d", len(args))
	}
}

func TestWhereBuilder_AddResumeAndJob(t *testing.T) {
	wb := NewWhereBuilder()
	wb.AddResume(7).AddJob(42)

	whereClause, args := wb.Build()
	expected := "resume_id = ? AND job_id = ?"
	if whereClause != expected {
		t.Errorf("Expected %q, got %q", expected, whereClause)
	}
	if len(args) != 2 {
		t.Errorf("Expected 2 args, got %d", len(args))
	}

	// Zero ids are skipped.
	wb2 := NewWhereBuilder()
	wb2.AddResume(0).AddJob(0)
	if !wb2.IsEmpty() {
		t.Error("Zero ids should not add clauses")
	}
}

func TestWhereBuilder_Combined(t *testing.T) {
	wb := NewWhereBuilder()
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	wb.AddPostedRange(&since, nil)
	wb.AddCompanies([]string{"Acme"})
	wb.AddClause("title LIKE ?", "%engineer%")

	whereClause, args := wb.Build()
	expected := "posted_at >= ? AND company IN (?) AND title LIKE ?"
	if whereClause != expected {
		t.Errorf("Expected %q, got %q", expected, whereClause)
	}
	if len(args) != 3 {
		t.Errorf("Expected 3 args, got %d", len(args))
	}
	if wb.Count() != 3 {
		t.Errorf("Expected 3 clauses, got %d", wb.Count())
	}
}

func TestWhereBuilder_BuildWithPrefix(t *testing.T) {
	wb := NewWhereBuilder()
	wb.AddJob(5)

	whereClause, _ := wb.BuildWithPrefix()
	if whereClause != "WHERE job_id = ?" {
		t.Errorf("Expected WHERE prefix, got %q", whereClause)
	}
}
