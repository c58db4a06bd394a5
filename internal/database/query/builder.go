// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

// Package query provides SQL query building utilities for the database
// package. It reduces duplication and keeps parameter handling consistent.
package query

import (
	"fmt"
	"strings"
	"time"
)

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
//
// Example usage:
//
//	wb := query.NewWhereBuilder()
//	wb.AddPostedRange(since, until)
//	wb.AddCompanies([]string{"Acme", "Globex"})
//	whereClause, args := wb.Build()
//	// WHERE posted_at >= ? AND posted_at <= ? AND company IN (?, ?)
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates a new WhereBuilder instance.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []interface{}{},
	}
}

// AddClause adds a raw WHERE clause with its arguments, for conditions not
// covered by a helper.
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddPostedRange adds posting date bounds. Nil dates are skipped, allowing
// open-ended ranges.
func (wb *WhereBuilder) AddPostedRange(since, until *time.Time) *WhereBuilder {
	if since != nil {
		wb.clauses = append(wb.clauses, "posted_at >= ?")
		wb.args = append(wb.args, *since)
	}
	if until != nil {
		wb.clauses = append(wb.clauses, "posted_at <= ?")
		wb.args = append(wb.args, *until)
	}
	return wb
}

// AddCompanies adds a company filter using an IN clause. An empty slice is
// skipped.
func (wb *WhereBuilder) AddCompanies(companies []string) *WhereBuilder {
	if len(companies) > 0 {
		placeholders := make([]string, len(companies))
		for i, company := range companies {
			placeholders[i] = "?"
			wb.args = append(wb.args, company)
		}
		wb.clauses = append(wb.clauses, fmt.Sprintf("company IN (%s)", strings.Join(placeholders, ", ")))
	}
	return wb
}

// AddInteractionTypes adds an interaction type filter using an IN clause.
// An empty slice is skipped.
func (wb *WhereBuilder) AddInteractionTypes(types []string) *WhereBuilder {
	if len(types) > 0 {
		placeholders := make([]string, len(types))
		for i, t := range types {
			placeholders[i] = "?"
			wb.args = append(wb.args, t)
		}
		wb.clauses = append(wb.clauses, fmt.Sprintf("interaction_type IN (%s)", strings.Join(placeholders, ", ")))
	}
	return wb
}

// AddResume adds a resume_id equality filter. Zero is skipped.
func (wb *WhereBuilder) AddResume(resumeID int64) *WhereBuilder {
	if resumeID > 0 {
		wb.clauses = append(wb.clauses, "resume_id = ?")
		wb.args = append(wb.args, resumeID)
	}
	return wb
}

// AddJob adds a job_id equality filter. Zero is skipped.
func (wb *WhereBuilder) AddJob(jobID int64) *WhereBuilder {
	if jobID > 0 {
		wb.clauses = append(wb.clauses, "job_id = ?")
		wb.args = append(wb.args, jobID)
	}
	return wb
}

// Build constructs the final WHERE clause and returns it with arguments.
// Clauses are joined with "AND". Returns ("1=1", []) if no clauses were
// added.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", []interface{}{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns the WHERE clause with a "WHERE " prefix.
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}

// Count returns the number of clauses added to the builder.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty reports whether no clauses have been added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}
