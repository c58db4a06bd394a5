// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

// Package query provides SQL query building utilities for the database package.
//
// This package reduces code duplication and provides type-safe query construction
// for parameterized SQL WHERE clauses. It ensures consistent parameter handling
// and prevents SQL injection vulnerabilities.
//
// # Overview
//
// The WhereBuilder is the primary component, providing a fluent interface for
// constructing WHERE clauses with properly parameterized queries:
//
//	wb := query.NewWhereBuilder()
//	wb.AddPostedRange(since, until)
//	wb.AddCompanies([]string{"Acme", "Globex"})
//	wb.AddInteractionTypes([]string{"view", "apply"})
//	whereClause, args := wb.Build()
//
// All values are bound as placeholder arguments; no user input is ever
// interpolated into the SQL text.
package query
