// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

// Package filter applies an operator-supplied CEL expression to merged
// candidates before reranking.
//
// The expression is compiled once at construction and evaluated per
// candidate; a candidate is kept when the expression returns true. The
// variables in scope:
//
//	job_id     int     the candidate's job id
//	relevance  double  the merged relevance score
//	source     string  "content", "collaborative", or "both"
//	similarity double  raw content similarity, 0.0 when absent
//	cf_score   double  raw collaborative score, 0.0 when absent
//
// Examples:
//
//	relevance > 0.2
//	source != "collaborative" || cf_score >= 2.0
//	job_id != 1742
package filter

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/tomtom215/vocatio/internal/recommend/merge"
)

// Filter is a compiled candidate filter. The zero expression (empty string)
// keeps everything. A Filter is immutable and safe for concurrent use.
type Filter struct {
	expr string
	prg  cel.Program
}

// Compile builds a Filter from a CEL expression. An empty expression yields
// a pass-through filter. Compilation errors (syntax, type, or a non-boolean
// result type) are returned so misconfiguration fails at startup, not per
// request.
func Compile(expr string) (*Filter, error) {
	if expr == "" {
		return &Filter{}, nil
	}

	env, err := cel.NewEnv(
		cel.Variable("job_id", cel.IntType),
		cel.Variable("relevance", cel.DoubleType),
		cel.Variable("source", cel.StringType),
		cel.Variable("similarity", cel.DoubleType),
		cel.Variable("cf_score", cel.DoubleType),
	)
	if err != nil {
		return nil, fmt.Errorf("create cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile filter expression: %w", issues.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("filter expression must return bool, got %v", ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build filter program: %w", err)
	}

	return &Filter{expr: expr, prg: prg}, nil
}

// Expression returns the source expression ("" for pass-through).
func (f *Filter) Expression() string {
	return f.expr
}

// Apply returns the candidates the expression keeps, preserving order.
// Evaluation errors on a candidate drop that candidate; the error is
// returned alongside the survivors so callers can log it.
func (f *Filter) Apply(candidates []merge.Candidate) ([]merge.Candidate, error) {
	if f == nil || f.prg == nil {
		return candidates, nil
	}

	kept := make([]merge.Candidate, 0, len(candidates))
	var firstErr error
	for i := range candidates {
		c := &candidates[i]

		similarity := 0.0
		if c.Similarity != nil {
			similarity = *c.Similarity
		}
		cfScore := 0.0
		if c.CFScore != nil {
			cfScore = *c.CFScore
		}

		out, _, err := f.prg.Eval(map[string]any{
			"job_id":     c.JobID,
			"relevance":  c.Relevance,
			"source":     c.Source,
			"similarity": similarity,
			"cf_score":   cfScore,
		})
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("evaluate filter for job %d: %w", c.JobID, err)
			}
			continue
		}
		if keep, ok := out.Value().(bool); ok && keep {
			kept = append(kept, *c)
		}
	}
	return kept, firstErr
}
