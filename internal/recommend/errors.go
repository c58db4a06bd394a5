// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package recommend

import (
	"errors"
	"fmt"
)

// ErrRebuildInProgress is returned by Rebuild when another rebuild holds the
// build lock. Concurrent rebuilds are rejected, never queued.
var ErrRebuildInProgress = errors.New("model rebuild already in progress")

// NotFoundError reports a missing entity (typically a resume or job with no
// stored embedding or metadata). Callers match it with errors.As to map the
// failure to a 404 at the API boundary.
type NotFoundError struct {
	// Kind names the entity class: "resume", "job", "embedding".
	Kind string

	// ID is the identifier that was looked up.
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// ValidationError reports a rejected request parameter. The engine validates
// before the pipeline runs; a ValidationError means no partial work happened.
type ValidationError struct {
	// Field is the offending request parameter in its wire spelling
	// (e.g. "strategy", "top_n", "diversity_weight").
	Field string

	// Message explains the constraint that was violated.
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
