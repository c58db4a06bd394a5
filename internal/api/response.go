// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/vocatio/internal/logging"
	"github.com/tomtom215/vocatio/internal/models"
	"github.com/tomtom215/vocatio/internal/recommend"
	"github.com/tomtom215/vocatio/internal/validation"
)

// sanitizeLogValue removes control characters from strings so attacker
// supplied values cannot forge log entries.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with an FNV-1a ETag.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Vary", "Accept-Encoding")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates a weak validator from the body using FNV-1a.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// respondSuccess wraps data in the success envelope. started stamps the
// query-time metadata; cached marks responses served from the response cache.
func respondSuccess(w http.ResponseWriter, status int, data interface{}, started time.Time, cached bool) {
	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(started).Milliseconds(),
			Cached:      cached,
		},
	})
}

// respondError sends an error envelope.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", sanitizeLogValue(code)).Str("error", sanitizeLogValue(err.Error())).Msg("API error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondAPIError sends an error envelope carrying field-level details.
func respondAPIError(w http.ResponseWriter, status int, apiErr *models.APIError) {
	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: apiErr,
	})
}

// respondEngineError maps recommend package errors onto HTTP statuses:
// ValidationError → 400, NotFoundError → 404, ErrRebuildInProgress → 409,
// anything else → 500.
func respondEngineError(w http.ResponseWriter, err error) {
	var valErr *recommend.ValidationError
	if errors.As(err, &valErr) {
		respondAPIError(w, http.StatusBadRequest, &models.APIError{
			Code:    "VALIDATION_ERROR",
			Message: valErr.Message,
			Details: map[string]interface{}{"field": valErr.Field},
		})
		return
	}
	if recommend.IsNotFound(err) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
		return
	}
	if errors.Is(err, recommend.ErrRebuildInProgress) {
		respondError(w, http.StatusConflict, "REBUILD_IN_PROGRESS", "A model rebuild is already running", nil)
		return
	}
	respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Recommendation engine failure", err)
}

// validateRequest runs struct validation and converts failures into the
// VALIDATION_ERROR envelope shape.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	// Convert validation error to API error format
	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// getIntParam extracts an integer query parameter with a default value.
// A value that is present but not an integer is a caller error.
func getIntParam(r *http.Request, key string, defaultValue int) (int, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("query parameter %s must be an integer", key)
	}

	return intValue, nil
}

// getFloatParam extracts an optional float query parameter. Absent values
// return nil so downstream defaults apply; malformed values are a caller
// error.
func getFloatParam(r *http.Request, key string) (*float64, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil, nil
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("query parameter %s must be a number", key)
	}

	return &f, nil
}

// getBoolParam extracts a boolean query parameter with a default value.
// A value that is present but not a boolean is a caller error.
func getBoolParam(r *http.Request, key string, defaultValue bool) (bool, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue, nil
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("query parameter %s must be a boolean", key)
	}

	return b, nil
}

// respondInvalidParam rejects a request whose query string fails to parse,
// naming the offending parameter.
func respondInvalidParam(w http.ResponseWriter, err error) {
	respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
}

// pathID parses a positive int64 path segment.
func pathID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", value)
	}
	if id <= 0 {
		return 0, fmt.Errorf("must be positive: %d", id)
	}
	return id, nil
}
