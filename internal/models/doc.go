// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

/*
Package models defines data structures for the Vocatio application.

This package contains all data models shared across package boundaries:
API request/response structures, the standardized response envelope, and the
domain objects exchanged between the API layer, the database layer, and the
recommendation engine. It serves as the single source of truth for data
structure definitions.

Key Components:

  - Job: Job posting catalog entry
  - Interaction: Recorded user action on a posting (view, click, save, like, apply)
  - Recommendation / RecommendationList: Recommendation endpoint payloads
  - DiversityReport: Pairwise-similarity analysis of a recommendation list
  - EngineStats: Content, collaborative, and hybrid engine statistics
  - APIResponse / APIError / Metadata: Standardized API response wrapper

Usage Example - API Response:

	import "github.com/tomtom215/vocatio/internal/models"

	// Success response
	response := models.APIResponse{
	    Status: "success",
	    Data: models.RecommendationList{
	        ResumeID:        42,
	        TotalCount:      10,
	        Strategy:        "weighted",
	        Recommendations: items,
	        GeneratedAt:     time.Now().UTC(),
	    },
	    Metadata: models.Metadata{
	        Timestamp:   time.Now().UTC(),
	        QueryTimeMS: 45,
	    },
	}

	json.NewEncoder(w).Encode(response)

	// Error response
	errorResponse := models.APIResponse{
	    Status: "error",
	    Error: &models.APIError{
	        Code:    "VALIDATION_ERROR",
	        Message: "Invalid merge strategy",
	        Details: map[string]interface{}{
	            "field": "strategy",
	        },
	    },
	}

Optional Score Fields:

Recommendation uses pointer fields (Similarity, CFScore, FinalScore, ...) so
that scores a given pipeline stage did not produce are omitted from the JSON
output rather than reported as zero. A zero similarity is a meaningful value;
an absent one is not.

Thread Safety:

All models are:
  - Immutable after creation (pass-by-value or pointers)
  - Safe for concurrent read access
  - No internal mutexes needed (data structures only)

JSON Marshaling:

All models support JSON serialization:
  - Struct tags use snake_case field naming
  - Omitempty tags for optional fields
  - time.Time uses RFC3339 format

See Also:

  - internal/database: Database operations using these models
  - internal/api: API handlers returning these models
  - internal/recommend: Engine types converted to these payloads at the API boundary
*/
package models
