// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
// It provides consistent structure for both successful and error responses, with metadata
// for observability and caching information.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Fields:
//   - Status: Response status ("success" or "error")
//   - Data: Response payload (any JSON-serializable type)
//   - Metadata: Query execution metadata (timing, caching, timestamp)
//   - Error: Error details (populated only when Status is "error")
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"resume_id": 42, "total_count": 10, "recommendations": [...]},
//	  "metadata": {
//	    "timestamp": "2026-08-25T12:00:00Z",
//	    "query_time_ms": 45,
//	    "cached": false
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "Invalid merge strategy",
//	    "details": {"field": "strategy"}
//	  },
//	  "metadata": {"timestamp": "2026-08-25T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability and performance tracking.
// All API responses include this metadata for monitoring query performance and
// cache effectiveness.
//
// Fields:
//   - Timestamp: Server time when response was generated (RFC3339 format)
//   - QueryTimeMS: Recommendation pipeline execution time in milliseconds (0 if cached)
//   - Cached: Whether response was served from cache (omitted if false)
//
// Query time tracking:
//   - Cached responses: QueryTimeMS is 0, Cached is true
//   - Fresh requests: QueryTimeMS shows the full pipeline time (fetch, score, merge, rerank)
//
// Example cache hit:
//
//	{
//	  "timestamp": "2026-08-25T12:00:00Z",
//	  "query_time_ms": 0,
//	  "cached": true
//	}
//
// Example cache miss:
//
//	{
//	  "timestamp": "2026-08-25T12:00:00Z",
//	  "query_time_ms": 23
//	}
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError represents an error response with structured error details.
// Provides consistent error format across all API endpoints for better client handling.
//
// Fields:
//   - Code: Machine-readable error code (e.g., "VALIDATION_ERROR", "NOT_FOUND")
//   - Message: Human-readable error message
//   - Details: Additional context (field names, constraints, etc.)
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - DATABASE_ERROR: Query execution failure
//   - AUTHENTICATION_ERROR: Invalid/missing credentials
//   - AUTHORIZATION_ERROR: Insufficient permissions
//   - NOT_FOUND: Resource doesn't exist
//   - REBUILD_IN_PROGRESS: A model rebuild is already running
//   - RATE_LIMIT_EXCEEDED: Too many requests
//
// Example:
//
//	{
//	  "code": "VALIDATION_ERROR",
//	  "message": "Invalid top_n parameter (must be 1 to 50)",
//	  "details": {
//	    "field": "top_n",
//	    "value": 500,
//	    "constraint": "max_50"
//	  }
//	}
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// LoginRequest represents a login request for JWT authentication.
//
// Fields:
//   - Username: User's login name
//   - Password: User's password (plaintext, transmitted over HTTPS)
//
// Example:
//
//	{
//	  "username": "admin",
//	  "password": "securepassword123"
//	}
//
// Security:
//   - Password is transmitted in plaintext (HTTPS required)
//   - Password is hashed with bcrypt (cost 12) before storage
//   - Rate limited to 5 attempts per minute per IP
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents a successful login response with JWT token.
// Returns a signed JWT token for subsequent authenticated requests.
//
// Fields:
//   - Token: Signed JWT token (HS256 algorithm)
//   - ExpiresAt: Token expiration timestamp
//   - Username: Authenticated username
//   - Role: User's role (viewer, admin)
//
// Example:
//
//	{
//	  "token": "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9...",
//	  "expires_at": "2026-08-26T12:00:00Z",
//	  "username": "admin",
//	  "role": "admin"
//	}
//
// Token usage:
//   - Sent as Authorization: Bearer <token> header
//   - Validated on every protected endpoint
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
}
