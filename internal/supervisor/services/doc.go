// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

// Package services wraps application components as suture services. Each
// wrapper accepts a small interface rather than the concrete component so
// the supervisor layer stays free of import cycles and the wrappers stay
// testable with fakes.
package services
