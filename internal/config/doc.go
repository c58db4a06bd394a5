// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

// Package config loads and validates application configuration.
//
// Configuration is layered with Koanf v2: built-in defaults, then an
// optional YAML config file, then environment variables. Validation runs
// once after loading; a misconfigured process refuses to start rather than
// degrading at request time.
package config
