// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

// Package testinfra provides test infrastructure for integration testing with containers.
//
// This package uses testcontainers-go to manage Docker containers for integration tests,
// providing realistic testing environments that closely match production.
//
// # Redis Container
//
// The RedisContainer provides a real Redis instance for testing the shared
// response cache backend:
//
//	func TestRedisCache(t *testing.T) {
//	    ctx := context.Background()
//	    rc, err := testinfra.NewRedisContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer rc.Terminate(ctx)
//
//	    c, err := cache.NewRedis(rc.Addr, "", 0, time.Minute)
//	    // Exercise Get/Set/Invalidate against a real server
//	}
//
// # Benefits Over Mocks
//
// Running against a real server validates the actual wire behavior: TTL
// expiry, generation-counter invalidation, and connection error handling,
// with no mock drift.
//
// # CI Considerations
//
// These tests require Docker and network access. In CI:
//   - Self-hosted runners have Docker pre-installed
//   - Container images are cached between runs
//   - Tests are skipped gracefully if Docker is unavailable
//
// # Network Requirements
//
// First run may need to download container images. Subsequent runs use cached images.
package testinfra
