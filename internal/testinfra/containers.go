// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

//go:build integration

package testinfra

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
)

// SkipIfNoDocker skips the test if Docker is not available.
// This allows tests to run gracefully in environments without Docker.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	if !IsDockerAvailable() {
		t.Skip("Skipping test: Docker not available")
	}
}

// IsDockerAvailable checks if Docker daemon is running and accessible.
func IsDockerAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "docker", "info")
	return cmd.Run() == nil
}

// ContainerLogger adapts testcontainers logging to testing.T.
type ContainerLogger struct {
	t *testing.T
}

// NewContainerLogger creates a logger that outputs to testing.T.
func NewContainerLogger(t *testing.T) *ContainerLogger {
	return &ContainerLogger{t: t}
}

// Printf implements testcontainers.Logging interface.
func (l *ContainerLogger) Printf(format string, v ...interface{}) {
	l.t.Logf(format, v...)
}

// CleanupContainer is a helper for deferred container cleanup that logs errors.
func CleanupContainer(t *testing.T, ctx context.Context, container testcontainers.Container) {
	t.Helper()

	if container != nil {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	}
}
