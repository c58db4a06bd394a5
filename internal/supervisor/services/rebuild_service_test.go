// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/vocatio/internal/recommend"
)

type fakeRebuilder struct {
	calls atomic.Int32
	err   error
}

func (f *fakeRebuilder) Rebuild(context.Context) (*recommend.RebuildInfo, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &recommend.RebuildInfo{
		ModelVersion: int64(f.calls.Load()),
		Users:        3,
		Items:        9,
		Interactions: 27,
		Duration:     time.Millisecond,
		RebuiltAt:    time.Now(),
	}, nil
}

type fakeCounter struct {
	mu     sync.Mutex
	since  int64
	resets int
}

func (f *fakeCounter) SinceRebuild() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.since
}

func (f *fakeCounter) ResetSinceRebuild() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.since = 0
	f.resets++
}

func (f *fakeCounter) set(n int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.since = n
}

func (f *fakeCounter) resetCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resets
}

type fakeBroadcaster struct {
	mu       sync.Mutex
	versions []int64
}

func (f *fakeBroadcaster) BroadcastRebuildCompleted(version int64, users, items int, duration time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.versions = append(f.versions, version)
}

func (f *fakeBroadcaster) broadcasts() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.versions...)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.After(timeout)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("condition not met in time")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestRebuildService_StartupRebuild(t *testing.T) {
	t.Parallel()

	engine := &fakeRebuilder{}
	counter := &fakeCounter{}
	broadcaster := &fakeBroadcaster{}
	svc := NewRebuildService(engine, counter, broadcaster, RebuildServiceConfig{
		RebuildOnStartup: true,
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	waitFor(t, 2*time.Second, func() bool { return engine.calls.Load() == 1 })

	if got := broadcaster.broadcasts(); len(got) != 1 || got[0] != 1 {
		t.Errorf("broadcasts = %v, want [1]", got)
	}
	if counter.resetCount() != 1 {
		t.Errorf("counter resets = %d, want 1", counter.resetCount())
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Serve returned %v, want context.Canceled", err)
	}
}

func TestRebuildService_SkipsWhenNoNewInteractions(t *testing.T) {
	t.Parallel()

	engine := &fakeRebuilder{}
	counter := &fakeCounter{} // since == 0: nothing new
	svc := NewRebuildService(engine, counter, nil, RebuildServiceConfig{
		Interval: 10 * time.Millisecond,
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(60 * time.Millisecond)
	if engine.calls.Load() != 0 {
		t.Errorf("rebuilds = %d, want 0 while counter is zero", engine.calls.Load())
	}

	// New interactions arrive; the next tick rebuilds and resets the counter.
	counter.set(4)
	waitFor(t, 2*time.Second, func() bool { return engine.calls.Load() >= 1 })
	waitFor(t, 2*time.Second, func() bool { return counter.SinceRebuild() == 0 })

	cancel()
	<-done
}

func TestRebuildService_InProgressIsNotAFailure(t *testing.T) {
	t.Parallel()

	engine := &fakeRebuilder{err: recommend.ErrRebuildInProgress}
	svc := NewRebuildService(engine, nil, nil, RebuildServiceConfig{
		RebuildOnStartup: true,
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	waitFor(t, 2*time.Second, func() bool { return engine.calls.Load() == 1 })

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Serve returned %v, want context.Canceled", err)
	}
}
