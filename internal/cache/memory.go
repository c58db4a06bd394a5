// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

const (
	// numCounters sizes Ristretto's admission policy; roughly 10x the
	// expected live entry count.
	numCounters = 100_000

	// bufferItems is Ristretto's recommended async write buffer size.
	bufferItems = 64
)

// Memory is an in-process response cache backed by Ristretto.
type Memory struct {
	cache *ristretto.Cache[string, []byte]
	ttl   time.Duration

	// gens holds the per-resume generation counters.
	gens sync.Map // int64 -> *atomic.Uint64
}

// NewMemory creates the in-process cache. maxCostBytes bounds the total
// payload size held.
func NewMemory(maxCostBytes int64, ttl time.Duration) (*Memory, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: numCounters,
		MaxCost:     maxCostBytes,
		BufferItems: bufferItems,
	})
	if err != nil {
		return nil, fmt.Errorf("create ristretto cache: %w", err)
	}
	return &Memory{cache: c, ttl: ttl}, nil
}

// Get returns the cached payload for key, if present and fresh.
func (m *Memory) Get(_ context.Context, resumeID int64, key string) ([]byte, bool) {
	return m.cache.Get(m.entryKey(resumeID, key))
}

// Set stores a payload under key with the configured TTL.
func (m *Memory) Set(_ context.Context, resumeID int64, key string, payload []byte) {
	m.cache.SetWithTTL(m.entryKey(resumeID, key), payload, int64(len(payload)), m.ttl)
}

// Invalidate drops every cached entry for the resume by bumping its
// generation. Orphaned entries age out via TTL.
func (m *Memory) Invalidate(_ context.Context, resumeID int64) {
	m.generation(resumeID).Add(1)
}

// Wait blocks until pending async writes are applied. Test hook.
func (m *Memory) Wait() {
	m.cache.Wait()
}

// Close releases the cache.
func (m *Memory) Close() {
	m.cache.Close()
}

func (m *Memory) entryKey(resumeID int64, key string) string {
	return fmt.Sprintf("%d:g%d:%s", resumeID, m.generation(resumeID).Load(), key)
}

func (m *Memory) generation(resumeID int64) *atomic.Uint64 {
	if g, ok := m.gens.Load(resumeID); ok {
		return g.(*atomic.Uint64)
	}
	g, _ := m.gens.LoadOrStore(resumeID, &atomic.Uint64{})
	return g.(*atomic.Uint64)
}
