// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/vocatio/internal/logging"
)

const (
	redisEntryPrefix = "vocatio:rec:"
	redisGenPrefix   = "vocatio:gen:"
)

// Redis is a response cache backed by a shared Redis instance, for
// deployments running multiple server replicas.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(addr, password string, db int, ttl time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return &Redis{client: client, ttl: ttl}, nil
}

// Get returns the cached payload for key, if present and fresh. Redis
// failures degrade to a miss.
func (r *Redis) Get(ctx context.Context, resumeID int64, key string) ([]byte, bool) {
	entryKey, err := r.entryKey(ctx, resumeID, key)
	if err != nil {
		logging.Warn().Err(err).Msg("Redis generation lookup failed, treating as cache miss")
		return nil, false
	}

	payload, err := r.client.Get(ctx, entryKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logging.Warn().Err(err).Msg("Redis get failed, treating as cache miss")
		return nil, false
	}
	return payload, true
}

// Set stores a payload under key with the configured TTL. Failures are
// logged and dropped; the cache is best-effort.
func (r *Redis) Set(ctx context.Context, resumeID int64, key string, payload []byte) {
	entryKey, err := r.entryKey(ctx, resumeID, key)
	if err != nil {
		logging.Warn().Err(err).Msg("Redis generation lookup failed, skipping cache set")
		return
	}
	if err := r.client.Set(ctx, entryKey, payload, r.ttl).Err(); err != nil {
		logging.Warn().Err(err).Msg("Redis set failed")
	}
}

// Invalidate drops every cached entry for the resume by bumping its
// generation counter. Orphaned entries age out via TTL.
func (r *Redis) Invalidate(ctx context.Context, resumeID int64) {
	genKey := fmt.Sprintf("%s%d", redisGenPrefix, resumeID)
	if err := r.client.Incr(ctx, genKey).Err(); err != nil {
		logging.Warn().Err(err).Int64("resume_id", resumeID).Msg("Redis invalidate failed")
	}
}

// Close releases the client.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) entryKey(ctx context.Context, resumeID int64, key string) (string, error) {
	genKey := fmt.Sprintf("%s%d", redisGenPrefix, resumeID)
	gen, err := r.client.Get(ctx, genKey).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return fmt.Sprintf("%s%d:g%d:%s", redisEntryPrefix, resumeID, gen, key), nil
}
