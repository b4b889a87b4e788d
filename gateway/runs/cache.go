// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

package runs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const replayKeyPrefix = "entrevia:run:idem:"

// ReplayCache keeps recently completed run records in Redis keyed by
// idempotency key, so hot replays skip the relational store. The cache is a
// read-through optimization only: a miss or a Redis fault falls through to the
// store, never to re-execution.
type ReplayCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReplayCache creates a replay cache with the given TTL. A zero TTL
// defaults to 24 hours.
func NewReplayCache(client *redis.Client, ttl time.Duration) *ReplayCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ReplayCache{client: client, ttl: ttl}
}

// Get returns the cached record for a key, or (nil, nil) on a miss.
func (c *ReplayCache) Get(ctx context.Context, key string) (*RunRecord, error) {
	data, err := c.client.Get(ctx, replayKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("replay cache get: %w", err)
	}

	var record RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("replay cache decode: %w", err)
	}
	return &record, nil
}

// Set stores a completed record under its idempotency key.
func (c *ReplayCache) Set(ctx context.Context, record *RunRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("replay cache encode: %w", err)
	}
	if err := c.client.Set(ctx, replayKeyPrefix+record.IdempotencyKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("replay cache set: %w", err)
	}
	return nil
}
