// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

package runs

import (
	"context"
	"errors"
	"fmt"

	"entrevia/platform/shared/logger"
)

// Resolver couples idempotent-replay lookup with the write of new records.
// Replay is keyed purely on the token: whatever tool or input the second
// caller sends, a hit returns the stored result and metadata unchanged.
type Resolver struct {
	repo  Repository
	cache *ReplayCache // optional
	log   *logger.Logger
}

// NewResolver creates a resolver over the run store. cache may be nil.
func NewResolver(repo Repository, cache *ReplayCache, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.New("runs")
	}
	return &Resolver{repo: repo, cache: cache, log: log}
}

// Resolve looks up a prior completed run by idempotency key. It returns
// (nil, nil) when no run exists and the pipeline should proceed to execute.
// Cache faults fall through to the store; only a store fault is an error.
func (r *Resolver) Resolve(ctx context.Context, key string) (*RunRecord, error) {
	if r.cache != nil {
		record, err := r.cache.Get(ctx, key)
		if err != nil {
			r.log.Warn("", "", "replay cache lookup failed, falling back to store",
				map[string]interface{}{"error": err.Error()})
		} else if record != nil {
			return record, nil
		}
	}

	record, err := r.repo.GetByIdempotencyKey(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("idempotency lookup failed: %w", err)
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, record); err != nil {
			r.log.Warn(record.TenantID, "", "replay cache backfill failed",
				map[string]interface{}{"error": err.Error()})
		}
	}
	return record, nil
}

// Record persists a newly completed run. When the insert loses the race on the
// unique constraint, the winner's record is re-read and returned with
// replayed=true so the losing request serves the winner's result instead of
// erroring out or double-reporting the run.
func (r *Resolver) Record(ctx context.Context, record *RunRecord) (stored *RunRecord, replayed bool, err error) {
	insertErr := r.repo.Insert(ctx, record)
	if insertErr == nil {
		r.cacheCompleted(ctx, record)
		return record, false, nil
	}

	if !errors.Is(insertErr, ErrDuplicateKey) {
		return nil, false, fmt.Errorf("failed to record run: %w", insertErr)
	}

	winner, getErr := r.repo.GetByIdempotencyKey(ctx, record.IdempotencyKey)
	if getErr != nil {
		return nil, false, fmt.Errorf("lost idempotency race but could not read winner: %w", getErr)
	}

	r.log.Info(record.TenantID, "", "idempotency race lost, serving winner's record",
		map[string]interface{}{"idempotency_key": record.IdempotencyKey, "winner_run_id": winner.ID})
	r.cacheCompleted(ctx, winner)
	return winner, true, nil
}

func (r *Resolver) cacheCompleted(ctx context.Context, record *RunRecord) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, record); err != nil {
		r.log.Warn(record.TenantID, "", "replay cache store failed",
			map[string]interface{}{"error": err.Error()})
	}
}

// IsHealthy reports whether the run store is reachable.
func (r *Resolver) IsHealthy(ctx context.Context) bool {
	return r.repo.Ping(ctx) == nil
}
