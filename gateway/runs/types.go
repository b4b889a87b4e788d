// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

// Package runs persists the immutable record of every completed AI run and
// resolves idempotent replays. A run record is written exactly once per
// logically-distinct run, never mutated, and read again only to serve a replay
// for the same idempotency key.
package runs

import (
	"encoding/json"
	"time"
)

// RunStatus is the terminal state recorded for a run.
type RunStatus string

const (
	// StatusCompleted marks a run whose result was synthesized and persisted.
	StatusCompleted RunStatus = "completed"
)

// RunRecord is the append-only audit row for one completed run. Input and
// Result are stored as raw JSON snapshots (already redacted) so a replay can
// return the byte-identical payload the first caller received.
type RunRecord struct {
	ID             string          `json:"id"`
	TenantID       string          `json:"tenant_id"`
	UserID         string          `json:"user_id,omitempty"`
	Tool           string          `json:"tool"`
	Provider       string          `json:"provider"`
	Model          string          `json:"model"`
	LatencyMS      int64           `json:"latency_ms"`
	CostCents      int64           `json:"cost_cents"`
	Status         RunStatus       `json:"status"`
	Input          json.RawMessage `json:"input"`
	Result         json.RawMessage `json:"result"`
	IdempotencyKey string          `json:"idempotency_key"`
	CreatedAt      time.Time       `json:"created_at"`
}
