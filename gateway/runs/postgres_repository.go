// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

package runs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint breach.
const uniqueViolation = "23505"

// PostgresRepository implements Repository on PostgreSQL.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a Postgres-backed run store.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the runs table if it does not exist. The unique index
// on idempotency_key is what makes at-most-one-visible-result durable under
// concurrent writers.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS runs (
			id UUID PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			user_id TEXT,
			tool TEXT NOT NULL,
			provider TEXT NOT NULL,
			model TEXT NOT NULL,
			latency_ms BIGINT NOT NULL,
			cost_cents BIGINT NOT NULL,
			status TEXT NOT NULL,
			input JSONB NOT NULL,
			result JSONB NOT NULL,
			idempotency_key UUID NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_runs_tenant_created
			ON runs (tenant_id, created_at);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create runs schema: %w", err)
	}
	return nil
}

// Insert implements Repository.
func (r *PostgresRepository) Insert(ctx context.Context, record *RunRecord) error {
	if record == nil || record.ID == "" || record.TenantID == "" || record.IdempotencyKey == "" {
		return ErrInvalidRecord
	}

	query := `
		INSERT INTO runs (
			id, tenant_id, user_id, tool, provider, model, latency_ms,
			cost_cents, status, input, result, idempotency_key, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
		record.CreatedAt = createdAt
	}

	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.TenantID, nullString(record.UserID), record.Tool,
		record.Provider, record.Model, record.LatencyMS, record.CostCents,
		record.Status, []byte(record.Input), []byte(record.Result),
		record.IdempotencyKey, createdAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, record.IdempotencyKey)
		}
		return fmt.Errorf("failed to insert run record: %w", err)
	}
	return nil
}

// GetByIdempotencyKey implements Repository.
func (r *PostgresRepository) GetByIdempotencyKey(ctx context.Context, key string) (*RunRecord, error) {
	query := `
		SELECT id, tenant_id, user_id, tool, provider, model, latency_ms,
			   cost_cents, status, input, result, idempotency_key, created_at
		FROM runs
		WHERE idempotency_key = $1
	`

	var record RunRecord
	var userID sql.NullString
	var input, result []byte

	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&record.ID, &record.TenantID, &userID, &record.Tool,
		&record.Provider, &record.Model, &record.LatencyMS, &record.CostCents,
		&record.Status, &input, &result, &record.IdempotencyKey, &record.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up run by idempotency key: %w", err)
	}

	record.UserID = userID.String
	record.Input = input
	record.Result = result
	return &record, nil
}

// Ping implements Repository.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
