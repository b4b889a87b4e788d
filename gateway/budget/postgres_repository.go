// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

package budget

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// PostgresLedger implements Ledger on PostgreSQL.
type PostgresLedger struct {
	db *sql.DB
}

// NewPostgresLedger creates a Postgres-backed cost ledger.
func NewPostgresLedger(db *sql.DB) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// EnsureSchema creates the costs table if it does not exist. The table carries
// no update path; the index serves the windowed sums.
func (l *PostgresLedger) EnsureSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS costs (
			id BIGSERIAL PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			provider TEXT NOT NULL,
			cost_cents BIGINT NOT NULL,
			meta JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_costs_tenant_created
			ON costs (tenant_id, created_at);
	`
	if _, err := l.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create costs schema: %w", err)
	}
	return nil
}

// Append implements Ledger.
func (l *PostgresLedger) Append(ctx context.Context, entry *CostEntry) error {
	if entry == nil || entry.TenantID == "" {
		return ErrInvalidEntry
	}

	var meta []byte
	if entry.Meta != nil {
		var err error
		meta, err = json.Marshal(entry.Meta)
		if err != nil {
			return fmt.Errorf("failed to marshal cost entry meta: %w", err)
		}
	}

	query := `
		INSERT INTO costs (tenant_id, provider, cost_cents, meta, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	err := l.db.QueryRowContext(ctx, query,
		entry.TenantID, entry.Provider, entry.CostCents, meta, createdAt,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to append cost entry: %w", err)
	}
	return nil
}

// SumSince implements Ledger.
func (l *PostgresLedger) SumSince(ctx context.Context, tenantID string, since time.Time) (int64, error) {
	query := `
		SELECT COALESCE(SUM(cost_cents), 0)
		FROM costs
		WHERE tenant_id = $1 AND created_at >= $2
	`

	var total int64
	if err := l.db.QueryRowContext(ctx, query, tenantID, since).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum cost window: %w", err)
	}
	return total, nil
}

// Ping implements Ledger.
func (l *PostgresLedger) Ping(ctx context.Context) error {
	return l.db.PingContext(ctx)
}
