// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

package runs

import "context"

// Repository defines the persistence interface for run records. The store is
// append-only; there is no update or delete.
type Repository interface {
	// Insert persists one run record. Returns ErrDuplicateKey when a record
	// with the same idempotency key already exists.
	Insert(ctx context.Context, record *RunRecord) error

	// GetByIdempotencyKey returns the record for a key, or ErrNotFound.
	GetByIdempotencyKey(ctx context.Context, key string) (*RunRecord, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error
}
