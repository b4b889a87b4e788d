// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

package budget

import (
	"context"
	"time"
)

// Ledger defines the persistence interface for the cost ledger. The ledger is
// append-only: implementations must not expose updates or deletes.
type Ledger interface {
	// Append inserts one immutable cost entry.
	Append(ctx context.Context, entry *CostEntry) error

	// SumSince returns the total cost in cents recorded for the tenant at or
	// after the given instant.
	SumSince(ctx context.Context, tenantID string, since time.Time) (int64, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error
}
