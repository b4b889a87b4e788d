// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

package runs

import "errors"

var (
	// ErrNotFound is returned when no run exists for a key.
	ErrNotFound = errors.New("run not found")

	// ErrDuplicateKey is returned when an insert loses the race on the
	// idempotency-key unique constraint. The caller must re-read and serve
	// the winner's record.
	ErrDuplicateKey = errors.New("duplicate idempotency key")

	// ErrInvalidRecord is returned for a record missing required fields.
	ErrInvalidRecord = errors.New("invalid run record")
)
