// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

package budget

import "errors"

var (
	// ErrInvalidEntry is returned for a cost entry missing required fields.
	ErrInvalidEntry = errors.New("invalid cost entry")

	// ErrLedgerUnavailable is returned when the ledger store cannot be
	// reached. The guard treats it as a denial, never as an approval.
	ErrLedgerUnavailable = errors.New("cost ledger unavailable")
)
