// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"errors"
	"fmt"

	"entrevia/platform/gateway/budget"
)

var (
	// ErrPersistenceFailure marks a run whose result was computed but whose
	// audit writes failed. The result is discarded rather than returned
	// without a durable trail.
	ErrPersistenceFailure = errors.New("run persistence failure")
)

// BudgetDenialError carries the guard's decision up to the handler. It is a
// terminal, reportable outcome, not an internal fault.
type BudgetDenialError struct {
	Decision budget.Decision
	// Cause is the underlying infrastructure error for budget_check_failed
	// denials; nil for plain budget exhaustion.
	Cause error
}

// Error implements error.
func (e *BudgetDenialError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("budget check failed: %v", e.Cause)
	}
	return fmt.Sprintf("budget denied: %s", e.Decision.Reason)
}

// Unwrap exposes the infrastructure cause, if any.
func (e *BudgetDenialError) Unwrap() error { return e.Cause }
