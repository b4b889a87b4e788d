// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

package budget

import (
	"context"
	"fmt"
	"time"
)

// Guard decides whether a tenant may start a run with the given cost estimate.
// Windows are checked monthly first, then daily; either window alone is enough
// to deny. A ledger error during the check denies with budget_check_failed —
// an infra fault must never translate into unmetered spend.
//
// Enforcement is approximate under concurrency: two requests from the same
// tenant can both pass before either's cost entry becomes visible. Tightening
// that would need a serialized per-tenant admission queue.
type Guard struct {
	ledger   Ledger
	policies PolicyResolver
	now      func() time.Time
}

// NewGuard creates a guard over the given ledger and policy resolver.
func NewGuard(ledger Ledger, policies PolicyResolver) *Guard {
	if policies == nil {
		policies = NewStaticResolver()
	}
	return &Guard{
		ledger:   ledger,
		policies: policies,
		now:      time.Now,
	}
}

// WithClock overrides the guard's clock. Used by tests to pin window edges.
func (g *Guard) WithClock(now func() time.Time) *Guard {
	g.now = now
	return g
}

// Check runs the admission decision for one prospective run. The returned
// error is non-nil only for infrastructure failures; the decision is then
// already a fail-closed denial and the error exists for logging.
func (g *Guard) Check(ctx context.Context, tenantID string, estimateCents int64) (Decision, error) {
	policy, err := g.policies.Resolve(ctx, tenantID)
	if err != nil {
		return Decision{Allowed: false, Reason: ReasonCheckFailed},
			fmt.Errorf("failed to resolve budget policy: %w", err)
	}

	now := g.now().UTC()

	monthUsage, err := g.ledger.SumSince(ctx, tenantID, startOfMonth(now))
	if err != nil {
		return Decision{Allowed: false, Reason: ReasonCheckFailed},
			fmt.Errorf("%w: monthly window sum: %v", ErrLedgerUnavailable, err)
	}
	if monthUsage+estimateCents > policy.MonthlyBudgetCents {
		return Decision{
			Allowed:        false,
			Reason:         ReasonMonthlyExceeded,
			UsageCents:     monthUsage,
			BudgetCents:    policy.MonthlyBudgetCents,
			RemainingCents: policy.MonthlyBudgetCents - monthUsage,
		}, nil
	}

	dayUsage, err := g.ledger.SumSince(ctx, tenantID, startOfDay(now))
	if err != nil {
		return Decision{Allowed: false, Reason: ReasonCheckFailed},
			fmt.Errorf("%w: daily window sum: %v", ErrLedgerUnavailable, err)
	}
	if dayUsage+estimateCents > policy.DailyBudgetCents {
		return Decision{
			Allowed:        false,
			Reason:         ReasonDailyExceeded,
			UsageCents:     dayUsage,
			BudgetCents:    policy.DailyBudgetCents,
			RemainingCents: policy.DailyBudgetCents - dayUsage,
		}, nil
	}

	return Decision{
		Allowed:        true,
		UsageCents:     monthUsage,
		BudgetCents:    policy.MonthlyBudgetCents,
		RemainingCents: policy.MonthlyBudgetCents - monthUsage,
	}, nil
}

// Record appends the cost of a completed run to the ledger.
func (g *Guard) Record(ctx context.Context, entry *CostEntry) error {
	if entry == nil || entry.TenantID == "" {
		return ErrInvalidEntry
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = g.now().UTC()
	}
	if err := g.ledger.Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to append cost entry: %w", err)
	}
	return nil
}

// Status reports a tenant's standing in both windows.
func (g *Guard) Status(ctx context.Context, tenantID string) (*Status, error) {
	policy, err := g.policies.Resolve(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve budget policy: %w", err)
	}

	now := g.now().UTC()

	monthUsage, err := g.ledger.SumSince(ctx, tenantID, startOfMonth(now))
	if err != nil {
		return nil, fmt.Errorf("%w: monthly window sum: %v", ErrLedgerUnavailable, err)
	}
	dayUsage, err := g.ledger.SumSince(ctx, tenantID, startOfDay(now))
	if err != nil {
		return nil, fmt.Errorf("%w: daily window sum: %v", ErrLedgerUnavailable, err)
	}

	return &Status{
		TenantID:              tenantID,
		MonthlyUsageCents:     monthUsage,
		MonthlyBudgetCents:    policy.MonthlyBudgetCents,
		MonthlyRemainingCents: policy.MonthlyBudgetCents - monthUsage,
		DailyUsageCents:       dayUsage,
		DailyBudgetCents:      policy.DailyBudgetCents,
		DailyRemainingCents:   policy.DailyBudgetCents - dayUsage,
	}, nil
}

// IsHealthy reports whether the ledger store is reachable.
func (g *Guard) IsHealthy(ctx context.Context) bool {
	return g.ledger.Ping(ctx) == nil
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
