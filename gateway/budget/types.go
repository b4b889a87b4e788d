// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

// Package budget provides admission control over tenant AI spend. It keeps an
// append-only cost ledger and computes rolling day/month windows over it; the
// guard approves or denies a run before any result is synthesized.
package budget

import "time"

// CostEntry is one immutable row of the cost ledger. One entry is appended per
// completed run; corrections are new rows, never updates, so windowed sums stay
// computable from an auditable history.
type CostEntry struct {
	ID        int64                  `json:"id,omitempty"`
	TenantID  string                 `json:"tenant_id"`
	Provider  string                 `json:"provider"`
	CostCents int64                  `json:"cost_cents"`
	Meta      map[string]interface{} `json:"meta,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// Policy is the per-tenant spend limit. Limits are cents over rolling windows
// anchored at the start of the current UTC day and month.
type Policy struct {
	MonthlyBudgetCents int64 `json:"monthly_budget_cents" yaml:"monthly_budget_cents"`
	DailyBudgetCents   int64 `json:"daily_budget_cents" yaml:"daily_budget_cents"`
}

// Default platform limits, applied to tenants without an explicit policy.
const (
	DefaultMonthlyBudgetCents int64 = 10000
	DefaultDailyBudgetCents   int64 = 1000
)

// DefaultPolicy returns the platform default limits.
func DefaultPolicy() Policy {
	return Policy{
		MonthlyBudgetCents: DefaultMonthlyBudgetCents,
		DailyBudgetCents:   DefaultDailyBudgetCents,
	}
}

// DenialReason identifies why the guard refused a run.
type DenialReason string

const (
	ReasonMonthlyExceeded DenialReason = "monthly_budget_exceeded"
	ReasonDailyExceeded   DenialReason = "daily_budget_exceeded"
	ReasonCheckFailed     DenialReason = "budget_check_failed"
)

// Decision is the guard's verdict for one admission check. Usage, budget and
// remaining report the window the decision was made on: the exceeded window on
// denial, the monthly window on approval.
type Decision struct {
	Allowed        bool         `json:"allowed"`
	Reason         DenialReason `json:"reason,omitempty"`
	UsageCents     int64        `json:"usage_cents"`
	BudgetCents    int64        `json:"budget_cents"`
	RemainingCents int64        `json:"remaining_cents"`
}

// Status reports a tenant's current standing in both windows.
type Status struct {
	TenantID              string `json:"tenant_id"`
	MonthlyUsageCents     int64  `json:"monthly_usage_cents"`
	MonthlyBudgetCents    int64  `json:"monthly_budget_cents"`
	MonthlyRemainingCents int64  `json:"monthly_remaining_cents"`
	DailyUsageCents       int64  `json:"daily_usage_cents"`
	DailyBudgetCents      int64  `json:"daily_budget_cents"`
	DailyRemainingCents   int64  `json:"daily_remaining_cents"`
}
