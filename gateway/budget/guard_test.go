// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

package budget

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// MockLedger implements Ledger in memory for testing
type MockLedger struct {
	mu      sync.RWMutex
	entries []CostEntry

	// Error injection
	appendErr error
	sumErr    error
	pingErr   error
}

func NewMockLedger() *MockLedger {
	return &MockLedger{}
}

func (m *MockLedger) Append(ctx context.Context, entry *CostEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.appendErr != nil {
		return m.appendErr
	}
	entry.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *MockLedger) SumSince(ctx context.Context, tenantID string, since time.Time) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.sumErr != nil {
		return 0, m.sumErr
	}
	var total int64
	for _, e := range m.entries {
		if e.TenantID == tenantID && !e.CreatedAt.Before(since) {
			total += e.CostCents
		}
	}
	return total, nil
}

func (m *MockLedger) Ping(ctx context.Context) error {
	return m.pingErr
}

// fixedClock pins the guard to mid-month so window edges are stable.
func fixedClock() time.Time {
	return time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
}

func newTestGuard(ledger *MockLedger, policies PolicyResolver) *Guard {
	return NewGuard(ledger, policies).WithClock(fixedClock)
}

func TestCheckAllowsWithinBudget(t *testing.T) {
	g := newTestGuard(NewMockLedger(), nil)

	d, err := g.Check(context.Background(), "tenant-1", 9999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Allowed {
		t.Fatalf("expected allow, got denial with reason %s", d.Reason)
	}
	if d.UsageCents != 0 || d.BudgetCents != 10000 || d.RemainingCents != 10000 {
		t.Errorf("unexpected usage report: %+v", d)
	}
}

func TestCheckDeniesMonthlyExceeded(t *testing.T) {
	g := newTestGuard(NewMockLedger(), nil)

	d, err := g.Check(context.Background(), "tenant-1", 10001)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Allowed {
		t.Fatal("expected denial")
	}
	if d.Reason != ReasonMonthlyExceeded {
		t.Errorf("expected monthly_budget_exceeded, got %s", d.Reason)
	}
	if d.RemainingCents != 10000 {
		t.Errorf("expected remaining 10000, got %d", d.RemainingCents)
	}
}

func TestCheckDeniesDailyExceeded(t *testing.T) {
	ledger := NewMockLedger()
	// 950 cents already spent today
	if err := ledger.Append(context.Background(), &CostEntry{
		TenantID:  "tenant-1",
		Provider:  "mock",
		CostCents: 950,
		CreatedAt: fixedClock().Add(-2 * time.Hour),
	}); err != nil {
		t.Fatal(err)
	}

	g := newTestGuard(ledger, nil)

	d, err := g.Check(context.Background(), "tenant-1", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Allowed {
		t.Fatal("expected denial")
	}
	if d.Reason != ReasonDailyExceeded {
		t.Errorf("expected daily_budget_exceeded, got %s", d.Reason)
	}
	if d.RemainingCents != 50 {
		t.Errorf("expected remaining 50, got %d", d.RemainingCents)
	}
}

func TestCheckWindowPrecedence(t *testing.T) {
	// Spend earlier in the month exceeds the monthly window while today's
	// window is empty: the reported reason must name the monthly window.
	ledger := NewMockLedger()
	if err := ledger.Append(context.Background(), &CostEntry{
		TenantID:  "tenant-1",
		Provider:  "mock",
		CostCents: 9990,
		CreatedAt: fixedClock().AddDate(0, 0, -10),
	}); err != nil {
		t.Fatal(err)
	}

	g := newTestGuard(ledger, nil)

	d, err := g.Check(context.Background(), "tenant-1", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Allowed || d.Reason != ReasonMonthlyExceeded {
		t.Errorf("expected monthly denial, got %+v", d)
	}
	if d.RemainingCents != 10 {
		t.Errorf("expected remaining 10, got %d", d.RemainingCents)
	}
}

func TestCheckIgnoresOtherTenantsAndOldEntries(t *testing.T) {
	ledger := NewMockLedger()
	entries := []CostEntry{
		{TenantID: "tenant-2", CostCents: 99999, CreatedAt: fixedClock().Add(-time.Hour)},
		{TenantID: "tenant-1", CostCents: 5000, CreatedAt: fixedClock().AddDate(0, -2, 0)},
	}
	for i := range entries {
		if err := ledger.Append(context.Background(), &entries[i]); err != nil {
			t.Fatal(err)
		}
	}

	g := newTestGuard(ledger, nil)

	d, err := g.Check(context.Background(), "tenant-1", 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Allowed {
		t.Errorf("expected allow, got denial %+v", d)
	}
	if d.UsageCents != 0 {
		t.Errorf("expected zero usage in window, got %d", d.UsageCents)
	}
}

func TestCheckFailsClosedOnLedgerError(t *testing.T) {
	ledger := NewMockLedger()
	ledger.sumErr = errors.New("connection refused")

	g := newTestGuard(ledger, nil)

	d, err := g.Check(context.Background(), "tenant-1", 1)
	if err == nil {
		t.Fatal("expected error for logging")
	}
	if !errors.Is(err, ErrLedgerUnavailable) {
		t.Errorf("expected ErrLedgerUnavailable, got %v", err)
	}
	if d.Allowed {
		t.Fatal("guard must fail closed, got approval")
	}
	if d.Reason != ReasonCheckFailed {
		t.Errorf("expected budget_check_failed, got %s", d.Reason)
	}
}

func TestCheckPerTenantPolicy(t *testing.T) {
	resolver := NewStaticResolverWith(DefaultPolicy(), map[string]Policy{
		"tenant-big": {MonthlyBudgetCents: 50000, DailyBudgetCents: 5000},
	})
	g := newTestGuard(NewMockLedger(), resolver)

	d, err := g.Check(context.Background(), "tenant-big", 20000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Allowed {
		t.Errorf("expected allow under override policy, got %+v", d)
	}

	d, err = g.Check(context.Background(), "tenant-small", 20000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Allowed || d.Reason != ReasonMonthlyExceeded {
		t.Errorf("expected default-policy denial, got %+v", d)
	}
}

func TestRecordAppendsEntry(t *testing.T) {
	ledger := NewMockLedger()
	g := newTestGuard(ledger, nil)

	entry := &CostEntry{TenantID: "tenant-1", Provider: "mock", CostCents: 0}
	if err := g.Record(context.Background(), entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be stamped")
	}
	if len(ledger.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(ledger.entries))
	}
}

func TestRecordRejectsInvalidEntry(t *testing.T) {
	g := newTestGuard(NewMockLedger(), nil)

	if err := g.Record(context.Background(), nil); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("expected ErrInvalidEntry for nil, got %v", err)
	}
	if err := g.Record(context.Background(), &CostEntry{}); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("expected ErrInvalidEntry for missing tenant, got %v", err)
	}
}

func TestStatusReportsBothWindows(t *testing.T) {
	ledger := NewMockLedger()
	entries := []CostEntry{
		{TenantID: "tenant-1", CostCents: 300, CreatedAt: fixedClock().Add(-time.Hour)},
		{TenantID: "tenant-1", CostCents: 700, CreatedAt: fixedClock().AddDate(0, 0, -5)},
	}
	for i := range entries {
		if err := ledger.Append(context.Background(), &entries[i]); err != nil {
			t.Fatal(err)
		}
	}

	g := newTestGuard(ledger, nil)

	status, err := g.Status(context.Background(), "tenant-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.MonthlyUsageCents != 1000 || status.MonthlyRemainingCents != 9000 {
		t.Errorf("unexpected monthly window: %+v", status)
	}
	if status.DailyUsageCents != 300 || status.DailyRemainingCents != 700 {
		t.Errorf("unexpected daily window: %+v", status)
	}
}
