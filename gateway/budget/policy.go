// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

package budget

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PolicyResolver resolves the spend policy for a tenant. Resolution is
// independent of the guard so limits can move from static configuration to a
// tenant database without touching admission logic.
type PolicyResolver interface {
	Resolve(ctx context.Context, tenantID string) (Policy, error)
}

// StaticResolver serves per-tenant overrides on top of a default policy.
type StaticResolver struct {
	defaults  Policy
	overrides map[string]Policy
}

// NewStaticResolver creates a resolver with platform defaults and no overrides.
func NewStaticResolver() *StaticResolver {
	return &StaticResolver{
		defaults:  DefaultPolicy(),
		overrides: make(map[string]Policy),
	}
}

// NewStaticResolverWith creates a resolver with explicit defaults and overrides.
func NewStaticResolverWith(defaults Policy, overrides map[string]Policy) *StaticResolver {
	if overrides == nil {
		overrides = make(map[string]Policy)
	}
	return &StaticResolver{defaults: defaults, overrides: overrides}
}

// Resolve implements PolicyResolver.
func (r *StaticResolver) Resolve(_ context.Context, tenantID string) (Policy, error) {
	if p, ok := r.overrides[tenantID]; ok {
		return p, nil
	}
	return r.defaults, nil
}

// policyFile is the on-disk shape of a budget policy file.
type policyFile struct {
	Default *Policy           `yaml:"default"`
	Tenants map[string]Policy `yaml:"tenants"`
}

// LoadPolicyFile reads per-tenant budget overrides from a YAML file:
//
//	default:
//	  monthly_budget_cents: 10000
//	  daily_budget_cents: 1000
//	tenants:
//	  acme:
//	    monthly_budget_cents: 50000
//	    daily_budget_cents: 5000
//
// Tenants absent from the file get the default policy.
func LoadPolicyFile(path string) (*StaticResolver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read budget policy file: %w", err)
	}

	var pf policyFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse budget policy file: %w", err)
	}

	defaults := DefaultPolicy()
	if pf.Default != nil {
		defaults = *pf.Default
	}
	if err := validatePolicy(defaults); err != nil {
		return nil, fmt.Errorf("default policy: %w", err)
	}
	for tenant, p := range pf.Tenants {
		if err := validatePolicy(p); err != nil {
			return nil, fmt.Errorf("tenant %q policy: %w", tenant, err)
		}
	}

	return NewStaticResolverWith(defaults, pf.Tenants), nil
}

func validatePolicy(p Policy) error {
	if p.MonthlyBudgetCents < 0 || p.DailyBudgetCents < 0 {
		return fmt.Errorf("budget limits must be non-negative (monthly=%d daily=%d)",
			p.MonthlyBudgetCents, p.DailyBudgetCents)
	}
	return nil
}
