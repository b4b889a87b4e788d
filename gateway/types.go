// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

// Package gateway is the admission-and-execution endpoint for AI tool runs.
// It validates tenant requests, enforces idempotency and spend budgets,
// redacts PII, synthesizes results and records an immutable audit trail.
package gateway

import (
	"encoding/json"

	"entrevia/platform/gateway/synth"
)

// RunRequestBody is the raw wire shape of POST /ai/run before validation.
type RunRequestBody struct {
	Tool           string      `json:"tool"`
	Input          synth.Input `json:"input"`
	Context        synth.Scope `json:"context"`
	Policy         RunPolicy   `json:"policy"`
	IdempotencyKey string      `json:"idempotencyKey"`
}

// RunPolicy carries the caller's execution preferences.
type RunPolicy struct {
	// AllowPaid permits routing to paid providers once live execution lands.
	AllowPaid bool `json:"allowPaid"`

	// PreferProvider hints the dispatcher; one of the known provider names.
	PreferProvider string `json:"preferProvider,omitempty"`

	// MaxLatencyMS bounds synthesis as a context deadline.
	MaxLatencyMS *int64 `json:"maxLatencyMs,omitempty"`

	// BudgetCents caps the estimated cost admitted for this run.
	BudgetCents *int64 `json:"budgetCents,omitempty"`

	// Region pins execution to a data region.
	Region string `json:"region,omitempty"`
}

// RunRequest is a validated run request. Construction goes through
// ValidateRunRequest; handlers never build one directly from the wire.
type RunRequest struct {
	Tool           synth.Tool
	Input          synth.Input
	Scope          synth.Scope
	Policy         RunPolicy
	IdempotencyKey string
}

// RunMeta is the metering block returned with every run result, replayed
// byte-identically for idempotent hits.
type RunMeta struct {
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	LatencyMS int64  `json:"latencyMs"`
	CostCents int64  `json:"costCents"`
}

// RunResponse is the success envelope of POST /ai/run.
type RunResponse struct {
	Status string          `json:"status"`
	Result json.RawMessage `json:"result"`
	Meta   RunMeta         `json:"meta"`
}

// FieldError is one field-level validation diagnostic.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the error envelope for non-2xx responses.
type ErrorResponse struct {
	Status string       `json:"status"`
	Error  string       `json:"error"`
	Detail string       `json:"detail,omitempty"`
	Fields []FieldError `json:"fields,omitempty"`
	Budget interface{}  `json:"budget,omitempty"`
}
