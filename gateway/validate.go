// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"strings"

	"github.com/google/uuid"

	"entrevia/platform/gateway/synth"
)

// Known provider hints and data regions for policy validation.
var (
	knownProviders = map[string]bool{
		"openai":    true,
		"anthropic": true,
		"bedrock":   true,
		"gemini":    true,
	}
	knownRegions = map[string]bool{
		"us":    true,
		"eu":    true,
		"latam": true,
	}
)

// ValidateRunRequest checks the wire body structurally and semantically and
// returns a typed request, or every violated field at once — a client gets one
// round trip to fix its payload, not one per field. This stage never touches
// a store.
func ValidateRunRequest(body *RunRequestBody) (*RunRequest, []FieldError) {
	var fields []FieldError

	tool, ok := synth.ParseTool(body.Tool)
	if !ok {
		fields = append(fields, FieldError{
			Field:   "tool",
			Message: "must be one of: " + toolList(),
		})
	}

	if strings.TrimSpace(body.Context.TenantID) == "" {
		fields = append(fields, FieldError{
			Field:   "context.tenantId",
			Message: "is required",
		})
	}

	if !isCanonicalUUID(body.IdempotencyKey) {
		fields = append(fields, FieldError{
			Field:   "idempotencyKey",
			Message: "must be a canonical UUID",
		})
	}

	if body.Policy.MaxLatencyMS != nil && *body.Policy.MaxLatencyMS <= 0 {
		fields = append(fields, FieldError{
			Field:   "policy.maxLatencyMs",
			Message: "must be a positive integer",
		})
	}

	if body.Policy.BudgetCents != nil && *body.Policy.BudgetCents < 0 {
		fields = append(fields, FieldError{
			Field:   "policy.budgetCents",
			Message: "must be non-negative",
		})
	}

	if body.Policy.PreferProvider != "" && !knownProviders[body.Policy.PreferProvider] {
		fields = append(fields, FieldError{
			Field:   "policy.preferProvider",
			Message: "unknown provider",
		})
	}

	if body.Policy.Region != "" && !knownRegions[body.Policy.Region] {
		fields = append(fields, FieldError{
			Field:   "policy.region",
			Message: "unknown region",
		})
	}

	if len(fields) > 0 {
		return nil, fields
	}

	input := body.Input
	if input.Language == "" {
		input.Language = "es"
	}

	return &RunRequest{
		Tool:           tool,
		Input:          input,
		Scope:          body.Context,
		Policy:         body.Policy,
		IdempotencyKey: strings.ToLower(body.IdempotencyKey),
	}, nil
}

// isCanonicalUUID accepts only the 36-char hyphenated textual form. uuid.Parse
// alone also takes URN and braced variants, which are not valid tokens here.
func isCanonicalUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func toolList() string {
	tools := synth.AllTools()
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}
