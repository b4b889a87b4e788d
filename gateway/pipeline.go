// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"entrevia/platform/gateway/budget"
	"entrevia/platform/gateway/runs"
	"entrevia/platform/gateway/synth"
	"entrevia/platform/shared/logger"
)

// Pipeline runs one admission-and-execution flow per request. Stages execute
// strictly sequentially; the only shared resource across concurrent requests
// is the persistent store.
type Pipeline struct {
	resolver    *runs.Resolver
	guard       *budget.Guard
	sanitizer   *Sanitizer
	synthesizer synth.Synthesizer
	log         *logger.Logger
	now         func() time.Time
}

// NewPipeline wires the pipeline stages together. All collaborators are fixed
// at construction; nothing is read from the environment at request time.
func NewPipeline(resolver *runs.Resolver, guard *budget.Guard, sanitizer *Sanitizer,
	synthesizer synth.Synthesizer, log *logger.Logger) *Pipeline {
	if sanitizer == nil {
		sanitizer = NewSanitizer()
	}
	if log == nil {
		log = logger.New("gateway")
	}
	return &Pipeline{
		resolver:    resolver,
		guard:       guard,
		sanitizer:   sanitizer,
		synthesizer: synthesizer,
		log:         log,
		now:         time.Now,
	}
}

// WithClock overrides the pipeline's clock. Used by tests.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Execute runs the full pipeline for a validated request.
//
// Error contract: a *BudgetDenialError is a terminal reported denial;
// synth.ErrNotImplemented refuses live execution; ErrPersistenceFailure wraps
// audit-write faults (the computed result is discarded); anything else is an
// unexpected failure.
func (p *Pipeline) Execute(ctx context.Context, req *RunRequest, requestID string) (*RunResponse, error) {
	tenantID := req.Scope.TenantID

	// Replay is keyed purely on the token: a hit returns the stored result
	// and metadata no matter what this request's body says.
	prior, err := p.resolver.Resolve(ctx, req.IdempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("idempotency resolution: %w", err)
	}
	if prior != nil {
		promReplayHitsTotal.Inc()
		promRunsTotal.WithLabelValues(prior.Tool, "replayed").Inc()
		p.log.Info(tenantID, requestID, "run replayed from prior record", map[string]interface{}{
			"run_id": prior.ID,
			"tool":   prior.Tool,
		})
		return responseFromRecord(prior), nil
	}

	estimate := estimateCostCents(req)
	decision, checkErr := p.guard.Check(ctx, tenantID, estimate)
	if !decision.Allowed {
		promBudgetDenialsTotal.WithLabelValues(string(decision.Reason)).Inc()
		if checkErr != nil {
			p.log.Error(tenantID, requestID, "budget check failed, denying", map[string]interface{}{
				"error": checkErr.Error(),
			})
		}
		return nil, &BudgetDenialError{Decision: decision, Cause: checkErr}
	}

	input := p.sanitizeInput(tenantID, requestID, req.Input)

	synthCtx := ctx
	if req.Policy.MaxLatencyMS != nil {
		var cancel context.CancelFunc
		synthCtx, cancel = context.WithTimeout(ctx, time.Duration(*req.Policy.MaxLatencyMS)*time.Millisecond)
		defer cancel()
	}

	started := p.now()
	outcome, err := p.synthesizer.Synthesize(synthCtx, req.Tool, input, req.Scope)
	latencyMS := p.now().Sub(started).Milliseconds()
	if err != nil {
		if errors.Is(err, synth.ErrNotImplemented) {
			promRunsTotal.WithLabelValues(req.Tool.String(), "not_implemented").Inc()
			return nil, err
		}
		promRunsTotal.WithLabelValues(req.Tool.String(), "failed").Inc()
		return nil, fmt.Errorf("synthesis failed for %s: %w", req.Tool, err)
	}

	resultJSON, err := json.Marshal(outcome.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result snapshot: %w", err)
	}
	inputJSON, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to encode input snapshot: %w", err)
	}

	record := &runs.RunRecord{
		ID:             uuid.NewString(),
		TenantID:       tenantID,
		UserID:         req.Scope.UserID,
		Tool:           req.Tool.String(),
		Provider:       outcome.Provider,
		Model:          outcome.Model,
		LatencyMS:      latencyMS,
		CostCents:      outcome.CostCents,
		Status:         runs.StatusCompleted,
		Input:          inputJSON,
		Result:         resultJSON,
		IdempotencyKey: req.IdempotencyKey,
		CreatedAt:      p.now().UTC(),
	}

	stored, replayed, err := p.resolver.Record(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("%w: run record: %v", ErrPersistenceFailure, err)
	}
	if replayed {
		// A concurrent writer won the unique constraint; its record is the
		// visible run and it already appended the cost entry.
		promReplayHitsTotal.Inc()
		promRunsTotal.WithLabelValues(stored.Tool, "replayed").Inc()
		return responseFromRecord(stored), nil
	}

	entry := &budget.CostEntry{
		TenantID:  tenantID,
		Provider:  outcome.Provider,
		CostCents: outcome.CostCents,
		Meta: map[string]interface{}{
			"tool":       req.Tool.String(),
			"run_id":     stored.ID,
			"request_id": requestID,
		},
		CreatedAt: p.now().UTC(),
	}
	if err := p.guard.Record(ctx, entry); err != nil {
		return nil, fmt.Errorf("%w: cost entry: %v", ErrPersistenceFailure, err)
	}

	promRunsTotal.WithLabelValues(req.Tool.String(), "completed").Inc()
	p.log.InfoWithDuration(tenantID, requestID, "run completed", float64(latencyMS), map[string]interface{}{
		"run_id":     stored.ID,
		"tool":       req.Tool.String(),
		"provider":   outcome.Provider,
		"cost_cents": outcome.CostCents,
	})

	return responseFromRecord(stored), nil
}

// sanitizeInput redacts every free-text field before it can reach storage,
// logs or the synthesizer.
func (p *Pipeline) sanitizeInput(tenantID, requestID string, input synth.Input) synth.Input {
	if p.sanitizer.ContainsPII(input.Text) || p.sanitizer.ContainsPII(input.Query) {
		p.log.Debug(tenantID, requestID, "redacting PII from run input", nil)
	}
	input.Text = p.sanitizer.RedactText(input.Text)
	input.Query = p.sanitizer.RedactText(input.Query)
	return input
}

// estimateCostCents prices the run for admission. The caller's budgetCents cap
// wins when present; otherwise mock synthesis is free. The live dispatcher
// supplies real per-tool estimates when it lands.
func estimateCostCents(req *RunRequest) int64 {
	if req.Policy.BudgetCents != nil {
		return *req.Policy.BudgetCents
	}
	return 0
}

func responseFromRecord(record *runs.RunRecord) *RunResponse {
	return &RunResponse{
		Status: "ok",
		Result: record.Result,
		Meta: RunMeta{
			Provider:  record.Provider,
			Model:     record.Model,
			LatencyMS: record.LatencyMS,
			CostCents: record.CostCents,
		},
	}
}
