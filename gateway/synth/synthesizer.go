// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

package synth

import "context"

// Outcome is what a synthesizer hands back to the pipeline: the validated
// result plus the metering attributes the caller persists alongside it.
type Outcome struct {
	Result    Result
	Provider  string
	Model     string
	CostCents int64
}

// Synthesizer produces a tool result for a validated run request.
// Implementations must be safe for concurrent use. The context carries the
// caller's deadline (policy.maxLatencyMs); implementations must not outlive it.
type Synthesizer interface {
	// Name returns the identifier recorded as the run's provider.
	Name() string

	// Synthesize builds the result for one tool invocation.
	Synthesize(ctx context.Context, tool Tool, input Input, scope Scope) (*Outcome, error)
}

// Dispatcher routes synthesis by execution mode. The mode is fixed at
// construction; business logic never consults the environment directly.
//
// Live mode is the seam where a provider-routing dispatcher (with per-provider
// retry and latency/cost accounting) plugs in later. Until then a live request
// is refused with ErrNotImplemented, never silently downgraded to the mock.
type Dispatcher struct {
	executionEnabled bool
	mock             Synthesizer
}

// NewDispatcher creates a dispatcher for the given execution mode.
func NewDispatcher(executionEnabled bool, mock Synthesizer) *Dispatcher {
	if mock == nil {
		mock = NewMockSynthesizer()
	}
	return &Dispatcher{executionEnabled: executionEnabled, mock: mock}
}

// Name implements Synthesizer.
func (d *Dispatcher) Name() string {
	if d.executionEnabled {
		return "live"
	}
	return d.mock.Name()
}

// Synthesize implements Synthesizer.
func (d *Dispatcher) Synthesize(ctx context.Context, tool Tool, input Input, scope Scope) (*Outcome, error) {
	if d.executionEnabled {
		return nil, ErrNotImplemented
	}
	return d.mock.Synthesize(ctx, tool, input, scope)
}
