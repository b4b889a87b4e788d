// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

package synth

import "errors"

var (
	// ErrNotImplemented is returned when live execution is requested. The
	// gateway must surface it explicitly rather than substitute the mock.
	ErrNotImplemented = errors.New("live execution not implemented")

	// ErrUnknownTool is returned for a tool outside the closed set.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrContractViolation is returned when a synthesized result fails its
	// own result contract.
	ErrContractViolation = errors.New("result contract violation")
)
