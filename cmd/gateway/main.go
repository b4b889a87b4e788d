// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

// Package main is the entry point for the Entrevia AI gateway.
//
// The gateway is the admission point for AI tool runs:
// - Validates and normalizes run requests
// - Enforces idempotent execution per client-supplied token
// - Enforces per-tenant daily and monthly spend budgets
// - Redacts PII from free text before storage
// - Synthesizes deterministic mock results until live execution is enabled
//
// Usage:
//
//	./gateway
//
// Environment Variables:
//
//	PORT - HTTP server port (default: 8090)
//	DATABASE_URL - PostgreSQL connection string (required)
//	REDIS_URL - Redis URL for the replay cache (optional)
//	AI_EXECUTION_ENABLED - route runs to live providers (default: false)
//	BUDGET_POLICY_FILE - YAML file with per-tenant budget overrides (optional)
//	EMBEDDINGS_DIM - embedding dimension advertised on /health (default: 1536)
//	ENVIRONMENT - "production" hides internal error detail (default: development)
package main

import (
	"log"

	"github.com/joho/godotenv"

	"entrevia/platform/gateway"
)

func main() {
	// Missing .env is fine; containers inject real environment.
	_ = godotenv.Load()

	if err := gateway.Run(); err != nil {
		log.Fatalf("gateway failed: %v", err)
	}
}
