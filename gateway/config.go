// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds everything the gateway reads from the environment. All request
// handling is driven from this struct; nothing consults os.Getenv after boot.
type Config struct {
	Port        string
	Environment string

	DatabaseURL string
	RedisURL    string

	// ExecutionEnabled switches the synthesizer dispatcher into live mode.
	// Live mode has no providers wired yet and refuses every run.
	ExecutionEnabled bool

	// PolicyFile optionally points at a YAML file with per-tenant budgets.
	PolicyFile string

	// EmbeddingsDim is advertised on /health for client compatibility checks.
	EmbeddingsDim int
}

// LoadConfigFromEnv reads the gateway configuration. DATABASE_URL is the only
// required variable; everything else has a development default.
func LoadConfigFromEnv() (*Config, error) {
	cfg := &Config{
		Port:             envOr("PORT", "8090"),
		Environment:      envOr("ENVIRONMENT", "development"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		ExecutionEnabled: envBool("AI_EXECUTION_ENABLED"),
		PolicyFile:       os.Getenv("BUDGET_POLICY_FILE"),
		EmbeddingsDim:    1536,
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if raw := os.Getenv("EMBEDDINGS_DIM"); raw != "" {
		dim, err := strconv.Atoi(raw)
		if err != nil || dim <= 0 {
			return nil, fmt.Errorf("invalid EMBEDDINGS_DIM %q", raw)
		}
		cfg.EmbeddingsDim = dim
	}

	return cfg, nil
}

// IsDevelopment reports whether error responses may carry internal detail.
func (c *Config) IsDevelopment() bool {
	return c.Environment != "production"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
