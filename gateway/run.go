// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"entrevia/platform/gateway/budget"
	"entrevia/platform/gateway/runs"
	"entrevia/platform/gateway/synth"
	"entrevia/platform/shared/logger"
)

// Run boots the AI gateway: connects the stores, wires the pipeline, serves
// HTTP and blocks until SIGINT/SIGTERM triggers a graceful shutdown.
func Run() error {
	log := logger.New("ai-gateway")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelBoot()
	if err := db.PingContext(bootCtx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}

	ledger := budget.NewPostgresLedger(db)
	if err := ledger.EnsureSchema(bootCtx); err != nil {
		return fmt.Errorf("cost schema: %w", err)
	}
	runStore := runs.NewPostgresRepository(db)
	if err := runStore.EnsureSchema(bootCtx); err != nil {
		return fmt.Errorf("runs schema: %w", err)
	}

	policies, err := loadPolicies(cfg, log)
	if err != nil {
		return err
	}
	guard := budget.NewGuard(ledger, policies)

	var cache *runs.ReplayCache
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(bootCtx).Err(); err != nil {
			// The cache is an accelerator; the gateway serves from the
			// store alone when Redis is down.
			log.Warn("", "", "redis unreachable, replay cache disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			cache = runs.NewReplayCache(client, 0)
		}
	}
	resolver := runs.NewResolver(runStore, cache, log)

	dispatcher := synth.NewDispatcher(cfg.ExecutionEnabled, synth.NewMockSynthesizer())
	pipeline := NewPipeline(resolver, guard, NewSanitizer(), dispatcher, log)
	handler := NewHandler(pipeline, guard, resolver, cfg, log)

	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID", "Authorization"},
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      requestIDMiddleware(loggingMiddleware(log, corsHandler.Handler(router))),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("", "", "ai gateway listening", map[string]interface{}{
			"port":         cfg.Port,
			"environment":  cfg.Environment,
			"ai_execution": cfg.ExecutionEnabled,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-stop:
		log.Info("", "", "shutting down", map[string]interface{}{"signal": sig.String()})
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// loadPolicies resolves the budget policy source: YAML file when configured,
// platform defaults otherwise.
func loadPolicies(cfg *Config, log *logger.Logger) (budget.PolicyResolver, error) {
	if cfg.PolicyFile == "" {
		return budget.NewStaticResolver(), nil
	}
	resolver, err := budget.LoadPolicyFile(cfg.PolicyFile)
	if err != nil {
		return nil, fmt.Errorf("budget policy file: %w", err)
	}
	log.Info("", "", "loaded budget policy file", map[string]interface{}{"path": cfg.PolicyFile})
	return resolver, nil
}
