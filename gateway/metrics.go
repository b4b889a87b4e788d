// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus metrics
var (
	promRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entrevia_gateway_requests_total",
			Help: "Total number of HTTP requests handled by the gateway",
		},
		[]string{"endpoint", "status"},
	)
	promRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "entrevia_gateway_request_duration_milliseconds",
			Help:    "Request duration in milliseconds",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"endpoint"},
	)
	promRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entrevia_gateway_runs_total",
			Help: "Total number of AI runs by tool and outcome",
		},
		[]string{"tool", "outcome"},
	)
	promReplayHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "entrevia_gateway_idempotent_replays_total",
			Help: "Total number of runs served from a prior record by idempotency key",
		},
	)
	promBudgetDenialsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entrevia_gateway_budget_denials_total",
			Help: "Total number of runs denied by the budget guard",
		},
		[]string{"reason"},
	)
	promRedactionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entrevia_gateway_pii_redactions_total",
			Help: "Total number of PII tokens masked before persistence",
		},
		[]string{"rule"},
	)
)

func init() {
	prometheus.MustRegister(promRequestsTotal)
	prometheus.MustRegister(promRequestDuration)
	prometheus.MustRegister(promRunsTotal)
	prometheus.MustRegister(promReplayHitsTotal)
	prometheus.MustRegister(promBudgetDenialsTotal)
	prometheus.MustRegister(promRedactionsTotal)
}
