// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"entrevia/platform/shared/logger"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey string

const ctxKeyRequestID contextKey = "request_id"

const requestIDHeader = "X-Request-ID"

// RequestIDFromContext returns the request ID stamped by the middleware, or
// an empty string outside an HTTP request.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

// requestIDMiddleware accepts a caller-supplied X-Request-ID or mints one,
// stamps it on the context and echoes it on the response.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)
		ctx := context.WithValue(r.Context(), ctxKeyRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware emits one structured line per request and feeds the
// per-endpoint Prometheus counters.
func loggingMiddleware(log *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		durationMS := float64(time.Since(started).Milliseconds())
		endpoint := r.Method + " " + r.URL.Path
		promRequestsTotal.WithLabelValues(endpoint, http.StatusText(recorder.status)).Inc()
		promRequestDuration.WithLabelValues(endpoint).Observe(time.Since(started).Seconds())

		log.InfoWithDuration("", RequestIDFromContext(r.Context()), "request handled", durationMS, map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": recorder.status,
		})
	})
}
