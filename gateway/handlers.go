// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"entrevia/platform/gateway/budget"
	"entrevia/platform/gateway/runs"
	"entrevia/platform/gateway/synth"
	"entrevia/platform/shared/logger"
)

// Handler exposes the gateway's HTTP surface.
type Handler struct {
	pipeline *Pipeline
	guard    *budget.Guard
	resolver *runs.Resolver
	config   *Config
	log      *logger.Logger
}

// NewHandler creates the HTTP handler over the wired pipeline.
func NewHandler(pipeline *Pipeline, guard *budget.Guard, resolver *runs.Resolver, config *Config, log *logger.Logger) *Handler {
	return &Handler{pipeline: pipeline, guard: guard, resolver: resolver, config: config, log: log}
}

// RegisterRoutes registers all gateway routes with a gorilla/mux router.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/ai/run", h.RunTool).Methods("POST", "OPTIONS")
	r.HandleFunc("/ai/budget/status", h.BudgetStatus).Methods("GET", "OPTIONS")
	r.HandleFunc("/copilot/act", h.CopilotAct).Methods("POST", "OPTIONS")
	r.HandleFunc("/webhooks/transcripcion", h.TranscriptionWebhook).Methods("POST", "OPTIONS")
	r.HandleFunc("/health", h.Health).Methods("GET")
}

// RunTool handles POST /ai/run.
func (h *Handler) RunTool(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	requestID := RequestIDFromContext(r.Context())

	var body RunRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, http.StatusBadRequest, &ErrorResponse{
			Status: "invalid_input",
			Error:  "request body is not valid JSON",
		})
		return
	}

	req, fieldErrs := ValidateRunRequest(&body)
	if len(fieldErrs) > 0 {
		h.writeError(w, http.StatusBadRequest, &ErrorResponse{
			Status: "invalid_input",
			Error:  "request validation failed",
			Fields: fieldErrs,
		})
		return
	}

	resp, err := h.pipeline.Execute(r.Context(), req, requestID)
	if err != nil {
		h.writeRunError(w, requestID, req, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// writeRunError maps pipeline errors onto the HTTP error envelope.
func (h *Handler) writeRunError(w http.ResponseWriter, requestID string, req *RunRequest, err error) {
	tenantID := req.Scope.TenantID

	var denial *BudgetDenialError
	switch {
	case errors.As(err, &denial):
		if denial.Decision.Reason == budget.ReasonCheckFailed {
			h.log.ErrorWithCode(tenantID, requestID, "budget check unavailable", http.StatusServiceUnavailable, denial.Cause, nil)
			h.writeError(w, http.StatusServiceUnavailable, &ErrorResponse{
				Status: "budget_check_failed",
				Error:  "budget enforcement is unavailable, request denied",
			})
			return
		}
		h.writeError(w, http.StatusPaymentRequired, &ErrorResponse{
			Status: "budget_exceeded",
			Error:  "tenant budget exceeded",
			Budget: denial.Decision,
		})

	case errors.Is(err, synth.ErrNotImplemented):
		h.writeError(w, http.StatusNotImplemented, &ErrorResponse{
			Status: "not_implemented",
			Error:  "live AI execution is not available",
		})

	default:
		h.log.ErrorWithCode(tenantID, requestID, "run failed", http.StatusInternalServerError, err, map[string]interface{}{
			"tool": req.Tool.String(),
		})
		resp := &ErrorResponse{Status: "internal_error", Error: "run failed"}
		if h.config.IsDevelopment() {
			resp.Detail = err.Error()
		}
		h.writeError(w, http.StatusInternalServerError, resp)
	}
}

// BudgetStatus handles GET /ai/budget/status?tenantId=...
func (h *Handler) BudgetStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	tenantID := r.URL.Query().Get("tenantId")
	if tenantID == "" {
		h.writeError(w, http.StatusBadRequest, &ErrorResponse{
			Status: "invalid_input",
			Error:  "tenantId query parameter is required",
			Fields: []FieldError{{Field: "tenantId", Message: "required"}},
		})
		return
	}

	status, err := h.guard.Status(r.Context(), tenantID)
	if err != nil {
		h.log.ErrorWithCode(tenantID, RequestIDFromContext(r.Context()), "budget status unavailable", http.StatusServiceUnavailable, err, nil)
		h.writeError(w, http.StatusServiceUnavailable, &ErrorResponse{
			Status: "budget_check_failed",
			Error:  "budget status is unavailable",
		})
		return
	}
	h.writeJSON(w, http.StatusOK, status)
}

// CopilotAct handles POST /copilot/act. The conversational surface is not
// wired to the pipeline yet; the endpoint exists so clients get a stable
// answer instead of a 404.
func (h *Handler) CopilotAct(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	h.writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "not_enabled"})
}

// TranscriptionWebhook handles POST /webhooks/transcripcion. Payloads are
// acknowledged and dropped until the transcription callback consumer lands.
func (h *Handler) TranscriptionWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	h.writeJSON(w, http.StatusAccepted, map[string]bool{"accepted": true})
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	healthy := h.guard.IsHealthy(r.Context()) && h.resolver.IsHealthy(r.Context())
	status := "healthy"
	code := http.StatusOK
	if !healthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	h.writeJSON(w, code, map[string]interface{}{
		"status":       status,
		"service":      "ai-gateway",
		"aiExecution":  h.config.ExecutionEnabled,
		"embeddingsDim": h.config.EmbeddingsDim,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, resp *ErrorResponse) {
	h.writeJSON(w, status, resp)
}
