package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openmeet-systems/webhook-bridge/internal/event"
	"github.com/openmeet-systems/webhook-bridge/internal/mapping"
	"github.com/openmeet-systems/webhook-bridge/internal/resolver"
	"github.com/openmeet-systems/webhook-bridge/internal/service"
)

// ReadyCheck probes one collaborator; nil error means reachable.
type ReadyCheck func(ctx context.Context) error

// NormalizeHandler exposes the mapping pipeline over HTTP for testing and
// operator-driven replay of individual events.
type NormalizeHandler struct {
	processor *service.Processor
	readiness map[string]ReadyCheck
}

// NewNormalizeHandler constructs a new handler. readiness maps collaborator
// names to their probes; a nil map means readiness equals liveness.
func NewNormalizeHandler(p *service.Processor, readiness map[string]ReadyCheck) *NormalizeHandler {
	return &NormalizeHandler{processor: p, readiness: readiness}
}

// NormalizeResponse returns the produced canonical event.
type NormalizeResponse struct {
	Event *event.CanonicalEvent `json:"event"`
}

// Normalize handles POST /api/v1/normalize requests. The body is one raw
// event as it would appear on the bus. A dropped event yields 204.
func (h *NormalizeHandler) Normalize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var raw event.RawEvent
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	evt, err := h.processor.Process(r.Context(), &raw)
	if err != nil {
		switch {
		case errors.Is(err, mapping.ErrMalformedEvent):
			writeError(w, http.StatusUnprocessableEntity, "malformed_event", err.Error())
		case errors.Is(err, resolver.ErrUnavailable):
			writeError(w, http.StatusBadGateway, "resolver_unavailable", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "normalization_failed", err.Error())
		}
		return
	}
	if evt == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, NormalizeResponse{Event: evt})
}

// Health handles GET /healthz.
func (h *NormalizeHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, h.processor.Health())
}

// Ready handles GET /readyz. The service is ready when every registered
// collaborator probe succeeds.
func (h *NormalizeHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	for name, check := range h.readiness {
		if err := check(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "not_ready", fmt.Sprintf("%s: %v", name, err))
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	type errorBody struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	writeJSON(w, status, errorBody{Code: code, Message: message})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method is not allowed")
}
