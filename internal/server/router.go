package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/openmeet-systems/webhook-bridge/internal/handlers"
	"github.com/openmeet-systems/webhook-bridge/internal/middleware"
)

// NewRouter constructs a ServeMux with the bridge API routes registered.
func NewRouter(h *handlers.NormalizeHandler) http.Handler {
	mux := http.NewServeMux()

	// Mapping API
	mux.HandleFunc("/api/v1/normalize", h.Normalize)

	// Health endpoints
	mux.HandleFunc("/healthz", h.Health)
	mux.HandleFunc("/readyz", h.Ready)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.RequestID(mux)
}
