package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/certcredit/pkg/metrics"
)

// HealthHandler serves liveness and metrics.
type HealthHandler struct {
	metrics http.Handler
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})}
}

// HandleHealth handles GET /healthz with the Prometheus exposition of our registry.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, "api.healthz", http.MethodGet) {
		return
	}
	h.metrics.ServeHTTP(w, r)
}
