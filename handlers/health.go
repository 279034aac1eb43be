package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/chrimar3/MVP-Hotel-sub001/utils"
	"go.uber.org/zap"
)

// StorePinger reports whether the metrics store is reachable. The
// no-op backend always succeeds, so readiness degrades to liveness
// when persistence is disabled.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	store  StorePinger
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(store StorePinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		store:  store,
		logger: logger,
	}
}

// HandleLiveness handles GET /healthz.
// Always returns 200 while the process is serving.
func (h *HealthHandler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	_ = utils.WriteOK(w, response)
}

// HandleReadiness handles GET /readyz.
// Verifies the configured metrics store is reachable; the engine itself
// has no other external dependency that can make it not ready (provider
// outages are absorbed by the fallback chain).
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	allHealthy := true

	if h.store == nil {
		checks["metrics_store"] = "not_configured"
	} else if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("metrics store health check failed", zap.Error(err))
		checks["metrics_store"] = "unhealthy"
		allHealthy = false
	} else {
		checks["metrics_store"] = "healthy"
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !allHealthy {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	if err := utils.WriteJSON(w, httpStatus, utils.SuccessResponse{Data: response}); err != nil {
		h.logger.Error("failed to write readiness response", zap.Error(err))
	}
}
