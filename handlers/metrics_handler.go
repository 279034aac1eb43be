package handlers

import (
	"net/http"

	"github.com/chrimar3/MVP-Hotel-sub001/models"
	"github.com/chrimar3/MVP-Hotel-sub001/services/cache"
	"github.com/chrimar3/MVP-Hotel-sub001/utils"
	"go.uber.org/zap"
)

// MetricsSource yields the current metrics view
type MetricsSource interface {
	Snapshot() *models.MetricsSnapshot
}

// CacheStatsSource yields cache hit/miss statistics
type CacheStatsSource interface {
	Stats() cache.Stats
}

// MetricsResponse is the GET /api/v1/metrics payload
type MetricsResponse struct {
	Metrics *models.MetricsSnapshot `json:"metrics"`
	Cache   cache.Stats             `json:"cache"`
}

// MetricsHandler handles metrics inspection requests
type MetricsHandler struct {
	metrics MetricsSource
	cache   CacheStatsSource
	logger  *zap.Logger
}

// NewMetricsHandler creates a new MetricsHandler
func NewMetricsHandler(metrics MetricsSource, cacheStats CacheStatsSource, logger *zap.Logger) *MetricsHandler {
	return &MetricsHandler{
		metrics: metrics,
		cache:   cacheStats,
		logger:  logger,
	}
}

// HandleGet handles GET /api/v1/metrics
func (h *MetricsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	response := MetricsResponse{
		Metrics: h.metrics.Snapshot(),
		Cache:   h.cache.Stats(),
	}

	if err := utils.WriteOK(w, response); err != nil {
		h.logger.Error("failed to write metrics response", zap.Error(err))
	}
}
