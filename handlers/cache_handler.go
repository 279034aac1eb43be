package handlers

import (
	"net/http"

	"github.com/chrimar3/MVP-Hotel-sub001/utils"
	"go.uber.org/zap"
)

// CacheAdmin exposes the maintenance operations of the request cache
type CacheAdmin interface {
	Clear() int
	Sweep() int
}

// CacheHandler handles cache administration requests
type CacheHandler struct {
	cache  CacheAdmin
	logger *zap.Logger
}

// NewCacheHandler creates a new CacheHandler
func NewCacheHandler(cache CacheAdmin, logger *zap.Logger) *CacheHandler {
	return &CacheHandler{
		cache:  cache,
		logger: logger,
	}
}

// HandleClear handles DELETE /api/v1/cache
func (h *CacheHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	cleared := h.cache.Clear()
	h.logger.Info("cache cleared", zap.Int("entries", cleared))

	if err := utils.WriteOK(w, map[string]int{"cleared": cleared}); err != nil {
		h.logger.Error("failed to write cache clear response", zap.Error(err))
	}
}

// HandleSweep handles POST /api/v1/cache/sweep
func (h *CacheHandler) HandleSweep(w http.ResponseWriter, r *http.Request) {
	swept := h.cache.Sweep()
	h.logger.Info("cache swept", zap.Int("expired", swept))

	if err := utils.WriteOK(w, map[string]int{"swept": swept}); err != nil {
		h.logger.Error("failed to write cache sweep response", zap.Error(err))
	}
}
