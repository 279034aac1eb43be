package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/chrimar3/MVP-Hotel-sub001/middleware"
	"github.com/chrimar3/MVP-Hotel-sub001/models"
	"github.com/chrimar3/MVP-Hotel-sub001/utils"
	"go.uber.org/zap"
)

// ReviewEngine produces exactly one result per request; the fallback chain
// guarantees it cannot fail once input is valid
type ReviewEngine interface {
	Generate(ctx context.Context, req *models.GenerationRequest) *models.GenerationResult
}

// ReviewHandler handles review generation HTTP requests
type ReviewHandler struct {
	engine ReviewEngine
	logger *zap.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(engine ReviewEngine, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		engine: engine,
		logger: logger,
	}
}

// HandleGenerate handles POST /api/v1/reviews
func (h *ReviewHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.RequestIDFromContext(ctx)

	var req models.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		h.logger.Warn("request validation failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		HandleValidationError(w, err, h.logger)
		return
	}

	result := h.engine.Generate(ctx, &req)

	h.logger.Info("review generated",
		zap.String("request_id", requestID),
		zap.String("generation_id", result.RequestID),
		zap.String("source", string(result.Source)),
		zap.Int64("latency_ms", result.LatencyMs),
		zap.Bool("cached", result.Cached),
		zap.Float64("cost_estimate", result.CostEstimate))

	if err := utils.WriteOK(w, result); err != nil {
		h.logger.Error("failed to write response",
			zap.String("request_id", requestID),
			zap.Error(err))
	}
}
