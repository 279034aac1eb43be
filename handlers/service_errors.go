package handlers

import (
	"net/http"

	"github.com/chrimar3/MVP-Hotel-sub001/services"
	"github.com/chrimar3/MVP-Hotel-sub001/utils"
	"go.uber.org/zap"
)

// HandleServiceError maps domain errors to HTTP responses. The generation
// endpoint cannot fail once validation passes (the fallback chain absorbs
// every provider and composer failure), so in practice this maps errors
// from the admin and inspection endpoints.
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	details := services.GetErrorDetails(err)

	switch {
	case services.IsValidationError(err):
		if writeErr := utils.WriteBadRequest(w, err.Error(), details); writeErr != nil {
			logger.Error("failed to write bad request response", zap.Error(writeErr))
		}

	case services.IsStoreError(err):
		// The metrics store is best-effort; surfacing one of its errors
		// means an admin endpoint touched an unreachable backend.
		if writeErr := utils.WriteJSON(w, http.StatusServiceUnavailable, utils.ErrorResponse{
			Error:   "store_unavailable",
			Message: err.Error(),
			Details: details,
		}); writeErr != nil {
			logger.Error("failed to write service unavailable response", zap.Error(writeErr))
		}

	default:
		// Provider, composer, and internal errors never carry caller
		// context worth exposing; log and return a generic body.
		logger.Error("internal server error",
			zap.Error(err),
			zap.String("error_type", string(services.GetErrorType(err))))
		if writeErr := utils.WriteInternalServerError(w, "An internal error occurred"); writeErr != nil {
			logger.Error("failed to write internal error response", zap.Error(writeErr))
		}
	}
}

// HandleValidationError handles validation errors from request parsing,
// exposing per-field messages when the error came from the validator
func HandleValidationError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if utils.IsValidationError(err) {
		fields := utils.GetValidationFields(err)
		details := make(map[string]interface{}, len(fields))
		for k, v := range fields {
			details[k] = v
		}
		if writeErr := utils.WriteBadRequest(w, "Validation failed", details); writeErr != nil {
			logger.Error("failed to write validation error response", zap.Error(writeErr))
		}
		return
	}

	if writeErr := utils.WriteBadRequest(w, err.Error(), nil); writeErr != nil {
		logger.Error("failed to write validation error response", zap.Error(writeErr))
	}
}
