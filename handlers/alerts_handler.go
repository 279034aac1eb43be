package handlers

import (
	"net/http"
	"strconv"

	"github.com/chrimar3/MVP-Hotel-sub001/models"
	"github.com/chrimar3/MVP-Hotel-sub001/utils"
	"go.uber.org/zap"
)

// defaultAlertLimit caps GET /api/v1/alerts when no limit is given
const defaultAlertLimit = 20

// AlertHistory yields recently fired alerts, newest first
type AlertHistory interface {
	Recent(limit int) []models.AlertEvent
}

// AlertsHandler handles alert inspection requests
type AlertsHandler struct {
	history AlertHistory
	logger  *zap.Logger
}

// NewAlertsHandler creates a new AlertsHandler
func NewAlertsHandler(history AlertHistory, logger *zap.Logger) *AlertsHandler {
	return &AlertsHandler{
		history: history,
		logger:  logger,
	}
}

// HandleList handles GET /api/v1/alerts?limit=N
func (h *AlertsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := defaultAlertLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			_ = utils.WriteBadRequest(w, "limit must be a positive integer", nil)
			return
		}
		limit = parsed
	}

	events := h.history.Recent(limit)
	if events == nil {
		events = []models.AlertEvent{}
	}

	if err := utils.WriteOK(w, map[string]interface{}{
		"alerts": events,
		"count":  len(events),
	}); err != nil {
		h.logger.Error("failed to write alerts response", zap.Error(err))
	}
}
