// internal/api/handler/analytics.go
package handler

import (
	"net/http"

	"github.com/tomaskal/hermes/internal/api/response"
	"github.com/tomaskal/hermes/internal/storage/chat"
	"go.uber.org/zap"
)

// AnalyticsHandler serves usage totals aggregated from the chat store.
type AnalyticsHandler struct {
	store  chat.Store
	logger *zap.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(store chat.Store, logger *zap.Logger) *AnalyticsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsHandler{store: store, logger: logger}
}

// Analytics returns aggregated chat totals.
func (h *AnalyticsHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	agg, err := h.store.Aggregate(r.Context())
	if err != nil {
		h.logger.Error("analytics aggregation failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	response.JSON(w, http.StatusOK, agg)
}
