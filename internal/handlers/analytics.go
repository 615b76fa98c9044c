package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scrapstack/hardware-prices-backend/internal/logger"
	"github.com/scrapstack/hardware-prices-backend/internal/services"
)

type AnalyticsHandler struct {
	log              *logger.Logger
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(baseLog *logger.Logger, analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		log:              baseLog.With("handler", "AnalyticsHandler"),
		analyticsService: analyticsService,
	}
}

func (h *AnalyticsHandler) ProductHistory(c *gin.Context) {
	productID := c.Param("product_id")
	hist, err := h.analyticsService.History(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "product_not_found", err)
			return
		}
		h.log.Error("ProductHistory failed", "error", err, "product_id", productID)
		RespondError(c, http.StatusInternalServerError, "history_failed", err)
		return
	}
	RespondOK(c, hist)
}

func (h *AnalyticsHandler) ProductComparison(c *gin.Context) {
	productID := c.Param("product_id")
	cmp, err := h.analyticsService.Comparison(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "product_not_found", err)
			return
		}
		h.log.Error("ProductComparison failed", "error", err, "product_id", productID)
		RespondError(c, http.StatusInternalServerError, "comparison_failed", err)
		return
	}
	RespondOK(c, cmp)
}

func (h *AnalyticsHandler) GlobalStats(c *gin.Context) {
	stats, err := h.analyticsService.GlobalStats(c.Request.Context())
	if err != nil {
		h.log.Error("GlobalStats failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "stats_failed", err)
		return
	}
	RespondOK(c, stats)
}
