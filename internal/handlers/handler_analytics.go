package handlers

import (
	"context"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/gin-gonic/gin"
)

type analyticsHandler struct {
	analyticsService portssvc.AnalyticsSvc
	timeout          time.Duration
}

func registerAnalyticsRoutes(rg *gin.RouterGroup, analyticsService portssvc.AnalyticsSvc, timeout time.Duration) {
	h := &analyticsHandler{analyticsService: analyticsService, timeout: timeout}
	rg.GET("/analytics/spending", h.getSpendingStats)
}

// getSpendingStats godoc
// @Summary Spending analytics
// @Description Totals expense debits over the period, compares with the previous period of the same length and returns a sparse bucketed history
// @Tags analytics
// @Produce json
// @Param period query string true "24h, 7d, 30d or 12m"
// @Param currency query string false "Currency code; defaults to the configured currency"
// @Success 200 {object} dto.SpendingStatsResponse
// @Failure 400 {object} errorResponse "Invalid period"
// @Failure 504 {object} errorResponse "Analytics timed out"
// @Failure 500 {object} errorResponse "Failed to compute analytics"
// @Router /analytics/spending [get]
func (h *analyticsHandler) getSpendingStats(c *gin.Context) {
	var params dto.SpendingStatsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	stats, err := h.analyticsService.SpendingStats(ctx, params.Period, params.Currency)
	if err != nil {
		respondError(c, err, "compute spending analytics")
		return
	}
	c.JSON(http.StatusOK, dto.ToSpendingStatsResponse(stats))
}
