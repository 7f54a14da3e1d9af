package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/core/query"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
// and the integrity quarantine they can trigger.
type reportingHandler struct {
	reportingService portssvc.ReportingService
	integrityService portssvc.IntegritySvc
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService, is portssvc.IntegritySvc) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
		integrityService: is,
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService, integrityService portssvc.IntegritySvc) {
	h := newReportingHandler(reportingService, integrityService)

	rg.GET("/trial-balance", h.getTrialBalance)

	admin := rg.Group("/admin/integrity")
	{
		admin.GET("", h.getQuarantine)
		admin.POST("/release", h.releaseAccounts)
	}
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Lists every account open as of asOf with its totals. The ledger-wide totals must match; when they do not, the affected accounts are quarantined and 500 is returned.
// @Tags reports
// @Produce json
// @Param asOf query string false "YYYY-MM-DD (end of day) or RFC3339 timestamp; defaults to now"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} errorResponse "Invalid asOf"
// @Failure 500 {object} errorResponse "Ledger inconsistency or failure"
// @Router /trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.TrialBalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	asOf, err := query.ParseDateBound(params.AsOf, true)
	if err != nil {
		respondError(c, err, "generate trial balance")
		return
	}

	tb, err := h.reportingService.GetTrialBalance(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, err, "generate trial balance")
		return
	}

	logger.Info("Trial balance generated", slog.Int("row_count", len(tb.Accounts)))
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}

// getQuarantine godoc
// @Summary List quarantined accounts
// @Description Accounts blocked for writes after an integrity failure, with the reason. "*" means the whole ledger.
// @Tags admin
// @Produce json
// @Success 200 {object} dto.QuarantineResponse
// @Router /admin/integrity [get]
func (h *reportingHandler) getQuarantine(c *gin.Context) {
	c.JSON(http.StatusOK, dto.QuarantineResponse{Accounts: h.integrityService.QuarantinedAccounts(c.Request.Context())})
}

// releaseAccounts godoc
// @Summary Release quarantined accounts
// @Description Lifts the write block from the given accounts once an operator has repaired the data. "*" releases everything.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.ReleaseAccountsRequest true "Accounts to release"
// @Success 200 {object} dto.QuarantineResponse "Remaining quarantine"
// @Failure 400 {object} errorResponse "Invalid request"
// @Router /admin/integrity/release [post]
func (h *reportingHandler) releaseAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ReleaseAccountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	logger.Warn("Releasing quarantined accounts", slog.Any("account_ids", req.AccountIDs))
	h.integrityService.ReleaseAccounts(c.Request.Context(), req.AccountIDs)
	c.JSON(http.StatusOK, dto.QuarantineResponse{Accounts: h.integrityService.QuarantinedAccounts(c.Request.Context())})
}
