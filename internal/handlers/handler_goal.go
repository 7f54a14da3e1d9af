package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/SscSPs/ledger_core/internal/utils/accounting"
	"github.com/gin-gonic/gin"
)

// goalHandler handles HTTP requests for savings goals.
type goalHandler struct {
	goalService      portssvc.GoalSvcFacade
	analyticsService portssvc.AnalyticsSvc
}

func registerGoalRoutes(rg *gin.RouterGroup, goalService portssvc.GoalSvcFacade, analyticsService portssvc.AnalyticsSvc) {
	h := &goalHandler{goalService: goalService, analyticsService: analyticsService}

	goals := rg.Group("/goals")
	{
		goals.POST("", h.createGoal)
		goals.GET("", h.listGoals)
		goals.GET("/:goalID", h.getGoal)
		goals.GET("/:goalID/progress", h.getGoalProgress)
		goals.POST("/:goalID/contributions", h.contribute)
	}
}

// goalResponse attaches the funding percentage. A zero target has none, so
// it reports zero here and 422 on the progress endpoint.
func goalResponse(goal *domain.FinancialGoal) dto.GoalResponse {
	percent, err := accounting.GoalPercent(goal.Saved, goal.TargetAmount)
	if err != nil {
		percent = 0
	}
	return dto.ToGoalResponse(goal, percent)
}

// createGoal godoc
// @Summary Create a savings goal
// @Description Opens a dedicated asset account for the goal and optionally funds it from another account
// @Tags goals
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Idempotency key for the initial contribution"
// @Param goal body dto.CreateGoalRequest true "Goal"
// @Success 201 {object} dto.GoalResponse
// @Failure 400 {object} errorResponse "Invalid amount or funding account"
// @Failure 409 {object} errorResponse "Goal name already in use"
// @Failure 500 {object} errorResponse "Failed to create goal"
// @Router /goals [post]
func (h *goalHandler) createGoal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	req.IdempotencyKey = strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))

	goal, err := h.goalService.CreateGoal(c.Request.Context(), req)
	if err != nil {
		respondErrorWithIntegrity(c, err, "create goal", http.StatusLocked)
		return
	}

	logger.Info("Goal created", slog.String("goal_id", goal.GoalID), slog.String("account_id", goal.AccountID))
	c.JSON(http.StatusCreated, goalResponse(goal))
}

// listGoals godoc
// @Summary List goals
// @Tags goals
// @Produce json
// @Success 200 {object} dto.ListGoalsResponse
// @Failure 500 {object} errorResponse "Failed to list goals"
// @Router /goals [get]
func (h *goalHandler) listGoals(c *gin.Context) {
	goals, err := h.goalService.ListGoals(c.Request.Context())
	if err != nil {
		respondError(c, err, "list goals")
		return
	}
	resp := dto.ListGoalsResponse{Goals: make([]dto.GoalResponse, len(goals))}
	for i := range goals {
		resp.Goals[i] = goalResponse(&goals[i])
	}
	c.JSON(http.StatusOK, resp)
}

// getGoal godoc
// @Summary Get a goal
// @Tags goals
// @Produce json
// @Param goalID path string true "Goal ID"
// @Success 200 {object} dto.GoalResponse
// @Failure 404 {object} errorResponse "Goal not found"
// @Router /goals/{goalID} [get]
func (h *goalHandler) getGoal(c *gin.Context) {
	goal, err := h.goalService.GetGoal(c.Request.Context(), c.Param("goalID"))
	if err != nil {
		respondError(c, err, "retrieve goal")
		return
	}
	c.JSON(http.StatusOK, goalResponse(goal))
}

// getGoalProgress godoc
// @Summary Goal progress
// @Description min(round(saved / target * 100), 100)
// @Tags goals
// @Produce json
// @Param goalID path string true "Goal ID"
// @Success 200 {object} dto.GoalProgressResponse
// @Failure 404 {object} errorResponse "Goal not found"
// @Failure 422 {object} errorResponse "Goal target is zero"
// @Router /goals/{goalID}/progress [get]
func (h *goalHandler) getGoalProgress(c *gin.Context) {
	progress, err := h.analyticsService.GoalProgress(c.Request.Context(), c.Param("goalID"))
	if err != nil {
		respondError(c, err, "compute goal progress")
		return
	}
	c.JSON(http.StatusOK, dto.GoalProgressResponse{
		GoalID:  progress.GoalID,
		Saved:   progress.Saved,
		Target:  progress.Target,
		Percent: progress.Percent,
	})
}

// contribute godoc
// @Summary Contribute to a goal
// @Description Posts a transfer from the funding account into the goal account
// @Tags goals
// @Accept json
// @Produce json
// @Param goalID path string true "Goal ID"
// @Param Idempotency-Key header string false "Client supplied idempotency key"
// @Param contribution body dto.ContributeGoalRequest true "Contribution"
// @Success 201 {object} dto.TransactionResponse
// @Success 200 {object} dto.TransactionResponse "Replayed"
// @Failure 400 {object} errorResponse "Invalid amount or funding account"
// @Failure 404 {object} errorResponse "Goal not found"
// @Failure 409 {object} errorResponse "Idempotency key reused for a different request"
// @Failure 423 {object} errorResponse "Accounts quarantined"
// @Router /goals/{goalID}/contributions [post]
func (h *goalHandler) contribute(c *gin.Context) {
	var req dto.ContributeGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	req.IdempotencyKey = strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))

	result, err := h.goalService.Contribute(c.Request.Context(), c.Param("goalID"), req)
	if err != nil {
		respondErrorWithIntegrity(c, err, "contribute to goal", http.StatusLocked)
		return
	}

	markReplayed(c, result.Replayed)
	c.JSON(writeStatus(result.Replayed), dto.ToTransactionResponse(&result.Transaction))
}
