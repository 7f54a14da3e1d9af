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

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountID", h.getAccount)
		accounts.GET("/:accountID/balance", h.getAccountBalance)
		accounts.GET("/:accountID/statement", h.getAccountStatement)
		accounts.DELETE("/:accountID", h.closeAccount)
	}
}

// createAccount godoc
// @Summary Open a new account
// @Description Opens an account with an optional opening balance on its normal side
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} errorResponse "Invalid input format or amount"
// @Failure 409 {object} errorResponse "Account name already in use"
// @Failure 500 {object} errorResponse "Failed to create account"
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	logger.Info("Received request to create account", slog.String("account_name", req.Name), slog.String("account_type", req.AccountType))

	newAccount, err := h.accountService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", newAccount.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(newAccount))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} errorResponse "Account not found"
// @Failure 500 {object} errorResponse "Failed to retrieve account"
// @Router /accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondError(c, err, "retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists accounts ordered by name. Closed accounts are included on request.
// @Tags accounts
// @Produce  json
// @Param   includeClosed query bool false "Include closed accounts"
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 400 {object} errorResponse "Invalid query parameters"
// @Failure 500 {object} errorResponse "Failed to list accounts"
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "list accounts")
		return
	}

	logger.Debug("Accounts listed successfully", slog.Int("count", len(accounts)))
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)})
}

// getAccountBalance godoc
// @Summary Get account balance
// @Description Derives the balance from the opening balance and every entry posted up to asOf
// @Tags accounts
// @Produce json
// @Param accountID path string true "Account ID"
// @Param asOf query string false "YYYY-MM-DD (end of day) or RFC3339 timestamp"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 400 {object} errorResponse "Invalid asOf"
// @Failure 404 {object} errorResponse "Account not found"
// @Failure 500 {object} errorResponse "Failed to calculate balance"
// @Router /accounts/{accountID}/balance [get]
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	var params dto.BalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	asOf, err := query.ParseDateBound(params.AsOf, true)
	if err != nil {
		respondError(c, err, "calculate balance")
		return
	}

	balance, err := h.accountService.ComputeBalance(c.Request.Context(), c.Param("accountID"), asOf)
	if err != nil {
		respondError(c, err, "calculate balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountBalanceResponse(*balance))
}

// getAccountStatement godoc
// @Summary Get account statement
// @Description Pages the account's entries newest first with running balances
// @Tags accounts
// @Produce json
// @Param accountID path string true "Account ID"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.AccountStatementResponse
// @Failure 400 {object} errorResponse "Invalid paging parameters"
// @Failure 404 {object} errorResponse "Account not found"
// @Failure 500 {object} errorResponse "Failed to build statement"
// @Router /accounts/{accountID}/statement [get]
func (h *accountHandler) getAccountStatement(c *gin.Context) {
	var params dto.StatementParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	statement, err := h.accountService.GetAccountStatement(c.Request.Context(), c.Param("accountID"), params)
	if err != nil {
		respondError(c, err, "build statement")
		return
	}
	c.JSON(http.StatusOK, statement)
}

// closeAccount godoc
// @Summary Close or delete an account
// @Description Soft-closes an account. With hard=true the account is deleted, which only succeeds when nothing references it.
// @Tags accounts
// @Param   accountID path string true "Account ID"
// @Param   hard query bool false "Delete instead of close"
// @Success 204 "No Content"
// @Failure 404 {object} errorResponse "Account not found"
// @Failure 409 {object} errorResponse "Account has posted entries"
// @Failure 500 {object} errorResponse "Failed to close account"
// @Router /accounts/{accountID} [delete]
func (h *accountHandler) closeAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	var params dto.CloseAccountParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	logger = logger.With(slog.String("target_account_id", accountID), slog.Bool("hard", params.Hard))
	logger.Info("Received request to close account")

	if err := h.accountService.CloseAccount(c.Request.Context(), accountID, params.Hard); err != nil {
		respondError(c, err, "close account")
		return
	}

	logger.Info("Account closed successfully")
	c.Status(http.StatusNoContent)
}
