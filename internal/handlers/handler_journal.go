package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests for posting, reading and reversing
// transactions.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: journalService,
	}
}

func registerTransactionRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.postTransaction)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:transactionID", h.getTransaction)
		transactions.POST("/:transactionID/reverse", h.reverseTransaction)
	}
}

// writeStatus is 201 for a fresh write and 200 for an idempotent replay.
func writeStatus(replayed bool) int {
	if replayed {
		return http.StatusOK
	}
	return http.StatusCreated
}

// postTransaction godoc
// @Summary Post a transaction
// @Description Validates and atomically commits a balanced set of entries. Retries carrying the same Idempotency-Key return the original transaction.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   Idempotency-Key header string false "Client supplied idempotency key"
// @Param   transaction body dto.PostTransactionRequest true "Transaction"
// @Success 201 {object} dto.TransactionResponse
// @Success 200 {object} dto.TransactionResponse "Replayed"
// @Failure 400 {object} errorResponse "Unbalanced, invalid entry or invalid amount"
// @Failure 409 {object} errorResponse "Duplicate reference, or idempotency key reused for a different request"
// @Failure 423 {object} errorResponse "Accounts quarantined after an integrity failure"
// @Failure 500 {object} errorResponse "Failed to post transaction"
// @Router /transactions [post]
func (h *journalHandler) postTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.PostTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	req.IdempotencyKey = strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))

	logger.Info("Received request to post transaction", slog.Int("entry_count", len(req.Entries)), slog.Bool("idempotent", req.IdempotencyKey != ""))

	result, err := h.journalService.PostTransaction(c.Request.Context(), req)
	if err != nil {
		respondErrorWithIntegrity(c, err, "post transaction", http.StatusLocked)
		return
	}

	markReplayed(c, result.Replayed)
	c.JSON(writeStatus(result.Replayed), dto.ToTransactionResponse(&result.Transaction))
}

// getTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} errorResponse "Transaction not found"
// @Failure 500 {object} errorResponse "Failed to retrieve transaction"
// @Router /transactions/{transactionID} [get]
func (h *journalHandler) getTransaction(c *gin.Context) {
	txn, err := h.journalService.GetTransactionByID(c.Request.Context(), c.Param("transactionID"))
	if err != nil {
		respondError(c, err, "retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions
// @Description Lists transactions newest first. Filters combine with AND.
// @Tags transactions
// @Produce  json
// @Param   type query string false "DEBIT or CREDIT; matches when any entry has this type"
// @Param   status query string false "ALL, COMPLETED or PENDING"
// @Param   startDate query string false "YYYY-MM-DD or RFC3339, inclusive"
// @Param   endDate query string false "YYYY-MM-DD (whole day) or RFC3339, inclusive"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} errorResponse "Invalid filter"
// @Failure 500 {object} errorResponse "Failed to list transactions"
// @Router /transactions [get]
func (h *journalHandler) listTransactions(c *gin.Context) {
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.journalService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// reverseTransaction godoc
// @Summary Reverse a transaction
// @Description Posts a new transaction with every entry flipped and links it to the original
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Param   Idempotency-Key header string false "Client supplied idempotency key"
// @Success 201 {object} dto.TransactionResponse
// @Success 200 {object} dto.TransactionResponse "Replayed"
// @Failure 404 {object} errorResponse "Transaction not found"
// @Failure 409 {object} errorResponse "Already reversed, is itself a reversal, or idempotency key reused"
// @Failure 423 {object} errorResponse "Accounts quarantined after an integrity failure"
// @Failure 500 {object} errorResponse "Failed to reverse transaction"
// @Router /transactions/{transactionID}/reverse [post]
func (h *journalHandler) reverseTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")
	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))

	logger.Info("Received request to reverse transaction", slog.String("transaction_id", transactionID))

	result, err := h.journalService.ReverseTransaction(c.Request.Context(), transactionID, key)
	if err != nil {
		respondErrorWithIntegrity(c, err, "reverse transaction", http.StatusLocked)
		return
	}

	markReplayed(c, result.Replayed)
	c.JSON(writeStatus(result.Replayed), dto.ToTransactionResponse(&result.Transaction))
}
