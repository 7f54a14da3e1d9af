package dto

import (
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// EntryRequest is one journal line of a posting request. Amount is a positive
// decimal string.
type EntryRequest struct {
	AccountID string `json:"accountID" binding:"required"`
	Amount    string `json:"amount" binding:"required,money"`
	Type      string `json:"type" binding:"required,entrytype"`
}

// PostTransactionRequest defines the data needed to post a transaction.
// IdempotencyKey is taken from the Idempotency-Key header, never the body.
type PostTransactionRequest struct {
	Description    string         `json:"description" binding:"max=500"`
	Reference      string         `json:"reference" binding:"max=100"`
	Entries        []EntryRequest `json:"entries" binding:"required,min=2,dive"`
	IdempotencyKey string         `json:"-"`
}

// EntryResponse defines the data returned for a journal line.
type EntryResponse struct {
	EntryID   string           `json:"entryID"`
	AccountID string           `json:"accountID"`
	Amount    domain.Money     `json:"amount"`
	Type      domain.EntryType `json:"type"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID           string             `json:"transactionID"`
	Reference               string             `json:"reference"`
	Description             string             `json:"description"`
	CurrencyCode            string             `json:"currencyCode"`
	CreatedAt               time.Time          `json:"createdAt"`
	Posted                  bool               `json:"posted"`
	Status                  domain.StatusLabel `json:"status"`
	Amount                  domain.Money       `json:"amount"`
	Entries                 []EntryResponse    `json:"entries"`
	ReversesTransactionID   *string            `json:"reversesTransactionID,omitempty"`
	ReversedByTransactionID *string            `json:"reversedByTransactionID,omitempty"`
	Reversed                bool               `json:"reversed"`
}

// PostTransactionResult carries the posted transaction and whether it was a
// replay of an earlier request with the same idempotency key.
type PostTransactionResult struct {
	Transaction domain.Transaction
	Replayed    bool
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	entries := make([]EntryResponse, len(txn.Entries))
	for i, e := range txn.Entries {
		entries[i] = EntryResponse{
			EntryID:   e.EntryID,
			AccountID: e.AccountID,
			Amount:    e.Amount,
			Type:      e.Type,
		}
	}
	return TransactionResponse{
		TransactionID:           txn.TransactionID,
		Reference:               txn.Reference,
		Description:             txn.Description,
		CurrencyCode:            txn.CurrencyCode,
		CreatedAt:               txn.CreatedAt,
		Posted:                  txn.Posted,
		Status:                  txn.Status(),
		Amount:                  txn.Amount(),
		Entries:                 entries,
		ReversesTransactionID:   txn.ReversesTransactionID,
		ReversedByTransactionID: txn.ReversedByTransactionID,
		Reversed:                txn.IsReversed(),
	}
}

// ToTransactionResponses converts a slice of domain.Transaction.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}

// ListTransactionsParams defines the filter and pagination query parameters.
// StartDate and EndDate accept YYYY-MM-DD or RFC3339; a bare EndDate covers
// the whole day.
type ListTransactionsParams struct {
	Type      string  `form:"type"`
	Status    string  `form:"status"`
	StartDate string  `form:"startDate"`
	EndDate   string  `form:"endDate"`
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse is a page of transactions, newest first.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
