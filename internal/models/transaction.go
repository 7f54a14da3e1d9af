package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType indicates whether an entry line is a Debit or a Credit.
type EntryType string

// Transaction is the transactions table row (the journal header).
type Transaction struct {
	TransactionID           string    `db:"transaction_id"`
	Reference               string    `db:"reference"`
	Description             string    `db:"description"`
	CurrencyCode            string    `db:"currency_code"`
	Posted                  bool      `db:"posted"`
	IdempotencyKey          *string   `db:"idempotency_key"`
	ReversesTransactionID   *string   `db:"reverses_transaction_id"`
	ReversedByTransactionID *string   `db:"reversed_by_transaction_id"`
	CreatedAt               time.Time `db:"created_at"`
}

// Entry is the entries table row.
type Entry struct {
	EntryID       string          `db:"entry_id"`
	TransactionID string          `db:"transaction_id"`
	AccountID     string          `db:"account_id"`
	Amount        decimal.Decimal `db:"amount"`
	EntryType     EntryType       `db:"entry_type"`
	Position      int             `db:"position"`
}
