package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

// Account is the accounts table row.
type Account struct {
	AccountID      string          `db:"account_id"`
	Name           string          `db:"name"`
	AccountType    AccountType     `db:"account_type"`
	CurrencyCode   string          `db:"currency_code"`
	OpeningBalance decimal.Decimal `db:"opening_balance"`
	Description    string          `db:"description"`
	IsActive       bool            `db:"is_active"`
	ClosedAt       *time.Time      `db:"closed_at"`
	AuditFields
}
