package domain

import (
	"strings"
	"time"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// ParseAccountType normalises s into an AccountType. INCOME is accepted as an
// alias for REVENUE.
func ParseAccountType(s string) (AccountType, bool) {
	switch t := AccountType(strings.ToUpper(strings.TrimSpace(s))); t {
	case Asset, Liability, Equity, Revenue, Expense:
		return t, true
	case "INCOME":
		return Revenue, true
	}
	return "", false
}

// NormalSide is the entry type that increases an account of this type.
func (t AccountType) NormalSide() EntryType {
	switch t {
	case Asset, Expense:
		return Debit
	default:
		return Credit
	}
}

// SignedAmount returns amount signed from the point of view of an account of
// type t: positive when the entry moves the account toward its normal side.
func (t AccountType) SignedAmount(entryType EntryType, amount Money) Money {
	if entryType == t.NormalSide() {
		return amount
	}
	return amount.Neg()
}

// Account represents a financial account within the core domain.
// Balance is never stored; it is derived from posted entries.
type Account struct {
	AccountID      string      `json:"accountID"`
	Name           string      `json:"name"`
	AccountType    AccountType `json:"accountType"`
	CurrencyCode   string      `json:"currencyCode"`
	OpeningBalance Money       `json:"openingBalance"`
	Description    string      `json:"description"`
	IsActive       bool        `json:"isActive"`
	ClosedAt       *time.Time  `json:"closedAt,omitempty"`
	AuditFields
}

// AccountBalance is a derived balance for one account at a point in time.
type AccountBalance struct {
	AccountID    string    `json:"accountID"`
	CurrencyCode string    `json:"currencyCode"`
	Balance      Money     `json:"balance"`
	AsOf         time.Time `json:"asOf"`
}
