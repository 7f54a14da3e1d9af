package dto

import (
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// CreateAccountRequest defines the data needed to open a new account.
// OpeningBalance is a decimal string; empty means zero.
type CreateAccountRequest struct {
	Name           string `json:"name" binding:"required,max=255"`
	AccountType    string `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE INCOME EXPENSE"`
	CurrencyCode   string `json:"currencyCode" binding:"omitempty,len=3,alpha"`
	OpeningBalance string `json:"openingBalance" binding:"omitempty,money"`
	Description    string `json:"description" binding:"max=1000"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID      string             `json:"accountID"`
	Name           string             `json:"name"`
	AccountType    domain.AccountType `json:"accountType"`
	CurrencyCode   string             `json:"currencyCode"`
	OpeningBalance domain.Money       `json:"openingBalance"`
	Description    string             `json:"description"`
	IsActive       bool               `json:"isActive"`
	ClosedAt       *time.Time         `json:"closedAt,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
	LastUpdatedAt  time.Time          `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      acc.AccountID,
		Name:           acc.Name,
		AccountType:    acc.AccountType,
		CurrencyCode:   acc.CurrencyCode,
		OpeningBalance: acc.OpeningBalance,
		Description:    acc.Description,
		IsActive:       acc.IsActive,
		ClosedAt:       acc.ClosedAt,
		CreatedAt:      acc.CreatedAt,
		LastUpdatedAt:  acc.LastUpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	IncludeClosed bool `form:"includeClosed"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// CloseAccountParams selects between a soft close and a hard delete.
type CloseAccountParams struct {
	Hard bool `form:"hard"`
}

// BalanceParams defines query parameters for a balance lookup.
type BalanceParams struct {
	AsOf string `form:"asOf"`
}

// AccountBalanceResponse defines the data returned for an account balance query.
type AccountBalanceResponse struct {
	AccountID    string       `json:"accountID"`
	CurrencyCode string       `json:"currencyCode"`
	Balance      domain.Money `json:"balance"`
	AsOf         time.Time    `json:"asOf"`
}

// ToAccountBalanceResponse converts a derived balance.
func ToAccountBalanceResponse(b domain.AccountBalance) AccountBalanceResponse {
	return AccountBalanceResponse{
		AccountID:    b.AccountID,
		CurrencyCode: b.CurrencyCode,
		Balance:      b.Balance,
		AsOf:         b.AsOf,
	}
}

// StatementParams defines query parameters for an account statement.
type StatementParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// StatementLineResponse is one line of an account statement.
type StatementLineResponse struct {
	EntryID        string           `json:"entryID"`
	TransactionID  string           `json:"transactionID"`
	Description    string           `json:"description"`
	CreatedAt      time.Time        `json:"createdAt"`
	Type           domain.EntryType `json:"type"`
	Amount         domain.Money     `json:"amount"`
	SignedAmount   domain.Money     `json:"signedAmount"`
	RunningBalance domain.Money     `json:"runningBalance"`
}

// AccountStatementResponse is a page of statement lines, newest first.
type AccountStatementResponse struct {
	AccountID      string                  `json:"accountID"`
	CurrencyCode   string                  `json:"currencyCode"`
	OpeningBalance domain.Money            `json:"openingBalance"`
	Lines          []StatementLineResponse `json:"lines"`
	NextToken      *string                 `json:"nextToken,omitempty"`
}

// ToStatementLineResponses converts statement lines.
func ToStatementLineResponses(lines []domain.StatementLine) []StatementLineResponse {
	res := make([]StatementLineResponse, len(lines))
	for i, l := range lines {
		res[i] = StatementLineResponse{
			EntryID:        l.EntryID,
			TransactionID:  l.TransactionID,
			Description:    l.Description,
			CreatedAt:      l.CreatedAt,
			Type:           l.Type,
			Amount:         l.Amount,
			SignedAmount:   l.SignedAmount,
			RunningBalance: l.RunningBalance,
		}
	}
	return res
}
