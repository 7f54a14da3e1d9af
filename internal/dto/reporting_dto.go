package dto

import (
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// TrialBalanceParams defines query parameters for the trial balance.
type TrialBalanceParams struct {
	AsOf string `form:"asOf"`
}

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID    string             `json:"accountID"`
	AccountName  string             `json:"accountName"`
	AccountType  domain.AccountType `json:"accountType"`
	CurrencyCode string             `json:"currencyCode"`
	TotalDebits  domain.Money       `json:"totalDebits"`
	TotalCredits domain.Money       `json:"totalCredits"`
	Balance      domain.Money       `json:"balance"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	AsOf         time.Time                 `json:"asOf"`
	Accounts     []TrialBalanceRowResponse `json:"accounts"`
	Currencies   []domain.CurrencyTotals   `json:"currencies"`
	TotalDebits  domain.Money              `json:"totalDebits"`
	TotalCredits domain.Money              `json:"totalCredits"`
	IsBalanced   bool                      `json:"isBalanced"`
}

// ToTrialBalanceResponse converts a domain.TrialBalance.
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	rows := make([]TrialBalanceRowResponse, len(tb.Accounts))
	for i, r := range tb.Accounts {
		rows[i] = TrialBalanceRowResponse{
			AccountID:    r.AccountID,
			AccountName:  r.AccountName,
			AccountType:  r.AccountType,
			CurrencyCode: r.CurrencyCode,
			TotalDebits:  r.TotalDebits,
			TotalCredits: r.TotalCredits,
			Balance:      r.Balance,
		}
	}
	return TrialBalanceResponse{
		AsOf:         tb.AsOf,
		Accounts:     rows,
		Currencies:   tb.Currencies,
		TotalDebits:  tb.TotalDebits,
		TotalCredits: tb.TotalCredits,
		IsBalanced:   tb.IsBalanced,
	}
}

// ReleaseAccountsRequest lifts the write block on quarantined accounts.
type ReleaseAccountsRequest struct {
	AccountIDs []string `json:"accountIDs" binding:"required,min=1,dive,required"`
}

// QuarantineResponse lists accounts currently blocked for writes.
type QuarantineResponse struct {
	Accounts map[string]string `json:"accounts"`
}
