package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single account in a trial balance report.
type TrialBalanceRow struct {
	AccountID    string      `json:"accountID"`
	AccountName  string      `json:"accountName"`
	AccountType  AccountType `json:"accountType"`
	CurrencyCode string      `json:"currencyCode"`
	TotalDebits  Money       `json:"totalDebits"`
	TotalCredits Money       `json:"totalCredits"`
	Balance      Money       `json:"balance"`
}

// CurrencyTotals is the debit/credit check for the accounts of one currency.
type CurrencyTotals struct {
	CurrencyCode string `json:"currencyCode"`
	TotalDebits  Money  `json:"totalDebits"`
	TotalCredits Money  `json:"totalCredits"`
}

// TrialBalance is the ledger wide debit/credit check at a point in time.
// TotalDebits and TotalCredits add minor units across currencies, so only
// their equality is meaningful once more than one currency is in use; the
// amounts themselves live in Currencies.
type TrialBalance struct {
	AsOf         time.Time         `json:"asOf"`
	Accounts     []TrialBalanceRow `json:"accounts"`
	Currencies   []CurrencyTotals  `json:"currencies"`
	TotalDebits  Money             `json:"totalDebits"`
	TotalCredits Money             `json:"totalCredits"`
	IsBalanced   bool              `json:"isBalanced"`
}

// SpendingPeriod is one of the fixed analytics windows.
type SpendingPeriod string

const (
	Period24Hours  SpendingPeriod = "24h"
	Period7Days    SpendingPeriod = "7d"
	Period30Days   SpendingPeriod = "30d"
	Period12Months SpendingPeriod = "12m"
)

// ParseSpendingPeriod validates s.
func ParseSpendingPeriod(s string) (SpendingPeriod, bool) {
	switch p := SpendingPeriod(s); p {
	case Period24Hours, Period7Days, Period30Days, Period12Months:
		return p, true
	}
	return "", false
}

// Start returns the exclusive lower bound of the window ending at end.
func (p SpendingPeriod) Start(end time.Time) time.Time {
	switch p {
	case Period24Hours:
		return end.Add(-24 * time.Hour)
	case Period7Days:
		return end.AddDate(0, 0, -7)
	case Period30Days:
		return end.AddDate(0, 0, -30)
	default:
		return end.AddDate(0, -12, 0)
	}
}

// BucketStart truncates t (in UTC) to the bucket it falls into: hours for
// 24h, days for 7d and 30d, months for 12m.
func (p SpendingPeriod) BucketStart(t time.Time) time.Time {
	t = t.UTC()
	switch p {
	case Period24Hours:
		return t.Truncate(time.Hour)
	case Period7Days, Period30Days:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
}

// SpendingBucket is the total spent within one bucket.
type SpendingBucket struct {
	Date   time.Time `json:"date"`
	Amount Money     `json:"amount"`
}

// SpendingStats summarises expense activity over a period.
// PercentageChange is nil when the previous window had no spending but the
// current one does.
type SpendingStats struct {
	Period           SpendingPeriod   `json:"period"`
	CurrencyCode     string           `json:"currencyCode"`
	From             time.Time        `json:"from"`
	To               time.Time        `json:"to"`
	Total            Money            `json:"total"`
	PreviousTotal    Money            `json:"previousTotal"`
	PercentageChange *decimal.Decimal `json:"percentageChange"`
	History          []SpendingBucket `json:"history"`
}

// GoalProgress reports how far a goal has been funded.
type GoalProgress struct {
	GoalID  string `json:"goalID"`
	Saved   Money  `json:"saved"`
	Target  Money  `json:"target"`
	Percent int    `json:"percent"`
}
