package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// AccountTotals pairs an account with the entry totals posted against it.
type AccountTotals struct {
	Account      domain.Account
	TotalDebits  domain.Money
	TotalCredits domain.Money
}

// SpendingRecord is a single DEBIT on an EXPENSE account.
type SpendingRecord struct {
	CreatedAt time.Time
	Amount    domain.Money
}

// UnbalancedTransaction identifies a stored transaction whose entries do not balance.
type UnbalancedTransaction struct {
	TransactionID string
	AccountIDs    []string
	TotalDebits   domain.Money
	TotalCredits  domain.Money
}

// ReportingRepository defines operations for retrieving financial report data.
// Every method reads a single consistent snapshot.
type ReportingRepository interface {
	// GetTrialBalanceData returns every account (open or closed) with its entry
	// totals as of asOf inclusive.
	GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]AccountTotals, error)

	// FindUnbalancedTransactions lists transactions up to asOf whose own debits
	// and credits differ.
	FindUnbalancedTransactions(ctx context.Context, asOf time.Time) ([]UnbalancedTransaction, error)

	// GetSpendingData returns DEBIT entries against EXPENSE accounts in currency
	// with from < created_at <= to. Reversed transactions and reversals are excluded.
	GetSpendingData(ctx context.Context, currency string, from, to time.Time) ([]SpendingRecord, error)
}
