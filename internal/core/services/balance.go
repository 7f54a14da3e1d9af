package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/utils/accounting"
)

// deriveBalance folds the account's posted entries up to asOf into a
// balance on its normal side, opening balance included.
func deriveBalance(ctx context.Context, entries portsrepo.EntryReader, account domain.Account, asOf *time.Time) (domain.Money, error) {
	debits, credits, err := entries.AccountEntryTotals(ctx, account.AccountID, asOf)
	if err != nil {
		return domain.Money{}, fmt.Errorf("failed to sum entries for account %s: %w", account.AccountID, err)
	}
	return accounting.AccountBalance(account.AccountType, account.OpeningBalance, debits, credits), nil
}
