package memory

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
)

type reportingRepository struct {
	store *Store
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

func (r *reportingRepository) GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]portsrepo.AccountTotals, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]portsrepo.AccountTotals, 0, len(s.accounts))
	n := 0
	for id, acc := range s.accounts {
		row := portsrepo.AccountTotals{Account: acc}
		for _, ref := range s.byAccount[id] {
			n++
			if err := checkCtx(ctx, n); err != nil {
				return nil, err
			}
			t := s.txns[ref.txnID]
			if t.CreatedAt.After(asOf) {
				continue
			}
			e := t.Entries[ref.index]
			if e.Type == domain.Debit {
				row.TotalDebits = row.TotalDebits.Add(e.Amount)
			} else {
				row.TotalCredits = row.TotalCredits.Add(e.Amount)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *reportingRepository) FindUnbalancedTransactions(ctx context.Context, asOf time.Time) ([]portsrepo.UnbalancedTransaction, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var bad []portsrepo.UnbalancedTransaction
	for i, id := range s.commitOrder {
		if err := checkCtx(ctx, i); err != nil {
			return nil, err
		}
		t := s.txns[id]
		if t.CreatedAt.After(asOf) {
			continue
		}
		debits, credits := t.Totals()
		if debits != credits {
			bad = append(bad, portsrepo.UnbalancedTransaction{
				TransactionID: t.TransactionID,
				AccountIDs:    t.AccountIDs(),
				TotalDebits:   debits,
				TotalCredits:  credits,
			})
		}
	}
	return bad, nil
}

func (r *reportingRepository) GetSpendingData(ctx context.Context, currency string, from, to time.Time) ([]portsrepo.SpendingRecord, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []portsrepo.SpendingRecord
	for i, id := range s.commitOrder {
		if err := checkCtx(ctx, i); err != nil {
			return nil, err
		}
		t := s.txns[id]
		if !t.CreatedAt.After(from) || t.CreatedAt.After(to) {
			continue
		}
		if t.IsReversal() {
			continue
		}
		if _, reversed := s.reversals[id]; reversed {
			continue
		}
		for _, e := range t.Entries {
			if e.Type != domain.Debit {
				continue
			}
			acc := s.accounts[e.AccountID]
			if acc.AccountType != domain.Expense || acc.CurrencyCode != currency {
				continue
			}
			records = append(records, portsrepo.SpendingRecord{CreatedAt: t.CreatedAt, Amount: e.Amount})
		}
	}
	return records, nil
}
