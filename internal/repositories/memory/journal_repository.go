package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/core/query"
)

type journalRepository struct {
	store *Store
}

var _ portsrepo.JournalRepositoryFacade = (*journalRepository)(nil)

// SaveTransaction commits txn under the store's write lock, so readers see
// either none or all of it.
func (r *journalRepository) SaveTransaction(_ context.Context, txn domain.Transaction, stamp func() time.Time) (*domain.Transaction, bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if txn.IdempotencyKey != "" {
		if id, ok := s.byIdempotency[txn.IdempotencyKey]; ok {
			existing := s.copyTxn(s.txns[id])
			if !existing.SameRequest(txn) {
				return nil, false, fmt.Errorf("%w: key %q belongs to transaction %s", apperrors.ErrIdempotencyKeyReused, txn.IdempotencyKey, id)
			}
			return &existing, true, nil
		}
	}
	if stamp != nil {
		txn.CreatedAt = stamp()
	}
	if _, exists := s.txns[txn.TransactionID]; exists {
		return nil, false, fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, txn.TransactionID)
	}
	if txn.Reference != "" {
		if _, taken := s.byReference[txn.Reference]; taken {
			return nil, false, fmt.Errorf("%w: reference %q is already used", apperrors.ErrDuplicate, txn.Reference)
		}
	}

	for _, e := range txn.Entries {
		acc, ok := s.accounts[e.AccountID]
		if !ok {
			return nil, false, fmt.Errorf("%w: account %s does not exist", apperrors.ErrInvalidEntry, e.AccountID)
		}
		if !acc.IsActive && !txn.IsReversal() {
			return nil, false, fmt.Errorf("%w: account %s is closed", apperrors.ErrInvalidEntry, e.AccountID)
		}
	}

	if txn.IsReversal() {
		originalID := *txn.ReversesTransactionID
		original, ok := s.txns[originalID]
		if !ok {
			return nil, false, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, originalID)
		}
		if original.IsReversal() {
			return nil, false, fmt.Errorf("%w: transaction %s", apperrors.ErrCannotReverseReversal, originalID)
		}
		if existing, done := s.reversals[originalID]; done {
			return nil, false, fmt.Errorf("%w: transaction %s was reversed by %s", apperrors.ErrAlreadyReversed, originalID, existing)
		}
	}

	stored := txn
	stored.Entries = slices.Clone(txn.Entries)
	stored.ReversedByTransactionID = nil
	s.txns[stored.TransactionID] = stored
	s.commitOrder = append(s.commitOrder, stored.TransactionID)
	for i, e := range stored.Entries {
		s.byAccount[e.AccountID] = append(s.byAccount[e.AccountID], entryRef{txnID: stored.TransactionID, index: i})
	}
	if stored.IdempotencyKey != "" {
		s.byIdempotency[stored.IdempotencyKey] = stored.TransactionID
	}
	if stored.Reference != "" {
		s.byReference[stored.Reference] = stored.TransactionID
	}
	if stored.IsReversal() {
		s.reversals[*stored.ReversesTransactionID] = stored.TransactionID
	}

	saved := s.copyTxn(stored)
	return &saved, false, nil
}

func (r *journalRepository) FindTransactionByIdempotencyKey(_ context.Context, key string) (*domain.Transaction, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byIdempotency[key]
	if !ok {
		return nil, fmt.Errorf("%w: idempotency key %q", apperrors.ErrNotFound, key)
	}
	t := s.copyTxn(s.txns[id])
	return &t, nil
}

func (r *journalRepository) FindTransactionByID(_ context.Context, transactionID string) (*domain.Transaction, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.txns[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	c := s.copyTxn(t)
	return &c, nil
}

func (r *journalRepository) ListTransactions(ctx context.Context, from, to *time.Time) ([]domain.Transaction, error) {
	s := r.store
	s.mu.RLock()
	out := make([]domain.Transaction, 0, len(s.commitOrder))
	for i, id := range s.commitOrder {
		if err := checkCtx(ctx, i); err != nil {
			s.mu.RUnlock()
			return nil, err
		}
		t := s.txns[id]
		if from != nil && t.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && t.CreatedAt.After(*to) {
			continue
		}
		out = append(out, s.copyTxn(t))
	}
	s.mu.RUnlock()

	query.SortNewestFirst(out)
	return out, nil
}

func (r *journalRepository) AccountEntryTotals(_ context.Context, accountID string, asOf *time.Time) (domain.Money, domain.Money, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var debits, credits domain.Money
	for _, ref := range s.byAccount[accountID] {
		t := s.txns[ref.txnID]
		if asOf != nil && t.CreatedAt.After(*asOf) {
			continue
		}
		e := t.Entries[ref.index]
		if e.Type == domain.Debit {
			debits = debits.Add(e.Amount)
		} else {
			credits = credits.Add(e.Amount)
		}
	}
	return debits, credits, nil
}

func (r *journalRepository) HasEntries(_ context.Context, accountID string) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byAccount[accountID]) > 0, nil
}

// statementKeyCmp orders lines by (created_at, transaction id, position).
func statementKeyCmp(at time.Time, txnID string, pos int, cur portsrepo.StatementCursor) int {
	if c := at.Compare(cur.CreatedAt); c != 0 {
		return c
	}
	if c := strings.Compare(txnID, cur.TransactionID); c != 0 {
		return c
	}
	return pos - cur.Position
}

func (r *journalRepository) ListAccountStatement(ctx context.Context, account domain.Account, limit int, after *portsrepo.StatementCursor) ([]domain.StatementLine, error) {
	s := r.store
	s.mu.RLock()
	lines := make([]domain.StatementLine, 0, len(s.byAccount[account.AccountID]))
	for i, ref := range s.byAccount[account.AccountID] {
		if err := checkCtx(ctx, i); err != nil {
			s.mu.RUnlock()
			return nil, err
		}
		t := s.txns[ref.txnID]
		e := t.Entries[ref.index]
		lines = append(lines, domain.StatementLine{
			Entry:        e,
			Description:  t.Description,
			CreatedAt:    t.CreatedAt,
			SignedAmount: account.AccountType.SignedAmount(e.Type, e.Amount),
		})
	}
	s.mu.RUnlock()

	slices.SortFunc(lines, func(a, b domain.StatementLine) int {
		return statementKeyCmp(a.CreatedAt, a.TransactionID, a.Position, portsrepo.StatementCursor{
			CreatedAt: b.CreatedAt, TransactionID: b.TransactionID, Position: b.Position,
		})
	})
	var running domain.Money
	for i := range lines {
		running = running.Add(lines[i].SignedAmount)
		lines[i].RunningBalance = running
	}

	page := make([]domain.StatementLine, 0, limit)
	for i := len(lines) - 1; i >= 0 && len(page) < limit; i-- {
		l := lines[i]
		if after != nil && statementKeyCmp(l.CreatedAt, l.TransactionID, l.Position, *after) >= 0 {
			continue
		}
		page = append(page, l)
	}
	return page, nil
}
