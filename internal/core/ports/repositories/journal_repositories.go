package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// StatementCursor positions a statement page after the given entry.
type StatementCursor struct {
	CreatedAt     time.Time
	TransactionID string
	Position      int
}

// TransactionReader defines read operations for posted transactions.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction with its entries and derived
	// reversal link.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindTransactionByIdempotencyKey retrieves the transaction committed under
	// key, or apperrors.ErrNotFound.
	FindTransactionByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error)

	// ListTransactions returns transactions with created_at inside the optional
	// inclusive bounds, newest first, entries included.
	ListTransactions(ctx context.Context, from, to *time.Time) ([]domain.Transaction, error)
}

// EntryReader defines per-account reads over journal lines.
type EntryReader interface {
	// AccountEntryTotals sums debit and credit amounts posted to an account up to
	// asOf inclusive. A nil asOf means all entries.
	AccountEntryTotals(ctx context.Context, accountID string, asOf *time.Time) (debits, credits domain.Money, err error)

	// HasEntries reports whether any entry references the account.
	HasEntries(ctx context.Context, accountID string) (bool, error)

	// ListAccountStatement returns up to limit lines for account, newest first,
	// strictly after the cursor. RunningBalance on each line excludes the
	// account's opening balance.
	ListAccountStatement(ctx context.Context, account domain.Account, limit int, after *StatementCursor) ([]domain.StatementLine, error)
}

// TransactionWriter defines the single mutation path of the ledger.
type TransactionWriter interface {
	// SaveTransaction atomically persists the header and all entries.
	//
	// Inside the commit boundary it re-checks that every account exists (and is
	// active unless txn is a reversal) and rejects a reused reference with
	// apperrors.ErrDuplicate and a second reversal of the same transaction with
	// apperrors.ErrAlreadyReversed. An earlier transaction under the same
	// idempotency key is replayed (replayed=true) when it carries the same
	// postings, and rejected with apperrors.ErrIdempotencyKeyReused otherwise.
	//
	// A non-nil stamp sets CreatedAt once the touched accounts are locked, so
	// no commit becomes visible with a timestamp older than a read already
	// served by the store.
	SaveTransaction(ctx context.Context, txn domain.Transaction, stamp func() time.Time) (saved *domain.Transaction, replayed bool, err error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	TransactionReader
	EntryReader
	TransactionWriter
}
