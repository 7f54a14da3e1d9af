// Package memory is the in-process storage backend. A single RWMutex makes
// every commit one indivisible step: writers hold the write lock for the
// whole commit and readers copy out a snapshot under the read lock.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
)

// scanCheckEvery bounds how many rows a long scan processes between
// context cancellation checks.
const scanCheckEvery = 512

type entryRef struct {
	txnID string
	index int
}

// Store holds the whole ledger in memory.
type Store struct {
	mu sync.RWMutex

	accounts     map[string]domain.Account
	accountNames map[string]string // lower(name) -> account id

	txns          map[string]domain.Transaction
	commitOrder   []string
	byAccount     map[string][]entryRef
	byIdempotency map[string]string
	byReference   map[string]string
	reversals     map[string]string // original id -> reversal id

	goals     map[string]domain.FinancialGoal
	goalOrder []string
}

// NewStore creates an empty ledger.
func NewStore() *Store {
	return &Store{
		accounts:      make(map[string]domain.Account),
		accountNames:  make(map[string]string),
		txns:          make(map[string]domain.Transaction),
		byAccount:     make(map[string][]entryRef),
		byIdempotency: make(map[string]string),
		byReference:   make(map[string]string),
		reversals:     make(map[string]string),
		goals:         make(map[string]domain.FinancialGoal),
	}
}

// NewRepositoryProvider wires every repository to one shared store.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:   &accountRepository{store: store},
		JournalRepo:   &journalRepository{store: store},
		ReportingRepo: &reportingRepository{store: store},
		GoalRepo:      &goalRepository{store: store},
	}
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// copyTxn returns a deep copy with the derived reversal link filled in.
// Caller must hold s.mu.
func (s *Store) copyTxn(t domain.Transaction) domain.Transaction {
	t.Entries = slices.Clone(t.Entries)
	if id, ok := s.reversals[t.TransactionID]; ok {
		rid := id
		t.ReversedByTransactionID = &rid
	} else {
		t.ReversedByTransactionID = nil
	}
	return t
}

// checkCtx is called periodically by long scans.
func checkCtx(ctx context.Context, i int) error {
	if i%scanCheckEvery == 0 {
		return ctx.Err()
	}
	return nil
}
