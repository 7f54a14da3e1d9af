package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var t0 = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type StoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	repos portsrepo.RepositoryProvider
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repos = memory.NewRepositoryProvider(memory.NewStore())
	for _, a := range []domain.Account{
		{AccountID: "cash", Name: "Cash", AccountType: domain.Asset},
		{AccountID: "food", Name: "Food", AccountType: domain.Expense},
		{AccountID: "card", Name: "Card", AccountType: domain.Liability},
	} {
		a.CurrencyCode = "USD"
		a.IsActive = true
		s.Require().NoError(s.repos.AccountRepo.SaveAccount(s.ctx, a))
	}
}

func txn(id string, at time.Time, debit, credit, amount string) domain.Transaction {
	m := domain.MustParseMoney(amount)
	return domain.Transaction{
		TransactionID: id,
		Reference:     "REF-" + id,
		CurrencyCode:  "USD",
		CreatedAt:     at,
		Posted:        true,
		Entries: []domain.Entry{
			{EntryID: id + "-d", TransactionID: id, AccountID: debit, Amount: m, Type: domain.Debit},
			{EntryID: id + "-c", TransactionID: id, AccountID: credit, Amount: m, Type: domain.Credit, Position: 1},
		},
	}
}

func (s *StoreTestSuite) save(t domain.Transaction) *domain.Transaction {
	saved, replayed, err := s.repos.JournalRepo.SaveTransaction(s.ctx, t, nil)
	s.Require().NoError(err)
	s.Require().False(replayed)
	return saved
}

func (s *StoreTestSuite) TestAccountNamesAreCaseInsensitive() {
	err := s.repos.AccountRepo.SaveAccount(s.ctx, domain.Account{AccountID: "x", Name: "  CASH ", AccountType: domain.Asset, IsActive: true})
	s.ErrorIs(err, apperrors.ErrDuplicateAccount)
}

func (s *StoreTestSuite) TestSaveTransaction_RejectsUnknownAndClosedAccounts() {
	_, _, err := s.repos.JournalRepo.SaveTransaction(s.ctx, txn("t1", t0, "food", "ghost", "1"), nil)
	s.ErrorIs(err, apperrors.ErrInvalidEntry)

	s.save(txn("t2", t0, "food", "card", "5"))
	s.Require().NoError(s.repos.AccountRepo.CloseAccount(s.ctx, "card", t0.Add(time.Hour)))

	_, _, err = s.repos.JournalRepo.SaveTransaction(s.ctx, txn("t3", t0, "food", "card", "1"), nil)
	s.ErrorIs(err, apperrors.ErrInvalidEntry)

	reversal := txn("t4", t0.Add(2*time.Hour), "card", "food", "5")
	original := "t2"
	reversal.ReversesTransactionID = &original
	s.save(reversal)
}

func (s *StoreTestSuite) TestSaveTransaction_IdempotencyAndReference() {
	first := txn("t1", t0, "food", "cash", "10")
	first.IdempotencyKey = "k1"
	s.save(first)

	retry := txn("t1-retry", t0.Add(time.Minute), "food", "cash", "10")
	retry.IdempotencyKey = "k1"
	got, replayed, err := s.repos.JournalRepo.SaveTransaction(s.ctx, retry, nil)
	s.Require().NoError(err)
	s.True(replayed)
	s.Equal("t1", got.TransactionID)

	dupRef := txn("t2", t0, "food", "cash", "1")
	dupRef.Reference = "REF-t1"
	_, _, err = s.repos.JournalRepo.SaveTransaction(s.ctx, dupRef, nil)
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *StoreTestSuite) TestSaveTransaction_KeyReusedForDifferentPostings() {
	first := txn("t1", t0, "food", "cash", "10")
	first.IdempotencyKey = "k1"
	s.save(first)

	other := txn("t2", t0, "food", "cash", "55")
	other.IdempotencyKey = "k1"
	_, _, err := s.repos.JournalRepo.SaveTransaction(s.ctx, other, nil)
	s.ErrorIs(err, apperrors.ErrIdempotencyKeyReused)
	s.ErrorIs(err, apperrors.ErrConflict)

	s.save(txn("t3", t0, "food", "cash", "20"))
	rev := txn("r1", t0.Add(time.Hour), "cash", "food", "20")
	original := "t3"
	rev.ReversesTransactionID = &original
	rev.IdempotencyKey = "k1"
	_, _, err = s.repos.JournalRepo.SaveTransaction(s.ctx, rev, nil)
	s.ErrorIs(err, apperrors.ErrIdempotencyKeyReused)

	got, err := s.repos.JournalRepo.FindTransactionByID(s.ctx, "t3")
	s.Require().NoError(err)
	s.Nil(got.ReversedByTransactionID)
}

func (s *StoreTestSuite) TestFindTransactionByIdempotencyKey() {
	first := txn("t1", t0, "food", "cash", "10")
	first.IdempotencyKey = "k1"
	s.save(first)

	got, err := s.repos.JournalRepo.FindTransactionByIdempotencyKey(s.ctx, "k1")
	s.Require().NoError(err)
	s.Equal("t1", got.TransactionID)

	_, err = s.repos.JournalRepo.FindTransactionByIdempotencyKey(s.ctx, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *StoreTestSuite) TestSaveTransaction_StampsInsideCommit() {
	stamped := t0.Add(42 * time.Minute)
	saved, replayed, err := s.repos.JournalRepo.SaveTransaction(s.ctx, txn("t1", t0, "food", "cash", "10"),
		func() time.Time { return stamped })
	s.Require().NoError(err)
	s.False(replayed)
	s.Equal(stamped, saved.CreatedAt)

	got, err := s.repos.JournalRepo.FindTransactionByID(s.ctx, "t1")
	s.Require().NoError(err)
	s.Equal(stamped, got.CreatedAt)
}

func (s *StoreTestSuite) TestReversalLinksAreDerivedOnRead() {
	s.save(txn("t1", t0, "food", "cash", "10"))

	rev := txn("r1", t0.Add(time.Hour), "cash", "food", "10")
	original := "t1"
	rev.ReversesTransactionID = &original
	s.save(rev)

	got, err := s.repos.JournalRepo.FindTransactionByID(s.ctx, "t1")
	s.Require().NoError(err)
	s.Require().NotNil(got.ReversedByTransactionID)
	s.Equal("r1", *got.ReversedByTransactionID)

	again := txn("r2", t0.Add(2*time.Hour), "cash", "food", "10")
	again.ReversesTransactionID = &original
	_, _, err = s.repos.JournalRepo.SaveTransaction(s.ctx, again, nil)
	s.ErrorIs(err, apperrors.ErrAlreadyReversed)

	ofReversal := txn("r3", t0.Add(3*time.Hour), "food", "cash", "10")
	reversalID := "r1"
	ofReversal.ReversesTransactionID = &reversalID
	_, _, err = s.repos.JournalRepo.SaveTransaction(s.ctx, ofReversal, nil)
	s.ErrorIs(err, apperrors.ErrCannotReverseReversal)
}

func (s *StoreTestSuite) TestReadsAreCopies() {
	s.save(txn("t1", t0, "food", "cash", "10"))

	got, err := s.repos.JournalRepo.FindTransactionByID(s.ctx, "t1")
	s.Require().NoError(err)
	got.Entries[0].Amount = domain.MustParseMoney("999")

	debits, _, err := s.repos.JournalRepo.AccountEntryTotals(s.ctx, "food", nil)
	s.Require().NoError(err)
	s.Equal("10.00", debits.String())
}

func (s *StoreTestSuite) TestAccountEntryTotalsAsOf() {
	s.save(txn("t1", t0, "food", "cash", "10"))
	s.save(txn("t2", t0.Add(24*time.Hour), "food", "cash", "5"))

	cutoff := t0.Add(time.Hour)
	debits, credits, err := s.repos.JournalRepo.AccountEntryTotals(s.ctx, "food", &cutoff)
	s.Require().NoError(err)
	s.Equal("10.00", debits.String())
	s.True(credits.IsZero())

	debits, _, err = s.repos.JournalRepo.AccountEntryTotals(s.ctx, "food", nil)
	s.Require().NoError(err)
	s.Equal("15.00", debits.String())
}

func (s *StoreTestSuite) TestStatementPagesNewestFirst() {
	for i := range 5 {
		s.save(txn(fmt.Sprintf("t%d", i), t0.Add(time.Duration(i)*time.Hour), "cash", "card", fmt.Sprintf("%d", i+1)))
	}
	cash, err := s.repos.AccountRepo.FindAccountByID(s.ctx, "cash")
	s.Require().NoError(err)

	page, err := s.repos.JournalRepo.ListAccountStatement(s.ctx, *cash, 2, nil)
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Equal("t4", page[0].TransactionID)
	s.Equal("15.00", page[0].RunningBalance.String())
	s.Equal("10.00", page[1].RunningBalance.String())

	last := page[1]
	next, err := s.repos.JournalRepo.ListAccountStatement(s.ctx, *cash, 10, &portsrepo.StatementCursor{
		CreatedAt: last.CreatedAt, TransactionID: last.TransactionID, Position: last.Position,
	})
	s.Require().NoError(err)
	s.Require().Len(next, 3)
	s.Equal("t2", next[0].TransactionID)
	s.Equal("1.00", next[2].RunningBalance.String())
}

func (s *StoreTestSuite) TestSpendingDataWindowAndReversals() {
	s.save(txn("before", t0, "food", "cash", "1"))
	s.save(txn("kept", t0.Add(time.Hour), "food", "cash", "2"))
	s.save(txn("undone", t0.Add(2*time.Hour), "food", "cash", "4"))
	rev := txn("undo", t0.Add(3*time.Hour), "cash", "food", "4")
	undone := "undone"
	rev.ReversesTransactionID = &undone
	s.save(rev)
	s.save(txn("card", t0.Add(4*time.Hour), "food", "card", "8"))

	records, err := s.repos.ReportingRepo.GetSpendingData(s.ctx, "USD", t0, t0.Add(4*time.Hour))
	s.Require().NoError(err)
	var total domain.Money
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	s.Equal("10.00", total.String())

	other, err := s.repos.ReportingRepo.GetSpendingData(s.ctx, "EUR", t0.Add(-time.Hour), t0.Add(5*time.Hour))
	s.Require().NoError(err)
	s.Empty(other)
}

func (s *StoreTestSuite) TestFindUnbalancedTransactions() {
	s.save(txn("ok", t0, "food", "cash", "10"))
	bad := txn("bad", t0, "food", "cash", "10")
	bad.Entries[1].Amount = domain.MustParseMoney("9")
	s.save(bad)

	found, err := s.repos.ReportingRepo.FindUnbalancedTransactions(s.ctx, t0)
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal("bad", found[0].TransactionID)
	s.ElementsMatch([]string{"food", "cash"}, found[0].AccountIDs)
}

func (s *StoreTestSuite) TestDeleteAccount() {
	s.save(txn("t1", t0, "food", "cash", "1"))
	s.ErrorIs(s.repos.AccountRepo.DeleteAccount(s.ctx, "cash"), apperrors.ErrAccountHasActivity)
	s.NoError(s.repos.AccountRepo.DeleteAccount(s.ctx, "card"))
	s.ErrorIs(s.repos.AccountRepo.DeleteAccount(s.ctx, "card"), apperrors.ErrNotFound)

	// The freed name can be reused.
	s.NoError(s.repos.AccountRepo.SaveAccount(s.ctx, domain.Account{AccountID: "card2", Name: "card", AccountType: domain.Liability, IsActive: true}))
}

func TestStore(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func TestConcurrentIdempotentSaves(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositoryProvider(memory.NewStore())
	for _, id := range []string{"cash", "food"} {
		require.NoError(t, repos.AccountRepo.SaveAccount(ctx, domain.Account{AccountID: id, Name: id, AccountType: domain.Asset, IsActive: true}))
	}

	const workers = 16
	var wg sync.WaitGroup
	results := make([]bool, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tx := txn(fmt.Sprintf("t%d", i), t0, "food", "cash", "3")
			tx.Reference = ""
			tx.IdempotencyKey = "same"
			_, replayed, err := repos.JournalRepo.SaveTransaction(ctx, tx, nil)
			assert.NoError(t, err)
			results[i] = replayed
		}()
	}
	wg.Wait()

	fresh := 0
	for _, replayed := range results {
		if !replayed {
			fresh++
		}
	}
	assert.Equal(t, 1, fresh)

	debits, _, err := repos.JournalRepo.AccountEntryTotals(ctx, "food", nil)
	require.NoError(t, err)
	assert.Equal(t, "3.00", debits.String())
}
