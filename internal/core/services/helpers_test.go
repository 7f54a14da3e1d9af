package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/core/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/events"
	"github.com/SscSPs/ledger_core/internal/platform/config"
	"github.com/SscSPs/ledger_core/internal/repositories/memory"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// ledger is a fully wired service container over the in-memory store.
type ledger struct {
	ctx   context.Context
	repos portsrepo.RepositoryProvider
	clock *fakeClock
	svc   *portssvc.ServiceContainer
}

func newLedger(t testing.TB, publisher events.Publisher) *ledger {
	t.Helper()
	cfg := &config.Config{DefaultCurrency: "USD", DefaultPageSize: 20, MaxPageSize: 100}
	clock := &fakeClock{now: epoch}
	repos := memory.NewRepositoryProvider(memory.NewStore())
	return &ledger{
		ctx:   context.Background(),
		repos: repos,
		clock: clock,
		svc:   services.NewServiceContainer(cfg, repos, publisher, services.WithClock(clock.Now)),
	}
}

func (l *ledger) open(t testing.TB, name string, accountType domain.AccountType, opening string) domain.Account {
	t.Helper()
	acc, err := l.svc.Account.CreateAccount(l.ctx, dto.CreateAccountRequest{
		Name:           name,
		AccountType:    string(accountType),
		OpeningBalance: opening,
	})
	require.NoError(t, err)
	return *acc
}

func (l *ledger) post(t testing.TB, description string, entries ...dto.EntryRequest) domain.Transaction {
	t.Helper()
	res, err := l.svc.Journal.PostTransaction(l.ctx, dto.PostTransactionRequest{
		Description: description,
		Entries:     entries,
	})
	require.NoError(t, err)
	require.False(t, res.Replayed)
	return res.Transaction
}

func (l *ledger) balance(t testing.TB, accountID string) string {
	t.Helper()
	b, err := l.svc.Account.ComputeBalance(l.ctx, accountID, nil)
	require.NoError(t, err)
	return b.Balance.String()
}

func debit(accountID, amount string) dto.EntryRequest {
	return dto.EntryRequest{AccountID: accountID, Amount: amount, Type: string(domain.Debit)}
}

func credit(accountID, amount string) dto.EntryRequest {
	return dto.EntryRequest{AccountID: accountID, Amount: amount, Type: string(domain.Credit)}
}
