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
)

type accountRepository struct {
	store *Store
}

var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

func (r *accountRepository) SaveAccount(_ context.Context, account domain.Account) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.AccountID]; exists {
		return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, account.AccountID)
	}
	key := nameKey(account.Name)
	if _, taken := s.accountNames[key]; taken {
		return fmt.Errorf("%w: %q", apperrors.ErrDuplicateAccount, account.Name)
	}
	s.accounts[account.AccountID] = account
	s.accountNames[key] = account.AccountID
	return nil
}

func (r *accountRepository) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &acc, nil
}

func (r *accountRepository) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := s.accounts[id]; ok {
			found[id] = acc
		}
	}
	return found, nil
}

func (r *accountRepository) ListAccounts(_ context.Context, includeClosed bool) ([]domain.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]domain.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		if acc.IsActive || includeClosed {
			accounts = append(accounts, acc)
		}
	}
	slices.SortFunc(accounts, func(a, b domain.Account) int {
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.AccountID, b.AccountID)
	})
	return accounts, nil
}

func (r *accountRepository) CloseAccount(_ context.Context, accountID string, closedAt time.Time) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[accountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if !acc.IsActive {
		return nil
	}
	acc.IsActive = false
	acc.ClosedAt = &closedAt
	acc.LastUpdatedAt = closedAt
	s.accounts[accountID] = acc
	return nil
}

func (r *accountRepository) DeleteAccount(_ context.Context, accountID string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[accountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if len(s.byAccount[accountID]) > 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrAccountHasActivity, accountID)
	}
	for _, g := range s.goals {
		if g.AccountID == accountID {
			return fmt.Errorf("%w: account %s backs goal %s", apperrors.ErrAccountHasActivity, accountID, g.GoalID)
		}
	}
	delete(s.accounts, accountID)
	delete(s.accountNames, nameKey(acc.Name))
	return nil
}
