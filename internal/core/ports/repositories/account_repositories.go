package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs. Missing ids are
	// simply absent from the result.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts returns accounts ordered by name.
	ListAccounts(ctx context.Context, includeClosed bool) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. Returns apperrors.ErrDuplicateAccount
	// when the name is already taken (case-insensitive).
	SaveAccount(ctx context.Context, account domain.Account) error

	// CloseAccount marks an account inactive. Closing a closed account is a no-op.
	CloseAccount(ctx context.Context, accountID string, closedAt time.Time) error

	// DeleteAccount physically removes an account that no entry references.
	// Returns apperrors.ErrAccountHasActivity otherwise.
	DeleteAccount(ctx context.Context, accountID string) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
