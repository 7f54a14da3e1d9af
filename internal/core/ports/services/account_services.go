package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its ID.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts lists accounts ordered by name; closed accounts only on request.
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount opens a new account.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)

	// CloseAccount soft-closes an account, or deletes it when hard is set and
	// no entry references it.
	CloseAccount(ctx context.Context, accountID string, hard bool) error
}

// AccountBalanceSvc defines derived balance reads.
type AccountBalanceSvc interface {
	// ComputeBalance sums posted entries up to asOf (nil means now) plus the opening balance.
	ComputeBalance(ctx context.Context, accountID string, asOf *time.Time) (*domain.AccountBalance, error)

	// GetAccountStatement pages the account's entries newest first with running balances.
	GetAccountStatement(ctx context.Context, accountID string, params dto.StatementParams) (*dto.AccountStatementResponse, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountBalanceSvc
}
