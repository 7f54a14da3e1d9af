package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/utils/pagination"
	"github.com/google/uuid"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo     portsrepo.AccountRepositoryFacade
	entryReader     portsrepo.EntryReader
	defaultCurrency string
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, entryReader portsrepo.EntryReader, defaultCurrency string, options ...ServiceOption) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService:     newBaseService(options),
		accountRepo:     accountRepo,
		entryReader:     entryReader,
		defaultCurrency: defaultCurrency,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
	}
	accountType, ok := domain.ParseAccountType(req.AccountType)
	if !ok {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}
	currency := strings.ToUpper(strings.TrimSpace(req.CurrencyCode))
	if currency == "" {
		currency = s.defaultCurrency
	}
	var opening domain.Money
	if req.OpeningBalance != "" {
		var err error
		if opening, err = domain.ParseMoney(req.OpeningBalance); err != nil {
			return nil, err
		}
	}

	now := s.Now()
	account := domain.Account{
		AccountID:      uuid.NewString(),
		Name:           name,
		AccountType:    accountType,
		CurrencyCode:   currency,
		OpeningBalance: opening,
		Description:    req.Description,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			s.LogWarn(ctx, err, "Account name already in use", slog.String("name", name))
		} else {
			s.LogError(ctx, err, "Failed to save account", slog.String("account_id", account.AccountID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("account_type", string(accountType)))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		s.LogError(ctx, err, "Failed to find account", slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, params.IncludeClosed)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, err
	}
	return accounts, nil
}

func (s *accountService) CloseAccount(ctx context.Context, accountID string, hard bool) error {
	if _, err := s.GetAccountByID(ctx, accountID); err != nil {
		return err
	}

	if hard {
		if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
			if errors.Is(err, apperrors.ErrAccountHasActivity) {
				s.LogWarn(ctx, err, "Refusing to delete account with activity", slog.String("account_id", accountID))
			} else {
				s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
			}
			return err
		}
		s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID))
		return nil
	}

	if err := s.accountRepo.CloseAccount(ctx, accountID, s.Now()); err != nil {
		s.LogError(ctx, err, "Failed to close account", slog.String("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account closed", slog.String("account_id", accountID))
	return nil
}

func (s *accountService) ComputeBalance(ctx context.Context, accountID string, asOf *time.Time) (*domain.AccountBalance, error) {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	at := s.Now()
	if asOf != nil {
		at = asOf.UTC()
	}
	balance, err := deriveBalance(ctx, s.entryReader, *account, &at)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute balance", slog.String("account_id", accountID))
		return nil, err
	}
	return &domain.AccountBalance{
		AccountID:    account.AccountID,
		CurrencyCode: account.CurrencyCode,
		Balance:      balance,
		AsOf:         at,
	}, nil
}

func (s *accountService) GetAccountStatement(ctx context.Context, accountID string, params dto.StatementParams) (*dto.AccountStatementResponse, error) {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	limit := s.pageLimit(params.Limit)

	var after *portsrepo.StatementCursor
	if params.NextToken != nil && *params.NextToken != "" {
		at, txnID, pos, err := pagination.DecodeStatementToken(*params.NextToken)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		after = &portsrepo.StatementCursor{CreatedAt: at, TransactionID: txnID, Position: pos}
	}

	// One extra line tells us whether another page exists.
	lines, err := s.entryReader.ListAccountStatement(ctx, *account, limit+1, after)
	if err != nil {
		s.LogError(ctx, err, "Failed to list account statement", slog.String("account_id", accountID))
		return nil, err
	}
	var next *string
	if len(lines) > limit {
		lines = lines[:limit]
		last := lines[limit-1]
		token := pagination.EncodeStatementToken(last.CreatedAt, last.TransactionID, last.Position)
		next = &token
	}
	for i := range lines {
		lines[i].RunningBalance = account.OpeningBalance.Add(lines[i].RunningBalance)
	}

	return &dto.AccountStatementResponse{
		AccountID:      account.AccountID,
		CurrencyCode:   account.CurrencyCode,
		OpeningBalance: account.OpeningBalance,
		Lines:          dto.ToStatementLineResponses(lines),
		NextToken:      next,
	}, nil
}
