package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/google/uuid"
)

const goalAccountPrefix = "Goal: "

type goalService struct {
	BaseService
	goalRepo        portsrepo.GoalRepositoryFacade
	accountRepo     portsrepo.AccountRepositoryFacade
	entryReader     portsrepo.EntryReader
	journal         portssvc.TransactionWriterSvc
	defaultCurrency string
}

// NewGoalService creates the goal service. Contributions are posted through
// journal so they obey every ledger rule.
func NewGoalService(repos portsrepo.RepositoryProvider, journal portssvc.TransactionWriterSvc, defaultCurrency string, options ...ServiceOption) portssvc.GoalSvcFacade {
	return &goalService{
		BaseService:     newBaseService(options),
		goalRepo:        repos.GoalRepo,
		accountRepo:     repos.AccountRepo,
		entryReader:     repos.JournalRepo,
		journal:         journal,
		defaultCurrency: defaultCurrency,
	}
}

var _ portssvc.GoalSvcFacade = (*goalService)(nil)

func parsePositive(s string) (domain.Money, error) {
	m, err := domain.ParseMoney(s)
	if err != nil {
		return domain.Money{}, err
	}
	if !m.IsPositive() {
		return domain.Money{}, fmt.Errorf("%w: %s must be positive", apperrors.ErrInvalidAmount, m)
	}
	return m, nil
}

// checkFunding verifies the funding account can pay into a goal in currency.
func (s *goalService) checkFunding(ctx context.Context, fundingAccountID, currency string) error {
	if strings.TrimSpace(fundingAccountID) == "" {
		return fmt.Errorf("%w: fundingAccountID is required for a contribution", apperrors.ErrInvalidEntry)
	}
	acc, err := s.accountRepo.FindAccountByID(ctx, fundingAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: funding account %s does not exist", apperrors.ErrInvalidEntry, fundingAccountID)
		}
		return err
	}
	if !acc.IsActive {
		return fmt.Errorf("%w: funding account %s is closed", apperrors.ErrInvalidEntry, fundingAccountID)
	}
	if acc.CurrencyCode != currency {
		return fmt.Errorf("%w: funding account is in %s, goal is in %s", apperrors.ErrInvalidEntry, acc.CurrencyCode, currency)
	}
	return nil
}

// CreateGoal opens the goal's ASSET account and records the goal. An initial
// contribution is validated up front and posted afterwards.
func (s *goalService) CreateGoal(ctx context.Context, req dto.CreateGoalRequest) (*domain.FinancialGoal, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: goal name is required", apperrors.ErrValidation)
	}
	target, err := parsePositive(req.TargetAmount)
	if err != nil {
		return nil, err
	}
	currency := strings.ToUpper(strings.TrimSpace(req.CurrencyCode))
	if currency == "" {
		currency = s.defaultCurrency
	}
	var initial domain.Money
	if req.InitialContribution != "" {
		if initial, err = parsePositive(req.InitialContribution); err != nil {
			return nil, err
		}
		if err := s.checkFunding(ctx, req.FundingAccountID, currency); err != nil {
			s.LogWarn(ctx, err, "Rejected goal funding")
			return nil, err
		}
	}

	now := s.Now()
	audit := domain.AuditFields{CreatedAt: now, LastUpdatedAt: now}
	account := domain.Account{
		AccountID:    uuid.NewString(),
		Name:         goalAccountPrefix + name,
		AccountType:  domain.Asset,
		CurrencyCode: currency,
		Description:  "Savings for goal " + name,
		IsActive:     true,
		AuditFields:  audit,
	}
	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogWarn(ctx, err, "Failed to open goal account", slog.String("name", name))
		return nil, err
	}

	goal := domain.FinancialGoal{
		GoalID:       uuid.NewString(),
		Name:         name,
		TargetAmount: target,
		CurrencyCode: currency,
		Deadline:     req.Deadline,
		AccountID:    account.AccountID,
		AuditFields:  audit,
	}
	if err := s.goalRepo.SaveGoal(ctx, goal); err != nil {
		s.LogError(ctx, err, "Failed to save goal", slog.String("goal_id", goal.GoalID))
		return nil, err
	}
	s.LogInfo(ctx, "Goal created", slog.String("goal_id", goal.GoalID), slog.String("account_id", account.AccountID))

	if initial.IsPositive() {
		if _, err := s.post(ctx, goal, initial, req.FundingAccountID, req.IdempotencyKey); err != nil {
			return nil, err
		}
	}
	return s.GetGoal(ctx, goal.GoalID)
}

// Contribute moves amount from the funding account into the goal.
func (s *goalService) Contribute(ctx context.Context, goalID string, req dto.ContributeGoalRequest) (*dto.PostTransactionResult, error) {
	goal, err := s.findGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}
	amount, err := parsePositive(req.Amount)
	if err != nil {
		return nil, err
	}
	return s.post(ctx, *goal, amount, req.FundingAccountID, req.IdempotencyKey)
}

func (s *goalService) post(ctx context.Context, goal domain.FinancialGoal, amount domain.Money, fundingAccountID, idempotencyKey string) (*dto.PostTransactionResult, error) {
	res, err := s.journal.PostTransaction(ctx, dto.PostTransactionRequest{
		Description: "Contribution to goal: " + goal.Name,
		Entries: []dto.EntryRequest{
			{AccountID: goal.AccountID, Amount: amount.String(), Type: string(domain.Debit)},
			{AccountID: fundingAccountID, Amount: amount.String(), Type: string(domain.Credit)},
		},
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Goal contribution posted",
		slog.String("goal_id", goal.GoalID),
		slog.String("transaction_id", res.Transaction.TransactionID),
		slog.String("amount", amount.String()))
	return res, nil
}

func (s *goalService) findGoal(ctx context.Context, goalID string) (*domain.FinancialGoal, error) {
	goal, err := s.goalRepo.FindGoalByID(ctx, goalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: goal %s", apperrors.ErrNotFound, goalID)
		}
		s.LogError(ctx, err, "Failed to find goal", slog.String("goal_id", goalID))
		return nil, err
	}
	return goal, nil
}

// withSaved fills in the goal's saved amount from its account balance.
func (s *goalService) withSaved(ctx context.Context, goal *domain.FinancialGoal) error {
	account, err := s.accountRepo.FindAccountByID(ctx, goal.AccountID)
	if err != nil {
		return fmt.Errorf("goal %s account: %w", goal.GoalID, err)
	}
	goal.Saved, err = deriveBalance(ctx, s.entryReader, *account, nil)
	return err
}

func (s *goalService) GetGoal(ctx context.Context, goalID string) (*domain.FinancialGoal, error) {
	goal, err := s.findGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if err := s.withSaved(ctx, goal); err != nil {
		s.LogError(ctx, err, "Failed to compute goal balance", slog.String("goal_id", goalID))
		return nil, err
	}
	return goal, nil
}

func (s *goalService) ListGoals(ctx context.Context) ([]domain.FinancialGoal, error) {
	goals, err := s.goalRepo.ListGoals(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list goals")
		return nil, err
	}
	for i := range goals {
		if err := s.withSaved(ctx, &goals[i]); err != nil {
			s.LogError(ctx, err, "Failed to compute goal balance", slog.String("goal_id", goals[i].GoalID))
			return nil, err
		}
	}
	return goals, nil
}
