package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) CloseAccount(ctx context.Context, accountID string, hard bool) error {
	return m.Called(ctx, accountID, hard).Error(0)
}
func (m *MockAccountService) ComputeBalance(ctx context.Context, accountID string, asOf *time.Time) (*domain.AccountBalance, error) {
	args := m.Called(ctx, accountID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountBalance), args.Error(1)
}
func (m *MockAccountService) GetAccountStatement(ctx context.Context, accountID string, params dto.StatementParams) (*dto.AccountStatementResponse, error) {
	args := m.Called(ctx, accountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AccountStatementResponse), args.Error(1)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockJournalService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}
func (m *MockJournalService) PostTransaction(ctx context.Context, req dto.PostTransactionRequest) (*dto.PostTransactionResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PostTransactionResult), args.Error(1)
}
func (m *MockJournalService) ReverseTransaction(ctx context.Context, transactionID string, idempotencyKey string) (*dto.PostTransactionResult, error) {
	args := m.Called(ctx, transactionID, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PostTransactionResult), args.Error(1)
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) GetTrialBalance(ctx context.Context, asOf *time.Time) (*domain.TrialBalance, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

// --- Mock IntegrityService ---
type MockIntegrityService struct {
	mock.Mock
}

func (m *MockIntegrityService) QuarantinedAccounts(ctx context.Context) map[string]string {
	return m.Called(ctx).Get(0).(map[string]string)
}
func (m *MockIntegrityService) ReleaseAccounts(ctx context.Context, accountIDs []string) {
	m.Called(ctx, accountIDs)
}

var _ portssvc.IntegritySvc = (*MockIntegrityService)(nil)

// --- Mock AnalyticsService ---
type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) SpendingStats(ctx context.Context, period string, currency string) (*domain.SpendingStats, error) {
	args := m.Called(ctx, period, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SpendingStats), args.Error(1)
}
func (m *MockAnalyticsService) GoalProgress(ctx context.Context, goalID string) (*domain.GoalProgress, error) {
	args := m.Called(ctx, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GoalProgress), args.Error(1)
}

var _ portssvc.AnalyticsSvc = (*MockAnalyticsService)(nil)

// --- Mock GoalService ---
type MockGoalService struct {
	mock.Mock
}

func (m *MockGoalService) CreateGoal(ctx context.Context, req dto.CreateGoalRequest) (*domain.FinancialGoal, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialGoal), args.Error(1)
}
func (m *MockGoalService) Contribute(ctx context.Context, goalID string, req dto.ContributeGoalRequest) (*dto.PostTransactionResult, error) {
	args := m.Called(ctx, goalID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PostTransactionResult), args.Error(1)
}
func (m *MockGoalService) GetGoal(ctx context.Context, goalID string) (*domain.FinancialGoal, error) {
	args := m.Called(ctx, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialGoal), args.Error(1)
}
func (m *MockGoalService) ListGoals(ctx context.Context) ([]domain.FinancialGoal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FinancialGoal), args.Error(1)
}

var _ portssvc.GoalSvcFacade = (*MockGoalService)(nil)
