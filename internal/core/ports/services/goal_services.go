package services

import (
	"context"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
)

// GoalSvcFacade manages financial goals. Funding always goes through the
// journal engine.
type GoalSvcFacade interface {
	CreateGoal(ctx context.Context, req dto.CreateGoalRequest) (*domain.FinancialGoal, error)
	Contribute(ctx context.Context, goalID string, req dto.ContributeGoalRequest) (*dto.PostTransactionResult, error)
	GetGoal(ctx context.Context, goalID string) (*domain.FinancialGoal, error)
	ListGoals(ctx context.Context) ([]domain.FinancialGoal, error)
}
