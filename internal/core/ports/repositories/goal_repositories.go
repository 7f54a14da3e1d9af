package repositories

import (
	"context"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// GoalRepositoryFacade persists financial goals. Saved amounts are never
// stored; they derive from the goal account's entries.
type GoalRepositoryFacade interface {
	SaveGoal(ctx context.Context, goal domain.FinancialGoal) error
	FindGoalByID(ctx context.Context, goalID string) (*domain.FinancialGoal, error)
	ListGoals(ctx context.Context) ([]domain.FinancialGoal, error)
}
