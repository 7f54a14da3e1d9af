package memory

import (
	"context"
	"fmt"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
)

type goalRepository struct {
	store *Store
}

var _ portsrepo.GoalRepositoryFacade = (*goalRepository)(nil)

func (r *goalRepository) SaveGoal(_ context.Context, goal domain.FinancialGoal) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.goals[goal.GoalID]; exists {
		return fmt.Errorf("%w: goal %s", apperrors.ErrDuplicate, goal.GoalID)
	}
	if _, ok := s.accounts[goal.AccountID]; !ok {
		return fmt.Errorf("%w: goal account %s does not exist", apperrors.ErrInvalidEntry, goal.AccountID)
	}
	s.goals[goal.GoalID] = goal
	s.goalOrder = append(s.goalOrder, goal.GoalID)
	return nil
}

func (r *goalRepository) FindGoalByID(_ context.Context, goalID string) (*domain.FinancialGoal, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.goals[goalID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &g, nil
}

func (r *goalRepository) ListGoals(_ context.Context) ([]domain.FinancialGoal, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	goals := make([]domain.FinancialGoal, 0, len(s.goalOrder))
	for _, id := range s.goalOrder {
		goals = append(goals, s.goals[id])
	}
	return goals, nil
}
