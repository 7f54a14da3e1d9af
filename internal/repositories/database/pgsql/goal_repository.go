package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/models"
	"github.com/SscSPs/ledger_core/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const goalColumns = `goal_id, name, target_amount, currency_code, deadline, account_id, created_at, last_updated_at`

type PgxGoalRepository struct {
	BaseRepository
}

func newPgxGoalRepository(pool *pgxpool.Pool) *PgxGoalRepository {
	return &PgxGoalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.GoalRepositoryFacade = (*PgxGoalRepository)(nil)

func scanGoal(row pgx.Row) (domain.FinancialGoal, error) {
	var m models.Goal
	if err := row.Scan(
		&m.GoalID,
		&m.Name,
		&m.TargetAmount,
		&m.CurrencyCode,
		&m.Deadline,
		&m.AccountID,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	); err != nil {
		return domain.FinancialGoal{}, err
	}
	return mapping.ToDomainGoal(m)
}

func (r *PgxGoalRepository) SaveGoal(ctx context.Context, goal domain.FinancialGoal) error {
	m := mapping.ToModelGoal(goal)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO goals (`+goalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`, m.GoalID, m.Name, m.TargetAmount, m.CurrencyCode, m.Deadline, m.AccountID, m.CreatedAt, m.LastUpdatedAt)
	if err != nil {
		if pgErr, ok := pgError(err); ok {
			switch pgErr.Code {
			case pgUniqueViolation:
				return fmt.Errorf("%w: goal %s", apperrors.ErrDuplicate, m.GoalID)
			case pgForeignKeyViolation:
				return fmt.Errorf("%w: goal account %s does not exist", apperrors.ErrInvalidEntry, m.AccountID)
			}
		}
		return fmt.Errorf("failed to save goal %s: %w", m.GoalID, err)
	}
	return nil
}

func (r *PgxGoalRepository) FindGoalByID(ctx context.Context, goalID string) (*domain.FinancialGoal, error) {
	goal, err := scanGoal(r.Pool.QueryRow(ctx, `SELECT `+goalColumns+` FROM goals WHERE goal_id = $1;`, goalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find goal %s: %w", goalID, err)
	}
	return &goal, nil
}

func (r *PgxGoalRepository) ListGoals(ctx context.Context) ([]domain.FinancialGoal, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+goalColumns+` FROM goals ORDER BY created_at, goal_id;`)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	goals := []domain.FinancialGoal{}
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}
