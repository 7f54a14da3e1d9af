package services

import (
	"context"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// AnalyticsSvc defines read-only projections over the journal.
type AnalyticsSvc interface {
	// SpendingStats aggregates expense debits for one of the fixed periods.
	// An empty currency means the configured default.
	SpendingStats(ctx context.Context, period string, currency string) (*domain.SpendingStats, error)

	// GoalProgress reports min(round(saved/target*100), 100).
	GoalProgress(ctx context.Context, goalID string) (*domain.GoalProgress, error)
}
