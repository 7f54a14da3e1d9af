package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// ReportingService defines the trial balance calculator.
type ReportingService interface {
	// GetTrialBalance reports every open account as of asOf (nil means now).
	// Returns apperrors.ErrLedgerInconsistency when debits and credits differ.
	GetTrialBalance(ctx context.Context, asOf *time.Time) (*domain.TrialBalance, error)
}

// IntegritySvc exposes the write block placed on accounts after an
// inconsistency was detected.
type IntegritySvc interface {
	QuarantinedAccounts(ctx context.Context) map[string]string
	ReleaseAccounts(ctx context.Context, accountIDs []string)
}
