package services

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/utils/accounting"
)

// typeOrder is the conventional trial balance layout.
var typeOrder = map[domain.AccountType]int{
	domain.Asset:     0,
	domain.Liability: 1,
	domain.Equity:    2,
	domain.Revenue:   3,
	domain.Expense:   4,
}

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	guard         *IntegrityGuard
}

// NewReportingService creates a new reporting service. Imbalances it finds
// are quarantined in guard.
func NewReportingService(repo portsrepo.ReportingRepository, guard *IntegrityGuard, options ...ServiceOption) portssvc.ReportingService {
	if guard == nil {
		guard = NewIntegrityGuard()
	}
	return &reportingService{
		BaseService:   newBaseService(options),
		reportingRepo: repo,
		guard:         guard,
	}
}

var _ portssvc.ReportingService = (*reportingService)(nil)

// openAt reports whether acc existed and was not yet closed at t.
func openAt(acc domain.Account, t time.Time) bool {
	if acc.CreatedAt.After(t) {
		return false
	}
	return acc.ClosedAt == nil || acc.ClosedAt.After(t)
}

// GetTrialBalance generates a trial balance report as of a specific time.
func (s *reportingService) GetTrialBalance(ctx context.Context, asOf *time.Time) (*domain.TrialBalance, error) {
	at := s.Now()
	if asOf != nil {
		at = asOf.UTC()
	}

	data, err := s.reportingRepo.GetTrialBalanceData(ctx, at)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve trial balance data",
			slog.String("asOf", at.Format(time.RFC3339)))
		return nil, fmt.Errorf("failed to retrieve trial balance data: %w", err)
	}

	tb := &domain.TrialBalance{AsOf: at, Accounts: make([]domain.TrialBalanceRow, 0, len(data))}
	byCurrency := make(map[string]*domain.CurrencyTotals)
	for _, row := range data {
		if tb.TotalDebits, err = tb.TotalDebits.CheckedAdd(row.TotalDebits); err != nil {
			return nil, err
		}
		if tb.TotalCredits, err = tb.TotalCredits.CheckedAdd(row.TotalCredits); err != nil {
			return nil, err
		}
		ct, ok := byCurrency[row.Account.CurrencyCode]
		if !ok {
			ct = &domain.CurrencyTotals{CurrencyCode: row.Account.CurrencyCode}
			byCurrency[row.Account.CurrencyCode] = ct
		}
		ct.TotalDebits = ct.TotalDebits.Add(row.TotalDebits)
		ct.TotalCredits = ct.TotalCredits.Add(row.TotalCredits)
		if !openAt(row.Account, at) {
			continue
		}
		tb.Accounts = append(tb.Accounts, domain.TrialBalanceRow{
			AccountID:    row.Account.AccountID,
			AccountName:  row.Account.Name,
			AccountType:  row.Account.AccountType,
			CurrencyCode: row.Account.CurrencyCode,
			TotalDebits:  row.TotalDebits,
			TotalCredits: row.TotalCredits,
			Balance: accounting.AccountBalance(row.Account.AccountType,
				row.Account.OpeningBalance, row.TotalDebits, row.TotalCredits),
		})
	}
	slices.SortFunc(tb.Accounts, func(a, b domain.TrialBalanceRow) int {
		if c := cmp.Compare(typeOrder[a.AccountType], typeOrder[b.AccountType]); c != 0 {
			return c
		}
		return strings.Compare(strings.ToLower(a.AccountName), strings.ToLower(b.AccountName))
	})
	tb.IsBalanced = tb.TotalDebits == tb.TotalCredits
	tb.Currencies = make([]domain.CurrencyTotals, 0, len(byCurrency))
	for _, code := range slices.Sorted(maps.Keys(byCurrency)) {
		ct := *byCurrency[code]
		tb.Currencies = append(tb.Currencies, ct)
		if ct.TotalDebits != ct.TotalCredits {
			tb.IsBalanced = false
		}
	}

	if !tb.IsBalanced {
		return nil, s.quarantineImbalance(ctx, tb)
	}

	s.LogInfo(ctx, "Trial balance report generated successfully",
		slog.String("asOf", at.Format(time.RFC3339)),
		slog.Int("row_count", len(tb.Accounts)))
	return tb, nil
}

// quarantineImbalance locates the offending transactions, blocks the
// accounts they touch and raises an alert. When no single transaction is to
// blame the whole ledger is blocked.
func (s *reportingService) quarantineImbalance(ctx context.Context, tb *domain.TrialBalance) error {
	bad, err := s.reportingRepo.FindUnbalancedTransactions(ctx, tb.AsOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to locate unbalanced transactions")
		bad = nil
	}

	var accountIDs, txnIDs []string
	for _, b := range bad {
		txnIDs = append(txnIDs, b.TransactionID)
		accountIDs = append(accountIDs, b.AccountIDs...)
	}
	slices.Sort(accountIDs)
	accountIDs = slices.Compact(accountIDs)

	reason := fmt.Sprintf("trial balance as of %s: debits %s, credits %s",
		tb.AsOf.Format(time.RFC3339), tb.TotalDebits, tb.TotalCredits)
	s.guard.Quarantine(accountIDs, reason)

	inconsistency := fmt.Errorf("%w: debits %s, credits %s", apperrors.ErrLedgerInconsistency, tb.TotalDebits, tb.TotalCredits)
	s.LogError(ctx, inconsistency, "Ledger inconsistency detected",
		slog.Bool("alert", true),
		slog.String("total_debits", tb.TotalDebits.String()),
		slog.String("total_credits", tb.TotalCredits.String()),
		slog.Any("transaction_ids", txnIDs),
		slog.Any("quarantined_accounts", accountIDs))
	return inconsistency
}
