package services

import (
	"context"
	"errors"
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
	"golang.org/x/sync/errgroup"
)

type analyticsService struct {
	BaseService
	reportingRepo   portsrepo.ReportingRepository
	goalRepo        portsrepo.GoalRepositoryFacade
	accountRepo     portsrepo.AccountReader
	entryReader     portsrepo.EntryReader
	defaultCurrency string
}

// NewAnalyticsService creates the spending and goal progress projections.
func NewAnalyticsService(repos portsrepo.RepositoryProvider, defaultCurrency string, options ...ServiceOption) portssvc.AnalyticsSvc {
	return &analyticsService{
		BaseService:     newBaseService(options),
		reportingRepo:   repos.ReportingRepo,
		goalRepo:        repos.GoalRepo,
		accountRepo:     repos.AccountRepo,
		entryReader:     repos.JournalRepo,
		defaultCurrency: defaultCurrency,
	}
}

var _ portssvc.AnalyticsSvc = (*analyticsService)(nil)

// SpendingStats sums expense debits over (now-period, now] and compares them
// with the window immediately before it.
func (s *analyticsService) SpendingStats(ctx context.Context, period string, currency string) (*domain.SpendingStats, error) {
	p, ok := domain.ParseSpendingPeriod(period)
	if !ok {
		return nil, fmt.Errorf("%w: %q, expected one of 24h, 7d, 30d, 12m", apperrors.ErrInvalidPeriod, period)
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = s.defaultCurrency
	}

	end := s.Now()
	start := p.Start(end)
	prevStart := p.Start(start)

	var current, previous []portsrepo.SpendingRecord
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.reportingRepo.GetSpendingData(gctx, currency, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		previous, err = s.reportingRepo.GetSpendingData(gctx, currency, prevStart, start)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			s.LogWarn(ctx, err, "Spending stats cancelled", slog.String("period", period))
		} else {
			s.LogError(ctx, err, "Failed to load spending data", slog.String("period", period))
		}
		return nil, err
	}

	total, history, err := bucketize(p, current)
	if err != nil {
		return nil, err
	}
	prevTotal, _, err := bucketize(p, previous)
	if err != nil {
		return nil, err
	}

	return &domain.SpendingStats{
		Period:           p,
		CurrencyCode:     currency,
		From:             start,
		To:               end,
		Total:            total,
		PreviousTotal:    prevTotal,
		PercentageChange: accounting.PercentageChange(total, prevTotal),
		History:          history,
	}, nil
}

// bucketize totals records and groups them by UTC bucket, oldest first.
// Only buckets with spending appear.
func bucketize(p domain.SpendingPeriod, records []portsrepo.SpendingRecord) (domain.Money, []domain.SpendingBucket, error) {
	var total domain.Money
	buckets := make(map[time.Time]domain.Money)
	for _, r := range records {
		var err error
		if total, err = total.CheckedAdd(r.Amount); err != nil {
			return domain.Money{}, nil, err
		}
		key := p.BucketStart(r.CreatedAt)
		buckets[key] = buckets[key].Add(r.Amount)
	}
	history := make([]domain.SpendingBucket, 0, len(buckets))
	for _, key := range slices.SortedFunc(maps.Keys(buckets), time.Time.Compare) {
		history = append(history, domain.SpendingBucket{Date: key, Amount: buckets[key]})
	}
	return total, history, nil
}

// GoalProgress reports how much of the goal's target its account holds.
func (s *analyticsService) GoalProgress(ctx context.Context, goalID string) (*domain.GoalProgress, error) {
	goal, err := s.goalRepo.FindGoalByID(ctx, goalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: goal %s", apperrors.ErrNotFound, goalID)
		}
		s.LogError(ctx, err, "Failed to find goal", slog.String("goal_id", goalID))
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByID(ctx, goal.AccountID)
	if err != nil {
		s.LogError(ctx, err, "Goal account missing", slog.String("goal_id", goalID))
		return nil, err
	}
	saved, err := deriveBalance(ctx, s.entryReader, *account, nil)
	if err != nil {
		return nil, err
	}
	percent, err := accounting.GoalPercent(saved, goal.TargetAmount)
	if err != nil {
		return nil, fmt.Errorf("goal %s: %w", goalID, err)
	}
	return &domain.GoalProgress{
		GoalID:  goal.GoalID,
		Saved:   saved,
		Target:  goal.TargetAmount,
		Percent: percent,
	}, nil
}
