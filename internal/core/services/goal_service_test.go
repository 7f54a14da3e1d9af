package services_test

import (
	"testing"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/stretchr/testify/suite"
)

type GoalServiceTestSuite struct {
	suite.Suite
	l        *ledger
	checking domain.Account
}

func (s *GoalServiceTestSuite) SetupTest() {
	s.l = newLedger(s.T(), nil)
	s.checking = s.l.open(s.T(), "Checking", domain.Asset, "1000.00")
}

func TestGoalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GoalServiceTestSuite))
}

func (s *GoalServiceTestSuite) TestCreateGoal_WithInitialContribution() {
	goal, err := s.l.svc.Goal.CreateGoal(s.l.ctx, dto.CreateGoalRequest{
		Name:                "Holiday",
		TargetAmount:        "400.00",
		InitialContribution: "100.00",
		FundingAccountID:    s.checking.AccountID,
	})
	s.Require().NoError(err)
	s.Equal("Holiday", goal.Name)
	s.Equal("USD", goal.CurrencyCode)
	s.Equal("100.00", goal.Saved.String())
	s.Equal("900.00", s.l.balance(s.T(), s.checking.AccountID))

	account, err := s.l.svc.Account.GetAccountByID(s.l.ctx, goal.AccountID)
	s.Require().NoError(err)
	s.Equal("Goal: Holiday", account.Name)
	s.Equal(domain.Asset, account.AccountType)

	progress, err := s.l.svc.Analytics.GoalProgress(s.l.ctx, goal.GoalID)
	s.Require().NoError(err)
	s.Equal(25, progress.Percent)

	tb, err := s.l.svc.Reporting.GetTrialBalance(s.l.ctx, nil)
	s.Require().NoError(err)
	s.True(tb.IsBalanced)
}

func (s *GoalServiceTestSuite) TestContribute_ProgressIsCapped() {
	goal, err := s.l.svc.Goal.CreateGoal(s.l.ctx, dto.CreateGoalRequest{Name: "Bike", TargetAmount: "300.00"})
	s.Require().NoError(err)
	s.True(goal.Saved.IsZero())

	res, err := s.l.svc.Goal.Contribute(s.l.ctx, goal.GoalID, dto.ContributeGoalRequest{
		Amount: "100.00", FundingAccountID: s.checking.AccountID, IdempotencyKey: "c-1",
	})
	s.Require().NoError(err)
	s.False(res.Replayed)

	progress, err := s.l.svc.Analytics.GoalProgress(s.l.ctx, goal.GoalID)
	s.Require().NoError(err)
	s.Equal(33, progress.Percent)

	replay, err := s.l.svc.Goal.Contribute(s.l.ctx, goal.GoalID, dto.ContributeGoalRequest{
		Amount: "100.00", FundingAccountID: s.checking.AccountID, IdempotencyKey: "c-1",
	})
	s.Require().NoError(err)
	s.True(replay.Replayed)

	_, err = s.l.svc.Goal.Contribute(s.l.ctx, goal.GoalID, dto.ContributeGoalRequest{
		Amount: "500.00", FundingAccountID: s.checking.AccountID,
	})
	s.Require().NoError(err)

	progress, err = s.l.svc.Analytics.GoalProgress(s.l.ctx, goal.GoalID)
	s.Require().NoError(err)
	s.Equal(100, progress.Percent)
	s.Equal("600.00", progress.Saved.String())

	goals, err := s.l.svc.Goal.ListGoals(s.l.ctx)
	s.Require().NoError(err)
	s.Require().Len(goals, 1)
	s.Equal("600.00", goals[0].Saved.String())
}

func (s *GoalServiceTestSuite) TestContribute_KeyReusedAcrossGoals() {
	bike, err := s.l.svc.Goal.CreateGoal(s.l.ctx, dto.CreateGoalRequest{Name: "Bike", TargetAmount: "300.00"})
	s.Require().NoError(err)
	car, err := s.l.svc.Goal.CreateGoal(s.l.ctx, dto.CreateGoalRequest{Name: "Car", TargetAmount: "3000.00"})
	s.Require().NoError(err)

	_, err = s.l.svc.Goal.Contribute(s.l.ctx, bike.GoalID, dto.ContributeGoalRequest{
		Amount: "50.00", FundingAccountID: s.checking.AccountID, IdempotencyKey: "c-1",
	})
	s.Require().NoError(err)

	_, err = s.l.svc.Goal.Contribute(s.l.ctx, car.GoalID, dto.ContributeGoalRequest{
		Amount: "50.00", FundingAccountID: s.checking.AccountID, IdempotencyKey: "c-1",
	})
	s.ErrorIs(err, apperrors.ErrIdempotencyKeyReused)

	got, err := s.l.svc.Goal.GetGoal(s.l.ctx, car.GoalID)
	s.Require().NoError(err)
	s.True(got.Saved.IsZero())
}

func (s *GoalServiceTestSuite) TestGoalAccountCannotBeDeleted() {
	goal, err := s.l.svc.Goal.CreateGoal(s.l.ctx, dto.CreateGoalRequest{Name: "Car", TargetAmount: "10.00"})
	s.Require().NoError(err)
	err = s.l.svc.Account.CloseAccount(s.l.ctx, goal.AccountID, true)
	s.ErrorIs(err, apperrors.ErrAccountHasActivity)
}

func (s *GoalServiceTestSuite) TestCreateGoal_Validation() {
	tests := []struct {
		name    string
		req     dto.CreateGoalRequest
		wantErr error
	}{
		{"zero target", dto.CreateGoalRequest{Name: "A", TargetAmount: "0.00"}, apperrors.ErrInvalidAmount},
		{"bad target", dto.CreateGoalRequest{Name: "A", TargetAmount: "ten"}, apperrors.ErrInvalidAmount},
		{"blank name", dto.CreateGoalRequest{Name: "  ", TargetAmount: "10.00"}, apperrors.ErrValidation},
		{"contribution without funding", dto.CreateGoalRequest{Name: "A", TargetAmount: "10.00", InitialContribution: "1.00"}, apperrors.ErrInvalidEntry},
		{"unknown funding", dto.CreateGoalRequest{Name: "A", TargetAmount: "10.00", InitialContribution: "1.00", FundingAccountID: "nope"}, apperrors.ErrInvalidEntry},
		{"currency mismatch", dto.CreateGoalRequest{Name: "A", TargetAmount: "10.00", CurrencyCode: "EUR", InitialContribution: "1.00", FundingAccountID: s.checking.AccountID}, apperrors.ErrInvalidEntry},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.l.svc.Goal.CreateGoal(s.l.ctx, tt.req)
			s.ErrorIs(err, tt.wantErr)
		})
	}
	goals, err := s.l.svc.Goal.ListGoals(s.l.ctx)
	s.Require().NoError(err)
	s.Empty(goals)
}

func (s *GoalServiceTestSuite) TestGoalNotFound() {
	_, err := s.l.svc.Goal.GetGoal(s.l.ctx, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
	_, err = s.l.svc.Analytics.GoalProgress(s.l.ctx, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
	_, err = s.l.svc.Goal.Contribute(s.l.ctx, "missing", dto.ContributeGoalRequest{Amount: "1.00", FundingAccountID: s.checking.AccountID})
	s.ErrorIs(err, apperrors.ErrNotFound)
}
