package services_test

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/stretchr/testify/suite"
)

type AccountServiceTestSuite struct {
	suite.Suite
	l *ledger
}

func (s *AccountServiceTestSuite) SetupTest() {
	s.l = newLedger(s.T(), nil)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func (s *AccountServiceTestSuite) TestCreateAccount() {
	acc, err := s.l.svc.Account.CreateAccount(s.l.ctx, dto.CreateAccountRequest{
		Name:           "  Credit Card ",
		AccountType:    "liability",
		OpeningBalance: "250.00",
	})
	s.Require().NoError(err)
	s.NotEmpty(acc.AccountID)
	s.Equal("Credit Card", acc.Name)
	s.Equal(domain.Liability, acc.AccountType)
	s.Equal("USD", acc.CurrencyCode)
	s.True(acc.IsActive)
	s.Equal(epoch, acc.CreatedAt)
	s.Equal("250.00", s.l.balance(s.T(), acc.AccountID))

	_, err = s.l.svc.Account.CreateAccount(s.l.ctx, dto.CreateAccountRequest{Name: "credit card", AccountType: "ASSET"})
	s.ErrorIs(err, apperrors.ErrDuplicateAccount)

	_, err = s.l.svc.Account.CreateAccount(s.l.ctx, dto.CreateAccountRequest{Name: "X", AccountType: "CONTRA"})
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.l.svc.Account.CreateAccount(s.l.ctx, dto.CreateAccountRequest{Name: "Y", AccountType: "ASSET", OpeningBalance: "1.234"})
	s.ErrorIs(err, apperrors.ErrInvalidAmount)
}

func (s *AccountServiceTestSuite) TestComputeBalance_AsOfAndNormalSides() {
	bank := s.l.open(s.T(), "Bank", domain.Asset, "100.00")
	loan := s.l.open(s.T(), "Loan", domain.Liability, "")
	s.l.clock.Advance(time.Hour)
	s.l.post(s.T(), "borrow", debit(bank.AccountID, "50.00"), credit(loan.AccountID, "50.00"))
	cutoff := s.l.clock.Now()
	s.l.clock.Advance(time.Hour)
	s.l.post(s.T(), "repay", debit(loan.AccountID, "20.00"), credit(bank.AccountID, "20.00"))

	s.Equal("130.00", s.l.balance(s.T(), bank.AccountID))
	s.Equal("30.00", s.l.balance(s.T(), loan.AccountID))

	past, err := s.l.svc.Account.ComputeBalance(s.l.ctx, bank.AccountID, &cutoff)
	s.Require().NoError(err)
	s.Equal("150.00", past.Balance.String())
	s.Equal(cutoff, past.AsOf)

	_, err = s.l.svc.Account.ComputeBalance(s.l.ctx, "missing", nil)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *AccountServiceTestSuite) TestCloseAccount() {
	bank := s.l.open(s.T(), "Bank", domain.Asset, "")
	food := s.l.open(s.T(), "Food", domain.Expense, "")
	spare := s.l.open(s.T(), "Spare", domain.Asset, "")
	s.l.post(s.T(), "lunch", debit(food.AccountID, "9.00"), credit(bank.AccountID, "9.00"))

	err := s.l.svc.Account.CloseAccount(s.l.ctx, food.AccountID, true)
	s.ErrorIs(err, apperrors.ErrAccountHasActivity)

	s.Require().NoError(s.l.svc.Account.CloseAccount(s.l.ctx, food.AccountID, false))
	closed, err := s.l.svc.Account.GetAccountByID(s.l.ctx, food.AccountID)
	s.Require().NoError(err)
	s.False(closed.IsActive)
	s.NotNil(closed.ClosedAt)
	s.Equal("9.00", s.l.balance(s.T(), food.AccountID))

	open, err := s.l.svc.Account.ListAccounts(s.l.ctx, dto.ListAccountsParams{})
	s.Require().NoError(err)
	s.Len(open, 2)
	all, err := s.l.svc.Account.ListAccounts(s.l.ctx, dto.ListAccountsParams{IncludeClosed: true})
	s.Require().NoError(err)
	s.Len(all, 3)

	s.Require().NoError(s.l.svc.Account.CloseAccount(s.l.ctx, spare.AccountID, true))
	_, err = s.l.svc.Account.GetAccountByID(s.l.ctx, spare.AccountID)
	s.ErrorIs(err, apperrors.ErrNotFound)

	s.ErrorIs(s.l.svc.Account.CloseAccount(s.l.ctx, "missing", false), apperrors.ErrNotFound)
}

func (s *AccountServiceTestSuite) TestGetAccountStatement() {
	bank := s.l.open(s.T(), "Bank", domain.Asset, "100.00")
	food := s.l.open(s.T(), "Food", domain.Expense, "")
	for range 3 {
		s.l.clock.Advance(time.Minute)
		s.l.post(s.T(), "lunch", debit(food.AccountID, "10.00"), credit(bank.AccountID, "10.00"))
	}

	first, err := s.l.svc.Account.GetAccountStatement(s.l.ctx, bank.AccountID, dto.StatementParams{Limit: 2})
	s.Require().NoError(err)
	s.Equal("100.00", first.OpeningBalance.String())
	s.Require().Len(first.Lines, 2)
	s.Equal("70.00", first.Lines[0].RunningBalance.String())
	s.Equal("-10.00", first.Lines[0].SignedAmount.String())
	s.Equal("80.00", first.Lines[1].RunningBalance.String())
	s.Require().NotNil(first.NextToken)

	second, err := s.l.svc.Account.GetAccountStatement(s.l.ctx, bank.AccountID, dto.StatementParams{Limit: 2, NextToken: first.NextToken})
	s.Require().NoError(err)
	s.Require().Len(second.Lines, 1)
	s.Equal("90.00", second.Lines[0].RunningBalance.String())
	s.Nil(second.NextToken)

	bad := "!!"
	_, err = s.l.svc.Account.GetAccountStatement(s.l.ctx, bank.AccountID, dto.StatementParams{NextToken: &bad})
	s.ErrorIs(err, apperrors.ErrValidation)
}
