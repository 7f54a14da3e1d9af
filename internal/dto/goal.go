package dto

import (
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// CreateGoalRequest defines the data needed to create a goal. An initial
// contribution requires FundingAccountID.
type CreateGoalRequest struct {
	Name                string     `json:"name" binding:"required,max=255"`
	TargetAmount        string     `json:"targetAmount" binding:"required,money"`
	CurrencyCode        string     `json:"currencyCode" binding:"omitempty,len=3,alpha"`
	Deadline            *time.Time `json:"deadline"`
	InitialContribution string     `json:"initialContribution" binding:"omitempty,money"`
	FundingAccountID    string     `json:"fundingAccountID"`
	IdempotencyKey      string     `json:"-"`
}

// ContributeGoalRequest moves money from FundingAccountID into the goal.
type ContributeGoalRequest struct {
	Amount           string `json:"amount" binding:"required,money"`
	FundingAccountID string `json:"fundingAccountID" binding:"required"`
	IdempotencyKey   string `json:"-"`
}

// GoalResponse defines the data returned for a goal.
type GoalResponse struct {
	GoalID       string       `json:"goalID"`
	Name         string       `json:"name"`
	TargetAmount domain.Money `json:"targetAmount"`
	Saved        domain.Money `json:"saved"`
	Percent      int          `json:"percent"`
	CurrencyCode string       `json:"currencyCode"`
	Deadline     *time.Time   `json:"deadline,omitempty"`
	AccountID    string       `json:"accountID"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// ToGoalResponse converts a goal and its computed percent.
func ToGoalResponse(g *domain.FinancialGoal, percent int) GoalResponse {
	return GoalResponse{
		GoalID:       g.GoalID,
		Name:         g.Name,
		TargetAmount: g.TargetAmount,
		Saved:        g.Saved,
		Percent:      percent,
		CurrencyCode: g.CurrencyCode,
		Deadline:     g.Deadline,
		AccountID:    g.AccountID,
		CreatedAt:    g.CreatedAt,
	}
}

// ListGoalsResponse wraps the list of goals.
type ListGoalsResponse struct {
	Goals []GoalResponse `json:"goals"`
}

// GoalProgressResponse is the funding percentage of a goal.
type GoalProgressResponse struct {
	GoalID  string       `json:"goalID"`
	Saved   domain.Money `json:"saved"`
	Target  domain.Money `json:"target"`
	Percent int          `json:"percent"`
}
