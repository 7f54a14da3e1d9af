package dto

import (
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// SpendingStatsParams defines query parameters for spending analytics.
type SpendingStatsParams struct {
	Period   string `form:"period"`
	Currency string `form:"currency"`
}

// SpendingBucketResponse is one history point.
type SpendingBucketResponse struct {
	Date   time.Time    `json:"date"`
	Amount domain.Money `json:"amount"`
}

// SpendingStatsResponse is the analytics payload. PercentageChange is a
// decimal string with two places, or null when there is nothing to compare with.
type SpendingStatsResponse struct {
	Period           domain.SpendingPeriod    `json:"period"`
	CurrencyCode     string                   `json:"currencyCode"`
	From             time.Time                `json:"from"`
	To               time.Time                `json:"to"`
	Total            domain.Money             `json:"total"`
	PreviousTotal    domain.Money             `json:"previousTotal"`
	PercentageChange *string                  `json:"percentageChange"`
	History          []SpendingBucketResponse `json:"history"`
}

// ToSpendingStatsResponse converts domain.SpendingStats.
func ToSpendingStatsResponse(s *domain.SpendingStats) SpendingStatsResponse {
	history := make([]SpendingBucketResponse, len(s.History))
	for i, b := range s.History {
		history[i] = SpendingBucketResponse{Date: b.Date, Amount: b.Amount}
	}
	var pct *string
	if s.PercentageChange != nil {
		v := s.PercentageChange.StringFixed(2)
		pct = &v
	}
	return SpendingStatsResponse{
		Period:           s.Period,
		CurrencyCode:     s.CurrencyCode,
		From:             s.From,
		To:               s.To,
		Total:            s.Total,
		PreviousTotal:    s.PreviousTotal,
		PercentageChange: pct,
		History:          history,
	}
}
