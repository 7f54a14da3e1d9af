package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestSpendingPeriodWindows(t *testing.T) {
	end := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	cases := []struct {
		period      domain.SpendingPeriod
		start       time.Time
		bucketOfEnd time.Time
	}{
		{domain.Period24Hours, time.Date(2024, 3, 14, 10, 30, 0, 0, time.UTC), time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)},
		{domain.Period7Days, time.Date(2024, 3, 8, 10, 30, 0, 0, time.UTC), time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{domain.Period30Days, time.Date(2024, 2, 14, 10, 30, 0, 0, time.UTC), time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{domain.Period12Months, time.Date(2023, 3, 15, 10, 30, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		p, ok := domain.ParseSpendingPeriod(string(tc.period))
		assert.True(t, ok)
		assert.Equal(t, tc.start, p.Start(end), tc.period)
		assert.Equal(t, tc.bucketOfEnd, p.BucketStart(end), tc.period)
	}

	for _, bad := range []string{"", "1d", "24H", "year"} {
		_, ok := domain.ParseSpendingPeriod(bad)
		assert.False(t, ok, bad)
	}
}
