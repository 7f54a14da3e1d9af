package query

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateBound(t *testing.T) {
	got, err := ParseDateBound("", false)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseDateBound("2024-03-01", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *got)

	got, err = ParseDateBound("2024-03-01", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 23, 59, 59, 999999999, time.UTC), *got)

	got, err = ParseDateBound("2024-03-01T10:00:00+02:00", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), *got)

	_, err = ParseDateBound("03/01/2024", false)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}
