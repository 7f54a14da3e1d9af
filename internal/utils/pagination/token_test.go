package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	createdAt := time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(createdAt, "txn-1")
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedAt, decodedID, err := DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, createdAt, decodedAt)
	assert.Equal(t, "txn-1", decodedID)

	// Non-UTC input is normalised.
	local := createdAt.In(time.FixedZone("X", 3*3600))
	decodedAt, _, err = DecodeToken(EncodeToken(local, "txn-1"))
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(decodedAt))
}

func TestDecodeTokenError(t *testing.T) {
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	noSep := base64.URLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z"))
	_, _, err = DecodeToken(noSep)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	badDate := base64.URLEncoding.EncodeToString([]byte("notadate|txn-1"))
	_, _, err = DecodeToken(badDate)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "created_at parse")

	emptyID := base64.URLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z|"))
	_, _, err = DecodeToken(emptyID)
	assert.Error(t, err)
}

func TestStatementToken(t *testing.T) {
	createdAt := time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC)
	token := EncodeStatementToken(createdAt, "txn-9", 3)

	at, id, pos, err := DecodeStatementToken(token)
	require.NoError(t, err)
	assert.Equal(t, createdAt, at)
	assert.Equal(t, "txn-9", id)
	assert.Equal(t, 3, pos)

	_, _, _, err = DecodeStatementToken(EncodeMultiFieldToken("2024-01-02T03:04:05Z", "txn-9", "x"))
	assert.ErrorContains(t, err, "position parse")
}

func TestEncodeMultiFieldToken(t *testing.T) {
	fields := []string{"field1", "field2", "field3"}
	decoded, err := DecodeMultiFieldToken(EncodeMultiFieldToken(fields...))
	assert.NoError(t, err)
	assert.Equal(t, fields, decoded)

	// strings.Split on an empty string yields one empty field
	decodedEmpty, err := DecodeMultiFieldToken(EncodeMultiFieldToken())
	assert.NoError(t, err)
	assert.Equal(t, []string{""}, decodedEmpty)

	decodedSpecial, err := DecodeMultiFieldToken(EncodeMultiFieldToken("field|with|pipes", "plain"))
	assert.NoError(t, err)
	assert.Len(t, decodedSpecial, 4, "Should split on all pipe characters")
}

func TestNormalizeLimit(t *testing.T) {
	tests := []struct {
		name            string
		limit, def, max int
		want            int
	}{
		{"zero uses default", 0, 20, 100, 20},
		{"negative uses default", -5, 20, 100, 20},
		{"within bounds", 50, 20, 100, 50},
		{"above max is clamped", 500, 20, 100, 100},
		{"unset bounds fall back", 0, 0, 0, DefaultLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLimit(tt.limit, tt.def, tt.max))
		})
	}
}
