package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// Page size bounds applied when a caller does not configure its own.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// NormalizeLimit clamps limit into [1, max], substituting def for non-positive values.
func NormalizeLimit(limit, def, max int) int {
	if def <= 0 {
		def = DefaultLimit
	}
	if max <= 0 {
		max = MaxLimit
	}
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return limit
}

// EncodeToken creates a URL-safe token from a creation time and a tie-breaking id.
// Transactions are paged by (created_at DESC, id DESC).
func EncodeToken(createdAt time.Time, id string) string {
	return EncodeMultiFieldToken(createdAt.UTC().Format(timeFormat), id)
}

// DecodeToken parses a token produced by EncodeToken.
func DecodeToken(token string) (time.Time, string, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return time.Time{}, "", err
	}
	if len(parts) != 2 {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (split)")
	}
	createdAt, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}
	if parts[1] == "" {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (empty id)")
	}
	return createdAt, parts[1], nil
}

// EncodeStatementToken positions an account statement after a specific entry.
func EncodeStatementToken(createdAt time.Time, transactionID string, position int) string {
	return EncodeMultiFieldToken(createdAt.UTC().Format(timeFormat), transactionID, strconv.Itoa(position))
}

// DecodeStatementToken parses a token produced by EncodeStatementToken.
func DecodeStatementToken(token string) (time.Time, string, int, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return time.Time{}, "", 0, err
	}
	if len(parts) != 3 {
		return time.Time{}, "", 0, fmt.Errorf("invalid pagination token format (split)")
	}
	createdAt, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, "", 0, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}
	position, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, "", 0, fmt.Errorf("invalid pagination token format (position parse): %w", err)
	}
	return createdAt, parts[1], position, nil
}

// EncodeMultiFieldToken creates a token with any number of string fields
func EncodeMultiFieldToken(fields ...string) string {
	tokenStr := strings.Join(fields, "|")
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMultiFieldToken decodes a token into its component fields
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	return strings.Split(string(decodedBytes), "|"), nil
}
