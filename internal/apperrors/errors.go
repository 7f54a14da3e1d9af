package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the request conflicts with the current state of a resource.
var ErrConflict = errors.New("conflict")

// ErrIntegrity indicates stored ledger data violates an accounting invariant.
// These are never user errors.
var ErrIntegrity = errors.New("ledger integrity violation")

// ErrInternal indicates an unexpected infrastructure failure.
var ErrInternal = errors.New("internal error")

// Ledger specific errors. Each one wraps its class so callers can match
// either the precise error or the broad category.
var (
	ErrUnbalancedTransaction = fmt.Errorf("%w: transaction debits do not equal credits", ErrValidation)
	ErrInvalidEntry          = fmt.Errorf("%w: invalid journal entry", ErrValidation)
	ErrInvalidAmount         = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrInvalidPeriod         = fmt.Errorf("%w: invalid period", ErrValidation)
	ErrDivisionByZero        = fmt.Errorf("%w: division by zero", ErrValidation)

	ErrDuplicateAccount = fmt.Errorf("%w: account name already in use", ErrDuplicate)

	ErrAccountHasActivity    = fmt.Errorf("%w: account has posted entries", ErrConflict)
	ErrAlreadyReversed       = fmt.Errorf("%w: transaction already reversed", ErrConflict)
	ErrCannotReverseReversal = fmt.Errorf("%w: a reversal cannot itself be reversed", ErrConflict)
	ErrIdempotencyKeyReused  = fmt.Errorf("%w: idempotency key reused for a different request", ErrConflict)

	ErrLedgerInconsistency = fmt.Errorf("%w: trial balance does not balance", ErrIntegrity)
)

// AppError carries an HTTP-ish status code alongside a wrapped cause.
// Repositories use it for infrastructure failures.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError returns an AppError wrapping ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// codes is checked in order; the most specific errors come first.
var codes = []struct {
	err  error
	code string
}{
	{ErrUnbalancedTransaction, "UNBALANCED_TRANSACTION"},
	{ErrInvalidEntry, "INVALID_ENTRY"},
	{ErrInvalidAmount, "INVALID_AMOUNT"},
	{ErrInvalidPeriod, "INVALID_PERIOD"},
	{ErrDivisionByZero, "DIVISION_BY_ZERO"},
	{ErrDuplicateAccount, "DUPLICATE_ACCOUNT"},
	{ErrAccountHasActivity, "ACCOUNT_HAS_ACTIVITY"},
	{ErrAlreadyReversed, "ALREADY_REVERSED"},
	{ErrCannotReverseReversal, "CANNOT_REVERSE_REVERSAL"},
	{ErrIdempotencyKeyReused, "IDEMPOTENCY_KEY_REUSED"},
	{ErrLedgerInconsistency, "LEDGER_INCONSISTENCY"},
	{ErrNotFound, "NOT_FOUND"},
	{ErrValidation, "VALIDATION_ERROR"},
	{ErrDuplicate, "DUPLICATE"},
	{ErrConflict, "CONFLICT"},
	{ErrIntegrity, "INTEGRITY_ERROR"},
}

// Code returns the machine readable code for err, or INTERNAL_ERROR.
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "INTERNAL_ERROR"
}
