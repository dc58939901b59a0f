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

// ErrConflict indicates that a concurrent update could not be reconciled.
// For postings this is returned once the optimistic retry budget is spent.
var ErrConflict = errors.New("conflicting concurrent update")

// ErrInternal is returned when an unexpected internal error occurs.
var ErrInternal = errors.New("internal error")

// Posting errors.
var (
	ErrDuplicateReference = fmt.Errorf("%w: journal reference already used", ErrDuplicate)
	ErrUnknownAccount     = errors.New("entry references an unknown account")
	ErrUnbalancedJournal  = errors.New("journal debits and credits do not balance")
	ErrAccountInactive    = errors.New("account is not active")
	ErrCurrencyMismatch   = errors.New("entry currency does not match account currency")
	ErrAlreadyReversed    = errors.New("journal has already been reversed")
	ErrReversalOfReversal = errors.New("cannot reverse a journal that is itself a reversal")

	// ErrVersionMismatch is raised by stores when an account changed between read and write.
	// The posting engine retries on it; callers only ever see ErrConflict.
	ErrVersionMismatch = errors.New("account version mismatch")
)

// AppError carries an HTTP-ish status code alongside a wrapped cause.
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

// NewAppError builds an AppError. err may be nil.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// IsRetryable reports whether the operation that produced err may be retried as-is.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrVersionMismatch)
}
