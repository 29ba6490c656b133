package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors
var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrAlreadyPaid         = errors.New("installment is already paid")
	ErrAlreadyClosed       = errors.New("loan is already closed")
	ErrNotEligible         = errors.New("operation not allowed in current state")
	ErrConcurrencyConflict = errors.New("concurrent update conflict")
	ErrPersistence         = errors.New("persistence failure")
	ErrCache               = errors.New("cache failure")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Details []string
	Err     error
}

func (e *BusinessError) Error() string {
	msg := e.Message
	if len(e.Details) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(e.Details, "; "))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeAlreadyPaid         = "ALREADY_PAID"
	ErrCodeAlreadyClosed       = "ALREADY_CLOSED"
	ErrCodeNotEligible         = "NOT_ELIGIBLE"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	ErrCodePersistence         = "PERSISTENCE_ERROR"
	ErrCodeCacheError          = "CACHE_ERROR"
)

// NewValidationError carries every violated rule in Details.
func NewValidationError(details ...string) *BusinessError {
	return &BusinessError{
		Code:    ErrCodeValidation,
		Message: "request violates business rules",
		Details: details,
		Err:     ErrValidation,
	}
}

// Wrap common errors with business context
func WrapNotFound(entity, id string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("%s with ID %s not found", entity, id),
		ErrNotFound,
	)
}

func WrapAlreadyPaid(installmentID string) *BusinessError {
	return NewBusinessError(
		ErrCodeAlreadyPaid,
		fmt.Sprintf("Installment with ID %s is already paid", installmentID),
		ErrAlreadyPaid,
	)
}

func WrapLoanAlreadyClosed(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeAlreadyClosed,
		fmt.Sprintf("Loan with ID %s is already closed", loanID),
		ErrAlreadyClosed,
	)
}

func WrapNotEligible(loanID, reason string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotEligible,
		fmt.Sprintf("Loan with ID %s: %s", loanID, reason),
		ErrNotEligible,
	)
}

func WrapConcurrencyConflict(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeConcurrencyConflict,
		"loan is being modified concurrently, retry the operation",
		errors.Join(ErrConcurrencyConflict, err),
	)
}

func WrapPersistenceError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodePersistence,
		"database operation failed",
		errors.Join(ErrPersistence, err),
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		errors.Join(ErrCache, err),
	)
}

// CodeOf returns the business code of err, or "" for foreign errors.
func CodeOf(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// IsRetryable reports whether the whole operation may be retried by the caller.
func IsRetryable(err error) bool {
	switch CodeOf(err) {
	case ErrCodeConcurrencyConflict, ErrCodePersistence:
		return true
	}
	return false
}
