package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusinessError_Is(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		code     string
	}{
		{"validation", NewValidationError("a", "b"), ErrValidation, ErrCodeValidation},
		{"not found", WrapNotFound("Loan", "42"), ErrNotFound, ErrCodeNotFound},
		{"already paid", WrapAlreadyPaid("7"), ErrAlreadyPaid, ErrCodeAlreadyPaid},
		{"already closed", WrapLoanAlreadyClosed("42"), ErrAlreadyClosed, ErrCodeAlreadyClosed},
		{"not eligible", WrapNotEligible("42", "nothing overdue"), ErrNotEligible, ErrCodeNotEligible},
		{"conflict", WrapConcurrencyConflict(errors.New("lock timeout")), ErrConcurrencyConflict, ErrCodeConcurrencyConflict},
		{"persistence", WrapPersistenceError(errors.New("conn reset")), ErrPersistence, ErrCodePersistence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
			assert.Equal(t, tt.code, CodeOf(wrapped))
		})
	}
}

func TestBusinessError_Error(t *testing.T) {
	err := NewValidationError("LTV too high", "rate out of band")
	assert.Equal(t, "VALIDATION_ERROR: request violates business rules: LTV too high; rate out of band (validation failed)", err.Error())
}

func TestWrapPersistenceError_KeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapPersistenceError(cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(WrapConcurrencyConflict(nil)))
	assert.True(t, IsRetryable(WrapPersistenceError(errors.New("x"))))
	assert.False(t, IsRetryable(NewValidationError("x")))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.Equal(t, "", CodeOf(errors.New("plain")))
}
