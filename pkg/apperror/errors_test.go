package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	e := New("LED_001", "Insufficient balance for debit", http.StatusPaymentRequired)
	assert.Equal(t, "[LED_001] Insufficient balance for debit", e.Error())

	inner := errors.New("row lock failed")
	w := Wrap("SYS_002", "Lock acquisition timeout", http.StatusServiceUnavailable, inner)
	assert.Contains(t, w.Error(), "SYS_002")
	assert.Contains(t, w.Error(), "row lock failed")
}

func TestAppError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	w := InternalError(inner)
	assert.ErrorIs(t, w, inner)
}

func TestErrorConstructors_StatusCodes(t *testing.T) {
	tests := []struct {
		err    *AppError
		code   string
		status int
	}{
		{ErrInsufficientBalance(), "LED_001", http.StatusPaymentRequired},
		{ErrInsufficientPoints(), "LED_002", http.StatusPaymentRequired},
		{ErrInvalidAmount(), "LED_003", http.StatusBadRequest},
		{ErrBalanceNotFound(), "LED_004", http.StatusNotFound},
		{ErrBalanceExists(), "LED_005", http.StatusConflict},
		{ErrIdempotencyConflict(), "LED_006", http.StatusConflict},
		{ErrChainIntegrity("record abc"), "AUD_001", http.StatusInternalServerError},
		{ErrRateLimitExceeded(), "RATE_001", http.StatusTooManyRequests},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.err.Code)
		assert.Equal(t, tt.status, tt.err.HTTPStatus)
		assert.False(t, tt.err.Retryable)
	}
}

func TestErrLockTimeout_Retryable(t *testing.T) {
	e := ErrLockTimeout(errors.New("55P03"))
	assert.True(t, e.Retryable)
	assert.Equal(t, "SYS_002", e.Code)
	assert.Equal(t, http.StatusServiceUnavailable, e.HTTPStatus)
}

func TestErrConcurrentAppend_Retryable(t *testing.T) {
	inner := errors.New("23505")
	e := ErrConcurrentAppend(inner)
	assert.True(t, e.Retryable)
	assert.Equal(t, "SYS_002", e.Code)
	assert.Equal(t, http.StatusServiceUnavailable, e.HTTPStatus)
	assert.ErrorIs(t, e, inner)
}
