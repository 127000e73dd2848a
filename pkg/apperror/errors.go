package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Retryable  bool   `json:"-"` // caller may retry with backoff; nothing was applied
	Err        error  `json:"-"` // wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Ledger Business Logic (LED) ----

func ErrInsufficientBalance() *AppError {
	return New("LED_001", "Insufficient balance for debit", http.StatusPaymentRequired)
}

func ErrInsufficientPoints() *AppError {
	return New("LED_002", "Insufficient loyalty points", http.StatusPaymentRequired)
}

func ErrInvalidAmount() *AppError {
	return New("LED_003", "Amount must be strictly positive", http.StatusBadRequest)
}

func ErrBalanceNotFound() *AppError {
	return New("LED_004", "Wallet balance not initialized for user", http.StatusNotFound)
}

func ErrBalanceExists() *AppError {
	return New("LED_005", "Wallet balance already exists for user", http.StatusConflict)
}

func ErrIdempotencyConflict() *AppError {
	return New("LED_006", "Reference ID reused with a different payload", http.StatusConflict)
}

// ---- Audit Chain (AUD) ----

func ErrChainIntegrity(detail string) *AppError {
	return New("AUD_001", fmt.Sprintf("Audit chain integrity violation: %s", detail), http.StatusInternalServerError)
}

// ---- Validation / Generic ----

func ErrNotFound(entity string) *AppError {
	return New("LED_004", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// Validation returns a LED_003-style validation error with a custom message.
func Validation(message string) *AppError {
	return New("LED_003", message, http.StatusBadRequest)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// ErrLockTimeout signals that the per-user lock could not be acquired in time.
// The operation is guaranteed not to have partially applied.
func ErrLockTimeout(err error) *AppError {
	e := Wrap("SYS_002", "Lock acquisition timeout, retry with backoff", http.StatusServiceUnavailable, err)
	e.Retryable = true
	return e
}

// ErrConcurrentAppend signals that another writer won the race for the next
// chain position. Nothing was applied; the operation is safe to retry.
func ErrConcurrentAppend(err error) *AppError {
	e := Wrap("SYS_002", "Concurrent append on audit chain, retry with backoff", http.StatusServiceUnavailable, err)
	e.Retryable = true
	return e
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
