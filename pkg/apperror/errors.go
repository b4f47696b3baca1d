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
	Retryable  bool   `json:"-"` // Safe to resubmit: nothing was committed
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
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

// ---- Transfer Business Logic (TRF) ----

func ErrSelfTransfer() *AppError {
	return New("TRF_001", "Cannot transfer to the same account", http.StatusBadRequest)
}

func ErrInvalidAmount() *AppError {
	return New("TRF_002", "Amount must be greater than zero", http.StatusBadRequest)
}

func ErrAccountNotFound() *AppError {
	return New("TRF_003", "Account not found", http.StatusNotFound)
}

func ErrPinInvalid() *AppError {
	return New("TRF_004", "Transaction PIN verification failed", http.StatusForbidden)
}

func ErrInsufficientFunds() *AppError {
	return New("TRF_005", "Insufficient balance", http.StatusPaymentRequired)
}

func ErrNotAccountOwner() *AppError {
	return New("TRF_006", "Sender account does not belong to the caller", http.StatusForbidden)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrEmailExists() *AppError {
	return New("AUTH_002", "Email already registered", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Alias Keys (KEY) ----

func ErrAliasKeyExists() *AppError {
	return New("KEY_001", "Alias key already registered", http.StatusConflict)
}

func ErrAliasKeyNotFound() *AppError {
	return New("KEY_002", "Alias key not found", http.StatusNotFound)
}

func ErrAliasKeyLimit() *AppError {
	return New("KEY_003", "Alias key limit reached (max 5)", http.StatusUnprocessableEntity)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps a persistence or infrastructure failure. Nothing was
// committed, so the request is safe to retry.
func InternalError(err error) *AppError {
	e := Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
	e.Retryable = true
	return e
}

// ErrLockTimeout wraps a lock-wait timeout. The unit of work aborted with
// nothing committed; the caller may retry.
func ErrLockTimeout(err error) *AppError {
	e := Wrap("SYS_002", "Lock acquisition timeout", http.StatusServiceUnavailable, err)
	e.Retryable = true
	return e
}

// Validation flags malformed input rejected before any business rule ran.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}
