package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodesAndStatus(t *testing.T) {
	cases := []struct {
		err    *AppError
		code   string
		status int
	}{
		{ErrSelfTransfer(), "TRF_001", http.StatusBadRequest},
		{ErrInvalidAmount(), "TRF_002", http.StatusBadRequest},
		{ErrAccountNotFound(), "TRF_003", http.StatusNotFound},
		{ErrPinInvalid(), "TRF_004", http.StatusForbidden},
		{ErrInsufficientFunds(), "TRF_005", http.StatusPaymentRequired},
		{ErrNotAccountOwner(), "TRF_006", http.StatusForbidden},
		{ErrInvalidCredentials(), "AUTH_001", http.StatusUnauthorized},
		{ErrEmailExists(), "AUTH_002", http.StatusConflict},
		{ErrInvalidToken(), "AUTH_003", http.StatusUnauthorized},
		{ErrAliasKeyExists(), "KEY_001", http.StatusConflict},
		{ErrAliasKeyNotFound(), "KEY_002", http.StatusNotFound},
		{ErrAliasKeyLimit(), "KEY_003", http.StatusUnprocessableEntity},
		{ErrRateLimitExceeded(), "RATE_001", http.StatusTooManyRequests},
		{Validation("malformed input"), "VAL_001", http.StatusBadRequest},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.code, tc.err.Code)
		assert.Equal(t, tc.status, tc.err.HTTPStatus)
		assert.False(t, tc.err.Retryable)
	}
}

func TestRetryableErrors(t *testing.T) {
	cause := errors.New("boom")

	lockErr := ErrLockTimeout(cause)
	assert.Equal(t, "SYS_002", lockErr.Code)
	assert.Equal(t, http.StatusServiceUnavailable, lockErr.HTTPStatus)
	assert.True(t, lockErr.Retryable)
	assert.ErrorIs(t, lockErr, cause)

	sysErr := InternalError(cause)
	assert.Equal(t, "SYS_001", sysErr.Code)
	assert.True(t, sysErr.Retryable)
	assert.ErrorIs(t, sysErr, cause)
}

func TestErrorString(t *testing.T) {
	plain := New("X_001", "something", http.StatusBadRequest)
	assert.Equal(t, "[X_001] something", plain.Error())

	wrapped := Wrap("X_002", "outer", http.StatusInternalServerError, errors.New("inner"))
	assert.Equal(t, "[X_002] outer: inner", wrapped.Error())
}

func TestErrorsAsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", ErrInsufficientFunds())

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "TRF_005", appErr.Code)
}
