package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   Validation("events must not be empty"),
			expected: "[WHK_001] events must not be empty",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := UpstreamError(inner)

	assert.True(t, errors.Is(appErr, inner))
	assert.Nil(t, Validation("x").Unwrap())
}

func TestRegistryErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"Validation", Validation("bad"), "WHK_001", 400},
		{"NotFound", ErrNotFound("endpoint"), "WHK_002", 404},
		{"InvalidURL", ErrInvalidURL("scheme must be http or https"), "WHK_003", 400},
		{"UnknownEvent", ErrUnknownEvent("subscription.paused"), "WHK_004", 400},
		{"InvalidToken", ErrInvalidToken(), "AUTH_001", 401},
		{"MerchantMismatch", ErrMerchantMismatch(), "AUTH_002", 401},
		{"RateLimit", ErrRateLimitExceeded(), "RATE_001", 429},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestSystemErrors(t *testing.T) {
	inner := fmt.Errorf("pg: connection closed")

	dbErr := ErrDatabaseError(inner)
	assert.Equal(t, "SYS_001", dbErr.Code)
	assert.Equal(t, 500, dbErr.HTTPStatus)
	assert.True(t, errors.Is(dbErr, inner))

	upErr := UpstreamError(inner)
	assert.Equal(t, "SYS_002", upErr.Code)
	assert.Equal(t, 502, upErr.HTTPStatus)

	encErr := ErrEncryptionFailure(inner)
	assert.Equal(t, "SYS_003", encErr.Code)
	assert.Equal(t, 500, encErr.HTTPStatus)

	assert.Equal(t, "SYS_000", InternalError(inner).Code)
}

func TestNotFoundEntity(t *testing.T) {
	err := ErrNotFound("webhook endpoint")
	assert.Equal(t, "webhook endpoint not found", err.Message)
}
