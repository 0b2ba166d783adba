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

// ---- Validation & Registry (WHK) ----

// Validation returns a WHK_001 validation error.
func Validation(message string) *AppError {
	return New("WHK_001", message, http.StatusBadRequest)
}

// ErrNotFound is returned for unknown resources and for resources owned by another
// merchant. The two cases are intentionally indistinguishable.
func ErrNotFound(entity string) *AppError {
	return New("WHK_002", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrInvalidURL(reason string) *AppError {
	return New("WHK_003", reason, http.StatusBadRequest)
}

func ErrUnknownEvent(name string) *AppError {
	return New("WHK_004", fmt.Sprintf("unknown event type %q", name), http.StatusBadRequest)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_001", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrMerchantMismatch() *AppError {
	return New("AUTH_002", "Token is not valid for this merchant", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrEncryptionFailure(err error) *AppError {
	return Wrap("SYS_003", "Encryption service failure", http.StatusInternalServerError, err)
}

// UpstreamError wraps a failure of a dependency (database, cache, broker).
func UpstreamError(err error) *AppError {
	return Wrap("SYS_002", "Upstream dependency failure", http.StatusBadGateway, err)
}

// InternalError wraps an internal error as a SYS_000 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_000", "Internal server error", http.StatusInternalServerError, err)
}
