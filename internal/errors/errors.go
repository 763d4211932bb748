// Package errors provides the application error type for the folio API.
// Every failure that reaches a client is an AppError so responses always carry
// a stable code and a human-readable reason, and never leak internal details.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError with the same code, so a wrapped
// copy still matches its sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication errors. Every credential problem collapses into
// ErrInvalidToken so clients cannot tell expired from malformed tokens.
var (
	ErrInvalidToken       = &AppError{Code: "INVALID_TOKEN", Message: "invalid token", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "invalid username or password", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound      = &AppError{Code: "USER_NOT_FOUND", Message: "user not found", StatusCode: http.StatusNotFound}
	ErrDuplicateUsername = &AppError{Code: "DUPLICATE_USERNAME", Message: "username must be unique", StatusCode: http.StatusConflict}
)

// Portfolio errors.
var (
	ErrInsufficientCash   = &AppError{Code: "INSUFFICIENT_CASH", Message: "insufficient cash in portfolio", StatusCode: http.StatusBadRequest}
	ErrNegativeBalance    = &AppError{Code: "NEGATIVE_BALANCE", Message: "negative balance", StatusCode: http.StatusBadRequest}
	ErrDuplicateTicker    = &AppError{Code: "DUPLICATE_TICKER", Message: "holdings must not repeat a ticker", StatusCode: http.StatusBadRequest}
	ErrNotOwned           = &AppError{Code: "NOT_OWNED", Message: "user does not own any shares of this stock", StatusCode: http.StatusUnauthorized}
	ErrInsufficientShares = &AppError{Code: "INSUFFICIENT_SHARES", Message: "cannot sell more shares than the user owns", StatusCode: http.StatusUnauthorized}
	ErrStockNotHeld       = &AppError{Code: "STOCK_NOT_HELD", Message: "stock is not in the portfolio", StatusCode: http.StatusNotFound}
)

// Market data errors.
var (
	ErrProviderFetch = &AppError{Code: "PROVIDER_FETCH_FAILED", Message: "market data request failed", StatusCode: http.StatusUnauthorized}
	ErrStockNotFound = &AppError{Code: "STOCK_NOT_FOUND", Message: "stock not found", StatusCode: http.StatusUnauthorized}
)
