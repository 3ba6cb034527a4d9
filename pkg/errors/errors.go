// Package errors defines the structured error types used by the railtix booking
// service. Every rejection a caller can observe maps to a typed code from
// pkg/constants plus an HTTP status, so both the HTTP layer and the console
// frontend surface the same taxonomy.
package errors

import (
	"fmt"
	"net/http"

	"github.com/railtix/railtix/pkg/constants"
)

// ================================================================================
// Error Type
// ================================================================================

// AppError is a structured application error carrying a rejection code, the
// HTTP status the API layer should respond with, a human-readable message, and
// optional metadata for logs and error envelopes.
type AppError struct {
	code       constants.ErrorCode
	httpStatus int
	message    string
	cause      error
	metadata   map[string]interface{}
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return e.message
}

// Code returns the rejection code.
func (e *AppError) Code() constants.ErrorCode {
	return e.code
}

// HTTPStatus returns the HTTP status code for this error.
func (e *AppError) HTTPStatus() int {
	return e.httpStatus
}

// Unwrap returns the underlying cause, if any.
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithCause attaches a cause to the error chain.
func (e *AppError) WithCause(cause error) *AppError {
	e.cause = cause
	return e
}

// WithMetadata attaches a metadata entry.
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.metadata == nil {
		e.metadata = make(map[string]interface{})
	}
	e.metadata[key] = value
	return e
}

// Metadata returns all metadata attached to the error.
func (e *AppError) Metadata() map[string]interface{} {
	return e.metadata
}

// New creates an AppError with an explicit code, HTTP status, and message.
func New(code constants.ErrorCode, httpStatus int, message string) *AppError {
	return &AppError{
		code:       code,
		httpStatus: httpStatus,
		message:    message,
	}
}

// ================================================================================
// Taxonomy Constructors
// ================================================================================

// ErrInvalidInput creates an invalid_input error (malformed or out-of-range
// request parameters).
func ErrInvalidInput(message string) *AppError {
	return New(constants.ErrCodeInvalidInput, http.StatusBadRequest, message)
}

// ErrInvalidQuantity creates the quantity-bounds rejection.
func ErrInvalidQuantity(max int) *AppError {
	return ErrInvalidInput(fmt.Sprintf("Invalid ticket quantity. Maximum %d tickets per user", max)).
		WithMetadata("max_per_booking", max)
}

// ErrInvalidCredentials creates the identity-validation rejection.
func ErrInvalidCredentials(userID string) *AppError {
	return New(constants.ErrCodeInvalidCredentials, http.StatusUnauthorized, "Invalid user credentials").
		WithMetadata("user_id", userID)
}

// ErrSuspiciousActivity creates the fraud-heuristic rejection.
func ErrSuspiciousActivity(userID string) *AppError {
	return New(constants.ErrCodeSuspiciousActivity, http.StatusForbidden, "Suspicious activity detected").
		WithMetadata("user_id", userID)
}

// ErrRateLimitExceeded creates the sliding-window rejection.
func ErrRateLimitExceeded(scope constants.RateLimitScope, limit int) *AppError {
	err := New(constants.ErrCodeRateLimitExceeded, http.StatusTooManyRequests,
		"Rate limit exceeded. Please try again later").
		WithMetadata("scope", string(scope))
	if limit > 0 {
		err = err.WithMetadata("limit", limit)
	}
	return err
}

// ErrQuotaExceeded creates the per-user cumulative cap rejection.
func ErrQuotaExceeded(max int) *AppError {
	return New(constants.ErrCodeQuotaExceeded, http.StatusConflict,
		fmt.Sprintf("Exceeds maximum allowed tickets per user (%d)", max)).
		WithMetadata("max_per_user", max)
}

// ErrInsufficientInventory creates the sold-out / not-enough-tickets rejection.
func ErrInsufficientInventory(available int) *AppError {
	return New(constants.ErrCodeInsufficientInventory, http.StatusConflict,
		"Not enough tickets available").
		WithMetadata("available", available)
}

// ErrPaymentFailed creates the payment rejection. Payment is checked before any
// mutation, so inventory is untouched when this surfaces.
func ErrPaymentFailed(reason string) *AppError {
	return New(constants.ErrCodePaymentFailed, http.StatusPaymentRequired,
		"Payment failed. Booking cancelled").
		WithMetadata("reason", reason)
}

// ErrInternal creates an internal server error.
func ErrInternal(message string) *AppError {
	return New(constants.ErrCodeInternal, http.StatusInternalServerError, message)
}

// ================================================================================
// Utilities
// ================================================================================

// AsAppError attempts to cast an error to *AppError.
func AsAppError(err error) (*AppError, bool) {
	appErr, ok := err.(*AppError)
	return appErr, ok
}

// Wrap wraps a generic error into an internal AppError, preserving the cause.
func Wrap(err error, message string) *AppError {
	return ErrInternal(message).WithCause(err)
}

// ================================================================================
// Error Response Envelope
// ================================================================================

// ErrorResponse is the JSON structure returned to HTTP callers on rejection.
type ErrorResponse struct {
	Error            string                 `json:"error"`
	ErrorDescription string                 `json:"error_description"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
}

// ToErrorResponse converts any error to an ErrorResponse. Unknown errors
// collapse to the internal class without leaking detail.
func ToErrorResponse(err error) *ErrorResponse {
	if appErr, ok := AsAppError(err); ok {
		return &ErrorResponse{
			Error:            string(appErr.Code()),
			ErrorDescription: appErr.Error(),
			Metadata:         appErr.Metadata(),
		}
	}
	return &ErrorResponse{
		Error:            string(constants.ErrCodeInternal),
		ErrorDescription: "An unexpected error occurred",
	}
}

// HTTPStatusOf returns the HTTP status for any error, defaulting to 500.
func HTTPStatusOf(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}
