// Package errors provides standardized error handling for the API handlers.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeConfiguration        ErrorCode = "CONFIGURATION_ERROR"
	ErrCodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	ErrCodeVerificationRejected ErrorCode = "VERIFICATION_REJECTED"

	ErrCodeProviderCallFailed   ErrorCode = "PROVIDER_CALL_FAILED"
	ErrCodeProviderEmptyContent ErrorCode = "PROVIDER_EMPTY_CONTENT"
	ErrCodeProviderBadJSON      ErrorCode = "PROVIDER_BAD_JSON"
	ErrCodeProviderBadSchema    ErrorCode = "PROVIDER_BAD_SCHEMA"

	ErrCodeRelayFailed   ErrorCode = "RELAY_FAILED"
	ErrCodeQuotaExceeded ErrorCode = "QUOTA_EXCEEDED"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewConfigurationError reports a missing or unusable server-side setting.
// Always surfaced as a generic message; the setting name stays in Details.
func NewConfigurationError(setting string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfiguration,
		Message:   "Server configuration error",
		Details:   fmt.Sprintf("setting: %s", setting),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError creates a non-retryable request validation error.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewVerificationRejectedError creates a non-retryable verification rejection.
// Covers low-score and failed checks as well as verification transport errors,
// which are treated as rejections (fail closed), not server faults.
func NewVerificationRejectedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeVerificationRejected,
		Message:   "reCAPTCHA verification failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderCallFailedError wraps a completion provider failure. The
// provider's own message is kept so it can be passed through to the caller.
func NewProviderCallFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderCallFailed,
		Message:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderEmptyContentError reports an empty completion from the provider.
func NewProviderEmptyContentError() *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderEmptyContent,
		Message:   "No response from completion provider",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderBadJSONError reports provider content that did not parse as JSON.
func NewProviderBadJSONError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderBadJSON,
		Message:   "Completion provider returned malformed JSON",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderBadSchemaError reports provider JSON that failed schema validation.
func NewProviderBadSchemaError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderBadSchema,
		Message:   "Completion provider response failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRelayFailedError reports a webhook or email delivery failure.
func NewRelayFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRelayFailed,
		Message:   "Failed to process request",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQuotaExceededError reports an exhausted daily usage allowance.
func NewQuotaExceededError(key string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQuotaExceeded,
		Message:   "Daily usage limit reached",
		Details:   fmt.Sprintf("key: %s", key),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Failed to process request",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. HTTP Mapping
// ==========================

// HTTPStatus maps an error code to the HTTP status handlers respond with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed:
		return http.StatusBadRequest
	case ErrCodeVerificationRejected:
		return http.StatusForbidden
	case ErrCodeQuotaExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// HTTPStatusFor resolves the response status for any error value.
func HTTPStatusFor(err error) int {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return HTTPStatus(stdErr.Code)
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the user-facing message for an error. Configuration
// details and internal faults collapse to a generic message; provider and
// verification messages pass through.
func PublicMessage(err error) string {
	var stdErr *StandardError
	if !errors.As(err, &stdErr) {
		return "Failed to process request"
	}
	switch stdErr.Code {
	case ErrCodeConfiguration:
		return "Server configuration error"
	case ErrCodeInternal:
		return "Failed to process request"
	default:
		return stdErr.Message
	}
}

// IsCode reports whether err is a StandardError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	return errors.As(err, &stdErr) && stdErr.Code == code
}
