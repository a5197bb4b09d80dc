package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		code ErrorCode
		want int
	}{
		{"configuration error is 500", ErrCodeConfiguration, http.StatusInternalServerError},
		{"validation failure is 400", ErrCodeValidationFailed, http.StatusBadRequest},
		{"verification rejection is 403", ErrCodeVerificationRejected, http.StatusForbidden},
		{"provider call failure is 500", ErrCodeProviderCallFailed, http.StatusInternalServerError},
		{"empty provider content is 500", ErrCodeProviderEmptyContent, http.StatusInternalServerError},
		{"relay failure is 500", ErrCodeRelayFailed, http.StatusInternalServerError},
		{"quota exhaustion is 429", ErrCodeQuotaExceeded, http.StatusTooManyRequests},
		{"unknown code falls back to 500", ErrorCode("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}

func TestHTTPStatusFor_NonStandardError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusFor(fmt.Errorf("plain error")))
}

func TestHTTPStatusFor_WrappedStandardError(t *testing.T) {
	err := fmt.Errorf("handler: %w", NewVerificationRejectedError("score too low"))
	assert.Equal(t, http.StatusForbidden, HTTPStatusFor(err))
}

func TestPublicMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "configuration details are hidden",
			err:  NewConfigurationError("openai.api_key"),
			want: "Server configuration error",
		},
		{
			name: "provider message passes through",
			err:  NewProviderCallFailedError(fmt.Errorf("rate limit exceeded")),
			want: "rate limit exceeded",
		},
		{
			name: "verification rejection has its own message",
			err:  NewVerificationRejectedError("network error"),
			want: "reCAPTCHA verification failed",
		},
		{
			name: "plain errors collapse to generic message",
			err:  fmt.Errorf("sql: connection refused"),
			want: "Failed to process request",
		},
		{
			name: "internal errors collapse to generic message",
			err:  NewInternalError(fmt.Errorf("boom")),
			want: "Failed to process request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PublicMessage(tt.err))
		})
	}
}

func TestIsCode(t *testing.T) {
	err := NewQuotaExceededError("203.0.113.7")
	assert.True(t, IsCode(err, ErrCodeQuotaExceeded))
	assert.False(t, IsCode(err, ErrCodeRelayFailed))
	assert.False(t, IsCode(fmt.Errorf("plain"), ErrCodeQuotaExceeded))
}
