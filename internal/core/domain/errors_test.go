package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthError_Error(t *testing.T) {
	err := &AuthError{
		StatusCode: 400,
		Body:       `{"error":"invalid_client"}`,
	}
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "invalid_client")

	wrapped := &AuthError{Err: errors.New("connection refused")}
	assert.Contains(t, wrapped.Error(), "connection refused")
}

func TestAuthError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &AuthError{Err: cause}
	assert.ErrorIs(t, err, cause)
}

func TestFetchError_Error(t *testing.T) {
	err := &FetchError{
		StatusCode: 503,
		URL:        "https://graph.microsoft.com/v1.0/me/messages",
	}
	assert.Contains(t, err.Error(), "status 503")
	assert.Contains(t, err.Error(), "/me/messages")

	wrapped := &FetchError{
		URL: "https://graph.microsoft.com/v1.0/me/events",
		Err: errors.New("timeout"),
	}
	assert.Contains(t, wrapped.Error(), "timeout")
}

func TestFetchError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &FetchError{Err: cause}
	assert.ErrorIs(t, err, cause)
}
