package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for snapshot runs.
var (
	// ErrNoToken indicates a fetch was attempted before authentication.
	ErrNoToken = errors.New("no access token: authenticate first")

	// ErrMissingTenantID indicates the tenant ID is not configured.
	ErrMissingTenantID = errors.New("credentials: tenant_id is required")

	// ErrMissingClientID indicates the client ID is not configured.
	ErrMissingClientID = errors.New("credentials: client_id is required")

	// ErrMissingSecret indicates neither a client secret nor a
	// username/password pair is configured.
	ErrMissingSecret = errors.New("credentials: client_secret or username/password is required")

	// ErrMissingPassword indicates a username was configured without a password.
	ErrMissingPassword = errors.New("credentials: password is required with username")
)

// AuthError is returned when the identity provider rejects a token request.
// It carries the provider's error payload so the caller can report it.
type AuthError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *AuthError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("authentication failed: status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// FetchError is returned when a page request fails during pagination. Pages
// already accumulated are discarded; a fetch is all-or-nothing.
type FetchError struct {
	StatusCode int
	URL        string
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s failed: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s failed: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
