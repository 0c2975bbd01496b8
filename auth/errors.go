package auth

import (
	"errors"
	"fmt"
)

// ErrEmptyAccessToken is returned when the token endpoint responds successfully without an access token.
var ErrEmptyAccessToken = errors.New("empty access token")

// SigningError is returned when an assertion cannot be signed.
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("signing assertion: %v", e.Err)
}

func (e *SigningError) Unwrap() error {
	return e.Err
}

// NetworkError is returned when the token endpoint cannot be reached.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("requesting access token from %s: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// AuthServerError is returned when the token endpoint rejects the request or responds with something unexpected.
type AuthServerError struct {
	// StatusCode is the HTTP status returned by the token endpoint.
	StatusCode int

	// Body holds (the beginning of) the response body for diagnostics.
	Body string

	Err error
}

func (e *AuthServerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("token endpoint (HTTP %d): %v", e.StatusCode, e.Err)
	}

	return fmt.Sprintf("token endpoint (HTTP %d): %s", e.StatusCode, e.Body)
}

func (e *AuthServerError) Unwrap() error {
	return e.Err
}

// CacheReadError describes a cache record that could not be read.
// It is never returned to callers of a TokenStore: a read failure is a cache miss.
type CacheReadError struct {
	Path string
	Err  error
}

func (e *CacheReadError) Error() string {
	return fmt.Sprintf("reading token cache %s: %v", e.Path, e.Err)
}

func (e *CacheReadError) Unwrap() error {
	return e.Err
}

// CacheWriteError is returned when a token cannot be persisted.
type CacheWriteError struct {
	Path string
	Err  error
}

func (e *CacheWriteError) Error() string {
	return fmt.Sprintf("writing token cache %s: %v", e.Path, e.Err)
}

func (e *CacheWriteError) Unwrap() error {
	return e.Err
}
