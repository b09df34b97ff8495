// Package http provides shared HTTP client plumbing for the Redmine API
// client: a thin transport wrapper, the status-code error taxonomy, and
// offset-based pagination.
package http

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for API responses.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates invalid or missing authentication.
	ErrUnauthorized = errors.New("authentication failed")

	// ErrForbidden indicates the user lacks permission for the operation.
	ErrForbidden = errors.New("permission denied")

	// ErrValidation indicates the server rejected the submitted data.
	ErrValidation = errors.New("validation failed")

	// ErrServerError indicates a server-side error occurred.
	ErrServerError = errors.New("server error")
)

// APIError represents an unclassified error response from an API.
// Service-specific packages wrap their own error types around the same
// sentinels; APIError is the fallback when no richer parse is available.
type APIError struct {
	// Service is the name of the API (e.g., "redmine").
	Service string

	// StatusCode is the HTTP status code returned.
	StatusCode int

	// Message is the error message, if any could be extracted.
	Message string

	// Endpoint is the API endpoint that was called.
	Endpoint string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (%d) at %s: %s",
		e.Service, e.StatusCode, e.Endpoint, e.Message)
}

// Unwrap returns the underlying sentinel error based on status code.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case 401:
		return ErrUnauthorized
	case 403:
		return ErrForbidden
	case 404:
		return ErrNotFound
	case 422:
		return ErrValidation
	default:
		if e.StatusCode >= 500 {
			return ErrServerError
		}
		return nil
	}
}

// TransportError represents a failure to complete a round-trip at all:
// connection refused, DNS failure, timeout expiry. It is deliberately not
// classified further.
type TransportError struct {
	// Service is the API whose transport failed.
	Service string

	// Err is the underlying error from the HTTP client.
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Service, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether the error indicates a resource was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized reports whether the error indicates authentication failed.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsForbidden reports whether the error indicates permission was denied.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsValidation reports whether the error indicates the server rejected the
// submitted data.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsTransport reports whether the error is a transport-level failure rather
// than a classified API response.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
