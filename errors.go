package redmine

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	rmhttp "github.com/randalmurphal/redmine/http"
)

// Configuration errors.
var (
	ErrConfigURLRequired    = errors.New("redmine url is required")
	ErrConfigAPIKeyRequired = errors.New("redmine api key is required")
)

// Argument errors.
var (
	ErrLoginRequired          = errors.New("impersonation login is required")
	ErrFilenameRequired       = errors.New("upload filename is required")
	ErrProjectRequired        = errors.New("project identifier is required")
	ErrWikiTitleRequired      = errors.New("wiki page title is required")
	ErrCustomFieldNotFound    = errors.New("custom field not found")
	ErrAttachmentNoContentURL = errors.New("attachment has no content url")
)

// APIError represents an error response from the Redmine API. A 422 response
// carries the server-reported validation messages in Errors; for other
// statuses Errors is empty and Body holds the raw response text.
type APIError struct {
	StatusCode int      `json:"-"`
	Errors     []string `json:"errors,omitempty"`
	Endpoint   string   `json:"-"`
	Body       string   `json:"-"`
}

// Error implements the error interface. Every server-reported validation
// message is included, not just the first.
func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("redmine api error (%d): %s", e.StatusCode, strings.Join(e.Errors, "; "))
	}
	if e.Body != "" {
		return fmt.Sprintf("redmine api error (%d) at %s: %s", e.StatusCode, e.Endpoint, e.Body)
	}
	return fmt.Sprintf("redmine api error (%d) at %s: %s", e.StatusCode, e.Endpoint, http.StatusText(e.StatusCode))
}

// Unwrap returns the underlying sentinel error based on status code.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return rmhttp.ErrUnauthorized
	case http.StatusForbidden:
		return rmhttp.ErrForbidden
	case http.StatusNotFound:
		return rmhttp.ErrNotFound
	case http.StatusUnprocessableEntity:
		return rmhttp.ErrValidation
	default:
		if e.StatusCode >= 500 {
			return rmhttp.ErrServerError
		}
		return nil
	}
}

// parseAPIError classifies a non-2xx Redmine response. Validation failures
// arrive as {"errors": ["...", ...]}; anything else is carried verbatim.
func parseAPIError(statusCode int, body []byte, endpoint string) error {
	apiErr := &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
	}

	var errResp struct {
		Errors []string `json:"errors"`
	}
	if json.Unmarshal(body, &errResp) == nil && len(errResp.Errors) > 0 {
		apiErr.Errors = errResp.Errors
	} else {
		apiErr.Body = strings.TrimSpace(string(body))
	}

	return apiErr
}

// IsNotFound reports whether the error indicates a resource was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, rmhttp.ErrNotFound)
}

// IsUnauthorized reports whether the error indicates authentication failed.
func IsUnauthorized(err error) bool {
	return errors.Is(err, rmhttp.ErrUnauthorized)
}

// IsForbidden reports whether the error indicates permission was denied.
func IsForbidden(err error) bool {
	return errors.Is(err, rmhttp.ErrForbidden)
}

// IsValidation reports whether the error indicates the server rejected the
// submitted data.
func IsValidation(err error) bool {
	return errors.Is(err, rmhttp.ErrValidation)
}

// IsTransport reports whether the error is a transport-level failure rather
// than a classified API response.
func IsTransport(err error) bool {
	return rmhttp.IsTransport(err)
}
