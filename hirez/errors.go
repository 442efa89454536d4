package hirez

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid hirez client configuration")
	// ErrUnauthorized indicates the developer ID or auth key was rejected
	ErrUnauthorized = errors.New("unauthorized: invalid developer credentials")
	// ErrUnavailable indicates the API switched to emergency mode (HTTP 503)
	ErrUnavailable = errors.New("hirez API is unavailable")
	// ErrClosed indicates a request was made on a closed client
	ErrClosed = errors.New("hirez client is closed")
)

// HTTPError reports a failure to fetch data in a reliable manner: an
// unexpected HTTP status, a malformed response body, or the transport
// failure that exhausted the retry budget.
type HTTPError struct {
	StatusCode int    // HTTP status, when a response was received
	Message    string // response detail, when available
	Cause      error  // underlying error, when one exists
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("hirez API error: status %d: %s", e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("hirez API error: status %d", e.StatusCode)
	case e.Cause != nil:
		return fmt.Sprintf("hirez API error: %v", e.Cause)
	}
	return "hirez API error: " + e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *HTTPError) Unwrap() error { return e.Cause }

// IsServerError checks if the error came from a 5xx response.
func (e *HTTPError) IsServerError() bool {
	return e.StatusCode >= 500
}
