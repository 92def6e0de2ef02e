package client

import (
	"errors"
	"fmt"
)

// HTTPError represents a non-2xx HTTP response from the API.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// TransportError is returned when a request never produced an HTTP
// response (DNS, refused connection, timeout, canceled context).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "network failure: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// IsNetwork reports whether err is a transport-level failure.
func IsNetwork(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}

// NetworkFailureMessage is the Reason for transport failures.
const NetworkFailureMessage = "Could not reach the server. Please try again."

// Reason renders err as a short message suitable for a form banner.
func Reason(err error) string {
	var httpErr *HTTPError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &httpErr):
		if httpErr.Message != "" {
			return httpErr.Message
		}
		return fmt.Sprintf("Request failed with status %d", httpErr.StatusCode)
	case IsNetwork(err):
		return NetworkFailureMessage
	default:
		return err.Error()
	}
}
