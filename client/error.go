package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a failed backend call.
type Error struct {
	// HTTPStatus is the HTTP status code.
	HTTPStatus int `json:"-"`

	// Message is the server-provided message of the response envelope.
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("ragstream: %s (http=%d)", e.Message, e.HTTPStatus)
}

// IsNotFound returns true if the addressed resource does not exist.
func (e *Error) IsNotFound() bool {
	return e.HTTPStatus == http.StatusNotFound
}

// IsTooLarge returns true if the server refused an upload for its size.
func (e *Error) IsTooLarge() bool {
	return e.HTTPStatus == http.StatusRequestEntityTooLarge
}

// IsRateLimit returns true if this is a rate limit error.
func (e *Error) IsRateLimit() bool {
	return e.HTTPStatus == http.StatusTooManyRequests
}

// IsServerError returns true if this is a server-side error.
func (e *Error) IsServerError() bool {
	return e.HTTPStatus >= 500
}

// Retryable returns true if the request can be retried.
func (e *Error) Retryable() bool {
	return e.IsRateLimit() || e.IsServerError()
}

// AsError extracts *Error from an error.
//
// Example:
//
//	if e, ok := client.AsError(err); ok && e.IsNotFound() {
//	    // the file was deleted meanwhile
//	}
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
