package api

import (
	"errors"
	"fmt"
)

// NotFoundError means the requested id has no corresponding record
type NotFoundError struct {
	Resource string
	ID       int
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %d", e.Resource, e.ID)
}

// TransportError covers network failures, unexpected status codes and
// responses that are not the JSON we asked for
type TransportError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: server returned %d", e.Op, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

// Unwrap exposes the underlying cause
func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsTransport checks if an error is a TransportError
func IsTransport(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}
