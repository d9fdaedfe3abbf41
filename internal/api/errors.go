package api

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated is returned for 401 responses and by callers that
// require a session before issuing a request. The consumer clears the
// session and redirects to login; nothing is retried.
var ErrUnauthenticated = errors.New("unauthenticated")

// Error is a non-401 4xx/5xx response. Message carries the server's
// {"message": ...} payload when one was present.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// ServerFault reports whether the error was the server's (5xx), in
// which case callers surface a generic message instead of the payload.
func (e *Error) ServerFault() bool {
	return e.Status >= 500
}

// NetworkError means no response was received at all.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "api: network failure: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
