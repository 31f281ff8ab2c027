package client

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions carrying no extra data.
var (
	// ErrUnauthenticated means no session is present; the call was never sent.
	ErrUnauthenticated = errors.New("no active session")

	// ErrSessionExpired means the server answered 401. The session store has
	// already been expired by the time callers see this.
	ErrSessionExpired = errors.New("session expired")
)

// RequestError is a non-2xx, non-401 server response. Callers decide whether
// to surface it to the user.
type RequestError struct {
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed (%d): %s", e.Status, e.Body)
}

// TransportError wraps a network-level failure.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ValidationError is a client-side required-field failure; nothing was sent.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// UserMessage renders an error as a short user-facing failure notice.
func UserMessage(err error) string {
	var reqErr *RequestError
	var valErr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSessionExpired):
		return "Your session has expired. Please log in again."
	case errors.Is(err, ErrUnauthenticated):
		return "Please log in first."
	case errors.As(err, &valErr):
		return fmt.Sprintf("%s %s", valErr.Field, valErr.Reason)
	case errors.As(err, &reqErr):
		return fmt.Sprintf("Server error (%d)", reqErr.Status)
	default:
		return "Connection problem. Please try again."
	}
}
