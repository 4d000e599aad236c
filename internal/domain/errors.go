package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNoActiveSession     = errors.New("no active session")
	ErrBackendUnreachable  = errors.New("backend unreachable")
	ErrInvalidClient       = errors.New("invalid client")
	ErrSessionNotFound     = errors.New("session not found")
	ErrSecretNotFound      = errors.New("secret not found")
	ErrInvalidControlParam = errors.New("invalid control parameter")
)

// BackendError reports a request the backend answered with a non-success
// status, or whose body could not be decoded.
type BackendError struct {
	Status int
	Err    error
}

func (e *BackendError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backend status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("backend status %d", e.Status)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
