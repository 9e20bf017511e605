package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnableToConnect is returned when a session with the slow source cannot be established.
	ErrUnableToConnect = errors.New("unable to connect")
	// ErrUnexpected is returned when a delegated call fails for any other reason.
	ErrUnexpected = errors.New("unexpected error")
	// ErrBadParamInput is returned when a request parameter is invalid.
	ErrBadParamInput = errors.New("given param is not valid")
	// ErrNotFound is returned when a requested store has never been loaded.
	ErrNotFound = errors.New("your requested item is not found")
)

// UnableToConnect wraps err as an ErrUnableToConnect with a description.
func UnableToConnect(msg string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrUnableToConnect, msg)
	}
	return fmt.Errorf("%w: %s: %v", ErrUnableToConnect, msg, err)
}

// Unexpected wraps err as an ErrUnexpected with a description.
func Unexpected(msg string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrUnexpected, msg)
	}
	return fmt.Errorf("%w: %s: %v", ErrUnexpected, msg, err)
}
