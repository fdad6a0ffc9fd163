// Package errdef defines the error kinds the HTTP boundary knows how to map
// to status codes. Domain packages wrap their failures in one of these.
package errdef

import (
	"errors"
	"fmt"
)

// NewForbidden creates an error representing an authorization failure.
func NewForbidden(format string, a ...any) error {
	return forbidden{fmt.Errorf(format, a...)}
}

type forbidden struct{ error }

// IsForbidden returns true if err represents an authorization failure.
func IsForbidden(err error) bool {
	var e forbidden
	return errors.As(err, &e)
}

// NewBadRequest creates an error representing malformed or unacceptable input.
func NewBadRequest(format string, a ...any) error {
	return badRequest{fmt.Errorf(format, a...)}
}

type badRequest struct{ error }

// IsBadRequest returns true if err represents malformed or unacceptable input.
func IsBadRequest(err error) bool {
	var e badRequest
	return errors.As(err, &e)
}

// NewUnauthorized creates an error representing a failed authentication.
func NewUnauthorized(format string, a ...any) error {
	return unauthorized{fmt.Errorf(format, a...)}
}

type unauthorized struct{ error }

// IsUnauthorized returns true if err represents a failed authentication.
func IsUnauthorized(err error) bool {
	var e unauthorized
	return errors.As(err, &e)
}
