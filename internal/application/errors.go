package application

import (
	"errors"
	"fmt"
)

var (
	// ErrEventExpired rejects reservations against events whose date passed.
	ErrEventExpired = errors.New("this event has already taken place")

	// ErrAlreadyReserved rejects a second reservation by the same user.
	ErrAlreadyReserved = errors.New("you already have a seat for this event")

	// ErrAtCapacity rejects reservations when no seats remain.
	ErrAtCapacity = errors.New("this event is at full capacity")
)

// WindowNotOpenError rejects reservations made before the RSVP window opens.
// RemainingSeconds is the whole seconds left until the window opens, rounded
// up, so a client can render a countdown.
type WindowNotOpenError struct {
	RemainingSeconds int
}

func (e *WindowNotOpenError) Error() string {
	return fmt.Sprintf(
		"Respect time! Reservations open 1 minute after an event is created. Try again in %d seconds.",
		e.RemainingSeconds)
}

// CapacityTooLowError rejects a capacity edit below the current attendance.
type CapacityTooLowError struct {
	Attendees int
}

func (e *CapacityTooLowError) Error() string {
	return fmt.Sprintf("capacity cannot be lower than the current number of attendees (%d)", e.Attendees)
}
