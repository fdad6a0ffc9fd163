package repository

import (
	"context"
	"errors"
	"time"

	"github.com/gatherly/gatherly-api/internal/domain/entity"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrCapacityOrDuplicate is returned by Reserve when the commit-time check
// fails: either the last seat was taken by a concurrent caller or the user is
// already an attendee. The two causes are deliberately not distinguished.
var ErrCapacityOrDuplicate = errors.New("event is at capacity or seat already reserved")

// ErrNotReserved is returned by CancelReservation when the user holds no seat.
var ErrNotReserved = errors.New("no reservation for this event")

// EventFilter narrows upcoming-event listings.
type EventFilter struct {
	Search string     // case-insensitive substring match on the title
	From   *time.Time // minimum event date
}

// EventRepository defines persistence for events and their attendee set.
//
// Reserve and CancelReservation are the only two ways the attendee set is
// mutated. Reserve must apply the capacity and membership check atomically at
// commit time; callers may consult a previously loaded aggregate for early
// exits but must never rely on it for the final decision.
type EventRepository interface {
	Create(ctx context.Context, e *entity.Event) error
	GetByID(ctx context.Context, id string) (*entity.Event, error)
	ListUpcoming(ctx context.Context, now time.Time, f EventFilter) ([]entity.Event, error)
	ListAttending(ctx context.Context, userID string, now time.Time) ([]entity.Event, error)
	ListCreated(ctx context.Context, userID string) ([]entity.Event, error)
	Update(ctx context.Context, e *entity.Event) error
	Delete(ctx context.Context, id string) error

	// Reserve adds userID to the event's attendee set if and only if, at the
	// store's commit instant, the user is not already an attendee and a seat
	// is free. Returns ErrNotFound when the event is gone and
	// ErrCapacityOrDuplicate when the conditional check fails.
	Reserve(ctx context.Context, eventID, userID string) error

	// CancelReservation removes userID from the attendee set. Removing an
	// absent reservation returns ErrNotReserved.
	CancelReservation(ctx context.Context, eventID, userID string) error
}
