package entity

import (
	"math"
	"time"
)

// DefaultRSVPDelay is the head start given to an event creator: reservations
// are refused until this long after the event was created, unless the record
// carries an explicit RSVP opening time.
const DefaultRSVPDelay = 60 * time.Second

// Event is the aggregate root for the event domain. Attendees is the set of
// user ids holding a seat; it never exceeds Capacity and never contains the
// same id twice.
type Event struct {
	ID          string
	Title       string
	Description string
	Location    string
	Date        time.Time
	Capacity    int
	CreatorID   string
	ImageURL    string
	ImagePath   string // object path inside the storage bucket, empty when no image
	RSVPOpenAt  *time.Time
	Attendees   []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RSVPWindowOpensAt returns the instant reservations are first accepted.
// Records created before the rsvp_open_at column existed have a null field;
// for those the window opens DefaultRSVPDelay after creation. The fallback is
// computed, never written back, so historical admission behavior is stable.
func (e *Event) RSVPWindowOpensAt() time.Time {
	if e.RSVPOpenAt != nil {
		return *e.RSVPOpenAt
	}
	return e.CreatedAt.Add(DefaultRSVPDelay)
}

// RSVPWaitSeconds returns the whole seconds remaining until the RSVP window
// opens, rounded up. Zero when the window is already open at now.
func (e *Event) RSVPWaitSeconds(now time.Time) int {
	opens := e.RSVPWindowOpensAt()
	if !now.Before(opens) {
		return 0
	}
	return int(math.Ceil(opens.Sub(now).Seconds()))
}

// HasAttendee reports whether the user currently holds a seat.
func (e *Event) HasAttendee(userID string) bool {
	for _, id := range e.Attendees {
		if id == userID {
			return true
		}
	}
	return false
}

// AttendeeCount returns the number of seats taken.
func (e *Event) AttendeeCount() int {
	return len(e.Attendees)
}

// IsFull reports whether no seats remain.
func (e *Event) IsFull() bool {
	return len(e.Attendees) >= e.Capacity
}

// IsPast reports whether the event date has passed at now. Past events are
// immutable for reservation purposes.
func (e *Event) IsPast(now time.Time) bool {
	return e.Date.Before(now)
}
