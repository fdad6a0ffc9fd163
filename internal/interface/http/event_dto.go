package handlers

import (
	"time"

	"github.com/gatherly/gatherly-api/internal/domain/entity"
)

// eventResponse is the wire form of an event. rsvp_open_at always carries the
// effective opening instant, including the fallback for legacy records.
type eventResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	Date          time.Time `json:"date"`
	Capacity      int       `json:"capacity"`
	CreatorID     string    `json:"creator_id"`
	ImageURL      string    `json:"image_url,omitempty"`
	RSVPOpenAt    time.Time `json:"rsvp_open_at"`
	Attendees     []string  `json:"attendees"`
	AttendeeCount int       `json:"attendee_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toEventResponse(e *entity.Event) eventResponse {
	attendees := e.Attendees
	if attendees == nil {
		attendees = []string{}
	}
	return eventResponse{
		ID:            e.ID,
		Title:         e.Title,
		Description:   e.Description,
		Location:      e.Location,
		Date:          e.Date,
		Capacity:      e.Capacity,
		CreatorID:     e.CreatorID,
		ImageURL:      e.ImageURL,
		RSVPOpenAt:    e.RSVPWindowOpensAt(),
		Attendees:     attendees,
		AttendeeCount: e.AttendeeCount(),
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func toEventResponses(events []entity.Event) []eventResponse {
	out := make([]eventResponse, 0, len(events))
	for i := range events {
		out = append(out, toEventResponse(&events[i]))
	}
	return out
}
