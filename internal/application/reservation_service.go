package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gatherly/gatherly-api/internal/domain/entity"
	"github.com/gatherly/gatherly-api/internal/domain/repository"
	"github.com/gatherly/gatherly-api/pkg/helpers"
	"github.com/gatherly/gatherly-api/pkg/mailer"
)

// ReservationService decides, for a given (event, user, now) triple, whether
// a seat reservation may be created, and applies that decision atomically
// through the repository. It is the only path that mutates an event's
// attendee set.
type ReservationService struct {
	Events    repository.EventRepository
	Users     repository.UserRepository
	Publisher *helpers.RabbitPublisher // optional; nil disables notifications
	Logger    *logrus.Logger           // optional
}

func NewReservationService(events repository.EventRepository, users repository.UserRepository, pub *helpers.RabbitPublisher, logger *logrus.Logger) *ReservationService {
	return &ReservationService{Events: events, Users: users, Publisher: pub, Logger: logger}
}

// TryReserve admits or rejects a join request. Preconditions run in order,
// each with its own outcome: missing event, past event, RSVP window not yet
// open, duplicate membership, full event. The membership and capacity checks
// here read a possibly stale aggregate and only provide early exits; the
// repository's conditional commit re-validates both under a lock and is the
// sole authority that prevents overbooking.
//
// On success the aggregate is re-read for display. That re-read is not part
// of the admission decision.
func (s *ReservationService) TryReserve(ctx context.Context, eventID, userID string, now time.Time) (*entity.Event, error) {
	ev, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev.IsPast(now) {
		return nil, ErrEventExpired
	}
	if now.Before(ev.RSVPWindowOpensAt()) {
		return nil, &WindowNotOpenError{RemainingSeconds: ev.RSVPWaitSeconds(now)}
	}
	if ev.HasAttendee(userID) {
		return nil, ErrAlreadyReserved
	}
	if ev.IsFull() {
		return nil, ErrAtCapacity
	}

	if err := s.Events.Reserve(ctx, eventID, userID); err != nil {
		return nil, err
	}

	updated, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, mailer.TemplateReservationConfirmed, userID, updated)
	return updated, nil
}

// Cancel removes the caller's seat. Removing an absent reservation surfaces
// repository.ErrNotReserved rather than succeeding silently. No time gate
// applies; a freed seat is immediately available to the next TryReserve.
func (s *ReservationService) Cancel(ctx context.Context, eventID, userID string) (*entity.Event, error) {
	if _, err := s.Events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	if err := s.Events.CancelReservation(ctx, eventID, userID); err != nil {
		return nil, err
	}

	updated, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, mailer.TemplateReservationCancelled, userID, updated)
	return updated, nil
}

// ListAttending returns upcoming events the user holds a seat for, ascending
// by date.
func (s *ReservationService) ListAttending(ctx context.Context, userID string, now time.Time) ([]entity.Event, error) {
	return s.Events.ListAttending(ctx, userID, now)
}

// notify publishes an email job for the reservation change. Best effort: the
// admission outcome is already committed, so failures are only logged.
func (s *ReservationService) notify(ctx context.Context, template, userID string, ev *entity.Event) {
	if s.Publisher == nil || s.Users == nil {
		return
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("skip reservation email, user lookup failed")
		}
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: template,
		Data: map[string]any{
			"Name":          u.Name,
			"EventTitle":    ev.Title,
			"EventDate":     ev.Date.UTC().Format("02 January 2006, 15:04 MST"),
			"EventLocation": ev.Location,
		},
	}
	if err := s.Publisher.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{
			"event_id": ev.ID,
			"template": template,
		}).Warn("publish reservation email failed")
	}
}
