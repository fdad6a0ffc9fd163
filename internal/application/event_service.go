package application

import (
	"context"
	"io"
	"path"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gatherly/gatherly-api/internal/domain/entity"
	"github.com/gatherly/gatherly-api/internal/domain/repository"
	"github.com/gatherly/gatherly-api/pkg/errdef"
	"github.com/gatherly/gatherly-api/pkg/helpers"
)

// EventService handles event CRUD and the image asset lifecycle. Creator-only
// rules live here; the attendee set is never touched by this service.
type EventService struct {
	Events    repository.EventRepository
	GCS       *storage.Client // optional; nil disables image storage
	GCSBucket string
	Logger    *logrus.Logger // optional
}

func NewEventService(events repository.EventRepository, gcs *storage.Client, bucket string, logger *logrus.Logger) *EventService {
	return &EventService{Events: events, GCS: gcs, GCSBucket: bucket, Logger: logger}
}

// EventInput carries the creator-supplied fields, already validated at the
// binding layer.
type EventInput struct {
	Title       string
	Description string
	Location    string
	Date        time.Time
	Capacity    int
}

// ImageUpload is an incoming image file for an event.
type ImageUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

// Create stores a new event. The RSVP window opens DefaultRSVPDelay after
// creation. If persisting fails after the image was uploaded, the uploaded
// object is removed so no orphaned asset survives a failed create.
func (s *EventService) Create(ctx context.Context, creatorID string, in EventInput, img *ImageUpload) (*entity.Event, error) {
	now := time.Now().UTC()
	opens := now.Add(entity.DefaultRSVPDelay)
	ev := &entity.Event{
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Date:        in.Date,
		Capacity:    in.Capacity,
		CreatorID:   creatorID,
		RSVPOpenAt:  &opens,
		Attendees:   []string{},
	}

	url, objectPath, err := s.uploadImage(ctx, img)
	if err != nil {
		return nil, err
	}
	ev.ImageURL = url
	ev.ImagePath = objectPath

	if err := s.Events.Create(ctx, ev); err != nil {
		s.deleteImage(ctx, objectPath)
		return nil, err
	}
	return ev, nil
}

// Update applies creator edits. Only the creator may edit, and capacity can
// only be lowered as far as the current attendee count; a rejected update
// leaves the event untouched. A replacement image deletes the old asset.
func (s *EventService) Update(ctx context.Context, eventID, callerID string, in EventInput, img *ImageUpload) (*entity.Event, error) {
	ev, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev.CreatorID != callerID {
		return nil, errdef.NewForbidden("only the event creator can modify this event")
	}
	if in.Capacity < ev.AttendeeCount() {
		return nil, &CapacityTooLowError{Attendees: ev.AttendeeCount()}
	}

	oldPath := ev.ImagePath
	replaced := false
	if img != nil {
		url, objectPath, err := s.uploadImage(ctx, img)
		if err != nil {
			return nil, err
		}
		if objectPath != "" {
			ev.ImageURL = url
			ev.ImagePath = objectPath
			replaced = true
		}
	}

	ev.Title = in.Title
	ev.Description = in.Description
	ev.Location = in.Location
	ev.Date = in.Date
	ev.Capacity = in.Capacity

	if err := s.Events.Update(ctx, ev); err != nil {
		if replaced {
			s.deleteImage(ctx, ev.ImagePath)
		}
		return nil, err
	}
	if replaced {
		s.deleteImage(ctx, oldPath)
	}
	return ev, nil
}

// Delete removes the event and its asset. Creator only; terminal.
func (s *EventService) Delete(ctx context.Context, eventID, callerID string) error {
	ev, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if ev.CreatorID != callerID {
		return errdef.NewForbidden("only the event creator can delete this event")
	}
	if err := s.Events.Delete(ctx, eventID); err != nil {
		return err
	}
	s.deleteImage(ctx, ev.ImagePath)
	return nil
}

func (s *EventService) Get(ctx context.Context, id string) (*entity.Event, error) {
	return s.Events.GetByID(ctx, id)
}

func (s *EventService) ListUpcoming(ctx context.Context, now time.Time, f repository.EventFilter) ([]entity.Event, error) {
	return s.Events.ListUpcoming(ctx, now, f)
}

func (s *EventService) ListCreated(ctx context.Context, userID string) ([]entity.Event, error) {
	return s.Events.ListCreated(ctx, userID)
}

func (s *EventService) uploadImage(ctx context.Context, img *ImageUpload) (url, objectPath string, err error) {
	if img == nil {
		return "", "", nil
	}
	if s.GCS == nil || s.GCSBucket == "" {
		if s.Logger != nil {
			s.Logger.Warn("image upload skipped, object storage not configured")
		}
		return "", "", nil
	}
	objectPath = "events/" + uuid.New().String() + path.Ext(img.Filename)
	url, err = helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, img.ContentType, img.Reader)
	if err != nil {
		return "", "", err
	}
	return url, objectPath, nil
}

func (s *EventService) deleteImage(ctx context.Context, objectPath string) {
	if objectPath == "" || s.GCS == nil || s.GCSBucket == "" {
		return
	}
	if err := helpers.DeleteObject(ctx, s.GCS, s.GCSBucket, objectPath); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("object", objectPath).Warn("delete image failed")
	}
}
