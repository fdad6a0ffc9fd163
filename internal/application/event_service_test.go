package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatherly/gatherly-api/internal/domain/entity"
	"github.com/gatherly/gatherly-api/internal/domain/repository"
	"github.com/gatherly/gatherly-api/pkg/errdef"
)

func TestEventCreateOpensWindowAfterDelay(t *testing.T) {
	repo := newMemEventRepo()
	svc := NewEventService(repo, nil, "", nil)

	before := time.Now().UTC()
	ev, err := svc.Create(context.Background(), "organizer", EventInput{
		Title:    "Go Meetup",
		Location: "Jakarta",
		Date:     before.Add(72 * time.Hour),
		Capacity: 30,
	}, nil)
	require.NoError(t, err)
	after := time.Now().UTC()

	require.NotNil(t, ev.RSVPOpenAt)
	assert.False(t, ev.RSVPOpenAt.Before(before.Add(entity.DefaultRSVPDelay)))
	assert.False(t, ev.RSVPOpenAt.After(after.Add(entity.DefaultRSVPDelay)))
	assert.Empty(t, ev.Attendees)
	assert.Equal(t, "organizer", ev.CreatorID)
	assert.NotEmpty(t, ev.ID)
}

func TestEventUpdateCreatorOnly(t *testing.T) {
	repo := newMemEventRepo()
	svc := NewEventService(repo, nil, "", nil)
	ctx := context.Background()

	created := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	ev := seedEvent(t, repo, baseEvent(created, 10))

	_, err := svc.Update(ctx, ev.ID, "intruder", EventInput{
		Title:    "Hijacked",
		Capacity: 10,
	}, nil)
	require.True(t, errdef.IsForbidden(err))

	stored, err := repo.GetByID(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go Meetup", stored.Title)
}

func TestEventUpdateCapacityBelowAttendance(t *testing.T) {
	repo := newMemEventRepo()
	svc := NewEventService(repo, nil, "", nil)
	ctx := context.Background()

	created := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	ev := baseEvent(created, 5)
	ev.Attendees = []string{"alice", "bob"}
	seedEvent(t, repo, ev)

	_, err := svc.Update(ctx, ev.ID, "organizer", EventInput{
		Title:    ev.Title,
		Location: ev.Location,
		Date:     ev.Date,
		Capacity: 1,
	}, nil)
	var tooLow *CapacityTooLowError
	require.ErrorAs(t, err, &tooLow)
	assert.Equal(t, 2, tooLow.Attendees)

	// The rejected edit leaves the event untouched.
	stored, err := repo.GetByID(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Capacity)
	assert.Equal(t, []string{"alice", "bob"}, stored.Attendees)
}

func TestEventUpdateShrinkToAttendanceAllowed(t *testing.T) {
	repo := newMemEventRepo()
	svc := NewEventService(repo, nil, "", nil)
	ctx := context.Background()

	created := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	ev := baseEvent(created, 5)
	ev.Attendees = []string{"alice", "bob"}
	seedEvent(t, repo, ev)

	got, err := svc.Update(ctx, ev.ID, "organizer", EventInput{
		Title:    "Go Meetup (small room)",
		Location: ev.Location,
		Date:     ev.Date,
		Capacity: 2,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Capacity)
	assert.True(t, got.IsFull())
}

func TestEventDelete(t *testing.T) {
	repo := newMemEventRepo()
	svc := NewEventService(repo, nil, "", nil)
	ctx := context.Background()

	created := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	ev := seedEvent(t, repo, baseEvent(created, 10))

	err := svc.Delete(ctx, ev.ID, "intruder")
	require.True(t, errdef.IsForbidden(err))

	require.NoError(t, svc.Delete(ctx, ev.ID, "organizer"))

	_, err = repo.GetByID(ctx, ev.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// Deleting again reports the event as gone.
	err = svc.Delete(ctx, ev.ID, "organizer")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEventListUpcomingFilters(t *testing.T) {
	repo := newMemEventRepo()
	svc := NewEventService(repo, nil, "", nil)
	ctx := context.Background()

	created := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	meetup := baseEvent(created, 5)
	meetup.Title = "Go Meetup Jakarta"
	meetup.Date = created.Add(24 * time.Hour)
	seedEvent(t, repo, meetup)

	conf := baseEvent(created, 5)
	conf.Title = "GopherCon"
	conf.Date = created.Add(240 * time.Hour)
	seedEvent(t, repo, conf)

	done := baseEvent(created, 5)
	done.Title = "Yesterday's Meetup"
	done.Date = created.Add(-24 * time.Hour)
	seedEvent(t, repo, done)

	now := created.Add(time.Hour)

	got, err := svc.ListUpcoming(ctx, now, repository.EventFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Go Meetup Jakarta", got[0].Title)

	got, err = svc.ListUpcoming(ctx, now, repository.EventFilter{Search: "meetup"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Go Meetup Jakarta", got[0].Title)

	from := created.Add(48 * time.Hour)
	got, err = svc.ListUpcoming(ctx, now, repository.EventFilter{From: &from})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "GopherCon", got[0].Title)
}
