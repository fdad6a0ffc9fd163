package application

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gatherly/gatherly-api/internal/domain/entity"
	"github.com/gatherly/gatherly-api/internal/domain/repository"
)

// memEventRepo is an in-memory EventRepository honoring the same conditional
// Reserve contract as the Postgres implementation. The mutex stands in for
// the row lock, so concurrency tests exercise the service against a store
// that is atomic at commit time but whose reads can go stale in between.
type memEventRepo struct {
	mu     sync.Mutex
	events map[string]*entity.Event
}

func newMemEventRepo() *memEventRepo {
	return &memEventRepo{events: map[string]*entity.Event{}}
}

func (r *memEventRepo) snapshot(e *entity.Event) *entity.Event {
	cp := *e
	cp.Attendees = append([]string{}, e.Attendees...)
	if e.RSVPOpenAt != nil {
		t := *e.RSVPOpenAt
		cp.RSVPOpenAt = &t
	}
	return &cp
}

func (r *memEventRepo) Create(_ context.Context, e *entity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	e.UpdatedAt = e.CreatedAt
	r.events[e.ID] = r.snapshot(e)
	return nil
}

func (r *memEventRepo) GetByID(_ context.Context, id string) (*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.snapshot(e), nil
}

func (r *memEventRepo) ListUpcoming(_ context.Context, now time.Time, f repository.EventFilter) ([]entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Event
	for _, e := range r.events {
		if e.Date.Before(now) {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(e.Title), strings.ToLower(f.Search)) {
			continue
		}
		if f.From != nil && e.Date.Before(*f.From) {
			continue
		}
		out = append(out, *r.snapshot(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *memEventRepo) ListAttending(_ context.Context, userID string, now time.Time) ([]entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Event
	for _, e := range r.events {
		if e.Date.Before(now) || !e.HasAttendee(userID) {
			continue
		}
		out = append(out, *r.snapshot(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *memEventRepo) ListCreated(_ context.Context, userID string) ([]entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Event
	for _, e := range r.events {
		if e.CreatorID != userID {
			continue
		}
		out = append(out, *r.snapshot(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *memEventRepo) Update(_ context.Context, e *entity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[e.ID]; !ok {
		return repository.ErrNotFound
	}
	e.UpdatedAt = time.Now().UTC()
	r.events[e.ID] = r.snapshot(e)
	return nil
}

func (r *memEventRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *memEventRepo) Reserve(_ context.Context, eventID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[eventID]
	if !ok {
		return repository.ErrNotFound
	}
	if e.HasAttendee(userID) || e.IsFull() {
		return repository.ErrCapacityOrDuplicate
	}
	e.Attendees = append(e.Attendees, userID)
	return nil
}

func (r *memEventRepo) CancelReservation(_ context.Context, eventID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[eventID]
	if !ok {
		return repository.ErrNotFound
	}
	for i, a := range e.Attendees {
		if a == userID {
			e.Attendees = append(e.Attendees[:i], e.Attendees[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotReserved
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*entity.User{}}
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ex := range r.users {
		if ex.Email == u.Email {
			return repository.ErrEmailTaken
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}
