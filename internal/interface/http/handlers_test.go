package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/gatherly/gatherly-api/internal/application"
	"github.com/gatherly/gatherly-api/internal/domain/entity"
	"github.com/gatherly/gatherly-api/internal/domain/repository"
	"github.com/gatherly/gatherly-api/internal/interface/middleware"
	"github.com/gatherly/gatherly-api/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

// fakeEventStore backs the handlers with the same conditional Reserve
// contract the Postgres repository provides.
type fakeEventStore struct {
	mu     sync.Mutex
	events map[string]*entity.Event
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{events: map[string]*entity.Event{}}
}

func (s *fakeEventStore) copyOf(e *entity.Event) *entity.Event {
	cp := *e
	cp.Attendees = append([]string{}, e.Attendees...)
	return &cp
}

func (s *fakeEventStore) Create(_ context.Context, e *entity.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	s.events[e.ID] = s.copyOf(e)
	return nil
}

func (s *fakeEventStore) GetByID(_ context.Context, id string) (*entity.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s.copyOf(e), nil
}

func (s *fakeEventStore) ListUpcoming(_ context.Context, now time.Time, f repository.EventFilter) ([]entity.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.Event
	for _, e := range s.events {
		if e.Date.Before(now) {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(e.Title), strings.ToLower(f.Search)) {
			continue
		}
		if f.From != nil && e.Date.Before(*f.From) {
			continue
		}
		out = append(out, *s.copyOf(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *fakeEventStore) ListAttending(_ context.Context, userID string, now time.Time) ([]entity.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.Event
	for _, e := range s.events {
		if !e.Date.Before(now) && e.HasAttendee(userID) {
			out = append(out, *s.copyOf(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *fakeEventStore) ListCreated(_ context.Context, userID string) ([]entity.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.Event
	for _, e := range s.events {
		if e.CreatorID == userID {
			out = append(out, *s.copyOf(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *fakeEventStore) Update(_ context.Context, e *entity.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[e.ID]; !ok {
		return repository.ErrNotFound
	}
	s.events[e.ID] = s.copyOf(e)
	return nil
}

func (s *fakeEventStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.events, id)
	return nil
}

func (s *fakeEventStore) Reserve(_ context.Context, eventID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[eventID]
	if !ok {
		return repository.ErrNotFound
	}
	if e.HasAttendee(userID) || e.IsFull() {
		return repository.ErrCapacityOrDuplicate
	}
	e.Attendees = append(e.Attendees, userID)
	return nil
}

func (s *fakeEventStore) CancelReservation(_ context.Context, eventID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[eventID]
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

// asUser replaces the auth middleware for tests: every request runs as uid.
func asUser(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxUserIDKey, uid)
		c.Next()
	}
}

type testEnv struct {
	store  *fakeEventStore
	router *gin.Engine
}

// newTestEnv builds the full routing surface on top of an in-memory store,
// with authentication stubbed to the given user.
func newTestEnv(uid string) *testEnv {
	store := newFakeEventStore()
	events := application.NewEventService(store, nil, "", nil)
	reservations := application.NewReservationService(store, nil, nil, nil)

	eh := NewEventHandler(events, nil)
	rh := NewReservationHandler(reservations, events, nil)

	r := gin.New()
	api := r.Group("/api")
	api.GET("/events", eh.List)
	api.GET("/events/:id", eh.Get)

	auth := api.Group("/", asUser(uid))
	auth.POST("/events", eh.Create)
	auth.PUT("/events/:id", eh.Update)
	auth.DELETE("/events/:id", eh.Delete)
	auth.GET("/reservations/mine", rh.Mine)
	auth.GET("/reservations/created", rh.Created)
	auth.POST("/reservations/:eventId", rh.Reserve)
	auth.DELETE("/reservations/:eventId", rh.Cancel)

	return &testEnv{store: store, router: r}
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	e.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func (e *testEnv) seed(t *testing.T, ev *entity.Event) *entity.Event {
	t.Helper()
	require.NoError(t, e.store.Create(context.Background(), ev))
	return ev
}

// openEvent is reservable right now: created over a minute ago, dated in the
// future.
func openEvent(capacity int) *entity.Event {
	created := time.Now().UTC().Add(-5 * time.Minute)
	opens := created.Add(entity.DefaultRSVPDelay)
	return &entity.Event{
		Title:       "Go Meetup",
		Description: "Talks and pizza",
		Location:    "Jakarta",
		Date:        time.Now().UTC().Add(72 * time.Hour),
		Capacity:    capacity,
		CreatorID:   "organizer",
		RSVPOpenAt:  &opens,
		CreatedAt:   created,
		Attendees:   []string{},
	}
}
