package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatherly/gatherly-api/internal/domain/entity"
	"github.com/gatherly/gatherly-api/internal/domain/repository"
)

const uniqueViolation = "23505"

// selectEvent loads events together with their attendee set (ordered by
// reservation time, though order carries no meaning for correctness).
const selectEvent = `
	SELECT e.id, e.title, e.description, e.location, e.date, e.capacity,
	       e.creator_id, e.image_url, e.image_path, e.rsvp_open_at,
	       e.created_at, e.updated_at,
	       COALESCE(array_remove(array_agg(r.user_id ORDER BY r.created_at), NULL), '{}')
	FROM events e
	LEFT JOIN reservations r ON r.event_id = e.id`

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) Create(ctx context.Context, e *entity.Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	_, err := r.pool.Exec(ctx, `
		INSERT INTO events (id, title, description, location, date, capacity,
		                    creator_id, image_url, image_path, rsvp_open_at,
		                    created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, e.ID, e.Title, e.Description, e.Location, e.Date, e.Capacity,
		e.CreatorID, e.ImageURL, e.ImagePath, e.RSVPOpenAt, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	row := r.pool.QueryRow(ctx, selectEvent+`
		WHERE e.id = $1
		GROUP BY e.id
	`, id)
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

func (r *EventRepository) ListUpcoming(ctx context.Context, now time.Time, f repository.EventFilter) ([]entity.Event, error) {
	query := selectEvent + ` WHERE e.date >= $1`
	args := []any{now}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		query += fmt.Sprintf(" AND e.title ILIKE $%d", len(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		query += fmt.Sprintf(" AND e.date >= $%d", len(args))
	}
	query += ` GROUP BY e.id ORDER BY e.date ASC`
	return r.list(ctx, query, args...)
}

func (r *EventRepository) ListAttending(ctx context.Context, userID string, now time.Time) ([]entity.Event, error) {
	return r.list(ctx, selectEvent+`
		WHERE e.date >= $2
		  AND EXISTS (SELECT 1 FROM reservations m WHERE m.event_id = e.id AND m.user_id = $1)
		GROUP BY e.id
		ORDER BY e.date ASC
	`, userID, now)
}

func (r *EventRepository) ListCreated(ctx context.Context, userID string) ([]entity.Event, error) {
	return r.list(ctx, selectEvent+`
		WHERE e.creator_id = $1
		GROUP BY e.id
		ORDER BY e.date ASC
	`, userID)
}

func (r *EventRepository) Update(ctx context.Context, e *entity.Event) error {
	e.UpdatedAt = time.Now().UTC()
	res, err := r.pool.Exec(ctx, `
		UPDATE events
		SET title = $1, description = $2, location = $3, date = $4,
		    capacity = $5, image_url = $6, image_path = $7, updated_at = $8
		WHERE id = $9
	`, e.Title, e.Description, e.Location, e.Date, e.Capacity,
		e.ImageURL, e.ImagePath, e.UpdatedAt, e.ID)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Reserve performs the admission commit inside a transaction that holds a
// row-level lock on the event. The capacity and membership checks run again
// under the lock, so whatever the caller observed beforehand cannot go stale
// between check and insert. Concurrent callers serialize on the locked row;
// with one seat left, exactly one of them commits.
func (r *EventRepository) Reserve(ctx context.Context, eventID, userID string) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var capacity int
	err = tx.QueryRow(ctx, `SELECT capacity FROM events WHERE id = $1 FOR UPDATE`, eventID).Scan(&capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("lock event row: %w", err)
	}

	var taken int
	var already bool
	err = tx.QueryRow(ctx, `
		SELECT count(*), COALESCE(bool_or(user_id = $2), false)
		FROM reservations WHERE event_id = $1
	`, eventID, userID).Scan(&taken, &already)
	if err != nil {
		return fmt.Errorf("count reservations: %w", err)
	}
	if already || taken >= capacity {
		// Lost race or duplicate; the caller cannot tell which.
		return repository.ErrCapacityOrDuplicate
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO reservations (event_id, user_id, created_at)
		VALUES ($1, $2, $3)
	`, eventID, userID, time.Now().UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrCapacityOrDuplicate
		}
		return fmt.Errorf("insert reservation: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit reservation: %w", err)
	}
	return nil
}

func (r *EventRepository) CancelReservation(ctx context.Context, eventID, userID string) error {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM reservations WHERE event_id = $1 AND user_id = $2
	`, eventID, userID)
	if err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotReserved
	}
	return nil
}

func (r *EventRepository) list(ctx context.Context, query string, args ...any) ([]entity.Event, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]entity.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func scanEvent(row pgx.Row) (*entity.Event, error) {
	e := &entity.Event{}
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.Date,
		&e.Capacity, &e.CreatorID, &e.ImageURL, &e.ImagePath, &e.RSVPOpenAt,
		&e.CreatedAt, &e.UpdatedAt, &e.Attendees)
	if err != nil {
		return nil, err
	}
	return e, nil
}

var _ repository.EventRepository = (*EventRepository)(nil)
