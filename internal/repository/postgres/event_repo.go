package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"teamspace/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

const eventSelect = `
	SELECT id, title, description, location, event_date, is_public, created_by, created_at
	FROM events
`

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, location, event_date, is_public, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, e.Title, e.Description, e.Location, e.EventDate, e.IsPublic, e.CreatedBy, e.CreatedAt).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	e := &domain.Event{}
	err := r.DB.QueryRowContext(ctx, eventSelect+` WHERE id = $1`, id).Scan(
		&e.ID, &e.Title, &e.Description, &e.Location, &e.EventDate, &e.IsPublic, &e.CreatedBy, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	attendees, err := r.listAttendees(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	e.Attendees = attendees
	return e, nil
}

func (r *eventRepository) ListVisibleTo(ctx context.Context, userID string) ([]*domain.Event, error) {
	query := eventSelect + `
		WHERE is_public = TRUE OR created_by = $1
		ORDER BY event_date
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e := &domain.Event{}
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.EventDate, &e.IsPublic, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, e := range events {
		attendees, err := r.listAttendees(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		e.Attendees = attendees
	}
	return events, nil
}

func (r *eventRepository) Update(ctx context.Context, id, title, description, location string, eventDate time.Time, isPublic bool) (*domain.Event, error) {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE events SET title = $1, description = $2, location = $3, event_date = $4, is_public = $5 WHERE id = $6`,
		title, description, location, eventDate, isPublic, id)
	if err != nil {
		return nil, err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM event_attendees WHERE event_id = $1`, id); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit()
}

// UpsertAttendee keys RSVP entries by (event_id, email): a second RSVP from
// the same email replaces the status instead of adding a row.
func (r *eventRepository) UpsertAttendee(ctx context.Context, eventID, email string, status domain.RSVPStatus) error {
	query := `
		INSERT INTO event_attendees (event_id, email, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id, email) DO UPDATE SET status = EXCLUDED.status
	`
	_, err := r.DB.ExecContext(ctx, query, eventID, email, string(status))
	return err
}

func (r *eventRepository) listAttendees(ctx context.Context, eventID string) ([]domain.Attendee, error) {
	query := `
		SELECT email, status
		FROM event_attendees
		WHERE event_id = $1
		ORDER BY email
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	attendees := make([]domain.Attendee, 0)
	for rows.Next() {
		var a domain.Attendee
		var status string
		if err := rows.Scan(&a.Email, &status); err != nil {
			return nil, err
		}
		a.Status = domain.RSVPStatus(status)
		attendees = append(attendees, a)
	}
	return attendees, rows.Err()
}
