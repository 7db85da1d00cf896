package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"teamspace/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var eventCols = []string{"id", "title", "description", "location", "event_date", "is_public", "created_by", "created_at"}
var attendeeCols = []string{"email", "status"}

func TestEventRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	date := now.AddDate(0, 1, 0)
	e := domain.NewEvent("Launch party", "d", "HQ", date, true, "u1", now)

	mock.ExpectQuery(`INSERT INTO events`).
		WithArgs("Launch party", "d", "HQ", date, true, "u1", now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("e-1"))

	repo := NewEventRepository(db)
	require.NoError(t, repo.Create(context.Background(), e))
	require.Equal(t, "e-1", e.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, title, description, location, event_date, is_public, created_by, created_at`).
		WithArgs("e-1").
		WillReturnRows(sqlmock.NewRows(eventCols).
			AddRow("e-1", "Launch party", "d", "HQ", now, false, "u1", now))
	mock.ExpectQuery(`SELECT email, status`).
		WithArgs("e-1").
		WillReturnRows(sqlmock.NewRows(attendeeCols).
			AddRow("ada@example.com", "yes").
			AddRow("bob@example.com", "maybe"))

	repo := NewEventRepository(db)
	e, err := repo.GetByID(context.Background(), "e-1")
	require.NoError(t, err)
	require.False(t, e.IsPublic)
	require.Len(t, e.Attendees, 2)
	require.Equal(t, domain.RSVPMaybe, e.Attendees[1].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, title, description, location`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	repo := NewEventRepository(db)
	_, err = repo.GetByID(context.Background(), "missing")
	require.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestEventRepository_ListVisibleTo(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`WHERE is_public = TRUE OR created_by`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(eventCols).
			AddRow("e-1", "Public meetup", "d", "HQ", now, true, "other", now).
			AddRow("e-2", "Private sync", "d", "HQ", now, false, "u1", now))
	mock.ExpectQuery(`SELECT email, status`).
		WithArgs("e-1").
		WillReturnRows(sqlmock.NewRows(attendeeCols))
	mock.ExpectQuery(`SELECT email, status`).
		WithArgs("e-2").
		WillReturnRows(sqlmock.NewRows(attendeeCols))

	repo := NewEventRepository(db)
	events, err := repo.ListVisibleTo(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_UpsertAttendee(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO event_attendees`).
		WithArgs("e-1", "ada@example.com", "no").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewEventRepository(db)
	require.NoError(t, repo.UpsertAttendee(context.Background(), "e-1", "ada@example.com", domain.RSVPNo))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM event_attendees`).
		WithArgs("e-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM events`).
		WithArgs("e-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewEventRepository(db)
	require.NoError(t, repo.Delete(context.Background(), "e-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_Delete_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM event_attendees`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM events`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	repo := NewEventRepository(db)
	err = repo.Delete(context.Background(), "missing")
	require.True(t, errors.Is(err, domain.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}
