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

var taskCols = []string{"id", "title", "description", "project_id", "status", "priority", "due_date", "created_at"}

func TestTaskRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, 7)
	task := domain.NewTask("Wire telemetry", "hook up the feed", "p-1", []string{"u1"}, domain.PriorityHigh, due, now)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO tasks`).
		WithArgs("Wire telemetry", "hook up the feed", "p-1", "To Do", "High", due, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("t-1"))
	mock.ExpectExec(`INSERT INTO task_assignees`).
		WithArgs("t-1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewTaskRepository(db)
	require.NoError(t, repo.Create(context.Background(), task))
	require.Equal(t, "t-1", task.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, title, description, project_id, status, priority, due_date, created_at`).
		WithArgs("t-1").
		WillReturnRows(sqlmock.NewRows(taskCols).
			AddRow("t-1", "Wire telemetry", "d", "p-1", "In Progress", "Medium", now, now))
	mock.ExpectQuery(`SELECT u.id, u.name, u.email`).
		WithArgs("t-1").
		WillReturnRows(sqlmock.NewRows(memberCols).AddRow("u1", "Ada", "ada@example.com"))

	repo := NewTaskRepository(db)
	task, err := repo.GetByID(context.Background(), "t-1")
	require.NoError(t, err)
	require.Equal(t, domain.TaskInProgress, task.Status)
	require.Equal(t, domain.PriorityMedium, task.Priority)
	require.Len(t, task.AssignedTo, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, title, description`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	repo := NewTaskRepository(db)
	_, err = repo.GetByID(context.Background(), "missing")
	require.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestTaskRepository_ListByProjectID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM tasks\s+WHERE project_id`).
		WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows(taskCols).
			AddRow("t-1", "a", "d", "p-1", "To Do", "Low", now, now).
			AddRow("t-2", "b", "d", "p-1", "Done", "High", now, now))
	mock.ExpectQuery(`SELECT u.id, u.name, u.email`).
		WithArgs("t-1").
		WillReturnRows(sqlmock.NewRows(memberCols))
	mock.ExpectQuery(`SELECT u.id, u.name, u.email`).
		WithArgs("t-2").
		WillReturnRows(sqlmock.NewRows(memberCols))

	repo := NewTaskRepository(db)
	tasks, err := repo.ListByProjectID(context.Background(), "p-1")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.Equal(t, domain.TaskDone, tasks[1].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(`UPDATE tasks SET status`).
		WithArgs("Done", "t-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT id, title, description`).
		WithArgs("t-1").
		WillReturnRows(sqlmock.NewRows(taskCols).
			AddRow("t-1", "a", "d", "p-1", "Done", "Low", now, now))
	mock.ExpectQuery(`SELECT u.id, u.name, u.email`).
		WithArgs("t-1").
		WillReturnRows(sqlmock.NewRows(memberCols))

	repo := NewTaskRepository(db)
	task, err := repo.UpdateStatus(context.Background(), "t-1", domain.TaskDone)
	require.NoError(t, err)
	require.Equal(t, domain.TaskDone, task.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_UpdateStatus_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE tasks SET status`).
		WithArgs("Done", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewTaskRepository(db)
	_, err = repo.UpdateStatus(context.Background(), "missing", domain.TaskDone)
	require.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestTaskRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM task_assignees`).
		WithArgs("t-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM tasks`).
		WithArgs("t-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewTaskRepository(db)
	require.NoError(t, repo.Delete(context.Background(), "t-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
