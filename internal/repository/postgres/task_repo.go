package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"teamspace/internal/domain"
)

type taskRepository struct {
	DB *sql.DB
}

func NewTaskRepository(db *sql.DB) domain.TaskRepository {
	return &taskRepository{DB: db}
}

const taskSelect = `
	SELECT id, title, description, project_id, status, priority, due_date, created_at
	FROM tasks
`

func (r *taskRepository) Create(ctx context.Context, t *domain.Task) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO tasks (title, description, project_id, status, priority, due_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query, t.Title, t.Description, t.ProjectID, string(t.Status), string(t.Priority), t.DueDate, t.CreatedAt).Scan(&t.ID)
	if err != nil {
		return err
	}
	for _, a := range t.AssignedTo {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO task_assignees (task_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			t.ID, a.ID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	t, err := r.scanTask(r.DB.QueryRowContext(ctx, taskSelect+` WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	assignees, err := r.listAssignees(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	t.AssignedTo = assignees
	return t, nil
}

func (r *taskRepository) ListByProjectID(ctx context.Context, projectID string) ([]*domain.Task, error) {
	return r.list(ctx, taskSelect+` WHERE project_id = $1 ORDER BY created_at DESC`, projectID)
}

func (r *taskRepository) ListByAssignee(ctx context.Context, userID string) ([]*domain.Task, error) {
	query := taskSelect + `
		WHERE id IN (SELECT task_id FROM task_assignees WHERE user_id = $1)
		ORDER BY due_date
	`
	return r.list(ctx, query, userID)
}

func (r *taskRepository) Update(ctx context.Context, id, title, description string, assigneeIDs []string, priority domain.TaskPriority, dueDate time.Time) (*domain.Task, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE tasks SET title = $1, description = $2, priority = $3, due_date = $4 WHERE id = $5`,
		title, description, string(priority), dueDate, id)
	if err != nil {
		return nil, err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, domain.ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM task_assignees WHERE task_id = $1`, id); err != nil {
		return nil, err
	}
	for _, userID := range assigneeIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO task_assignees (task_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			id, userID); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error) {
	result, err := r.DB.ExecContext(ctx, `UPDATE tasks SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return nil, err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM task_assignees WHERE task_id = $1`, id); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit()
}

func (r *taskRepository) list(ctx context.Context, query string, arg any) ([]*domain.Task, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		t := &domain.Task{}
		var status, priority string
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.ProjectID, &status, &priority, &t.DueDate, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Status = domain.TaskStatus(status)
		t.Priority = domain.TaskPriority(priority)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, t := range tasks {
		assignees, err := r.listAssignees(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		t.AssignedTo = assignees
	}
	return tasks, nil
}

func (r *taskRepository) listAssignees(ctx context.Context, taskID string) ([]domain.UserSummary, error) {
	query := `
		SELECT u.id, u.name, u.email
		FROM task_assignees a
		JOIN users u ON u.id = a.user_id
		WHERE a.task_id = $1
		ORDER BY u.name
	`
	rows, err := r.DB.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	assignees := make([]domain.UserSummary, 0)
	for rows.Next() {
		var a domain.UserSummary
		if err := rows.Scan(&a.ID, &a.Name, &a.Email); err != nil {
			return nil, err
		}
		assignees = append(assignees, a)
	}
	return assignees, rows.Err()
}

func (r *taskRepository) scanTask(row *sql.Row) (*domain.Task, error) {
	t := &domain.Task{}
	var status, priority string
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.ProjectID, &status, &priority, &t.DueDate, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	t.Status = domain.TaskStatus(status)
	t.Priority = domain.TaskPriority(priority)
	return t, nil
}
