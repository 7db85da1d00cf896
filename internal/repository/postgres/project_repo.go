package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"teamspace/internal/domain"
)

type projectRepository struct {
	DB *sql.DB
}

func NewProjectRepository(db *sql.DB) domain.ProjectRepository {
	return &projectRepository{DB: db}
}

const projectSelect = `
	SELECT p.id, p.name, p.description, p.status, p.created_at, p.updated_at,
	       u.id, u.name, u.email
	FROM projects p
	JOIN users u ON u.id = p.created_by
`

func (r *projectRepository) Create(ctx context.Context, p *domain.Project) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO projects (name, description, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query, p.Name, p.Description, string(p.Status), p.CreatedBy.ID, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
	if err != nil {
		return err
	}
	for _, m := range p.TeamMembers {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO project_team_members (project_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			p.ID, m.ID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	p, err := r.scanProject(r.DB.QueryRowContext(ctx, projectSelect+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, err
	}
	members, err := r.listTeamMembers(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.TeamMembers = members
	return p, nil
}

func (r *projectRepository) ListVisibleTo(ctx context.Context, userID string) ([]*domain.Project, error) {
	query := projectSelect + `
		WHERE p.created_by = $1
		   OR EXISTS (SELECT 1 FROM project_team_members m WHERE m.project_id = p.id AND m.user_id = $1)
		ORDER BY p.created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	projects := make([]*domain.Project, 0)
	for rows.Next() {
		p, err := r.scanProjectRows(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Member lists are loaded per project (N+1); visible-project counts are
	// small enough that this has not been worth a batched query.
	for _, p := range projects {
		members, err := r.listTeamMembers(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.TeamMembers = members
	}
	return projects, nil
}

func (r *projectRepository) Update(ctx context.Context, id, name, description string, teamMemberIDs []string) (*domain.Project, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE projects SET name = $1, description = $2, updated_at = NOW() WHERE id = $3`,
		name, description, id)
	if err != nil {
		return nil, err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, domain.ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM project_team_members WHERE project_id = $1`, id); err != nil {
		return nil, err
	}
	for _, userID := range teamMemberIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO project_team_members (project_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			id, userID); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *projectRepository) UpdateStatus(ctx context.Context, id string, status domain.ProjectStatus) (*domain.Project, error) {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE projects SET status = $1, updated_at = NOW() WHERE id = $2`,
		string(status), id)
	if err != nil {
		return nil, err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes the project, its team member rows, and every task under it
// in one transaction. A failed cascade rolls back the whole delete.
func (r *projectRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM task_assignees WHERE task_id IN (SELECT id FROM tasks WHERE project_id = $1)`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE project_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM project_team_members WHERE project_id = $1`, id); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit()
}

func (r *projectRepository) listTeamMembers(ctx context.Context, projectID string) ([]domain.UserSummary, error) {
	query := `
		SELECT u.id, u.name, u.email
		FROM project_team_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.project_id = $1
		ORDER BY u.name
	`
	rows, err := r.DB.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	members := make([]domain.UserSummary, 0)
	for rows.Next() {
		var m domain.UserSummary
		if err := rows.Scan(&m.ID, &m.Name, &m.Email); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *projectRepository) scanProject(row *sql.Row) (*domain.Project, error) {
	p := &domain.Project{}
	var status string
	err := row.Scan(&p.ID, &p.Name, &p.Description, &status, &p.CreatedAt, &p.UpdatedAt,
		&p.CreatedBy.ID, &p.CreatedBy.Name, &p.CreatedBy.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	p.Status = domain.ProjectStatus(status)
	return p, nil
}

func (r *projectRepository) scanProjectRows(rows *sql.Rows) (*domain.Project, error) {
	p := &domain.Project{}
	var status string
	err := rows.Scan(&p.ID, &p.Name, &p.Description, &status, &p.CreatedAt, &p.UpdatedAt,
		&p.CreatedBy.ID, &p.CreatedBy.Name, &p.CreatedBy.Email)
	if err != nil {
		return nil, err
	}
	p.Status = domain.ProjectStatus(status)
	return p, nil
}
