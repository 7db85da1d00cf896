package domain

import (
	"context"
	"fmt"
	"time"
)

// ProjectStatus is the closed set of project statuses. Any member may be set
// directly by an authorized caller; there are no transition restrictions.
type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "Planning"
	ProjectActive    ProjectStatus = "Active"
	ProjectOnHold    ProjectStatus = "On Hold"
	ProjectCompleted ProjectStatus = "Completed"
)

// ParseProjectStatus converts a wire string into a ProjectStatus.
func ParseProjectStatus(s string) (ProjectStatus, error) {
	switch ProjectStatus(s) {
	case ProjectPlanning, ProjectActive, ProjectOnHold, ProjectCompleted:
		return ProjectStatus(s), nil
	default:
		return "", fmt.Errorf("%w: invalid status %q", ErrInvalidInput, s)
	}
}

// Project represents a tracked project. CreatedBy is the immutable owner;
// TeamMembers may be empty and is mutable by the owner only.
// swagger:model Project
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Status      ProjectStatus `json:"status"`
	CreatedBy   UserSummary   `json:"created_by"`
	TeamMembers []UserSummary `json:"team_members"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// TeamMemberIDs returns the ids of the project's team members.
func (p *Project) TeamMemberIDs() []string {
	ids := make([]string, len(p.TeamMembers))
	for i, m := range p.TeamMembers {
		ids[i] = m.ID
	}
	return ids
}

// NewProject returns a new Project owned by creator with status Planning.
// ID and populated member summaries are set by the repository on create.
func NewProject(name, description, creatorID string, teamMemberIDs []string, createdAt time.Time) *Project {
	members := make([]UserSummary, len(teamMemberIDs))
	for i, id := range teamMemberIDs {
		members[i] = UserSummary{ID: id}
	}
	return &Project{
		Name:        name,
		Description: description,
		Status:      ProjectPlanning,
		CreatedBy:   UserSummary{ID: creatorID},
		TeamMembers: members,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

// ProjectRepository defines the interface for project storage. Implementations
// populate CreatedBy and TeamMembers with user summaries on reads.
type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	GetByID(ctx context.Context, id string) (*Project, error)
	// ListVisibleTo returns projects the user created or is a member of,
	// newest first.
	ListVisibleTo(ctx context.Context, userID string) ([]*Project, error)
	Update(ctx context.Context, id, name, description string, teamMemberIDs []string) (*Project, error)
	UpdateStatus(ctx context.Context, id string, status ProjectStatus) (*Project, error)
	// Delete removes the project and all tasks referencing it in a single
	// transaction; on any failure nothing is deleted.
	Delete(ctx context.Context, id string) error
}

// ProjectService defines the business logic for projects, including the
// per-instance authorization checks.
type ProjectService interface {
	Create(ctx context.Context, callerID, name, description string, teamMemberIDs []string) (*Project, error)
	List(ctx context.Context, callerID string) ([]*Project, error)
	GetByID(ctx context.Context, projectID, callerID string) (*Project, error)
	Update(ctx context.Context, projectID, callerID, name, description string, teamMemberIDs []string) (*Project, error)
	UpdateStatus(ctx context.Context, projectID, callerID string, status ProjectStatus) (*Project, error)
	Delete(ctx context.Context, projectID, callerID string) error
}
