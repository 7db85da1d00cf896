package domain

import (
	"context"
	"fmt"
	"time"
)

// TaskStatus is the closed set of task statuses.
type TaskStatus string

const (
	TaskToDo       TaskStatus = "To Do"
	TaskInProgress TaskStatus = "In Progress"
	TaskDone       TaskStatus = "Done"
)

// ParseTaskStatus converts a wire string into a TaskStatus.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case TaskToDo, TaskInProgress, TaskDone:
		return TaskStatus(s), nil
	default:
		return "", fmt.Errorf("%w: invalid status %q", ErrInvalidInput, s)
	}
}

// TaskPriority is the closed set of task priorities.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

// ParseTaskPriority converts a wire string into a TaskPriority.
func ParseTaskPriority(s string) (TaskPriority, error) {
	switch TaskPriority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return TaskPriority(s), nil
	default:
		return "", fmt.Errorf("%w: invalid priority %q", ErrInvalidInput, s)
	}
}

// Task represents a unit of work within a project. ProjectID is an immutable
// reference to the parent project; deleting the project cascades to its tasks.
// swagger:model Task
type Task struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	ProjectID   string        `json:"project_id"`
	AssignedTo  []UserSummary `json:"assigned_to"`
	Status      TaskStatus    `json:"status"`
	Priority    TaskPriority  `json:"priority"`
	DueDate     time.Time     `json:"due_date"`
	CreatedAt   time.Time     `json:"created_at"`
}

// AssigneeIDs returns the ids of the task's assignees.
func (t *Task) AssigneeIDs() []string {
	ids := make([]string, len(t.AssignedTo))
	for i, a := range t.AssignedTo {
		ids[i] = a.ID
	}
	return ids
}

// NewTask returns a new Task with status To Do. ID and populated assignee
// summaries are set by the repository on create.
func NewTask(title, description, projectID string, assigneeIDs []string, priority TaskPriority, dueDate, createdAt time.Time) *Task {
	assignees := make([]UserSummary, len(assigneeIDs))
	for i, id := range assigneeIDs {
		assignees[i] = UserSummary{ID: id}
	}
	return &Task{
		Title:       title,
		Description: description,
		ProjectID:   projectID,
		AssignedTo:  assignees,
		Status:      TaskToDo,
		Priority:    priority,
		DueDate:     dueDate,
		CreatedAt:   createdAt,
	}
}

// TaskRepository defines the interface for task storage. Implementations
// populate AssignedTo with user summaries on reads.
type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	GetByID(ctx context.Context, id string) (*Task, error)
	ListByProjectID(ctx context.Context, projectID string) ([]*Task, error)
	ListByAssignee(ctx context.Context, userID string) ([]*Task, error)
	Update(ctx context.Context, id, title, description string, assigneeIDs []string, priority TaskPriority, dueDate time.Time) (*Task, error)
	UpdateStatus(ctx context.Context, id string, status TaskStatus) (*Task, error)
	Delete(ctx context.Context, id string) error
}

// TaskService defines the business logic for tasks, including the
// per-instance authorization checks against the parent project.
type TaskService interface {
	Create(ctx context.Context, callerID, title, description, projectID string, assigneeIDs []string, priority TaskPriority, dueDate time.Time) (*Task, error)
	ListByProject(ctx context.Context, projectID, callerID string) ([]*Task, error)
	ListMine(ctx context.Context, callerID string) ([]*Task, error)
	UpdateStatus(ctx context.Context, taskID, callerID string, status TaskStatus) (*Task, error)
	Update(ctx context.Context, taskID, callerID, title, description string, assigneeIDs []string, priority TaskPriority, dueDate time.Time) (*Task, error)
	Delete(ctx context.Context, taskID, callerID string) error
}
