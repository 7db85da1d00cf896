package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"teamspace/internal/authz"
	"teamspace/internal/domain"
)

type taskService struct {
	taskRepo       domain.TaskRepository
	projectRepo    domain.ProjectRepository
	contextTimeout time.Duration
}

// NewTaskService creates a TaskService. Task authorization is evaluated
// against the parent project, so both repositories are required.
func NewTaskService(taskRepo domain.TaskRepository, projectRepo domain.ProjectRepository, timeout time.Duration) domain.TaskService {
	return &taskService{taskRepo: taskRepo, projectRepo: projectRepo, contextTimeout: timeout}
}

func (s *taskService) Create(ctx context.Context, callerID, title, description, projectID string, assigneeIDs []string, priority domain.TaskPriority, dueDate time.Time) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: task title is required", domain.ErrInvalidInput)
	}
	if _, err := s.loadProject(ctx, projectID, callerID, authz.TaskMutate); err != nil {
		return nil, err
	}

	task := domain.NewTask(title, description, projectID, normalizeIDs(assigneeIDs), priority, dueDate, time.Now())
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return s.taskRepo.GetByID(ctx, task.ID)
}

func (s *taskService) ListByProject(ctx context.Context, projectID, callerID string) ([]*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.loadProject(ctx, projectID, callerID, authz.TaskView); err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.ListByProjectID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

func (s *taskService) ListMine(ctx context.Context, callerID string) ([]*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	tasks, err := s.taskRepo.ListByAssignee(ctx, authz.NormalizeID(callerID))
	if err != nil {
		return nil, fmt.Errorf("list assigned tasks: %w", err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

func (s *taskService) UpdateStatus(ctx context.Context, taskID, callerID string, status domain.TaskStatus) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, _, err := s.loadTask(ctx, taskID, callerID, authz.TaskSetStatus); err != nil {
		return nil, err
	}
	updated, err := s.taskRepo.UpdateStatus(ctx, taskID, status)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update task status: %w", err)
	}
	return updated, nil
}

func (s *taskService) Update(ctx context.Context, taskID, callerID, title, description string, assigneeIDs []string, priority domain.TaskPriority, dueDate time.Time) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: task title is required", domain.ErrInvalidInput)
	}
	if _, _, err := s.loadTask(ctx, taskID, callerID, authz.TaskMutate); err != nil {
		return nil, err
	}
	updated, err := s.taskRepo.Update(ctx, taskID, title, description, normalizeIDs(assigneeIDs), priority, dueDate)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return updated, nil
}

func (s *taskService) Delete(ctx context.Context, taskID, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, _, err := s.loadTask(ctx, taskID, callerID, authz.TaskMutate); err != nil {
		return err
	}
	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// loadTask loads the task and its parent project and evaluates rule for the
// caller against both: ownership and membership come from the project,
// assignment from the task itself.
func (s *taskService) loadTask(ctx context.Context, taskID, callerID string, rule authz.Rule) (*domain.Task, *domain.Project, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get task: %w", err)
	}
	project, err := s.projectRepo.GetByID(ctx, task.ProjectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get parent project: %w", err)
	}
	caller := authz.Identity{ID: callerID}
	if !authz.Allowed(caller, authz.TaskResource(task, project), rule) {
		return nil, nil, domain.ErrForbidden
	}
	return task, project, nil
}

func (s *taskService) loadProject(ctx context.Context, projectID, callerID string, rule authz.Rule) (*domain.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	caller := authz.Identity{ID: callerID}
	if !authz.Allowed(caller, authz.ProjectResource(project), rule) {
		return nil, domain.ErrForbidden
	}
	return project, nil
}
