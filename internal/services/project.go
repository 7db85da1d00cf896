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

type projectService struct {
	projectRepo    domain.ProjectRepository
	contextTimeout time.Duration
}

// NewProjectService creates a ProjectService backed by the given repository.
func NewProjectService(projectRepo domain.ProjectRepository, timeout time.Duration) domain.ProjectService {
	return &projectService{projectRepo: projectRepo, contextTimeout: timeout}
}

func (s *projectService) Create(ctx context.Context, callerID, name, description string, teamMemberIDs []string) (*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: project name is required", domain.ErrInvalidInput)
	}

	project := domain.NewProject(name, description, authz.NormalizeID(callerID), normalizeIDs(teamMemberIDs), time.Now())
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return s.projectRepo.GetByID(ctx, project.ID)
}

func (s *projectService) List(ctx context.Context, callerID string) ([]*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	projects, err := s.projectRepo.ListVisibleTo(ctx, authz.NormalizeID(callerID))
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	if projects == nil {
		projects = []*domain.Project{}
	}
	return projects, nil
}

func (s *projectService) GetByID(ctx context.Context, projectID, callerID string) (*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.loadAuthorized(ctx, projectID, callerID, authz.ProjectView)
}

func (s *projectService) Update(ctx context.Context, projectID, callerID, name, description string, teamMemberIDs []string) (*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: project name is required", domain.ErrInvalidInput)
	}
	if _, err := s.loadAuthorized(ctx, projectID, callerID, authz.ProjectMutate); err != nil {
		return nil, err
	}
	updated, err := s.projectRepo.Update(ctx, projectID, name, description, normalizeIDs(teamMemberIDs))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update project: %w", err)
	}
	return updated, nil
}

func (s *projectService) UpdateStatus(ctx context.Context, projectID, callerID string, status domain.ProjectStatus) (*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.loadAuthorized(ctx, projectID, callerID, authz.ProjectMutate); err != nil {
		return nil, err
	}
	updated, err := s.projectRepo.UpdateStatus(ctx, projectID, status)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update project status: %w", err)
	}
	return updated, nil
}

func (s *projectService) Delete(ctx context.Context, projectID, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.loadAuthorized(ctx, projectID, callerID, authz.ProjectMutate); err != nil {
		return err
	}
	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

// loadAuthorized loads the project and evaluates rule for the caller.
func (s *projectService) loadAuthorized(ctx context.Context, projectID, callerID string, rule authz.Rule) (*domain.Project, error) {
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

func normalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		n := authz.NormalizeID(id)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
