package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"teamspace/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProjectRepo is an in-memory ProjectRepository for tests.
type fakeProjectRepo struct {
	byID   map[string]*domain.Project
	nextID int
	err    error // if set, every method returns this error
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{byID: make(map[string]*domain.Project), nextID: 1}
}

func (f *fakeProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	if f.err != nil {
		return f.err
	}
	p.ID = fmt.Sprintf("proj-%d", f.nextID)
	f.nextID++
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeProjectRepo) ListVisibleTo(ctx context.Context, userID string) ([]*domain.Project, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Project
	for _, p := range f.byID {
		if p.CreatedBy.ID == userID {
			out = append(out, p)
			continue
		}
		for _, m := range p.TeamMembers {
			if m.ID == userID {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeProjectRepo) Update(ctx context.Context, id, name, description string, teamMemberIDs []string) (*domain.Project, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p.Name = name
	p.Description = description
	members := make([]domain.UserSummary, len(teamMemberIDs))
	for i, mid := range teamMemberIDs {
		members[i] = domain.UserSummary{ID: mid}
	}
	p.TeamMembers = members
	return p, nil
}

func (f *fakeProjectRepo) UpdateStatus(ctx context.Context, id string, status domain.ProjectStatus) (*domain.Project, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p.Status = status
	return p, nil
}

func (f *fakeProjectRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func seedProject(repo *fakeProjectRepo, ownerID string, memberIDs ...string) *domain.Project {
	p := domain.NewProject("Apollo", "launch tracker", ownerID, memberIDs, time.Now())
	_ = repo.Create(context.Background(), p)
	return p
}

func TestProjectService_Create(t *testing.T) {
	repo := newFakeProjectRepo()
	svc := NewProjectService(repo, time.Second)

	p, err := svc.Create(context.Background(), "Owner-1", "  Apollo  ", "launch tracker", []string{"M1", "m1", " m2 "})
	require.NoError(t, err)
	assert.Equal(t, "Apollo", p.Name)
	assert.Equal(t, "owner-1", p.CreatedBy.ID)
	assert.Equal(t, domain.ProjectPlanning, p.Status)
	// member ids are normalized and deduped before storage
	require.Len(t, p.TeamMembers, 2)
	assert.Equal(t, "m1", p.TeamMembers[0].ID)
	assert.Equal(t, "m2", p.TeamMembers[1].ID)
}

func TestProjectService_Create_EmptyName(t *testing.T) {
	svc := NewProjectService(newFakeProjectRepo(), time.Second)

	_, err := svc.Create(context.Background(), "owner-1", "   ", "", nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestProjectService_GetByID(t *testing.T) {
	repo := newFakeProjectRepo()
	p := seedProject(repo, "owner-1", "member-1")
	svc := NewProjectService(repo, time.Second)

	tests := []struct {
		name     string
		callerID string
		wantErr  error
	}{
		{"owner", "owner-1", nil},
		{"team member", "member-1", nil},
		{"owner id with different casing", "OWNER-1", nil},
		{"stranger", "stranger", domain.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.GetByID(context.Background(), p.ID, tt.callerID)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, p.ID, got.ID)
		})
	}
}

func TestProjectService_GetByID_NotFound(t *testing.T) {
	svc := NewProjectService(newFakeProjectRepo(), time.Second)

	_, err := svc.GetByID(context.Background(), "missing", "owner-1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestProjectService_Update_MemberForbidden(t *testing.T) {
	repo := newFakeProjectRepo()
	p := seedProject(repo, "owner-1", "member-1")
	svc := NewProjectService(repo, time.Second)

	// membership grants visibility, never mutation
	_, err := svc.Update(context.Background(), p.ID, "member-1", "Renamed", "", nil)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	updated, err := svc.Update(context.Background(), p.ID, "owner-1", "Renamed", "new desc", []string{"member-2"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	require.Len(t, updated.TeamMembers, 1)
	assert.Equal(t, "member-2", updated.TeamMembers[0].ID)
}

func TestProjectService_UpdateStatus(t *testing.T) {
	repo := newFakeProjectRepo()
	p := seedProject(repo, "owner-1", "member-1")
	svc := NewProjectService(repo, time.Second)

	_, err := svc.UpdateStatus(context.Background(), p.ID, "member-1", domain.ProjectActive)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	updated, err := svc.UpdateStatus(context.Background(), p.ID, "owner-1", domain.ProjectActive)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectActive, updated.Status)
}

func TestProjectService_Delete(t *testing.T) {
	repo := newFakeProjectRepo()
	p := seedProject(repo, "owner-1", "member-1")
	svc := NewProjectService(repo, time.Second)

	err := svc.Delete(context.Background(), p.ID, "member-1")
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	require.NoError(t, svc.Delete(context.Background(), p.ID, "owner-1"))
	_, err = repo.GetByID(context.Background(), p.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestProjectService_List(t *testing.T) {
	repo := newFakeProjectRepo()
	seedProject(repo, "owner-1")
	seedProject(repo, "other", "owner-1")
	seedProject(repo, "other")
	svc := NewProjectService(repo, time.Second)

	projects, err := svc.List(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Len(t, projects, 2)
}
