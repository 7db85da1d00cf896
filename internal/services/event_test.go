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

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID   map[string]*domain.Event
	nextID int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[string]*domain.Event), nextID: 1}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) ListVisibleTo(ctx context.Context, userID string) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.byID {
		if e.IsPublic || e.CreatedBy == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, id, title, description, location string, eventDate time.Time, isPublic bool) (*domain.Event, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.Title = title
	e.Description = description
	e.Location = location
	e.EventDate = eventDate
	e.IsPublic = isPublic
	return e, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEventRepo) UpsertAttendee(ctx context.Context, eventID, email string, status domain.RSVPStatus) error {
	e, ok := f.byID[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	for i, a := range e.Attendees {
		if a.Email == email {
			e.Attendees[i].Status = status
			return nil
		}
	}
	e.Attendees = append(e.Attendees, domain.Attendee{Email: email, Status: status})
	return nil
}

// fakeEmailService records sent emails without delivering anything.
type fakeEmailService struct {
	welcomes      []*domain.WelcomeMessageEmailData
	confirmations []*domain.RSVPConfirmationEmailData
	err           error
}

func (f *fakeEmailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.welcomes = append(f.welcomes, data)
	return nil
}

func (f *fakeEmailService) SendRSVPConfirmation(ctx context.Context, data *domain.RSVPConfirmationEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.confirmations = append(f.confirmations, data)
	return nil
}

func seedEvent(repo *fakeEventRepo, creatorID string, isPublic bool) *domain.Event {
	e := domain.NewEvent("Launch party", "celebrate", "HQ", time.Now().AddDate(0, 1, 0), isPublic, creatorID, time.Now())
	_ = repo.Create(context.Background(), e)
	return e
}

func TestEventService_Create(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo, nil, time.Second)

	e, err := svc.Create(context.Background(), "Organizer-1", "Launch party", "d", "HQ", time.Now().AddDate(0, 1, 0), true)
	require.NoError(t, err)
	assert.Equal(t, "organizer-1", e.CreatedBy)
	assert.True(t, e.IsPublic)

	_, err = svc.Create(context.Background(), "organizer-1", "  ", "d", "HQ", time.Now(), true)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = svc.Create(context.Background(), "organizer-1", "No date", "d", "HQ", time.Time{}, true)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestEventService_GetByID_Visibility(t *testing.T) {
	repo := newFakeEventRepo()
	public := seedEvent(repo, "organizer-1", true)
	private := seedEvent(repo, "organizer-1", false)
	svc := NewEventService(repo, nil, time.Second)

	// anyone sees public events
	_, err := svc.GetByID(context.Background(), public.ID, "stranger")
	require.NoError(t, err)

	// private events are owner-only
	_, err = svc.GetByID(context.Background(), private.ID, "stranger")
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	_, err = svc.GetByID(context.Background(), private.ID, "organizer-1")
	require.NoError(t, err)
}

func TestEventService_Update_OwnerOnly(t *testing.T) {
	repo := newFakeEventRepo()
	e := seedEvent(repo, "organizer-1", true)
	svc := NewEventService(repo, nil, time.Second)

	_, err := svc.Update(context.Background(), e.ID, "stranger", "Hijacked", "d", "HQ", e.EventDate, false)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	updated, err := svc.Update(context.Background(), e.ID, "organizer-1", "Renamed", "d", "Offsite", e.EventDate, false)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.False(t, updated.IsPublic)
}

func TestEventService_Delete_OwnerOnly(t *testing.T) {
	repo := newFakeEventRepo()
	e := seedEvent(repo, "organizer-1", true)
	svc := NewEventService(repo, nil, time.Second)

	assert.True(t, errors.Is(svc.Delete(context.Background(), e.ID, "stranger"), domain.ErrForbidden))
	require.NoError(t, svc.Delete(context.Background(), e.ID, "organizer-1"))
}

func TestEventService_RSVP(t *testing.T) {
	repo := newFakeEventRepo()
	e := seedEvent(repo, "organizer-1", false)
	emails := &fakeEmailService{}
	svc := NewEventService(repo, emails, time.Second)

	// any authenticated user may respond, even to a private event
	updated, err := svc.RSVP(context.Background(), e.ID, "Guest@Example.com", domain.RSVPYes)
	require.NoError(t, err)
	require.Len(t, updated.Attendees, 1)
	assert.Equal(t, "guest@example.com", updated.Attendees[0].Email)
	assert.Equal(t, domain.RSVPYes, updated.Attendees[0].Status)
	require.Len(t, emails.confirmations, 1)
	assert.Equal(t, "guest@example.com", emails.confirmations[0].Email)

	// responding again replaces the existing entry
	updated, err = svc.RSVP(context.Background(), e.ID, "guest@example.com", domain.RSVPNo)
	require.NoError(t, err)
	require.Len(t, updated.Attendees, 1)
	assert.Equal(t, domain.RSVPNo, updated.Attendees[0].Status)
}

func TestEventService_RSVP_EmailFailureDoesNotFail(t *testing.T) {
	repo := newFakeEventRepo()
	e := seedEvent(repo, "organizer-1", true)
	emails := &fakeEmailService{err: errors.New("ses unavailable")}
	svc := NewEventService(repo, emails, time.Second)

	updated, err := svc.RSVP(context.Background(), e.ID, "guest@example.com", domain.RSVPMaybe)
	require.NoError(t, err)
	assert.Len(t, updated.Attendees, 1)
}

func TestEventService_RSVP_EventNotFound(t *testing.T) {
	svc := NewEventService(newFakeEventRepo(), nil, time.Second)

	_, err := svc.RSVP(context.Background(), "missing", "guest@example.com", domain.RSVPYes)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestEventService_List(t *testing.T) {
	repo := newFakeEventRepo()
	seedEvent(repo, "organizer-1", true)
	seedEvent(repo, "organizer-1", false)
	seedEvent(repo, "other", false)
	svc := NewEventService(repo, nil, time.Second)

	events, err := svc.List(context.Background(), "organizer-1")
	require.NoError(t, err)
	assert.Len(t, events, 2)
}
