package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"teamspace/internal/authz"
	"teamspace/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	emailService   domain.EmailService
	contextTimeout time.Duration
}

// NewEventService creates an EventService. The email service is used for
// RSVP confirmations; a send failure never fails the request.
func NewEventService(eventRepo domain.EventRepository, emailService domain.EmailService, timeout time.Duration) domain.EventService {
	return &eventService{eventRepo: eventRepo, emailService: emailService, contextTimeout: timeout}
}

func (s *eventService) Create(ctx context.Context, callerID, title, description, location string, eventDate time.Time, isPublic bool) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: event title is required", domain.ErrInvalidInput)
	}
	if eventDate.IsZero() {
		return nil, fmt.Errorf("%w: event date is required", domain.ErrInvalidInput)
	}

	event := domain.NewEvent(title, description, location, eventDate, isPublic, authz.NormalizeID(callerID), time.Now())
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context, callerID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListVisibleTo(ctx, authz.NormalizeID(callerID))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) GetByID(ctx context.Context, eventID, callerID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.loadAuthorized(ctx, eventID, callerID, authz.EventView)
}

func (s *eventService) Update(ctx context.Context, eventID, callerID, title, description, location string, eventDate time.Time, isPublic bool) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: event title is required", domain.ErrInvalidInput)
	}
	if _, err := s.loadAuthorized(ctx, eventID, callerID, authz.EventMutate); err != nil {
		return nil, err
	}
	updated, err := s.eventRepo.Update(ctx, eventID, title, description, location, eventDate, isPublic)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *eventService) Delete(ctx context.Context, eventID, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.loadAuthorized(ctx, eventID, callerID, authz.EventMutate); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// RSVP records the caller's own response. Any authenticated user may respond
// to any event; the entry is keyed by the caller's email so responding again
// replaces the previous status.
func (s *eventService) RSVP(ctx context.Context, eventID, callerEmail string, status domain.RSVPStatus) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	caller := authz.Identity{Email: callerEmail}
	if !authz.Allowed(caller, authz.EventResource(event), authz.EventRSVP) {
		return nil, domain.ErrForbidden
	}

	email := strings.TrimSpace(strings.ToLower(callerEmail))
	if err := s.eventRepo.UpsertAttendee(ctx, eventID, email, status); err != nil {
		return nil, fmt.Errorf("record rsvp: %w", err)
	}

	updated, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}

	if s.emailService != nil {
		data := &domain.RSVPConfirmationEmailData{
			Email:      email,
			EventTitle: updated.Title,
			EventDate:  updated.EventDate.Format("Monday, January 2, 2006 at 3:04 PM"),
			Location:   updated.Location,
			Status:     status,
		}
		if err := s.emailService.SendRSVPConfirmation(ctx, data); err != nil {
			log.Printf("[EMAIL] rsvp confirmation to %s failed: %v", email, err)
		}
	}
	return updated, nil
}

func (s *eventService) loadAuthorized(ctx context.Context, eventID, callerID string, rule authz.Rule) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	caller := authz.Identity{ID: callerID}
	if !authz.Allowed(caller, authz.EventResource(event), rule) {
		return nil, domain.ErrForbidden
	}
	return event, nil
}
