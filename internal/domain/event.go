package domain

import (
	"context"
	"fmt"
	"time"
)

// RSVPStatus is the closed set of RSVP answers.
type RSVPStatus string

const (
	RSVPYes   RSVPStatus = "yes"
	RSVPNo    RSVPStatus = "no"
	RSVPMaybe RSVPStatus = "maybe"
)

// ParseRSVPStatus converts a wire string into an RSVPStatus.
func ParseRSVPStatus(s string) (RSVPStatus, error) {
	switch RSVPStatus(s) {
	case RSVPYes, RSVPNo, RSVPMaybe:
		return RSVPStatus(s), nil
	default:
		return "", fmt.Errorf("%w: invalid RSVP status %q", ErrInvalidInput, s)
	}
}

// Attendee is one RSVP entry on an event. There is at most one entry per
// email; an RSVP for an existing email replaces its status.
// swagger:model Attendee
type Attendee struct {
	Email  string     `json:"email"`
	Status RSVPStatus `json:"status"`
}

// Event represents a scheduled event with RSVPs. CreatedBy is the immutable
// owner; non-public events are visible to the owner only.
// swagger:model Event
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	EventDate   time.Time  `json:"event_date"`
	IsPublic    bool       `json:"is_public"`
	CreatedBy   string     `json:"created_by"`
	Attendees   []Attendee `json:"attendees"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewEvent returns a new Event. ID is set by the repository on create.
func NewEvent(title, description, location string, eventDate time.Time, isPublic bool, creatorID string, createdAt time.Time) *Event {
	return &Event{
		Title:       title,
		Description: description,
		Location:    location,
		EventDate:   eventDate,
		IsPublic:    isPublic,
		CreatedBy:   creatorID,
		Attendees:   []Attendee{},
		CreatedAt:   createdAt,
	}
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// ListVisibleTo returns public events plus the user's own, ordered by
	// event date ascending.
	ListVisibleTo(ctx context.Context, userID string) ([]*Event, error)
	Update(ctx context.Context, id, title, description, location string, eventDate time.Time, isPublic bool) (*Event, error)
	Delete(ctx context.Context, id string) error
	// UpsertAttendee inserts or replaces the RSVP entry for the given email.
	UpsertAttendee(ctx context.Context, eventID, email string, status RSVPStatus) error
}

// EventService defines the business logic for events, including the
// per-instance authorization checks.
type EventService interface {
	Create(ctx context.Context, callerID, title, description, location string, eventDate time.Time, isPublic bool) (*Event, error)
	List(ctx context.Context, callerID string) ([]*Event, error)
	GetByID(ctx context.Context, eventID, callerID string) (*Event, error)
	Update(ctx context.Context, eventID, callerID, title, description, location string, eventDate time.Time, isPublic bool) (*Event, error)
	Delete(ctx context.Context, eventID, callerID string) error
	// RSVP upserts the caller's own RSVP entry, keyed by the caller's email,
	// and returns the updated event.
	RSVP(ctx context.Context, eventID, callerEmail string, status RSVPStatus) (*Event, error)
}
