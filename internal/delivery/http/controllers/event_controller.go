package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"teamspace/internal/delivery/http/helpers"
	"teamspace/internal/delivery/http/middleware"
	"teamspace/internal/domain"
)

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// EventRequest is the request body for creating and updating an event.
// Updates replace every mutable field.
type EventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	EventDate   time.Time `json:"event_date"`
	IsPublic    bool      `json:"is_public"`
}

// Validate implements helpers.Validator.
func (r *EventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		errs = append(errs, "description is required")
	}
	if strings.TrimSpace(r.Location) == "" {
		errs = append(errs, "location is required")
	}
	if r.EventDate.IsZero() {
		errs = append(errs, "event_date is required")
	}
	return errs
}

// RSVPRequest is the request body for POST /api/events/{eventID}/rsvp.
type RSVPRequest struct {
	Status string `json:"status"`
}

// Create godoc
// @Summary Create an event
// @Description Creates an event owned by the caller. Non-public events are visible to the owner only.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.EventRequest true "Event details"
// @Success 201 {object} domain.Event
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /api/events [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "no token provided")
		return
	}

	event, err := c.Service.Create(r.Context(), id.ID, req.Title, req.Description, req.Location, req.EventDate, req.IsPublic)
	if err != nil {
		writeDomainError(c.Logger, w, r, err, "event not found")
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, event)
}

// List godoc
// @Summary List visible events
// @Description Returns public events plus the caller's own, ordered by event date.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Event
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /api/events [get]
func (c *EventController) List(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "no token provided")
		return
	}

	events, err := c.Service.List(r.Context(), id.ID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err, "event not found")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, events)
}

// GetByID godoc
// @Summary Get an event
// @Description Returns a single event with its attendee list. Non-public events are visible to the owner only.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} domain.Event
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /api/events/{eventID} [get]
func (c *EventController) GetByID(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "missing eventID")
		return
	}
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "no token provided")
		return
	}

	event, err := c.Service.GetByID(r.Context(), eventID, id.ID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err, "event not found")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, event)
}

// Update godoc
// @Summary Update an event
// @Description Replaces title, description, location, date, and visibility. Owner only.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body controllers.EventRequest true "New event details"
// @Success 200 {object} domain.Event
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /api/events/{eventID} [put]
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "missing eventID")
		return
	}
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "no token provided")
		return
	}

	event, err := c.Service.Update(r.Context(), eventID, id.ID, req.Title, req.Description, req.Location, req.EventDate, req.IsPublic)
	if err != nil {
		writeDomainError(c.Logger, w, r, err, "event not found")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, event)
}

// Delete godoc
// @Summary Delete an event
// @Description Deletes the event and its RSVP entries. Owner only.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.MessageResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /api/events/{eventID} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "missing eventID")
		return
	}
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "no token provided")
		return
	}

	if err := c.Service.Delete(r.Context(), eventID, id.ID); err != nil {
		writeDomainError(c.Logger, w, r, err, "event not found")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, helpers.MessageResponse{Message: "event deleted"})
}

// RSVP godoc
// @Summary RSVP to an event
// @Description Records the caller's response (yes, no, maybe), keyed by the caller's email. Responding again replaces the previous entry. Any authenticated user may respond. The status value is validated before the event is looked up.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body controllers.RSVPRequest true "RSVP status"
// @Success 200 {object} domain.Event
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /api/events/{eventID}/rsvp [post]
func (c *EventController) RSVP(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "missing eventID")
		return
	}
	var req RSVPRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	// enum check before any lookup
	status, err := domain.ParseRSVPStatus(req.Status)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "no token provided")
		return
	}

	event, err := c.Service.RSVP(r.Context(), eventID, id.Email, status)
	if err != nil {
		writeDomainError(c.Logger, w, r, err, "event not found")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, event)
}
