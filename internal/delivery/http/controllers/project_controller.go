package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"teamspace/internal/delivery/http/helpers"
	"teamspace/internal/delivery/http/middleware"
	"teamspace/internal/domain"
)

type ProjectController struct {
	Logger  *slog.Logger
	Service domain.ProjectService
}

func NewProjectController(logger *slog.Logger, svc domain.ProjectService) *ProjectController {
	return &ProjectController{
		Logger:  logger,
		Service: svc,
	}
}

// ProjectRequest is the request body for creating and updating a project.
// Updates replace every mutable field.
type ProjectRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	TeamMembers []string `json:"team_members"`
}

// Validate implements helpers.Validator.
func (r *ProjectRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		errs = append(errs, "description is required")
	}
	return errs
}

// ProjectStatusRequest is the request body for PATCH /api/projects/{projectID}/status.
type ProjectStatusRequest struct {
	Status string `json:"status"`
}

// Create godoc
// @Summary Create a project
// @Description Creates a project owned by the caller with status Planning.
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.ProjectRequest true "Project details"
// @Success 201 {object} domain.Project
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /api/projects [post]
func (c *ProjectController) Create(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "no token provided")
		return
	}

	project, err := c.Service.Create(r.Context(), id.ID, req.Name, req.Description, req.TeamMembers)
	if err != nil {
		writeDomainError(c.Logger, w, r, err, "project not found")
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, project)
}

// List godoc
// @Summary List visible projects
// @Description Returns the projects the caller created or is a team member of, newest first.
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Project
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /api/projects [get]
func (c *ProjectController) List(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "no token provided")
		return
	}

	projects, err := c.Service.List(r.Context(), id.ID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err, "project not found")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, projects)
}

// GetByID godoc
// @Summary Get a project
// @Description Returns a single project. Visible to its creator and team members only.
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param projectID path string true "Project ID"
// @Success 200 {object} domain.Project
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /api/projects/{projectID} [get]
func (c *ProjectController) GetByID(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectID")
	if projectID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "missing projectID")
		return
	}
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "no token provided")
		return
	}

	project, err := c.Service.GetByID(r.Context(), projectID, id.ID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err, "project not found")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, project)
}

// Update godoc
// @Summary Update a project
// @Description Replaces name, description, and the team member list. Creator only.
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param projectID path string true "Project ID"
// @Param body body controllers.ProjectRequest true "New project details"
// @Success 200 {object} domain.Project
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /api/projects/{projectID} [patch]
func (c *ProjectController) Update(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectID")
	if projectID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "missing projectID")
		return
	}
	var req ProjectRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "no token provided")
		return
	}

	project, err := c.Service.Update(r.Context(), projectID, id.ID, req.Name, req.Description, req.TeamMembers)
	if err != nil {
		writeDomainError(c.Logger, w, r, err, "project not found")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, project)
}

// UpdateStatus godoc
// @Summary Set a project's status
// @Description Sets the status to one of Planning, Active, On Hold, Completed. Creator only. The status value is validated before the project is looked up.
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param projectID path string true "Project ID"
// @Param body body controllers.ProjectStatusRequest true "New status"
// @Success 200 {object} domain.Project
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /api/projects/{projectID}/status [patch]
func (c *ProjectController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectID")
	if projectID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "missing projectID")
		return
	}
	var req ProjectStatusRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	// enum check before any lookup
	status, err := domain.ParseProjectStatus(req.Status)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "no token provided")
		return
	}

	project, err := c.Service.UpdateStatus(r.Context(), projectID, id.ID, status)
	if err != nil {
		writeDomainError(c.Logger, w, r, err, "project not found")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, project)
}

// Delete godoc
// @Summary Delete a project
// @Description Deletes the project and all of its tasks in one transaction. Creator only.
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param projectID path string true "Project ID"
// @Success 200 {object} helpers.MessageResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /api/projects/{projectID} [delete]
func (c *ProjectController) Delete(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectID")
	if projectID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "missing projectID")
		return
	}
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "no token provided")
		return
	}

	if err := c.Service.Delete(r.Context(), projectID, id.ID); err != nil {
		writeDomainError(c.Logger, w, r, err, "project not found")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, helpers.MessageResponse{Message: "project deleted"})
}
