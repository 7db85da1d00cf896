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

type TaskController struct {
	Logger  *slog.Logger
	Service domain.TaskService
}

func NewTaskController(logger *slog.Logger, svc domain.TaskService) *TaskController {
	return &TaskController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateTaskRequest is the request body for POST /api/tasks.
type CreateTaskRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ProjectID   string    `json:"project_id"`
	AssignedTo  []string  `json:"assigned_to"`
	Priority    string    `json:"priority"`
	DueDate     time.Time `json:"due_date"`
}

// Validate implements helpers.Validator.
func (r *CreateTaskRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		errs = append(errs, "description is required")
	}
	if strings.TrimSpace(r.ProjectID) == "" {
		errs = append(errs, "project_id is required")
	}
	if r.DueDate.IsZero() {
		errs = append(errs, "due_date is required")
	}
	return errs
}

// UpdateTaskRequest is the request body for PUT /api/tasks/{taskID}.
// Updates replace every mutable field; project_id is immutable.
type UpdateTaskRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AssignedTo  []string  `json:"assigned_to"`
	Priority    string    `json:"priority"`
	DueDate     time.Time `json:"due_date"`
}

// Validate implements helpers.Validator.
func (r *UpdateTaskRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		errs = append(errs, "description is required")
	}
	if r.DueDate.IsZero() {
		errs = append(errs, "due_date is required")
	}
	return errs
}

// TaskStatusRequest is the request body for PUT /api/tasks/{taskID}/status.
type TaskStatusRequest struct {
	Status string `json:"status"`
}

func parsePriority(s string) (domain.TaskPriority, error) {
	if strings.TrimSpace(s) == "" {
		return domain.PriorityMedium, nil
	}
	return domain.ParseTaskPriority(s)
}

// Create godoc
// @Summary Create a task
// @Description Creates a task under a project. Only the project's creator may add tasks. Priority defaults to Medium.
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CreateTaskRequest true "Task details"
// @Success 201 {object} domain.Task
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /api/tasks [post]
func (c *TaskController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	priority, err := parsePriority(req.Priority)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "no token provided")
		return
	}

	task, err := c.Service.Create(r.Context(), id.ID, req.Title, req.Description, req.ProjectID, req.AssignedTo, priority, req.DueDate)
	if err != nil {
		writeDomainError(c.Logger, w, r, err, "project not found")
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, task)
}

// ListByProject godoc
// @Summary List a project's tasks
// @Description Returns the tasks of a project, newest first. Visible to the project's creator and team members.
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param projectID path string true "Project ID"
// @Success 200 {array} domain.Task
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /api/tasks/project/{projectID} [get]
func (c *TaskController) ListByProject(w http.ResponseWriter, r *http.Request) {
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

	tasks, err := c.Service.ListByProject(r.Context(), projectID, id.ID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err, "project not found")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, tasks)
}

// ListMine godoc
// @Summary List the caller's assigned tasks
// @Description Returns the tasks assigned to the caller, ordered by due date.
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Task
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /api/tasks/my [get]
func (c *TaskController) ListMine(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "no token provided")
		return
	}

	tasks, err := c.Service.ListMine(r.Context(), id.ID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err, "task not found")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, tasks)
}

// UpdateStatus godoc
// @Summary Set a task's status
// @Description Sets the status to one of To Do, In Progress, Done. Allowed for the parent project's creator, its team members, and the task's assignees. The status value is validated before the task is looked up.
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param taskID path string true "Task ID"
// @Param body body controllers.TaskStatusRequest true "New status"
// @Success 200 {object} domain.Task
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /api/tasks/{taskID}/status [put]
func (c *TaskController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("taskID")
	if taskID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "missing taskID")
		return
	}
	var req TaskStatusRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	// enum check before any lookup
	status, err := domain.ParseTaskStatus(req.Status)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "no token provided")
		return
	}

	task, err := c.Service.UpdateStatus(r.Context(), taskID, id.ID, status)
	if err != nil {
		writeDomainError(c.Logger, w, r, err, "task not found")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, task)
}

// Update godoc
// @Summary Update a task
// @Description Replaces title, description, assignees, priority, and due date. Only the parent project's creator may edit.
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param taskID path string true "Task ID"
// @Param body body controllers.UpdateTaskRequest true "New task details"
// @Success 200 {object} domain.Task
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /api/tasks/{taskID} [put]
func (c *TaskController) Update(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("taskID")
	if taskID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "missing taskID")
		return
	}
	var req UpdateTaskRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	priority, err := parsePriority(req.Priority)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "no token provided")
		return
	}

	task, err := c.Service.Update(r.Context(), taskID, id.ID, req.Title, req.Description, req.AssignedTo, priority, req.DueDate)
	if err != nil {
		writeDomainError(c.Logger, w, r, err, "task not found")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, task)
}

// Delete godoc
// @Summary Delete a task
// @Description Deletes a task. Only the parent project's creator may delete.
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param taskID path string true "Task ID"
// @Success 200 {object} helpers.MessageResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /api/tasks/{taskID} [delete]
func (c *TaskController) Delete(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("taskID")
	if taskID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "missing taskID")
		return
	}
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "no token provided")
		return
	}

	if err := c.Service.Delete(r.Context(), taskID, id.ID); err != nil {
		writeDomainError(c.Logger, w, r, err, "task not found")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, helpers.MessageResponse{Message: "task deleted"})
}
