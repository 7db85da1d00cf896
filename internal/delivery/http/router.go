package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"teamspace/internal/delivery/http/controllers"
	"teamspace/internal/delivery/http/middleware"
	"teamspace/internal/domain"
)

// Controllers bundles the route handlers wired up by NewRouter.
type Controllers struct {
	Auth    *controllers.AuthController
	User    *controllers.UserController
	Project *controllers.ProjectController
	Task    *controllers.TaskController
	Event   *controllers.EventController
	Health  *controllers.HealthController
}

// NewRouter initializes the HTTP router with all application routes. Every
// route except auth, health, and swagger runs behind RequireAuth; mutating
// project and task routes additionally require the project-manager role, and
// mutating event routes the event-organizer role.
func NewRouter(c Controllers, verifier domain.TokenVerifier, users domain.UserService, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(verifier, users, logger)
	projectManager := middleware.RequireRole(logger, domain.RoleProjectManager)
	eventOrganizer := middleware.RequireRole(logger, domain.RoleEventOrganizer)

	// Auth
	mux.HandleFunc("POST /api/auth/register", c.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", c.Auth.Login)

	// Users
	mux.HandleFunc("GET /api/users", auth(c.User.List))

	// Projects
	mux.HandleFunc("POST /api/projects", auth(projectManager(c.Project.Create)))
	mux.HandleFunc("GET /api/projects", auth(c.Project.List))
	mux.HandleFunc("GET /api/projects/{projectID}", auth(c.Project.GetByID))
	mux.HandleFunc("PATCH /api/projects/{projectID}", auth(projectManager(c.Project.Update)))
	mux.HandleFunc("PATCH /api/projects/{projectID}/status", auth(projectManager(c.Project.UpdateStatus)))
	mux.HandleFunc("DELETE /api/projects/{projectID}", auth(projectManager(c.Project.Delete)))

	// Tasks
	mux.HandleFunc("POST /api/tasks", auth(projectManager(c.Task.Create)))
	mux.HandleFunc("GET /api/tasks/project/{projectID}", auth(c.Task.ListByProject))
	mux.HandleFunc("GET /api/tasks/my", auth(c.Task.ListMine))
	mux.HandleFunc("PUT /api/tasks/{taskID}/status", auth(c.Task.UpdateStatus))
	mux.HandleFunc("PUT /api/tasks/{taskID}", auth(projectManager(c.Task.Update)))
	mux.HandleFunc("DELETE /api/tasks/{taskID}", auth(projectManager(c.Task.Delete)))

	// Events
	mux.HandleFunc("POST /api/events", auth(eventOrganizer(c.Event.Create)))
	mux.HandleFunc("GET /api/events", auth(c.Event.List))
	mux.HandleFunc("GET /api/events/{eventID}", auth(c.Event.GetByID))
	mux.HandleFunc("PUT /api/events/{eventID}", auth(eventOrganizer(c.Event.Update)))
	mux.HandleFunc("DELETE /api/events/{eventID}", auth(eventOrganizer(c.Event.Delete)))
	mux.HandleFunc("POST /api/events/{eventID}/rsvp", auth(c.Event.RSVP))

	// Health
	mux.HandleFunc("GET /api/health", c.Health.Check)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
