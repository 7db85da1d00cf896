package main

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"teamspace/config"
	"teamspace/internal/adapters/auth"
	"teamspace/internal/adapters/email"
	httpdelivery "teamspace/internal/delivery/http"
	"teamspace/internal/delivery/http/controllers"
	"teamspace/internal/delivery/http/middleware"
	"teamspace/internal/repository/postgres"
	"teamspace/internal/services"
)

const contextTimeout = 5 * time.Second

// @title Teamspace API
// @version 1.0
// @description Workspace management API: projects, tasks, and events with role-based access.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("failed to reach database: %v", err)
	}

	userRepo := postgres.NewUserRepository(db)
	projectRepo := postgres.NewProjectRepository(db)
	taskRepo := postgres.NewTaskRepository(db)
	eventRepo := postgres.NewEventRepository(db)

	mailer, err := email.NewMailer(cfg.Email)
	if err != nil {
		log.Fatalf("failed to set up mailer: %v", err)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())

	tokens := auth.NewJWTCodec(cfg.JWTSecret)
	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)

	authService := services.NewAuthService(userRepo, hasher, tokens, emailService, cfg.TokenExpiry, contextTimeout)
	userService := services.NewUserService(userRepo, contextTimeout)
	projectService := services.NewProjectService(projectRepo, contextTimeout)
	taskService := services.NewTaskService(taskRepo, projectRepo, contextTimeout)
	eventService := services.NewEventService(eventRepo, emailService, contextTimeout)

	router := httpdelivery.NewRouter(httpdelivery.Controllers{
		Auth:    controllers.NewAuthController(logger, authService),
		User:    controllers.NewUserController(logger, userService),
		Project: controllers.NewProjectController(logger, projectService),
		Task:    controllers.NewTaskController(logger, taskService),
		Event:   controllers.NewEventController(logger, eventService),
		Health:  controllers.NewHealthController(logger, db),
	}, tokens, userService, logger)

	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, router))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
