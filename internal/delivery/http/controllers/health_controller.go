package controllers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"teamspace/internal/delivery/http/helpers"
)

type HealthController struct {
	Logger *slog.Logger
	DB     *sql.DB
}

func NewHealthController(logger *slog.Logger, db *sql.DB) *HealthController {
	return &HealthController{Logger: logger, DB: db}
}

// HealthResponse is the body for GET /api/health.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Check godoc
// @Summary Health check
// @Description Reports liveness and database connectivity.
// @Tags health
// @Produce json
// @Success 200 {object} controllers.HealthResponse
// @Failure 503 {object} controllers.HealthResponse
// @Router /api/health [get]
func (c *HealthController) Check(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Database: "ok"}
	if err := c.DB.PingContext(r.Context()); err != nil {
		c.Logger.ErrorContext(r.Context(), "database ping failed", "err", err)
		resp.Status = "degraded"
		resp.Database = "unreachable"
		helpers.WriteJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}
