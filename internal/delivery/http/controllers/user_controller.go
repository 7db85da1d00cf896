package controllers

import (
	"log/slog"
	"net/http"

	"teamspace/internal/delivery/http/helpers"
	"teamspace/internal/domain"
)

type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

// List godoc
// @Summary List all users
// @Description Returns every registered user for assignment and team pickers. Password fields are never serialized.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.User
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /api/users [get]
func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	users, err := c.Service.List(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONErrorDetail(w, http.StatusInternalServerError, "unexpected error", err.Error())
		return
	}
	helpers.WriteJSON(w, http.StatusOK, users)
}
