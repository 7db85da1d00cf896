package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"teamspace/internal/delivery/http/helpers"
	"teamspace/internal/domain"
)

// writeDomainError maps a service error to its HTTP response. Every
// instance-checked handler funnels through here so the status mapping stays
// in one place: invalid input 400, forbidden 403, not found 404, anything
// else 500 with the underlying error attached.
func writeDomainError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, "access denied")
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, notFoundMsg)
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONErrorDetail(w, http.StatusInternalServerError, "unexpected error", err.Error())
	}
}
