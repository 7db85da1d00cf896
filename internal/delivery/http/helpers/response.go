package helpers

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the wire shape of every error response. Error carries the
// underlying failure detail when one is worth surfacing (token verification,
// unexpected store errors).
// swagger:model ErrorResponse
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// MessageResponse is the body for operations with nothing else to return,
// such as deletes.
// swagger:model MessageResponse
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteJSON sets Content-Type to application/json, writes statusCode, and
// encodes v.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteJSONError writes an ErrorResponse with just a message.
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Message: message})
}

// WriteJSONErrorDetail writes an ErrorResponse with a message and the
// underlying error detail.
func WriteJSONErrorDetail(w http.ResponseWriter, statusCode int, message, detail string) {
	WriteJSON(w, statusCode, ErrorResponse{Message: message, Error: detail})
}
