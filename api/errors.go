package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tasknest/vault-backend/interfaces"
)

// ErrorResponse is the JSON body for every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusForError maps domain errors to HTTP status codes. Unrecognized
// errors map to 500 so internal failures never leak taxonomy details.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, interfaces.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, interfaces.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, interfaces.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, interfaces.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes a JSON error body with the status mapped from err.
// Internal errors get a generic message so storage details stay server-side.
func WriteError(w http.ResponseWriter, err error) {
	status := StatusForError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: msg})
}

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
