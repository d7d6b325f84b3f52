package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/habitmatrix/habitmatrix/internal/persistence"
	"github.com/habitmatrix/habitmatrix/internal/service"
)

// envelope is the uniform JSON response shape: {"success": true, "data": …}
// on the happy path, {"success": false, "error": …} otherwise.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respondOK(w http.ResponseWriter, data any) {
	respondJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func respondCreated(w http.ResponseWriter, data any) {
	respondJSON(w, http.StatusCreated, envelope{Success: true, Data: data})
}

func respondUnauthorized(w http.ResponseWriter) {
	respondJSON(w, http.StatusUnauthorized, envelope{Success: false, Error: "authentication required"})
}

func respondBadRequest(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusBadRequest, envelope{Success: false, Error: message})
}

var notFoundErrors = []error{
	persistence.ErrNotFound,
	service.ErrHabitNotFound,
	service.ErrHabitLogNotFound,
	service.ErrGoalNotFound,
	service.ErrMilestoneNotFound,
	service.ErrCategoryNotFound,
	service.ErrSkipReasonNotFound,
}

var validationErrors = []error{
	service.ErrHabitNameRequired,
	service.ErrGoalTitleRequired,
	service.ErrMilestoneTitleRequired,
	service.ErrInvalidLogDate,
	service.ErrOpenMilestones,
	service.ErrGoalAlreadyCompleted,
	service.ErrMilestoneAlreadyComplete,
	service.ErrInvalidEmail,
	service.ErrUsernameRequired,
	service.ErrWeakPassword,
}

var conflictErrors = []error{
	service.ErrEmailAlreadyExists,
	service.ErrSkipAlreadyLogged,
}

// respondError translates a service error into the appropriate status and
// envelope. Unknown errors are logged and reported as an opaque 500.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case isAny(err, notFoundErrors):
		respondJSON(w, http.StatusNotFound, envelope{Success: false, Error: err.Error()})
	case isAny(err, validationErrors):
		respondJSON(w, http.StatusBadRequest, envelope{Success: false, Error: err.Error()})
	case isAny(err, conflictErrors):
		respondJSON(w, http.StatusConflict, envelope{Success: false, Error: err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		respondJSON(w, http.StatusUnauthorized, envelope{Success: false, Error: err.Error()})
	default:
		slog.Error("request failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, envelope{Success: false, Error: "internal server error"})
	}
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func respondJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// decodeJSON reads the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
