package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"modernblog/app/models"
	"modernblog/app/repositories"

	"github.com/rs/zerolog"
)

// sendJSON writes data as a JSON response with the given status
func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func sendError(w http.ResponseWriter, status int, message string) {
	sendJSON(w, status, map[string]string{"error": message})
}

// handleError maps service and repository errors onto HTTP statuses.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		sendError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, repositories.ErrNotFound):
		sendError(w, http.StatusNotFound, "Post not found")
	case errors.Is(err, repositories.ErrConflict):
		sendError(w, http.StatusConflict, err.Error())
	case errors.Is(err, repositories.ErrPreconditionFailed):
		sendError(w, http.StatusPreconditionFailed, err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		sendError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeBody reads a JSON request body into v. It reports false after answering 400.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
