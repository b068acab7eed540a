package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"example.com/workoutlog/internal/domain"
	"example.com/workoutlog/internal/logutil"
)

const maxBodyBytes = 1 << 20

type errorMapping struct {
	err     error
	status  int
	message string // Empty uses err.Error().
}

// errorTable maps domain errors to HTTP responses. Order matters only for
// errors that match more than one entry.
var errorTable = []errorMapping{
	{domain.ErrValidation, http.StatusBadRequest, ""},
	{domain.ErrInvalidCredentials, http.StatusBadRequest, "Invalid credentials"},
	{domain.ErrUserExists, http.StatusBadRequest, ""},
	{domain.ErrInvalidExerciseReference, http.StatusBadRequest, ""},
	{domain.ErrInvalidWorkoutReference, http.StatusBadRequest, ""},
	{domain.ErrInvalidPresetReference, http.StatusBadRequest, ""},
	{domain.ErrWorkoutNotFound, http.StatusNotFound, "Workout not found"},
	{domain.ErrPresetNotFound, http.StatusNotFound, "Preset not found"},
	{domain.ErrExerciseNotFound, http.StatusNotFound, "Exercise not found"},
	{domain.ErrCustomExerciseNotFound, http.StatusNotFound, "Custom exercise not found"},
	{domain.ErrExerciseContentNotFound, http.StatusNotFound, "Exercise content not found"},
	{domain.ErrWorkoutAlreadyEnded, http.StatusConflict, "Workout already ended"},
}

// respondError converts err to a status and message. Unmapped errors are
// logged and answered with fallback.
func respondError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			message := m.message
			if message == "" {
				message = err.Error()
			}
			writeError(w, m.status, message)
			return
		}
	}
	logError(r, fallback, err)
	writeError(w, http.StatusInternalServerError, fallback)
}

func logError(r *http.Request, msg string, err error) {
	logutil.Error(logutil.GetOrDefault(r.Context()), msg, err)
}

// decodeBody reads a JSON body into dst. With optional set, an empty body
// leaves dst untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	if r.Body == nil {
		if optional {
			return true
		}
		writeError(w, http.StatusBadRequest, "request body is required")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			if optional {
				return true
			}
			writeError(w, http.StatusBadRequest, "request body is required")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
