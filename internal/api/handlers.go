// Package api exposes HTTP handlers for the workout log service.
package api

import (
	"context"
	"net/http"
	"strconv"

	"example.com/workoutlog/internal/auth"
	"example.com/workoutlog/internal/domain"
	"example.com/workoutlog/internal/persistence"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Handler coordinates HTTP requests with the domain services.
type Handler struct {
	services domain.Services
	gate     auth.Middleware
	health   HealthCheck
}

// HandlerOption customises a Handler.
type HandlerOption func(*Handler)

// WithHealthCheck makes /healthz report 503 when check fails.
func WithHealthCheck(check HealthCheck) HandlerOption {
	return func(h *Handler) {
		h.health = check
	}
}

// NewHandler builds a Handler. Routes other than signup, login and healthz
// are guarded by gate.
func NewHandler(services domain.Services, gate auth.Middleware, opts ...HandlerOption) *Handler {
	h := &Handler{services: services, gate: gate}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.healthz)
	mux.HandleFunc("POST /signup", h.signup)
	mux.HandleFunc("POST /login", h.login)

	h.protect(mux, "POST /workout", h.startWorkout)
	h.protect(mux, "PUT /workout/{id}/end", h.endWorkout)
	h.protect(mux, "GET /workout/{id}", h.getWorkout)
	h.protect(mux, "DELETE /workout/{id}", h.deleteWorkout)
	h.protect(mux, "GET /workouts", h.listWorkouts)
	h.protect(mux, "GET /workouts/{id}/exercise-content", h.listWorkoutContent)

	h.protect(mux, "GET /presets", h.listPresets)
	h.protect(mux, "POST /presets", h.createPreset)
	h.protect(mux, "GET /presets/{id}", h.getPreset)
	h.protect(mux, "PUT /presets/{id}", h.updatePreset)
	h.protect(mux, "DELETE /presets/{id}", h.deletePreset)

	h.protect(mux, "GET /exercises", h.listExercises)
	h.protect(mux, "POST /exercises", h.createExercise)
	h.protect(mux, "GET /exercises/{id}", h.getExercise)
	h.protect(mux, "PUT /exercises/{id}", h.updateExercise)
	h.protect(mux, "DELETE /exercises/{id}", h.deleteExercise)

	h.protect(mux, "GET /custom-exercises", h.listCustomExercises)
	h.protect(mux, "POST /custom-exercises", h.createCustomExercise)
	h.protect(mux, "GET /custom-exercises/{id}", h.getCustomExercise)
	h.protect(mux, "PUT /custom-exercises/{id}", h.updateCustomExercise)
	h.protect(mux, "DELETE /custom-exercises/{id}", h.deleteCustomExercise)

	h.protect(mux, "POST /exercise-content", h.createExerciseContent)
	h.protect(mux, "GET /exercise-content/{id}", h.getExerciseContent)
	h.protect(mux, "PUT /exercise-content/{id}", h.updateExerciseContent)
	h.protect(mux, "DELETE /exercise-content/{id}", h.deleteExerciseContent)
}

func (h *Handler) protect(mux *http.ServeMux, pattern string, fn func(http.ResponseWriter, *http.Request, string)) {
	mux.Handle(pattern, h.gate.WrapFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Token missing")
			return
		}
		fn(w, r, userID)
	}))
}

// healthz reports a simple OK status for container health checks.
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			logError(r, "health check failed", err)
			writeError(w, http.StatusServiceUnavailable, "unavailable")
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	user, err := h.services.Users.Signup(r.Context(), domain.SignupInput{
		Username:    req.Username,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		Password:    req.Password,
		Birthdate:   req.Birthdate,
	})
	if err != nil {
		respondError(w, r, err, "Server error creating user")
		return
	}
	writeJSON(w, http.StatusCreated, SignupResponse{Message: "User created!", User: toUserView(*user)})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	result, err := h.services.Users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, r, err, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{
		Message:   "Login successful",
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User: LoginUser{
			ID:       result.User.ID,
			Username: result.User.Username,
			Email:    result.User.Email,
		},
	})
}

func (h *Handler) startWorkout(w http.ResponseWriter, r *http.Request, userID string) {
	var req StartWorkoutRequest
	if !decodeBody(w, r, &req, true) {
		return
	}

	workout, err := h.services.Workouts.Start(r.Context(), userID, domain.StartWorkoutInput{
		StartedAt: req.StartedAt,
		PresetID:  req.PresetID,
		Exercises: req.Exercises,
	})
	if err != nil {
		respondError(w, r, err, "Server error creating workout")
		return
	}
	writeJSON(w, http.StatusCreated, toWorkoutView(*workout))
}

func (h *Handler) endWorkout(w http.ResponseWriter, r *http.Request, userID string) {
	var req EndWorkoutRequest
	if !decodeBody(w, r, &req, true) {
		return
	}

	workout, err := h.services.Workouts.End(r.Context(), userID, r.PathValue("id"), req.EndedAt)
	if err != nil {
		respondError(w, r, err, "Server error ending workout")
		return
	}
	writeJSON(w, http.StatusOK, toWorkoutView(*workout))
}

func (h *Handler) getWorkout(w http.ResponseWriter, r *http.Request, userID string) {
	workout, err := h.services.Workouts.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		respondError(w, r, err, "Server error fetching workout")
		return
	}
	writeJSON(w, http.StatusOK, toWorkoutView(*workout))
}

func (h *Handler) listWorkouts(w http.ResponseWriter, r *http.Request, userID string) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	cursor, err := persistence.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cursor")
		return
	}

	workouts, next, err := h.services.Workouts.List(r.Context(), userID, cursor, limit)
	if err != nil {
		respondError(w, r, err, "Server error fetching workouts")
		return
	}

	items := make([]WorkoutView, 0, len(workouts))
	for _, workout := range workouts {
		items = append(items, toWorkoutView(workout))
	}
	if token := persistence.EncodeCursor(next); token != "" {
		w.Header().Set(nextCursorHeader, token)
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) deleteWorkout(w http.ResponseWriter, r *http.Request, userID string) {
	workout, err := h.services.Workouts.Delete(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		respondError(w, r, err, "Server error deleting workout")
		return
	}
	writeJSON(w, http.StatusOK, DeletedResponse{Message: "Workout deleted", Deleted: toWorkoutView(*workout)})
}
