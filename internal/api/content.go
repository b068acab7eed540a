package api

import (
	"net/http"

	"example.com/workoutlog/internal/domain"
)

func (h *Handler) createExerciseContent(w http.ResponseWriter, r *http.Request, userID string) {
	var req ExerciseContentRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	content, err := h.services.ExerciseContents.Create(r.Context(), userID, domain.ExerciseContentInput{
		WorkoutID:        req.WorkoutID,
		ExerciseID:       req.ExerciseID,
		CustomExerciseID: req.CustomExerciseID,
		Reps:             req.Reps,
		Sets:             req.Sets,
		Weight:           req.Weight,
		Duration:         req.Duration,
		DurationType:     req.DurationType,
	})
	if err != nil {
		respondError(w, r, err, "Server error creating exercise content")
		return
	}
	writeJSON(w, http.StatusCreated, toExerciseContentView(*content))
}

func (h *Handler) getExerciseContent(w http.ResponseWriter, r *http.Request, userID string) {
	content, err := h.services.ExerciseContents.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		respondError(w, r, err, "Server error fetching exercise content")
		return
	}
	writeJSON(w, http.StatusOK, toExerciseContentView(*content))
}

func (h *Handler) listWorkoutContent(w http.ResponseWriter, r *http.Request, userID string) {
	contents, err := h.services.ExerciseContents.ListByWorkout(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		respondError(w, r, err, "Server error fetching exercise content")
		return
	}
	items := make([]ExerciseContentView, 0, len(contents))
	for _, c := range contents {
		items = append(items, toExerciseContentView(c))
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) updateExerciseContent(w http.ResponseWriter, r *http.Request, userID string) {
	var req ExerciseContentUpdateRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	content, err := h.services.ExerciseContents.Update(r.Context(), userID, r.PathValue("id"), domain.ExerciseContentUpdate{
		Reps:         req.Reps,
		Sets:         req.Sets,
		Weight:       req.Weight,
		Duration:     req.Duration,
		DurationType: req.DurationType,
	})
	if err != nil {
		respondError(w, r, err, "Server error updating exercise content")
		return
	}
	writeJSON(w, http.StatusOK, toExerciseContentView(*content))
}

func (h *Handler) deleteExerciseContent(w http.ResponseWriter, r *http.Request, userID string) {
	content, err := h.services.ExerciseContents.Delete(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		respondError(w, r, err, "Server error deleting exercise content")
		return
	}
	writeJSON(w, http.StatusOK, DeletedResponse{Message: "Exercise content deleted", Deleted: toExerciseContentView(*content)})
}
