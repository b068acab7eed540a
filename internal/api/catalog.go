package api

import (
	"net/http"

	"example.com/workoutlog/internal/auth"
)

func (h *Handler) listPresets(w http.ResponseWriter, r *http.Request, userID string) {
	presets, err := h.services.Presets.List(r.Context(), userID)
	if err != nil {
		respondError(w, r, err, "Server error fetching presets")
		return
	}
	items := make([]PresetView, 0, len(presets))
	for _, p := range presets {
		items = append(items, toPresetView(p))
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) createPreset(w http.ResponseWriter, r *http.Request, userID string) {
	var req PresetRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	preset, err := h.services.Presets.Create(r.Context(), userID, req.input())
	if err != nil {
		respondError(w, r, err, "Server error creating preset")
		return
	}
	writeJSON(w, http.StatusCreated, toPresetView(*preset))
}

func (h *Handler) getPreset(w http.ResponseWriter, r *http.Request, userID string) {
	preset, err := h.services.Presets.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		respondError(w, r, err, "Server error fetching preset")
		return
	}
	writeJSON(w, http.StatusOK, toPresetView(*preset))
}

func (h *Handler) updatePreset(w http.ResponseWriter, r *http.Request, userID string) {
	var req PresetRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	preset, err := h.services.Presets.Update(r.Context(), userID, r.PathValue("id"), req.input())
	if err != nil {
		respondError(w, r, err, "Server error updating preset")
		return
	}
	writeJSON(w, http.StatusOK, toPresetView(*preset))
}

func (h *Handler) deletePreset(w http.ResponseWriter, r *http.Request, userID string) {
	preset, err := h.services.Presets.Delete(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		respondError(w, r, err, "Server error deleting preset")
		return
	}
	writeJSON(w, http.StatusOK, DeletedResponse{Message: "Preset deleted", Deleted: toPresetView(*preset)})
}

// requireCatalogWrite rejects callers whose token lacks the catalog scope.
func requireCatalogWrite(w http.ResponseWriter, r *http.Request) bool {
	claims, ok := auth.FromContext(r.Context())
	if !ok || !claims.HasScope(auth.ScopeCatalogWrite) {
		writeError(w, http.StatusForbidden, "scope "+auth.ScopeCatalogWrite+" required")
		return false
	}
	return true
}

func (h *Handler) listExercises(w http.ResponseWriter, r *http.Request, _ string) {
	exercises, err := h.services.Exercises.List(r.Context())
	if err != nil {
		respondError(w, r, err, "Server error fetching exercises")
		return
	}
	items := make([]ExerciseView, 0, len(exercises))
	for _, e := range exercises {
		items = append(items, toExerciseView(e))
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) createExercise(w http.ResponseWriter, r *http.Request, _ string) {
	if !requireCatalogWrite(w, r) {
		return
	}
	var req ExerciseRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	exercise, err := h.services.Exercises.Create(r.Context(), req.input())
	if err != nil {
		respondError(w, r, err, "Server error creating exercise")
		return
	}
	writeJSON(w, http.StatusCreated, toExerciseView(*exercise))
}

func (h *Handler) getExercise(w http.ResponseWriter, r *http.Request, _ string) {
	exercise, err := h.services.Exercises.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err, "Server error fetching exercise")
		return
	}
	writeJSON(w, http.StatusOK, toExerciseView(*exercise))
}

func (h *Handler) updateExercise(w http.ResponseWriter, r *http.Request, _ string) {
	if !requireCatalogWrite(w, r) {
		return
	}
	var req ExerciseRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	exercise, err := h.services.Exercises.Update(r.Context(), r.PathValue("id"), req.input())
	if err != nil {
		respondError(w, r, err, "Server error updating exercise")
		return
	}
	writeJSON(w, http.StatusOK, toExerciseView(*exercise))
}

func (h *Handler) deleteExercise(w http.ResponseWriter, r *http.Request, _ string) {
	if !requireCatalogWrite(w, r) {
		return
	}
	exercise, err := h.services.Exercises.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err, "Server error deleting exercise")
		return
	}
	writeJSON(w, http.StatusOK, DeletedResponse{Message: "Exercise deleted", Deleted: toExerciseView(*exercise)})
}

func (h *Handler) listCustomExercises(w http.ResponseWriter, r *http.Request, userID string) {
	exercises, err := h.services.CustomExercises.List(r.Context(), userID)
	if err != nil {
		respondError(w, r, err, "Server error fetching custom exercises")
		return
	}
	items := make([]CustomExerciseView, 0, len(exercises))
	for _, e := range exercises {
		items = append(items, toCustomExerciseView(e))
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) createCustomExercise(w http.ResponseWriter, r *http.Request, userID string) {
	var req ExerciseRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	exercise, err := h.services.CustomExercises.Create(r.Context(), userID, req.input())
	if err != nil {
		respondError(w, r, err, "Server error creating custom exercise")
		return
	}
	writeJSON(w, http.StatusCreated, toCustomExerciseView(*exercise))
}

func (h *Handler) getCustomExercise(w http.ResponseWriter, r *http.Request, userID string) {
	exercise, err := h.services.CustomExercises.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		respondError(w, r, err, "Server error fetching custom exercise")
		return
	}
	writeJSON(w, http.StatusOK, toCustomExerciseView(*exercise))
}

func (h *Handler) updateCustomExercise(w http.ResponseWriter, r *http.Request, userID string) {
	var req ExerciseRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	exercise, err := h.services.CustomExercises.Update(r.Context(), userID, r.PathValue("id"), req.input())
	if err != nil {
		respondError(w, r, err, "Server error updating custom exercise")
		return
	}
	writeJSON(w, http.StatusOK, toCustomExerciseView(*exercise))
}

func (h *Handler) deleteCustomExercise(w http.ResponseWriter, r *http.Request, userID string) {
	exercise, err := h.services.CustomExercises.Delete(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		respondError(w, r, err, "Server error deleting custom exercise")
		return
	}
	writeJSON(w, http.StatusOK, DeletedResponse{Message: "Custom exercise deleted", Deleted: toCustomExerciseView(*exercise)})
}
