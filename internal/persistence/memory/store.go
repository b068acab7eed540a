// Package memory provides an in-process implementation of every domain
// repository. It backs local development when no database is configured.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"example.com/workoutlog/internal/domain"
)

// Store keeps all resources in maps guarded by a single lock, so each
// method observes and mutates a consistent snapshot.
type Store struct {
	mu              sync.RWMutex
	users           map[string]domain.User
	workouts        map[string]domain.Workout
	presets         map[string]domain.Preset
	exercises       map[string]domain.Exercise
	customExercises map[string]domain.CustomExercise
	contents        map[string]domain.ExerciseContent
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:           make(map[string]domain.User),
		workouts:        make(map[string]domain.Workout),
		presets:         make(map[string]domain.Preset),
		exercises:       make(map[string]domain.Exercise),
		customExercises: make(map[string]domain.CustomExercise),
		contents:        make(map[string]domain.ExerciseContent),
	}
}

// CreateUser implements domain.UserRepository.
func (s *Store) CreateUser(_ context.Context, user domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	s.users[user.ID] = user
	return &user, nil
}

// FindUserByUsername implements domain.UserRepository.
func (s *Store) FindUserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// CreateWorkout implements domain.WorkoutRepository.
func (s *Store) CreateWorkout(_ context.Context, workout domain.Workout) (*domain.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if workout.PresetID != nil {
		if preset, ok := s.presets[*workout.PresetID]; !ok || preset.UserID != workout.UserID {
			return nil, domain.ErrInvalidPresetReference
		}
	}
	workout.Exercises = slices.Clone(workout.Exercises)
	s.workouts[workout.ID] = workout
	return &workout, nil
}

// EndWorkout implements domain.WorkoutRepository.
func (s *Store) EndWorkout(_ context.Context, userID, workoutID string, endedAt time.Time) (*domain.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	workout, ok := s.ownedWorkout(userID, workoutID)
	if !ok {
		return nil, domain.ErrWorkoutNotFound
	}
	if workout.Ended() {
		return nil, domain.ErrWorkoutAlreadyEnded
	}
	workout.EndedAt = &endedAt
	s.workouts[workoutID] = workout
	return &workout, nil
}

// GetWorkout implements domain.WorkoutRepository.
func (s *Store) GetWorkout(_ context.Context, userID, workoutID string) (*domain.Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	workout, ok := s.ownedWorkout(userID, workoutID)
	if !ok {
		return nil, domain.ErrWorkoutNotFound
	}
	return &workout, nil
}

// ListWorkouts implements domain.WorkoutRepository, ordering by started_at
// then id, both descending.
func (s *Store) ListWorkouts(_ context.Context, userID string, cursor *domain.Cursor, limit int) ([]domain.Workout, *domain.Cursor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Workout, 0)
	for _, w := range s.workouts {
		if w.UserID != userID {
			continue
		}
		if cursor != nil && !before(w, *cursor) {
			continue
		}
		out = append(out, w)
	}
	slices.SortFunc(out, func(a, b domain.Workout) int {
		if c := b.StartedAt.Compare(a.StartedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})

	if limit <= 0 || len(out) <= limit {
		return out, nil, nil
	}
	last := out[limit-1]
	return out[:limit], &domain.Cursor{StartedAt: last.StartedAt, ID: last.ID}, nil
}

// before reports whether w sorts after the cursor position in descending order.
func before(w domain.Workout, c domain.Cursor) bool {
	if w.StartedAt.Equal(c.StartedAt) {
		return w.ID < c.ID
	}
	return w.StartedAt.Before(c.StartedAt)
}

// DeleteWorkout implements domain.WorkoutRepository.
func (s *Store) DeleteWorkout(_ context.Context, userID, workoutID string) (*domain.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	workout, ok := s.ownedWorkout(userID, workoutID)
	if !ok {
		return nil, domain.ErrWorkoutNotFound
	}
	delete(s.workouts, workoutID)
	for id, c := range s.contents {
		if c.WorkoutID == workoutID {
			delete(s.contents, id)
		}
	}
	for id, p := range s.presets {
		if p.WorkoutID != nil && *p.WorkoutID == workoutID {
			p.WorkoutID = nil
			s.presets[id] = p
		}
	}
	return &workout, nil
}

func (s *Store) ownedWorkout(userID, workoutID string) (domain.Workout, bool) {
	w, ok := s.workouts[workoutID]
	if !ok || w.UserID != userID {
		return domain.Workout{}, false
	}
	return w, true
}

// CreatePreset implements domain.PresetRepository.
func (s *Store) CreatePreset(_ context.Context, preset domain.Preset) (*domain.Preset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if preset.WorkoutID != nil {
		if _, ok := s.ownedWorkout(preset.UserID, *preset.WorkoutID); !ok {
			return nil, domain.ErrInvalidWorkoutReference
		}
	}
	s.presets[preset.ID] = preset
	return &preset, nil
}

// GetPreset implements domain.PresetRepository.
func (s *Store) GetPreset(_ context.Context, userID, presetID string) (*domain.Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.presets[presetID]
	if !ok || p.UserID != userID {
		return nil, domain.ErrPresetNotFound
	}
	return &p, nil
}

// ListPresets implements domain.PresetRepository.
func (s *Store) ListPresets(_ context.Context, userID string) ([]domain.Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Preset, 0)
	for _, p := range s.presets {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b domain.Preset) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

// UpdatePreset implements domain.PresetRepository.
func (s *Store) UpdatePreset(_ context.Context, preset domain.Preset) (*domain.Preset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.presets[preset.ID]
	if !ok || existing.UserID != preset.UserID {
		return nil, domain.ErrPresetNotFound
	}
	if preset.WorkoutID != nil {
		if _, ok := s.ownedWorkout(preset.UserID, *preset.WorkoutID); !ok {
			return nil, domain.ErrInvalidWorkoutReference
		}
	}
	existing.Title = preset.Title
	existing.WorkoutID = preset.WorkoutID
	s.presets[preset.ID] = existing
	return &existing, nil
}

// DeletePreset implements domain.PresetRepository.
func (s *Store) DeletePreset(_ context.Context, userID, presetID string) (*domain.Preset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.presets[presetID]
	if !ok || p.UserID != userID {
		return nil, domain.ErrPresetNotFound
	}
	delete(s.presets, presetID)
	for id, w := range s.workouts {
		if w.PresetID != nil && *w.PresetID == presetID {
			w.PresetID = nil
			s.workouts[id] = w
		}
	}
	return &p, nil
}

// CreateExercise implements domain.ExerciseRepository.
func (s *Store) CreateExercise(_ context.Context, exercise domain.Exercise) (*domain.Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exercises[exercise.ID] = exercise
	return &exercise, nil
}

// GetExercise implements domain.ExerciseRepository.
func (s *Store) GetExercise(_ context.Context, exerciseID string) (*domain.Exercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.exercises[exerciseID]
	if !ok {
		return nil, domain.ErrExerciseNotFound
	}
	return &e, nil
}

// ListExercises implements domain.ExerciseRepository.
func (s *Store) ListExercises(_ context.Context) ([]domain.Exercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Exercise, 0, len(s.exercises))
	for _, e := range s.exercises {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b domain.Exercise) int { return strings.Compare(a.Title, b.Title) })
	return out, nil
}

// UpdateExercise implements domain.ExerciseRepository.
func (s *Store) UpdateExercise(_ context.Context, exercise domain.Exercise) (*domain.Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.exercises[exercise.ID]
	if !ok {
		return nil, domain.ErrExerciseNotFound
	}
	existing.Title = exercise.Title
	existing.Sets = exercise.Sets
	s.exercises[exercise.ID] = existing
	return &existing, nil
}

// DeleteExercise implements domain.ExerciseRepository.
func (s *Store) DeleteExercise(_ context.Context, exerciseID string) (*domain.Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.exercises[exerciseID]
	if !ok {
		return nil, domain.ErrExerciseNotFound
	}
	delete(s.exercises, exerciseID)
	for id, c := range s.contents {
		if c.ExerciseID != nil && *c.ExerciseID == exerciseID {
			delete(s.contents, id)
		}
	}
	return &e, nil
}

// CreateCustomExercise implements domain.CustomExerciseRepository.
func (s *Store) CreateCustomExercise(_ context.Context, exercise domain.CustomExercise) (*domain.CustomExercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customExercises[exercise.ID] = exercise
	return &exercise, nil
}

// GetCustomExercise implements domain.CustomExerciseRepository.
func (s *Store) GetCustomExercise(_ context.Context, userID, exerciseID string) (*domain.CustomExercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.customExercises[exerciseID]
	if !ok || e.UserID != userID {
		return nil, domain.ErrCustomExerciseNotFound
	}
	return &e, nil
}

// ListCustomExercises implements domain.CustomExerciseRepository.
func (s *Store) ListCustomExercises(_ context.Context, userID string) ([]domain.CustomExercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CustomExercise, 0)
	for _, e := range s.customExercises {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b domain.CustomExercise) int { return strings.Compare(a.Title, b.Title) })
	return out, nil
}

// UpdateCustomExercise implements domain.CustomExerciseRepository.
func (s *Store) UpdateCustomExercise(_ context.Context, exercise domain.CustomExercise) (*domain.CustomExercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.customExercises[exercise.ID]
	if !ok || existing.UserID != exercise.UserID {
		return nil, domain.ErrCustomExerciseNotFound
	}
	existing.Title = exercise.Title
	existing.Sets = exercise.Sets
	s.customExercises[exercise.ID] = existing
	return &existing, nil
}

// DeleteCustomExercise implements domain.CustomExerciseRepository.
func (s *Store) DeleteCustomExercise(_ context.Context, userID, exerciseID string) (*domain.CustomExercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.customExercises[exerciseID]
	if !ok || e.UserID != userID {
		return nil, domain.ErrCustomExerciseNotFound
	}
	delete(s.customExercises, exerciseID)
	for id, c := range s.contents {
		if c.CustomExerciseID != nil && *c.CustomExerciseID == exerciseID {
			delete(s.contents, id)
		}
	}
	return &e, nil
}

// CreateExerciseContent implements domain.ExerciseContentRepository.
func (s *Store) CreateExerciseContent(_ context.Context, userID string, content domain.ExerciseContent) (*domain.ExerciseContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ownedWorkout(userID, content.WorkoutID); !ok {
		return nil, domain.ErrWorkoutNotFound
	}
	switch {
	case content.ExerciseID != nil:
		if _, ok := s.exercises[*content.ExerciseID]; !ok {
			return nil, domain.ErrInvalidExerciseReference
		}
	case content.CustomExerciseID != nil:
		if e, ok := s.customExercises[*content.CustomExerciseID]; !ok || e.UserID != userID {
			return nil, domain.ErrInvalidExerciseReference
		}
	default:
		return nil, domain.ErrInvalidExerciseReference
	}
	s.contents[content.ID] = content
	out := s.withTitles(content)
	return &out, nil
}

// GetExerciseContent implements domain.ExerciseContentRepository.
func (s *Store) GetExerciseContent(_ context.Context, userID, contentID string) (*domain.ExerciseContent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.ownedContent(userID, contentID)
	if !ok {
		return nil, domain.ErrExerciseContentNotFound
	}
	out := s.withTitles(c)
	return &out, nil
}

// ListExerciseContentByWorkout implements domain.ExerciseContentRepository.
func (s *Store) ListExerciseContentByWorkout(_ context.Context, userID, workoutID string) ([]domain.ExerciseContent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.ownedWorkout(userID, workoutID); !ok {
		return nil, domain.ErrWorkoutNotFound
	}
	out := make([]domain.ExerciseContent, 0)
	for _, c := range s.contents {
		if c.WorkoutID == workoutID {
			out = append(out, s.withTitles(c))
		}
	}
	slices.SortFunc(out, func(a, b domain.ExerciseContent) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

// UpdateExerciseContent implements domain.ExerciseContentRepository.
func (s *Store) UpdateExerciseContent(_ context.Context, userID string, content domain.ExerciseContent) (*domain.ExerciseContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.ownedContent(userID, content.ID)
	if !ok {
		return nil, domain.ErrExerciseContentNotFound
	}
	existing.Reps = content.Reps
	existing.Sets = content.Sets
	existing.Weight = content.Weight
	existing.Duration = content.Duration
	existing.DurationType = content.DurationType
	s.contents[content.ID] = existing
	out := s.withTitles(existing)
	return &out, nil
}

// DeleteExerciseContent implements domain.ExerciseContentRepository.
func (s *Store) DeleteExerciseContent(_ context.Context, userID, contentID string) (*domain.ExerciseContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.ownedContent(userID, contentID)
	if !ok {
		return nil, domain.ErrExerciseContentNotFound
	}
	out := s.withTitles(c)
	delete(s.contents, contentID)
	return &out, nil
}

func (s *Store) ownedContent(userID, contentID string) (domain.ExerciseContent, bool) {
	c, ok := s.contents[contentID]
	if !ok {
		return domain.ExerciseContent{}, false
	}
	if _, owned := s.ownedWorkout(userID, c.WorkoutID); !owned {
		return domain.ExerciseContent{}, false
	}
	return c, true
}

func (s *Store) withTitles(c domain.ExerciseContent) domain.ExerciseContent {
	if c.ExerciseID != nil {
		c.ExerciseTitle = s.exercises[*c.ExerciseID].Title
	}
	if c.CustomExerciseID != nil {
		c.CustomExerciseTitle = s.customExercises[*c.CustomExerciseID].Title
	}
	return c
}
