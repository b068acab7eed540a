// Package domain defines the business rules for workouts, exercises and presets.
// Every owned resource is read and written through the requesting user's id.
package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"example.com/workoutlog/internal/observability"
)

// maxListLimit caps one page of workouts.
const maxListLimit = 100

// WorkoutRepository captures persistence operations for workouts. Every
// method filters by userID; a workout owned by someone else is not found.
type WorkoutRepository interface {
	CreateWorkout(ctx context.Context, workout Workout) (*Workout, error)
	EndWorkout(ctx context.Context, userID, workoutID string, endedAt time.Time) (*Workout, error)
	GetWorkout(ctx context.Context, userID, workoutID string) (*Workout, error)
	ListWorkouts(ctx context.Context, userID string, cursor *Cursor, limit int) ([]Workout, *Cursor, error)
	DeleteWorkout(ctx context.Context, userID, workoutID string) (*Workout, error)
}

// Services bundles the domain services consumed by the HTTP layer.
type Services struct {
	Users            *UserService
	Workouts         *WorkoutService
	Presets          *PresetService
	Exercises        *ExerciseService
	CustomExercises  *CustomExerciseService
	ExerciseContents *ExerciseContentService
}

// Repositories is implemented by each storage backend.
type Repositories interface {
	UserRepository
	WorkoutRepository
	PresetRepository
	ExerciseRepository
	CustomExerciseRepository
	ExerciseContentRepository
}

// NewServices wires every service to repos.
func NewServices(repos Repositories, hasher PasswordHasher, issuer TokenIssuer, opts ...UserOption) Services {
	return Services{
		Users:            NewUserService(repos, hasher, issuer, opts...),
		Workouts:         NewWorkoutService(repos),
		Presets:          NewPresetService(repos),
		Exercises:        NewExerciseService(repos),
		CustomExercises:  NewCustomExerciseService(repos),
		ExerciseContents: NewExerciseContentService(repos),
	}
}

// WorkoutService orchestrates the workout lifecycle.
type WorkoutService struct {
	repo WorkoutRepository
	now  func() time.Time
}

// NewWorkoutService constructs a WorkoutService.
func NewWorkoutService(repo WorkoutRepository) *WorkoutService {
	return &WorkoutService{repo: repo, now: time.Now}
}

// StartWorkoutInput captures the payload from the API layer.
type StartWorkoutInput struct {
	StartedAt *time.Time
	PresetID  *string
	Exercises []WorkoutExercise
}

// Start creates an in-progress workout for userID.
func (s *WorkoutService) Start(ctx context.Context, userID string, input StartWorkoutInput) (*Workout, error) {
	for i, ex := range input.Exercises {
		if strings.TrimSpace(ex.Title) == "" {
			return nil, invalid(fmt.Sprintf("exercises[%d].title is required", i))
		}
	}

	now := s.now().UTC()
	startedAt := now
	if input.StartedAt != nil && !input.StartedAt.IsZero() {
		startedAt = input.StartedAt.UTC()
	}

	workout := Workout{
		ID:        uuid.NewString(),
		UserID:    userID,
		PresetID:  normalizeID(input.PresetID),
		StartedAt: startedAt,
		Exercises: input.Exercises,
		CreatedAt: now,
	}

	created, err := s.repo.CreateWorkout(ctx, workout)
	if err != nil {
		return nil, err
	}
	observability.RecordWorkoutTransition(observability.TransitionStarted, created.StartedAt)
	return created, nil
}

// End marks the workout finished. endedAt defaults to the current time; an
// explicit endedAt before the workout's start is a validation error.
func (s *WorkoutService) End(ctx context.Context, userID, workoutID string, endedAt *time.Time) (*Workout, error) {
	at := s.now().UTC()
	if endedAt != nil && !endedAt.IsZero() {
		at = endedAt.UTC()
		current, err := s.repo.GetWorkout(ctx, userID, workoutID)
		if err != nil {
			return nil, err
		}
		if at.Before(current.StartedAt) {
			return nil, invalid("ended_at must not be before started_at")
		}
	}
	workout, err := s.repo.EndWorkout(ctx, userID, workoutID, at)
	if err != nil {
		return nil, err
	}
	observability.RecordWorkoutTransition(observability.TransitionEnded, at)
	return workout, nil
}

// Get fetches a workout owned by userID.
func (s *WorkoutService) Get(ctx context.Context, userID, workoutID string) (*Workout, error) {
	return s.repo.GetWorkout(ctx, userID, workoutID)
}

// List returns the user's workouts, most recently started first. A
// non-positive limit returns every remaining workout and no cursor.
func (s *WorkoutService) List(ctx context.Context, userID string, cursor *Cursor, limit int) ([]Workout, *Cursor, error) {
	return s.repo.ListWorkouts(ctx, userID, cursor, clampLimit(limit))
}

// Delete removes a workout owned by userID and returns it.
func (s *WorkoutService) Delete(ctx context.Context, userID, workoutID string) (*Workout, error) {
	workout, err := s.repo.DeleteWorkout(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	observability.RecordWorkoutTransition(observability.TransitionDeleted, s.now().UTC())
	return workout, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 0
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

// normalizeID treats blank identifiers as absent.
func normalizeID(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
