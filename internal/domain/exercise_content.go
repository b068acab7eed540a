package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ExerciseContentRepository persists exercise content. Ownership is checked
// through the parent workout: userID must own content.WorkoutID.
//
// CreateExerciseContent returns ErrWorkoutNotFound when the workout is not
// owned by userID, and ErrInvalidExerciseReference when the referenced
// exercise does not exist or the custom exercise is not owned by userID. The
// checks and the insert happen atomically.
type ExerciseContentRepository interface {
	CreateExerciseContent(ctx context.Context, userID string, content ExerciseContent) (*ExerciseContent, error)
	GetExerciseContent(ctx context.Context, userID, contentID string) (*ExerciseContent, error)
	ListExerciseContentByWorkout(ctx context.Context, userID, workoutID string) ([]ExerciseContent, error)
	UpdateExerciseContent(ctx context.Context, userID string, content ExerciseContent) (*ExerciseContent, error)
	DeleteExerciseContent(ctx context.Context, userID, contentID string) (*ExerciseContent, error)
}

// ExerciseContentInput is the payload for creating exercise content.
type ExerciseContentInput struct {
	WorkoutID        string
	ExerciseID       *string
	CustomExerciseID *string
	Reps             int
	Sets             int
	Weight           float64
	Duration         int
	DurationType     string
}

// ExerciseContentUpdate holds the mutable measurements of an entry.
type ExerciseContentUpdate struct {
	Reps         int
	Sets         int
	Weight       float64
	Duration     int
	DurationType string
}

func (u ExerciseContentUpdate) validate() error {
	if u.Reps < 0 || u.Sets < 0 || u.Duration < 0 || u.Weight < 0 {
		return invalid("reps, sets, weight and duration must not be negative")
	}
	return nil
}

// ExerciseContentService records exercises performed within workouts.
type ExerciseContentService struct {
	repo ExerciseContentRepository
	now  func() time.Time
}

// NewExerciseContentService constructs an ExerciseContentService.
func NewExerciseContentService(repo ExerciseContentRepository) *ExerciseContentService {
	return &ExerciseContentService{repo: repo, now: time.Now}
}

// Create adds an entry to a workout owned by userID. Exactly one of
// ExerciseID and CustomExerciseID must be set; otherwise nothing is written.
func (s *ExerciseContentService) Create(ctx context.Context, userID string, input ExerciseContentInput) (*ExerciseContent, error) {
	workoutID := strings.TrimSpace(input.WorkoutID)
	if workoutID == "" {
		return nil, invalid("workout_id is required")
	}
	exerciseID := normalizeID(input.ExerciseID)
	customID := normalizeID(input.CustomExerciseID)
	if (exerciseID == nil) == (customID == nil) {
		return nil, ErrInvalidExerciseReference
	}
	measurements := ExerciseContentUpdate{
		Reps:         input.Reps,
		Sets:         input.Sets,
		Weight:       input.Weight,
		Duration:     input.Duration,
		DurationType: strings.TrimSpace(input.DurationType),
	}
	if err := measurements.validate(); err != nil {
		return nil, err
	}

	return s.repo.CreateExerciseContent(ctx, userID, ExerciseContent{
		ID:               uuid.NewString(),
		WorkoutID:        workoutID,
		ExerciseID:       exerciseID,
		CustomExerciseID: customID,
		Reps:             measurements.Reps,
		Sets:             measurements.Sets,
		Weight:           measurements.Weight,
		Duration:         measurements.Duration,
		DurationType:     measurements.DurationType,
		CreatedAt:        s.now().UTC(),
	})
}

// Get fetches an entry whose workout is owned by userID.
func (s *ExerciseContentService) Get(ctx context.Context, userID, contentID string) (*ExerciseContent, error) {
	return s.repo.GetExerciseContent(ctx, userID, contentID)
}

// ListByWorkout returns the entries of a workout owned by userID, with
// exercise titles resolved.
func (s *ExerciseContentService) ListByWorkout(ctx context.Context, userID, workoutID string) ([]ExerciseContent, error) {
	return s.repo.ListExerciseContentByWorkout(ctx, userID, workoutID)
}

// Update replaces the measurements of an entry. The exercise reference is immutable.
func (s *ExerciseContentService) Update(ctx context.Context, userID, contentID string, input ExerciseContentUpdate) (*ExerciseContent, error) {
	input.DurationType = strings.TrimSpace(input.DurationType)
	if err := input.validate(); err != nil {
		return nil, err
	}
	return s.repo.UpdateExerciseContent(ctx, userID, ExerciseContent{
		ID:           contentID,
		Reps:         input.Reps,
		Sets:         input.Sets,
		Weight:       input.Weight,
		Duration:     input.Duration,
		DurationType: input.DurationType,
	})
}

// Delete removes an entry whose workout is owned by userID and returns it.
func (s *ExerciseContentService) Delete(ctx context.Context, userID, contentID string) (*ExerciseContent, error) {
	return s.repo.DeleteExerciseContent(ctx, userID, contentID)
}
