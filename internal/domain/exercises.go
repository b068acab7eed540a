package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ExerciseRepository persists the shared default catalog. It is not scoped
// by user.
type ExerciseRepository interface {
	CreateExercise(ctx context.Context, exercise Exercise) (*Exercise, error)
	GetExercise(ctx context.Context, exerciseID string) (*Exercise, error)
	ListExercises(ctx context.Context) ([]Exercise, error)
	UpdateExercise(ctx context.Context, exercise Exercise) (*Exercise, error)
	DeleteExercise(ctx context.Context, exerciseID string) (*Exercise, error)
}

// CustomExerciseRepository persists user-defined exercises. Every method
// filters by userID.
type CustomExerciseRepository interface {
	CreateCustomExercise(ctx context.Context, exercise CustomExercise) (*CustomExercise, error)
	GetCustomExercise(ctx context.Context, userID, exerciseID string) (*CustomExercise, error)
	ListCustomExercises(ctx context.Context, userID string) ([]CustomExercise, error)
	UpdateCustomExercise(ctx context.Context, exercise CustomExercise) (*CustomExercise, error)
	DeleteCustomExercise(ctx context.Context, userID, exerciseID string) (*CustomExercise, error)
}

// ExerciseInput is the writable part of an exercise.
type ExerciseInput struct {
	Title string
	Sets  int
}

func (in ExerciseInput) validate() (string, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return "", invalid("title is required")
	}
	if in.Sets < 0 {
		return "", invalid("sets must not be negative")
	}
	return title, nil
}

// ExerciseService manages the default exercise catalog.
type ExerciseService struct {
	repo ExerciseRepository
	now  func() time.Time
}

// NewExerciseService constructs an ExerciseService.
func NewExerciseService(repo ExerciseRepository) *ExerciseService {
	return &ExerciseService{repo: repo, now: time.Now}
}

// Create adds a catalog exercise.
func (s *ExerciseService) Create(ctx context.Context, input ExerciseInput) (*Exercise, error) {
	title, err := input.validate()
	if err != nil {
		return nil, err
	}
	return s.repo.CreateExercise(ctx, Exercise{
		ID:        uuid.NewString(),
		Title:     title,
		Sets:      input.Sets,
		CreatedAt: s.now().UTC(),
	})
}

// Get fetches a catalog exercise by id.
func (s *ExerciseService) Get(ctx context.Context, exerciseID string) (*Exercise, error) {
	return s.repo.GetExercise(ctx, exerciseID)
}

// List returns the catalog ordered by title.
func (s *ExerciseService) List(ctx context.Context) ([]Exercise, error) {
	return s.repo.ListExercises(ctx)
}

// Update replaces the title and set count of a catalog exercise.
func (s *ExerciseService) Update(ctx context.Context, exerciseID string, input ExerciseInput) (*Exercise, error) {
	title, err := input.validate()
	if err != nil {
		return nil, err
	}
	return s.repo.UpdateExercise(ctx, Exercise{ID: exerciseID, Title: title, Sets: input.Sets})
}

// Delete removes a catalog exercise and returns it. Content rows that
// reference it are removed too.
func (s *ExerciseService) Delete(ctx context.Context, exerciseID string) (*Exercise, error) {
	return s.repo.DeleteExercise(ctx, exerciseID)
}

// CustomExerciseService manages exercises private to one user.
type CustomExerciseService struct {
	repo CustomExerciseRepository
	now  func() time.Time
}

// NewCustomExerciseService constructs a CustomExerciseService.
func NewCustomExerciseService(repo CustomExerciseRepository) *CustomExerciseService {
	return &CustomExerciseService{repo: repo, now: time.Now}
}

// Create adds an exercise owned by userID.
func (s *CustomExerciseService) Create(ctx context.Context, userID string, input ExerciseInput) (*CustomExercise, error) {
	title, err := input.validate()
	if err != nil {
		return nil, err
	}
	return s.repo.CreateCustomExercise(ctx, CustomExercise{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Sets:      input.Sets,
		CreatedAt: s.now().UTC(),
	})
}

// Get fetches a custom exercise owned by userID.
func (s *CustomExerciseService) Get(ctx context.Context, userID, exerciseID string) (*CustomExercise, error) {
	return s.repo.GetCustomExercise(ctx, userID, exerciseID)
}

// List returns userID's custom exercises ordered by title.
func (s *CustomExerciseService) List(ctx context.Context, userID string) ([]CustomExercise, error) {
	return s.repo.ListCustomExercises(ctx, userID)
}

// Update replaces the title and set count of a custom exercise owned by userID.
func (s *CustomExerciseService) Update(ctx context.Context, userID, exerciseID string, input ExerciseInput) (*CustomExercise, error) {
	title, err := input.validate()
	if err != nil {
		return nil, err
	}
	return s.repo.UpdateCustomExercise(ctx, CustomExercise{ID: exerciseID, UserID: userID, Title: title, Sets: input.Sets})
}

// Delete removes a custom exercise owned by userID and returns it.
func (s *CustomExerciseService) Delete(ctx context.Context, userID, exerciseID string) (*CustomExercise, error) {
	return s.repo.DeleteCustomExercise(ctx, userID, exerciseID)
}
