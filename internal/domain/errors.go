package domain

import "errors"

var (
	// ErrValidation marks input that failed presence or shape checks.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials is returned for an unknown username or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserExists is returned when the username or email is already registered.
	ErrUserExists = errors.New("username or email already exists")
	// ErrUserNotFound is returned by repositories when no user matches.
	ErrUserNotFound = errors.New("user not found")

	// ErrWorkoutNotFound is returned when no workout matches the id for the requesting user.
	ErrWorkoutNotFound = errors.New("workout not found")
	// ErrWorkoutAlreadyEnded is returned when ending a workout that already ended.
	ErrWorkoutAlreadyEnded = errors.New("workout already ended")
	// ErrPresetNotFound is returned when no preset matches the id for the requesting user.
	ErrPresetNotFound = errors.New("preset not found")
	// ErrExerciseNotFound is returned when no catalog exercise matches the id.
	ErrExerciseNotFound = errors.New("exercise not found")
	// ErrCustomExerciseNotFound is returned when no custom exercise matches the id for the requesting user.
	ErrCustomExerciseNotFound = errors.New("custom exercise not found")
	// ErrExerciseContentNotFound is returned when no exercise content matches the id for the requesting user.
	ErrExerciseContentNotFound = errors.New("exercise content not found")

	// ErrInvalidExerciseReference is returned when exercise content does not point at exactly one usable exercise.
	ErrInvalidExerciseReference = errors.New("either exercise_id or custom_exercise_id must be provided, but not both")
	// ErrInvalidWorkoutReference is returned when a preset points at a workout the user does not own.
	ErrInvalidWorkoutReference = errors.New("invalid workout reference")
	// ErrInvalidPresetReference is returned when a workout points at a preset the user does not own.
	ErrInvalidPresetReference = errors.New("invalid preset reference")
)

// ValidationError describes a failed presence check. It matches ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrValidation) succeed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}
