package domain

import "time"

// User is an account holder. PasswordHash is never serialised to clients.
type User struct {
	ID           string
	Username     string
	Email        string
	PhoneNumber  string
	Birthdate    *time.Time
	PasswordHash string
	CreatedAt    time.Time
}

// WorkoutExercise is an entry of the inline exercise list recorded with a workout.
type WorkoutExercise struct {
	Title  string  `json:"title"`
	Sets   int     `json:"sets,omitempty"`
	Reps   int     `json:"reps,omitempty"`
	Weight float64 `json:"weight,omitempty"`
	Notes  string  `json:"notes,omitempty"`
}

// Workout is a training session owned by one user. A workout with a nil
// EndedAt is in progress; once ended it never returns to in progress.
type Workout struct {
	ID        string
	UserID    string
	PresetID  *string
	StartedAt time.Time
	EndedAt   *time.Time
	Exercises []WorkoutExercise
	CreatedAt time.Time
}

// Ended reports whether the workout has been finished.
func (w Workout) Ended() bool {
	return w.EndedAt != nil
}

// Exercise is an entry of the shared default catalog.
type Exercise struct {
	ID        string
	Title     string
	Sets      int
	CreatedAt time.Time
}

// CustomExercise is a user-defined exercise visible only to its owner.
type CustomExercise struct {
	ID        string
	UserID    string
	Title     string
	Sets      int
	CreatedAt time.Time
}

// ExerciseContent records one exercise performed within a workout. Exactly
// one of ExerciseID and CustomExerciseID is set. Ownership follows the workout.
type ExerciseContent struct {
	ID                  string
	WorkoutID           string
	ExerciseID          *string
	CustomExerciseID    *string
	Reps                int
	Sets                int
	Weight              float64
	Duration            int
	DurationType        string
	ExerciseTitle       string
	CustomExerciseTitle string
	CreatedAt           time.Time
}

// Preset is a named workout template, optionally pointing at a past workout.
type Preset struct {
	ID        string
	UserID    string
	Title     string
	WorkoutID *string
	CreatedAt time.Time
}

// Cursor models the workout list pagination token.
type Cursor struct {
	StartedAt time.Time
	ID        string
}
