package events

import "time"

// ExerciseUpserted is emitted when a default catalog exercise is created or updated.
type ExerciseUpserted struct {
	ExerciseID string    `json:"exercise_id"`
	Title      string    `json:"title"`
	Sets       int       `json:"sets"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ExerciseDeleted is emitted when a default catalog exercise is removed.
type ExerciseDeleted struct {
	ExerciseID string    `json:"exercise_id"`
	DeletedAt  time.Time `json:"deleted_at"`
}
