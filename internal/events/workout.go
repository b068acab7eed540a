// Package events defines the payloads recorded in the outbox and published to Kafka.
package events

import "time"

// Event types carried in the event_type header.
const (
	TypeWorkoutStarted   = "workout.started"
	TypeWorkoutEnded     = "workout.ended"
	TypeWorkoutDeleted   = "workout.deleted"
	TypeExerciseUpserted = "exercise.upserted"
	TypeExerciseDeleted  = "exercise.deleted"
)

// WorkoutStarted is emitted when a user starts a workout.
type WorkoutStarted struct {
	WorkoutID     string    `json:"workout_id"`
	UserID        string    `json:"user_id"`
	PresetID      *string   `json:"preset_id,omitempty"`
	StartedAt     time.Time `json:"started_at"`
	ExerciseCount int       `json:"exercise_count"`
}

// WorkoutEnded is emitted once per workout when it is finished.
type WorkoutEnded struct {
	WorkoutID string    `json:"workout_id"`
	UserID    string    `json:"user_id"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

// WorkoutDeleted is emitted when the owner removes a workout.
type WorkoutDeleted struct {
	WorkoutID string    `json:"workout_id"`
	UserID    string    `json:"user_id"`
	DeletedAt time.Time `json:"deleted_at"`
}
