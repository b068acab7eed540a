package outbox

import "example.com/workoutlog/internal/events"

// SchemaCatalogEntry maps an event type to its JSON schema. Once marks
// events that occur at most one time per aggregate.
type SchemaCatalogEntry struct {
	Schema string
	Once   bool
}

var schemaCatalog = map[string]SchemaCatalogEntry{
	events.TypeWorkoutStarted:   {Schema: workoutStartedSchema, Once: true},
	events.TypeWorkoutEnded:     {Schema: workoutEndedSchema, Once: true},
	events.TypeWorkoutDeleted:   {Schema: workoutDeletedSchema, Once: true},
	events.TypeExerciseUpserted: {Schema: exerciseUpsertedSchema},
	events.TypeExerciseDeleted:  {Schema: exerciseDeletedSchema, Once: true},
}

const workoutStartedSchema = `{
  "type": "object",
  "title": "WorkoutStarted",
  "properties": {
    "workout_id": {"type": "string"},
    "user_id": {"type": "string"},
    "preset_id": {"type": "string"},
    "started_at": {"type": "string", "format": "date-time"},
    "exercise_count": {"type": "integer"}
  },
  "required": ["workout_id", "user_id", "started_at", "exercise_count"],
  "additionalProperties": false
}`

const workoutEndedSchema = `{
  "type": "object",
  "title": "WorkoutEnded",
  "properties": {
    "workout_id": {"type": "string"},
    "user_id": {"type": "string"},
    "started_at": {"type": "string", "format": "date-time"},
    "ended_at": {"type": "string", "format": "date-time"}
  },
  "required": ["workout_id", "user_id", "started_at", "ended_at"],
  "additionalProperties": false
}`

const workoutDeletedSchema = `{
  "type": "object",
  "title": "WorkoutDeleted",
  "properties": {
    "workout_id": {"type": "string"},
    "user_id": {"type": "string"},
    "deleted_at": {"type": "string", "format": "date-time"}
  },
  "required": ["workout_id", "user_id", "deleted_at"],
  "additionalProperties": false
}`

const exerciseUpsertedSchema = `{
  "type": "object",
  "title": "ExerciseUpserted",
  "properties": {
    "exercise_id": {"type": "string"},
    "title": {"type": "string"},
    "sets": {"type": "integer"},
    "updated_at": {"type": "string", "format": "date-time"}
  },
  "required": ["exercise_id", "title", "sets", "updated_at"],
  "additionalProperties": false
}`

const exerciseDeletedSchema = `{
  "type": "object",
  "title": "ExerciseDeleted",
  "properties": {
    "exercise_id": {"type": "string"},
    "deleted_at": {"type": "string", "format": "date-time"}
  },
  "required": ["exercise_id", "deleted_at"],
  "additionalProperties": false
}`
