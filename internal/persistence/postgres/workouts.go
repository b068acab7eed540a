package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"example.com/workoutlog/internal/domain"
	"example.com/workoutlog/internal/events"
	"example.com/workoutlog/internal/outbox"
	"example.com/workoutlog/internal/persistence"
)

const workoutColumns = `id, user_id, preset_id, started_at, ended_at, exercises, created_at`

const aggregateWorkout = "workout"

func scanWorkout(row pgx.Row) (*domain.Workout, error) {
	var (
		w         domain.Workout
		exercises []byte
	)
	if err := row.Scan(&w.ID, &w.UserID, &w.PresetID, &w.StartedAt, &w.EndedAt, &exercises, &w.CreatedAt); err != nil {
		return nil, err
	}
	if len(exercises) > 0 {
		if err := json.Unmarshal(exercises, &w.Exercises); err != nil {
			return nil, err
		}
	}
	return &w, nil
}

// CreateWorkout inserts the workout and its workout.started event. A preset
// reference must belong to the same user.
func (s *Store) CreateWorkout(ctx context.Context, workout domain.Workout) (*domain.Workout, error) {
	exercises := workout.Exercises
	if exercises == nil {
		exercises = []domain.WorkoutExercise{}
	}
	body, err := json.Marshal(exercises)
	if err != nil {
		return nil, wrap(err, "workout_encode")
	}

	const stmt = `INSERT INTO workouts (id, user_id, preset_id, started_at, exercises, created_at)
        SELECT $1::uuid, $2::uuid, $3::uuid, $4::timestamptz, $5::jsonb, $6::timestamptz
        WHERE $3::uuid IS NULL OR EXISTS (SELECT 1 FROM presets WHERE id = $3 AND user_id = $2)
        RETURNING ` + workoutColumns

	var created *domain.Workout
	err = persistence.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		var err error
		created, err = scanWorkout(tx.QueryRow(ctx, stmt, workout.ID, workout.UserID, workout.PresetID, workout.StartedAt, body, workout.CreatedAt))
		if err != nil {
			if missingRow(err) {
				return domain.ErrInvalidPresetReference
			}
			return err
		}
		return s.recorder.Record(ctx, tx, outbox.Event{
			AggregateType: aggregateWorkout,
			AggregateID:   created.ID,
			UserID:        created.UserID,
			Type:          events.TypeWorkoutStarted,
			Payload: events.WorkoutStarted{
				WorkoutID:     created.ID,
				UserID:        created.UserID,
				PresetID:      created.PresetID,
				StartedAt:     created.StartedAt,
				ExerciseCount: len(created.Exercises),
			},
		})
	})
	if err != nil {
		return nil, wrap(err, "workout_insert")
	}
	return created, nil
}

// EndWorkout sets ended_at on an in-progress workout owned by userID. An
// already ended workout yields domain.ErrWorkoutAlreadyEnded.
func (s *Store) EndWorkout(ctx context.Context, userID, workoutID string, endedAt time.Time) (*domain.Workout, error) {
	const stmt = `UPDATE workouts SET ended_at = $3
        WHERE id = $1 AND user_id = $2 AND ended_at IS NULL
        RETURNING ` + workoutColumns

	var ended *domain.Workout
	err := persistence.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		var err error
		ended, err = scanWorkout(tx.QueryRow(ctx, stmt, workoutID, userID, endedAt))
		if errors.Is(err, pgx.ErrNoRows) {
			var alreadyEnded bool
			probeErr := tx.QueryRow(ctx, `SELECT ended_at IS NOT NULL FROM workouts WHERE id = $1 AND user_id = $2`, workoutID, userID).Scan(&alreadyEnded)
			if probeErr != nil {
				return notFoundOr(probeErr, domain.ErrWorkoutNotFound, "workout_end")
			}
			if alreadyEnded {
				return domain.ErrWorkoutAlreadyEnded
			}
			return domain.ErrWorkoutNotFound
		}
		if err != nil {
			return notFoundOr(err, domain.ErrWorkoutNotFound, "workout_end")
		}
		return s.recorder.Record(ctx, tx, outbox.Event{
			AggregateType: aggregateWorkout,
			AggregateID:   ended.ID,
			UserID:        ended.UserID,
			Type:          events.TypeWorkoutEnded,
			Payload: events.WorkoutEnded{
				WorkoutID: ended.ID,
				UserID:    ended.UserID,
				StartedAt: ended.StartedAt,
				EndedAt:   endedAt,
			},
		})
	})
	if err != nil {
		return nil, wrap(err, "workout_end")
	}
	return ended, nil
}

// GetWorkout returns domain.ErrWorkoutNotFound unless userID owns the workout.
func (s *Store) GetWorkout(ctx context.Context, userID, workoutID string) (*domain.Workout, error) {
	const query = `SELECT ` + workoutColumns + ` FROM workouts WHERE id = $1 AND user_id = $2`

	w, err := scanWorkout(s.db.QueryRow(ctx, query, workoutID, userID))
	if err != nil {
		return nil, notFoundOr(err, domain.ErrWorkoutNotFound, "workout_get")
	}
	return w, nil
}

// ListWorkouts pages through the user's workouts ordered by started_at then
// id, both descending. The returned cursor is nil on the last page.
func (s *Store) ListWorkouts(ctx context.Context, userID string, cursor *domain.Cursor, limit int) ([]domain.Workout, *domain.Cursor, error) {
	// LIMIT NULL returns every row.
	var pageSize any
	if limit > 0 {
		pageSize = limit + 1
	}
	args := []any{userID, pageSize}
	query := `SELECT ` + workoutColumns + ` FROM workouts WHERE user_id = $1`
	if cursor != nil {
		query += ` AND (started_at, id) < ($3, $4)`
		args = append(args, cursor.StartedAt, cursor.ID)
	}
	query += ` ORDER BY started_at DESC, id DESC LIMIT $2`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, wrap(err, "workout_list")
	}
	defer rows.Close()

	results := make([]domain.Workout, 0, max(limit, 0))
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, nil, wrap(err, "workout_list")
		}
		results = append(results, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, wrap(err, "workout_list")
	}

	if limit <= 0 || len(results) <= limit {
		return results, nil, nil
	}
	results = results[:limit]
	last := results[limit-1]
	return results, &domain.Cursor{StartedAt: last.StartedAt, ID: last.ID}, nil
}

// DeleteWorkout removes the workout and returns it. Its exercise content is
// removed by cascade and presets pointing at it are unlinked.
func (s *Store) DeleteWorkout(ctx context.Context, userID, workoutID string) (*domain.Workout, error) {
	const stmt = `DELETE FROM workouts WHERE id = $1 AND user_id = $2 RETURNING ` + workoutColumns

	var deleted *domain.Workout
	err := persistence.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		var err error
		deleted, err = scanWorkout(tx.QueryRow(ctx, stmt, workoutID, userID))
		if err != nil {
			return notFoundOr(err, domain.ErrWorkoutNotFound, "workout_delete")
		}
		return s.recorder.Record(ctx, tx, outbox.Event{
			AggregateType: aggregateWorkout,
			AggregateID:   deleted.ID,
			UserID:        deleted.UserID,
			Type:          events.TypeWorkoutDeleted,
			Payload: events.WorkoutDeleted{
				WorkoutID: deleted.ID,
				UserID:    deleted.UserID,
				DeletedAt: s.now().UTC(),
			},
		})
	})
	if err != nil {
		return nil, wrap(err, "workout_delete")
	}
	return deleted, nil
}
