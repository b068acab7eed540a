package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"example.com/workoutlog/internal/domain"
	"example.com/workoutlog/internal/persistence"
)

// contentColumns selects exercise_content as ec joined to its exercise
// titles. The caller supplies the FROM clause.
const contentColumns = `ec.id, ec.workout_id, ec.exercise_id, ec.custom_exercise_id, ec.reps, ec.sets, ec.weight,
        ec.duration, ec.type_of_duration, ec.created_at,
        COALESCE(e.title, ''), COALESCE(ce.title, '')`

const contentJoins = ` JOIN workouts w ON w.id = ec.workout_id
        LEFT JOIN exercises e ON e.id = ec.exercise_id
        LEFT JOIN custom_exercises ce ON ce.id = ec.custom_exercise_id`

// contentReturning is used by statements that cannot join, resolving titles
// with subselects instead.
const contentReturning = `ec.id, ec.workout_id, ec.exercise_id, ec.custom_exercise_id, ec.reps, ec.sets, ec.weight,
        ec.duration, ec.type_of_duration, ec.created_at,
        COALESCE((SELECT title FROM exercises WHERE id = ec.exercise_id), ''),
        COALESCE((SELECT title FROM custom_exercises WHERE id = ec.custom_exercise_id), '')`

func scanContent(row pgx.Row) (*domain.ExerciseContent, error) {
	var c domain.ExerciseContent
	err := row.Scan(&c.ID, &c.WorkoutID, &c.ExerciseID, &c.CustomExerciseID, &c.Reps, &c.Sets, &c.Weight,
		&c.Duration, &c.DurationType, &c.CreatedAt, &c.ExerciseTitle, &c.CustomExerciseTitle)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// lockOwnedWorkout takes a share lock on a workout owned by userID so it
// cannot be deleted while content is attached.
func lockOwnedWorkout(ctx context.Context, tx pgx.Tx, userID, workoutID string) error {
	var one int
	err := tx.QueryRow(ctx, `SELECT 1 FROM workouts WHERE id = $1 AND user_id = $2 FOR SHARE`, workoutID, userID).Scan(&one)
	if err != nil {
		return notFoundOr(err, domain.ErrWorkoutNotFound, "exercise_content_workout")
	}
	return nil
}

// CreateExerciseContent attaches an entry to a workout owned by userID. The
// workout and the referenced exercise are locked until the insert commits.
func (s *Store) CreateExerciseContent(ctx context.Context, userID string, content domain.ExerciseContent) (*domain.ExerciseContent, error) {
	const insert = `INSERT INTO exercise_content AS ec
        (id, workout_id, exercise_id, custom_exercise_id, reps, sets, weight, duration, type_of_duration, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING ` + contentReturning

	var created *domain.ExerciseContent
	err := persistence.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		if err := lockOwnedWorkout(ctx, tx, userID, content.WorkoutID); err != nil {
			return err
		}

		var title string
		var err error
		switch {
		case content.ExerciseID != nil:
			err = tx.QueryRow(ctx, `SELECT title FROM exercises WHERE id = $1 FOR SHARE`, *content.ExerciseID).Scan(&title)
		case content.CustomExerciseID != nil:
			err = tx.QueryRow(ctx, `SELECT title FROM custom_exercises WHERE id = $1 AND user_id = $2 FOR SHARE`,
				*content.CustomExerciseID, userID).Scan(&title)
		default:
			return domain.ErrInvalidExerciseReference
		}
		if err != nil {
			if missingRow(err) {
				return domain.ErrInvalidExerciseReference
			}
			return err
		}

		created, err = scanContent(tx.QueryRow(ctx, insert,
			content.ID, content.WorkoutID, content.ExerciseID, content.CustomExerciseID,
			content.Reps, content.Sets, content.Weight, content.Duration, content.DurationType, content.CreatedAt))
		return err
	})
	if err != nil {
		return nil, wrap(err, "exercise_content_insert")
	}
	return created, nil
}

// GetExerciseContent returns domain.ErrExerciseContentNotFound unless the
// entry's workout is owned by userID.
func (s *Store) GetExerciseContent(ctx context.Context, userID, contentID string) (*domain.ExerciseContent, error) {
	const query = `SELECT ` + contentColumns + ` FROM exercise_content ec` + contentJoins + `
        WHERE ec.id = $1 AND w.user_id = $2`

	c, err := scanContent(s.db.QueryRow(ctx, query, contentID, userID))
	if err != nil {
		return nil, notFoundOr(err, domain.ErrExerciseContentNotFound, "exercise_content_get")
	}
	return c, nil
}

// ListExerciseContentByWorkout returns the entries of a workout in insertion
// order. An unknown or foreign workout yields domain.ErrWorkoutNotFound.
func (s *Store) ListExerciseContentByWorkout(ctx context.Context, userID, workoutID string) ([]domain.ExerciseContent, error) {
	var one int
	if err := s.db.QueryRow(ctx, `SELECT 1 FROM workouts WHERE id = $1 AND user_id = $2`, workoutID, userID).Scan(&one); err != nil {
		return nil, notFoundOr(err, domain.ErrWorkoutNotFound, "exercise_content_list")
	}

	const query = `SELECT ` + contentColumns + ` FROM exercise_content ec` + contentJoins + `
        WHERE ec.workout_id = $1 AND w.user_id = $2
        ORDER BY ec.created_at, ec.id`

	rows, err := s.db.Query(ctx, query, workoutID, userID)
	if err != nil {
		return nil, wrap(err, "exercise_content_list")
	}
	defer rows.Close()

	out := make([]domain.ExerciseContent, 0)
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, wrap(err, "exercise_content_list")
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(err, "exercise_content_list")
	}
	return out, nil
}

// UpdateExerciseContent replaces the measurements of an entry whose workout
// is owned by userID.
func (s *Store) UpdateExerciseContent(ctx context.Context, userID string, content domain.ExerciseContent) (*domain.ExerciseContent, error) {
	const stmt = `UPDATE exercise_content AS ec
        SET reps = $3, sets = $4, weight = $5, duration = $6, type_of_duration = $7
        FROM workouts w
        WHERE ec.id = $1 AND w.id = ec.workout_id AND w.user_id = $2
        RETURNING ` + contentReturning

	c, err := scanContent(s.db.QueryRow(ctx, stmt, content.ID, userID,
		content.Reps, content.Sets, content.Weight, content.Duration, content.DurationType))
	if err != nil {
		return nil, notFoundOr(err, domain.ErrExerciseContentNotFound, "exercise_content_update")
	}
	return c, nil
}

// DeleteExerciseContent removes an entry whose workout is owned by userID.
func (s *Store) DeleteExerciseContent(ctx context.Context, userID, contentID string) (*domain.ExerciseContent, error) {
	const stmt = `DELETE FROM exercise_content AS ec
        USING workouts w
        WHERE ec.id = $1 AND w.id = ec.workout_id AND w.user_id = $2
        RETURNING ` + contentReturning

	c, err := scanContent(s.db.QueryRow(ctx, stmt, contentID, userID))
	if err != nil {
		return nil, notFoundOr(err, domain.ErrExerciseContentNotFound, "exercise_content_delete")
	}
	return c, nil
}
