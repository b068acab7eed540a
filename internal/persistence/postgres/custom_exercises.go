package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"example.com/workoutlog/internal/domain"
)

const customExerciseColumns = `id, user_id, title, sets, created_at`

func scanCustomExercise(row pgx.Row) (*domain.CustomExercise, error) {
	var e domain.CustomExercise
	if err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.Sets, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateCustomExercise inserts an exercise owned by exercise.UserID.
func (s *Store) CreateCustomExercise(ctx context.Context, exercise domain.CustomExercise) (*domain.CustomExercise, error) {
	const stmt = `INSERT INTO custom_exercises (id, user_id, title, sets, created_at) VALUES ($1,$2,$3,$4,$5) RETURNING ` + customExerciseColumns

	e, err := scanCustomExercise(s.db.QueryRow(ctx, stmt, exercise.ID, exercise.UserID, exercise.Title, exercise.Sets, exercise.CreatedAt))
	if err != nil {
		return nil, wrap(err, "custom_exercise_insert")
	}
	return e, nil
}

// GetCustomExercise returns ErrCustomExerciseNotFound unless userID owns the row.
func (s *Store) GetCustomExercise(ctx context.Context, userID, exerciseID string) (*domain.CustomExercise, error) {
	const query = `SELECT ` + customExerciseColumns + ` FROM custom_exercises WHERE id = $1 AND user_id = $2`

	e, err := scanCustomExercise(s.db.QueryRow(ctx, query, exerciseID, userID))
	if err != nil {
		return nil, notFoundOr(err, domain.ErrCustomExerciseNotFound, "custom_exercise_get")
	}
	return e, nil
}

// ListCustomExercises returns the user's exercises ordered by title then id.
func (s *Store) ListCustomExercises(ctx context.Context, userID string) ([]domain.CustomExercise, error) {
	const query = `SELECT ` + customExerciseColumns + ` FROM custom_exercises WHERE user_id = $1 ORDER BY title, id`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, wrap(err, "custom_exercise_list")
	}
	defer rows.Close()

	out := make([]domain.CustomExercise, 0)
	for rows.Next() {
		e, err := scanCustomExercise(rows)
		if err != nil {
			return nil, wrap(err, "custom_exercise_list")
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(err, "custom_exercise_list")
	}
	return out, nil
}

// UpdateCustomExercise rewrites title and sets in one owner-filtered statement.
func (s *Store) UpdateCustomExercise(ctx context.Context, exercise domain.CustomExercise) (*domain.CustomExercise, error) {
	const stmt = `UPDATE custom_exercises SET title = $3, sets = $4 WHERE id = $1 AND user_id = $2 RETURNING ` + customExerciseColumns

	e, err := scanCustomExercise(s.db.QueryRow(ctx, stmt, exercise.ID, exercise.UserID, exercise.Title, exercise.Sets))
	if err != nil {
		return nil, notFoundOr(err, domain.ErrCustomExerciseNotFound, "custom_exercise_update")
	}
	return e, nil
}

// DeleteCustomExercise removes the row and returns it. Content rows that
// reference it go with it by cascade.
func (s *Store) DeleteCustomExercise(ctx context.Context, userID, exerciseID string) (*domain.CustomExercise, error) {
	const stmt = `DELETE FROM custom_exercises WHERE id = $1 AND user_id = $2 RETURNING ` + customExerciseColumns

	e, err := scanCustomExercise(s.db.QueryRow(ctx, stmt, exerciseID, userID))
	if err != nil {
		return nil, notFoundOr(err, domain.ErrCustomExerciseNotFound, "custom_exercise_delete")
	}
	return e, nil
}
