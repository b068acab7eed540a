package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"example.com/workoutlog/internal/domain"
	"example.com/workoutlog/internal/events"
	"example.com/workoutlog/internal/outbox"
	"example.com/workoutlog/internal/persistence"
)

const exerciseColumns = `id, title, sets, created_at`

const aggregateExercise = "exercise"

func scanExercise(row pgx.Row) (*domain.Exercise, error) {
	var e domain.Exercise
	if err := row.Scan(&e.ID, &e.Title, &e.Sets, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) recordExerciseUpserted(ctx context.Context, tx pgx.Tx, e *domain.Exercise) error {
	return s.recorder.Record(ctx, tx, outbox.Event{
		AggregateType: aggregateExercise,
		AggregateID:   e.ID,
		Type:          events.TypeExerciseUpserted,
		Payload: events.ExerciseUpserted{
			ExerciseID: e.ID,
			Title:      e.Title,
			Sets:       e.Sets,
			UpdatedAt:  s.now().UTC(),
		},
	})
}

// CreateExercise adds an entry to the shared catalog.
func (s *Store) CreateExercise(ctx context.Context, exercise domain.Exercise) (*domain.Exercise, error) {
	const stmt = `INSERT INTO exercises (id, title, sets, created_at) VALUES ($1,$2,$3,$4) RETURNING ` + exerciseColumns

	var created *domain.Exercise
	err := persistence.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		var err error
		created, err = scanExercise(tx.QueryRow(ctx, stmt, exercise.ID, exercise.Title, exercise.Sets, exercise.CreatedAt))
		if err != nil {
			return err
		}
		return s.recordExerciseUpserted(ctx, tx, created)
	})
	if err != nil {
		return nil, wrap(err, "exercise_insert")
	}
	return created, nil
}

// GetExercise returns domain.ErrExerciseNotFound when the catalog has no such entry.
func (s *Store) GetExercise(ctx context.Context, exerciseID string) (*domain.Exercise, error) {
	e, err := scanExercise(s.db.QueryRow(ctx, `SELECT `+exerciseColumns+` FROM exercises WHERE id = $1`, exerciseID))
	if err != nil {
		return nil, notFoundOr(err, domain.ErrExerciseNotFound, "exercise_get")
	}
	return e, nil
}

// ListExercises returns the catalog ordered by title.
func (s *Store) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	rows, err := s.db.Query(ctx, `SELECT `+exerciseColumns+` FROM exercises ORDER BY title, id`)
	if err != nil {
		return nil, wrap(err, "exercise_list")
	}
	defer rows.Close()

	out := make([]domain.Exercise, 0)
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, wrap(err, "exercise_list")
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(err, "exercise_list")
	}
	return out, nil
}

// UpdateExercise replaces title and sets of a catalog entry.
func (s *Store) UpdateExercise(ctx context.Context, exercise domain.Exercise) (*domain.Exercise, error) {
	const stmt = `UPDATE exercises SET title = $2, sets = $3 WHERE id = $1 RETURNING ` + exerciseColumns

	var updated *domain.Exercise
	err := persistence.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		var err error
		updated, err = scanExercise(tx.QueryRow(ctx, stmt, exercise.ID, exercise.Title, exercise.Sets))
		if err != nil {
			return notFoundOr(err, domain.ErrExerciseNotFound, "exercise_update")
		}
		return s.recordExerciseUpserted(ctx, tx, updated)
	})
	if err != nil {
		return nil, wrap(err, "exercise_update")
	}
	return updated, nil
}

// DeleteExercise removes a catalog entry and every exercise content row using it.
func (s *Store) DeleteExercise(ctx context.Context, exerciseID string) (*domain.Exercise, error) {
	const stmt = `DELETE FROM exercises WHERE id = $1 RETURNING ` + exerciseColumns

	var deleted *domain.Exercise
	err := persistence.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		var err error
		deleted, err = scanExercise(tx.QueryRow(ctx, stmt, exerciseID))
		if err != nil {
			return notFoundOr(err, domain.ErrExerciseNotFound, "exercise_delete")
		}
		return s.recorder.Record(ctx, tx, outbox.Event{
			AggregateType: aggregateExercise,
			AggregateID:   deleted.ID,
			Type:          events.TypeExerciseDeleted,
			Payload:       events.ExerciseDeleted{ExerciseID: deleted.ID, DeletedAt: s.now().UTC()},
		})
	})
	if err != nil {
		return nil, wrap(err, "exercise_delete")
	}
	return deleted, nil
}
