// Package postgres implements the domain repositories on PostgreSQL. Every
// owned row is read and written through a statement filtered by user id.
package postgres

import (
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"example.com/workoutlog/internal/domain"
	"example.com/workoutlog/internal/outbox"
	"example.com/workoutlog/internal/persistence"
)

// Store implements every domain repository interface.
type Store struct {
	db       persistence.DB
	recorder *outbox.Recorder
	now      func() time.Time
}

// NewStore constructs a Store. Domain events are recorded through recorder
// in the same transaction as the change.
func NewStore(db persistence.DB, recorder *outbox.Recorder) *Store {
	if recorder == nil {
		recorder = outbox.NewRecorder("")
	}
	return &Store{db: db, recorder: recorder, now: time.Now}
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// notFoundOr maps a missing row, or an id that is not a valid uuid, to
// sentinel. Other errors are wrapped with code.
func notFoundOr(err error, sentinel error, code string) error {
	if missingRow(err) {
		return sentinel
	}
	return wrap(err, code)
}

func missingRow(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || pgErrorCode(err) == pgerrcode.InvalidTextRepresentation
}

// passthrough lists the domain errors returned from inside transactions.
var passthrough = []error{
	domain.ErrValidation,
	domain.ErrUserExists,
	domain.ErrWorkoutNotFound,
	domain.ErrWorkoutAlreadyEnded,
	domain.ErrPresetNotFound,
	domain.ErrExerciseNotFound,
	domain.ErrCustomExerciseNotFound,
	domain.ErrExerciseContentNotFound,
	domain.ErrInvalidExerciseReference,
	domain.ErrInvalidWorkoutReference,
	domain.ErrInvalidPresetReference,
}

// wrap tags unexpected errors with an oops code. Domain errors pass through
// unchanged.
func wrap(err error, code string) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range passthrough {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return oops.Code(code).In("postgres").Wrap(err)
}
