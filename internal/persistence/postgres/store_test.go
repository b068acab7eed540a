package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/samber/oops"
	"github.com/stretchr/testify/require"

	"example.com/workoutlog/internal/domain"
	"example.com/workoutlog/internal/outbox"
)

var (
	workoutRowColumns = []string{"id", "user_id", "preset_id", "started_at", "ended_at", "exercises", "created_at"}
	contentRowColumns = []string{"id", "workout_id", "exercise_id", "custom_exercise_id", "reps", "sets", "weight",
		"duration", "type_of_duration", "created_at", "exercise_title", "custom_exercise_title"}
)

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewStore(mock, outbox.NewRecorder("")), mock
}

func TestCreateUserMapsUniqueViolation(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), "alice", "alice@example.com", "", pgxmock.AnyArg(), "digest", pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	_, err := store.CreateUser(context.Background(), domain.User{
		ID:           "u-1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "digest",
		CreatedAt:    time.Now(),
	})
	require.ErrorIs(t, err, domain.ErrUserExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindUserByUsernameNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, username").
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err := store.FindUserByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWorkoutRecordsOutboxEvent(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO workouts").
		WithArgs("w-1", "u-1", (*string)(nil), now, pgxmock.AnyArg(), now).
		WillReturnRows(pgxmock.NewRows(workoutRowColumns).
			AddRow("w-1", "u-1", (*string)(nil), now, (*time.Time)(nil), []byte(`[{"title":"Squat","sets":3}]`), now))
	mock.ExpectExec("INSERT INTO outbox").
		WithArgs("workout", "w-1", pgxmock.AnyArg(), "workout.started", outbox.DefaultTopic,
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	created, err := store.CreateWorkout(context.Background(), domain.Workout{
		ID:        "w-1",
		UserID:    "u-1",
		StartedAt: now,
		Exercises: []domain.WorkoutExercise{{Title: "Squat", Sets: 3}},
		CreatedAt: now,
	})
	require.NoError(t, err)
	require.Equal(t, "w-1", created.ID)
	require.Len(t, created.Exercises, 1)
	require.Equal(t, "Squat", created.Exercises[0].Title)
	require.Nil(t, created.EndedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWorkoutRejectsForeignPreset(t *testing.T) {
	store, mock := newMockStore(t)
	preset := "p-other"

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO workouts").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), &preset, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := store.CreateWorkout(context.Background(), domain.Workout{ID: "w-1", UserID: "u-1", PresetID: &preset})
	require.ErrorIs(t, err, domain.ErrInvalidPresetReference)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEndWorkoutAlreadyEnded(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE workouts SET ended_at").
		WithArgs("w-1", "u-1", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(workoutRowColumns))
	mock.ExpectQuery("SELECT ended_at IS NOT NULL").
		WithArgs("w-1", "u-1").
		WillReturnRows(pgxmock.NewRows([]string{"ended"}).AddRow(true))
	mock.ExpectRollback()

	_, err := store.EndWorkout(context.Background(), "u-1", "w-1", time.Now())
	require.ErrorIs(t, err, domain.ErrWorkoutAlreadyEnded)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEndWorkoutOwnedByAnotherUser(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE workouts SET ended_at").
		WithArgs("w-1", "u-2", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(workoutRowColumns))
	mock.ExpectQuery("SELECT ended_at IS NOT NULL").
		WithArgs("w-1", "u-2").
		WillReturnRows(pgxmock.NewRows([]string{"ended"}))
	mock.ExpectRollback()

	_, err := store.EndWorkout(context.Background(), "u-2", "w-1", time.Now())
	require.ErrorIs(t, err, domain.ErrWorkoutNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetWorkoutWithMalformedIDIsNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, user_id").
		WithArgs("not-a-uuid", "u-1").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.InvalidTextRepresentation})

	_, err := store.GetWorkout(context.Background(), "u-1", "not-a-uuid")
	require.ErrorIs(t, err, domain.ErrWorkoutNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListWorkoutsReturnsCursorWhenMoreRows(t *testing.T) {
	store, mock := newMockStore(t)
	first := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	second := first.Add(-24 * time.Hour)

	mock.ExpectQuery("SELECT id, user_id").
		WithArgs("u-1", 2).
		WillReturnRows(pgxmock.NewRows(workoutRowColumns).
			AddRow("w-2", "u-1", (*string)(nil), first, (*time.Time)(nil), []byte(`[]`), first).
			AddRow("w-1", "u-1", (*string)(nil), second, (*time.Time)(nil), []byte(`[]`), second))

	workouts, next, err := store.ListWorkouts(context.Background(), "u-1", nil, 1)
	require.NoError(t, err)
	require.Len(t, workouts, 1)
	require.Equal(t, "w-2", workouts[0].ID)
	require.NotNil(t, next)
	require.Equal(t, "w-2", next.ID)
	require.True(t, next.StartedAt.Equal(first))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListWorkoutsLastPageHasNoCursor(t *testing.T) {
	store, mock := newMockStore(t)
	at := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	cursor := &domain.Cursor{StartedAt: at.Add(time.Hour), ID: "w-9"}

	mock.ExpectQuery("SELECT id, user_id").
		WithArgs("u-1", 21, cursor.StartedAt, cursor.ID).
		WillReturnRows(pgxmock.NewRows(workoutRowColumns).
			AddRow("w-1", "u-1", (*string)(nil), at, (*time.Time)(nil), []byte(`[]`), at))

	workouts, next, err := store.ListWorkouts(context.Background(), "u-1", cursor, 20)
	require.NoError(t, err)
	require.Len(t, workouts, 1)
	require.Nil(t, next)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListWorkoutsWithoutLimitReturnsEveryRow(t *testing.T) {
	store, mock := newMockStore(t)
	at := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, user_id").
		WithArgs("u-1", nil).
		WillReturnRows(pgxmock.NewRows(workoutRowColumns).
			AddRow("w-2", "u-1", (*string)(nil), at, (*time.Time)(nil), []byte(`[]`), at).
			AddRow("w-1", "u-1", (*string)(nil), at.Add(-time.Hour), (*time.Time)(nil), []byte(`[]`), at))

	workouts, next, err := store.ListWorkouts(context.Background(), "u-1", nil, 0)
	require.NoError(t, err)
	require.Len(t, workouts, 2)
	require.Nil(t, next)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePresetRejectsForeignWorkout(t *testing.T) {
	store, mock := newMockStore(t)
	workoutID := "w-other"

	mock.ExpectQuery("INSERT INTO presets").
		WithArgs("p-1", "u-1", "Leg day", &workoutID, pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	_, err := store.CreatePreset(context.Background(), domain.Preset{ID: "p-1", UserID: "u-1", Title: "Leg day", WorkoutID: &workoutID})
	require.ErrorIs(t, err, domain.ErrInvalidWorkoutReference)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteExerciseRecordsCatalogEvent(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("DELETE FROM exercises").
		WithArgs("e-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "sets", "created_at"}).AddRow("e-1", "Squat", 3, now))
	mock.ExpectExec("INSERT INTO outbox").
		WithArgs("exercise", "e-1", nil, "exercise.deleted", outbox.DefaultTopic,
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	deleted, err := store.DeleteExercise(context.Background(), "e-1")
	require.NoError(t, err)
	require.Equal(t, "Squat", deleted.Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateExerciseContentRequiresOwnedWorkout(t *testing.T) {
	store, mock := newMockStore(t)
	exerciseID := "e-1"

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM workouts").
		WithArgs("w-1", "u-2").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := store.CreateExerciseContent(context.Background(), "u-2", domain.ExerciseContent{
		ID:         "c-1",
		WorkoutID:  "w-1",
		ExerciseID: &exerciseID,
	})
	require.ErrorIs(t, err, domain.ErrWorkoutNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateExerciseContentRejectsForeignCustomExercise(t *testing.T) {
	store, mock := newMockStore(t)
	customID := "ce-other"

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM workouts").
		WithArgs("w-1", "u-1").
		WillReturnRows(pgxmock.NewRows([]string{"one"}).AddRow(1))
	mock.ExpectQuery("SELECT title FROM custom_exercises").
		WithArgs(customID, "u-1").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := store.CreateExerciseContent(context.Background(), "u-1", domain.ExerciseContent{
		ID:               "c-1",
		WorkoutID:        "w-1",
		CustomExerciseID: &customID,
	})
	require.ErrorIs(t, err, domain.ErrInvalidExerciseReference)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateExerciseContentResolvesTitle(t *testing.T) {
	store, mock := newMockStore(t)
	exerciseID := "e-1"
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM workouts").
		WithArgs("w-1", "u-1").
		WillReturnRows(pgxmock.NewRows([]string{"one"}).AddRow(1))
	mock.ExpectQuery("SELECT title FROM exercises").
		WithArgs(exerciseID).
		WillReturnRows(pgxmock.NewRows([]string{"title"}).AddRow("Squat"))
	mock.ExpectQuery("INSERT INTO exercise_content").
		WithArgs("c-1", "w-1", &exerciseID, (*string)(nil), 10, 3, 60.0, 0, "", now).
		WillReturnRows(pgxmock.NewRows(contentRowColumns).
			AddRow("c-1", "w-1", &exerciseID, (*string)(nil), 10, 3, 60.0, 0, "", now, "Squat", ""))
	mock.ExpectCommit()

	created, err := store.CreateExerciseContent(context.Background(), "u-1", domain.ExerciseContent{
		ID:         "c-1",
		WorkoutID:  "w-1",
		ExerciseID: &exerciseID,
		Reps:       10,
		Sets:       3,
		Weight:     60,
		CreatedAt:  now,
	})
	require.NoError(t, err)
	require.Equal(t, "Squat", created.ExerciseTitle)
	require.Empty(t, created.CustomExerciseTitle)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteExerciseContentOwnedByAnotherUser(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("DELETE FROM exercise_content").
		WithArgs("c-1", "u-2").
		WillReturnRows(pgxmock.NewRows(contentRowColumns))

	_, err := store.DeleteExerciseContent(context.Background(), "u-2", "c-1")
	require.ErrorIs(t, err, domain.ErrExerciseContentNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnexpectedErrorsCarryCode(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, user_id").
		WithArgs("p-1", "u-1").
		WillReturnError(errors.New("connection reset"))

	_, err := store.GetPreset(context.Background(), "u-1", "p-1")
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrPresetNotFound)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	require.Equal(t, "preset_get", oopsErr.Code())
	require.NoError(t, mock.ExpectationsWereMet())
}
