package domain_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/workoutlog/internal/auth"
	"example.com/workoutlog/internal/domain"
	"example.com/workoutlog/internal/persistence/memory"
)

type stubIssuer struct {
	lastUser   string
	lastScopes []string
}

func (s *stubIssuer) Issue(userID string, scopes ...string) (string, time.Time, error) {
	s.lastUser = userID
	s.lastScopes = scopes
	return "token-" + userID, time.Date(2025, 1, 1, 1, 0, 0, 0, time.UTC), nil
}

func newUsers(t *testing.T, opts ...domain.UserOption) (*domain.UserService, *stubIssuer) {
	t.Helper()
	issuer := &stubIssuer{}
	return domain.NewUserService(memory.NewStore(), auth.NewHasher(4), issuer, opts...), issuer
}

func TestSignupStoresDigestNotPlaintext(t *testing.T) {
	users, _ := newUsers(t)
	ctx := context.Background()

	user, err := users.Signup(ctx, domain.SignupInput{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "pw1",
		Birthdate: "1990-05-17",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "pw1", user.PasswordHash)
	assert.True(t, auth.NewHasher(4).Verify("pw1", user.PasswordHash))
	require.NotNil(t, user.Birthdate)
	assert.Equal(t, "1990-05-17", user.Birthdate.Format(time.DateOnly))
}

func TestSignupValidation(t *testing.T) {
	users, _ := newUsers(t)
	ctx := context.Background()

	cases := map[string]domain.SignupInput{
		"missing username": {Email: "a@example.com", Password: "pw"},
		"missing email":    {Username: "a", Password: "pw"},
		"missing password": {Username: "a", Email: "a@example.com"},
		"bad birthdate":    {Username: "a", Email: "a@example.com", Password: "pw", Birthdate: "17/05/1990"},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := users.Signup(ctx, input)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestSignupDuplicate(t *testing.T) {
	users, _ := newUsers(t)
	ctx := context.Background()

	_, err := users.Signup(ctx, domain.SignupInput{Username: "alice", Email: "alice@example.com", Password: "pw1"})
	require.NoError(t, err)
	_, err = users.Signup(ctx, domain.SignupInput{Username: "alice", Email: "other@example.com", Password: "pw2"})
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestLogin(t *testing.T) {
	users, issuer := newUsers(t, domain.WithCatalogAdmins("coach"))
	ctx := context.Background()

	alice, err := users.Signup(ctx, domain.SignupInput{Username: "alice", Email: "alice@example.com", Password: "pw1"})
	require.NoError(t, err)
	_, err = users.Signup(ctx, domain.SignupInput{Username: "coach", Email: "coach@example.com", Password: "pw2"})
	require.NoError(t, err)

	result, err := users.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "token-"+alice.ID, result.Token)
	assert.Equal(t, alice.ID, result.User.ID)
	assert.Empty(t, issuer.lastScopes)

	_, err = users.Login(ctx, "coach", "pw2")
	require.NoError(t, err)
	assert.Equal(t, []string{auth.ScopeCatalogWrite}, issuer.lastScopes)

	_, err = users.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = users.Login(ctx, "nobody", "pw1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestWorkoutLifecycle(t *testing.T) {
	workouts := domain.NewWorkoutService(memory.NewStore())
	ctx := context.Background()

	started := time.Date(2025, 2, 1, 6, 0, 0, 0, time.UTC)
	w, err := workouts.Start(ctx, "user-a", domain.StartWorkoutInput{StartedAt: &started})
	require.NoError(t, err)
	assert.Equal(t, "user-a", w.UserID)
	assert.Nil(t, w.EndedAt)
	assert.True(t, started.Equal(w.StartedAt))

	_, err = workouts.Get(ctx, "user-b", w.ID)
	assert.ErrorIs(t, err, domain.ErrWorkoutNotFound)
	_, err = workouts.End(ctx, "user-b", w.ID, nil)
	assert.ErrorIs(t, err, domain.ErrWorkoutNotFound)

	ended, err := workouts.End(ctx, "user-a", w.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, ended.EndedAt)

	_, err = workouts.End(ctx, "user-a", w.ID, nil)
	assert.ErrorIs(t, err, domain.ErrWorkoutAlreadyEnded)

	_, err = workouts.Delete(ctx, "user-b", w.ID)
	assert.ErrorIs(t, err, domain.ErrWorkoutNotFound)
	deleted, err := workouts.Delete(ctx, "user-a", w.ID)
	require.NoError(t, err)
	assert.Equal(t, w.ID, deleted.ID)
	_, err = workouts.Get(ctx, "user-a", w.ID)
	assert.ErrorIs(t, err, domain.ErrWorkoutNotFound)
}

func TestWorkoutStartRejectsUntitledExercise(t *testing.T) {
	workouts := domain.NewWorkoutService(memory.NewStore())
	_, err := workouts.Start(context.Background(), "user-a", domain.StartWorkoutInput{
		Exercises: []domain.WorkoutExercise{{Title: "Squat"}, {Title: " "}},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestWorkoutEndRejectsTimeBeforeStart(t *testing.T) {
	workouts := domain.NewWorkoutService(memory.NewStore())
	ctx := context.Background()

	started := time.Date(2025, 2, 1, 6, 0, 0, 0, time.UTC)
	w, err := workouts.Start(ctx, "user-a", domain.StartWorkoutInput{StartedAt: &started})
	require.NoError(t, err)

	early := started.Add(-time.Minute)
	_, err = workouts.End(ctx, "user-a", w.ID, &early)
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := workouts.Get(ctx, "user-a", w.ID)
	require.NoError(t, err)
	assert.Nil(t, got.EndedAt)

	_, err = workouts.End(ctx, "user-b", w.ID, &early)
	assert.ErrorIs(t, err, domain.ErrWorkoutNotFound)

	later := started.Add(45 * time.Minute)
	ended, err := workouts.End(ctx, "user-a", w.ID, &later)
	require.NoError(t, err)
	assert.True(t, later.Equal(*ended.EndedAt))
}

func TestWorkoutListWithoutLimitReturnsAll(t *testing.T) {
	workouts := domain.NewWorkoutService(memory.NewStore())
	ctx := context.Background()
	base := time.Date(2025, 2, 1, 6, 0, 0, 0, time.UTC)

	for i := range 25 {
		at := base.Add(time.Duration(i) * time.Hour)
		_, err := workouts.Start(ctx, "user-a", domain.StartWorkoutInput{StartedAt: &at})
		require.NoError(t, err)
	}

	all, next, err := workouts.List(ctx, "user-a", nil, 0)
	require.NoError(t, err)
	assert.Len(t, all, 25)
	assert.Nil(t, next)
}

func TestWorkoutListOrderAndPaging(t *testing.T) {
	workouts := domain.NewWorkoutService(memory.NewStore())
	ctx := context.Background()
	base := time.Date(2025, 2, 1, 6, 0, 0, 0, time.UTC)

	for i := range 3 {
		at := base.Add(time.Duration(i) * time.Hour)
		_, err := workouts.Start(ctx, "user-a", domain.StartWorkoutInput{StartedAt: &at})
		require.NoError(t, err)
	}
	_, err := workouts.Start(ctx, "user-b", domain.StartWorkoutInput{})
	require.NoError(t, err)

	page, next, err := workouts.List(ctx, "user-a", nil, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.NotNil(t, next)
	assert.True(t, page[0].StartedAt.After(page[1].StartedAt))

	rest, next, err := workouts.List(ctx, "user-a", next, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Nil(t, next)
	assert.True(t, rest[0].StartedAt.Equal(base))
}

func TestPresetOwnership(t *testing.T) {
	store := memory.NewStore()
	presets := domain.NewPresetService(store)
	workouts := domain.NewWorkoutService(store)
	ctx := context.Background()

	w, err := workouts.Start(ctx, "user-a", domain.StartWorkoutInput{})
	require.NoError(t, err)

	_, err = presets.Create(ctx, "user-b", domain.PresetInput{Title: "Leg day", WorkoutID: &w.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidWorkoutReference)

	p, err := presets.Create(ctx, "user-a", domain.PresetInput{Title: "Leg day", WorkoutID: &w.ID})
	require.NoError(t, err)

	_, err = presets.Delete(ctx, "user-b", p.ID)
	assert.ErrorIs(t, err, domain.ErrPresetNotFound)
	_, err = presets.Get(ctx, "user-a", p.ID)
	require.NoError(t, err)

	deleted, err := presets.Delete(ctx, "user-a", p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, deleted.ID)

	_, err = presets.Create(ctx, "user-a", domain.PresetInput{Title: "  "})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExerciseValidation(t *testing.T) {
	exercises := domain.NewExerciseService(memory.NewStore())
	ctx := context.Background()

	_, err := exercises.Create(ctx, domain.ExerciseInput{Title: ""})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = exercises.Create(ctx, domain.ExerciseInput{Title: "Row", Sets: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	e, err := exercises.Create(ctx, domain.ExerciseInput{Title: " Row ", Sets: 3})
	require.NoError(t, err)
	assert.Equal(t, "Row", e.Title)

	updated, err := exercises.Update(ctx, e.ID, domain.ExerciseInput{Title: "Barbell Row", Sets: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Sets)

	_, err = exercises.Update(ctx, "missing", domain.ExerciseInput{Title: "x"})
	assert.ErrorIs(t, err, domain.ErrExerciseNotFound)
}

func TestExerciseContentReferences(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	workouts := domain.NewWorkoutService(store)
	exercises := domain.NewExerciseService(store)
	custom := domain.NewCustomExerciseService(store)
	contents := domain.NewExerciseContentService(store)

	w, err := workouts.Start(ctx, "user-a", domain.StartWorkoutInput{})
	require.NoError(t, err)
	squat, err := exercises.Create(ctx, domain.ExerciseInput{Title: "Squat", Sets: 5})
	require.NoError(t, err)
	mine, err := custom.Create(ctx, "user-a", domain.ExerciseInput{Title: "Sled push"})
	require.NoError(t, err)
	theirs, err := custom.Create(ctx, "user-b", domain.ExerciseInput{Title: "Secret"})
	require.NoError(t, err)

	t.Run("both references", func(t *testing.T) {
		_, err := contents.Create(ctx, "user-a", domain.ExerciseContentInput{WorkoutID: w.ID, ExerciseID: &squat.ID, CustomExerciseID: &mine.ID})
		assert.ErrorIs(t, err, domain.ErrInvalidExerciseReference)
	})
	t.Run("neither reference", func(t *testing.T) {
		blank := ""
		_, err := contents.Create(ctx, "user-a", domain.ExerciseContentInput{WorkoutID: w.ID, ExerciseID: &blank})
		assert.ErrorIs(t, err, domain.ErrInvalidExerciseReference)
	})
	t.Run("foreign custom exercise", func(t *testing.T) {
		_, err := contents.Create(ctx, "user-a", domain.ExerciseContentInput{WorkoutID: w.ID, CustomExerciseID: &theirs.ID})
		assert.ErrorIs(t, err, domain.ErrInvalidExerciseReference)
	})
	t.Run("foreign workout", func(t *testing.T) {
		_, err := contents.Create(ctx, "user-b", domain.ExerciseContentInput{WorkoutID: w.ID, CustomExerciseID: &theirs.ID})
		assert.ErrorIs(t, err, domain.ErrWorkoutNotFound)
	})

	list, err := contents.ListByWorkout(ctx, "user-a", w.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	c, err := contents.Create(ctx, "user-a", domain.ExerciseContentInput{WorkoutID: w.ID, ExerciseID: &squat.ID, Reps: 5, Sets: 5, Weight: 100, DurationType: "reps"})
	require.NoError(t, err)
	assert.Equal(t, "Squat", c.ExerciseTitle)

	_, err = contents.Get(ctx, "user-b", c.ID)
	assert.ErrorIs(t, err, domain.ErrExerciseContentNotFound)
	_, err = contents.ListByWorkout(ctx, "user-b", w.ID)
	assert.ErrorIs(t, err, domain.ErrWorkoutNotFound)

	updated, err := contents.Update(ctx, "user-a", c.ID, domain.ExerciseContentUpdate{Reps: 3, Sets: 5, Weight: 110})
	require.NoError(t, err)
	assert.Equal(t, 110.0, updated.Weight)

	_, err = contents.Delete(ctx, "user-b", c.ID)
	assert.ErrorIs(t, err, domain.ErrExerciseContentNotFound)
	_, err = contents.Delete(ctx, "user-a", c.ID)
	require.NoError(t, err)
}
