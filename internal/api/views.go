package api

import (
	"time"

	"example.com/workoutlog/internal/domain"
)

const nextCursorHeader = "X-Next-Cursor"

// SignupRequest is the payload for POST /signup.
type SignupRequest struct {
	Username    string `json:"username"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Birthdate   string `json:"birthdate"`
}

// LoginRequest is the payload for POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserView is the public representation of an account. It never carries the
// password digest.
type UserView struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Birthdate   string    `json:"birthdate,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// SignupResponse is returned with 201 from POST /signup.
type SignupResponse struct {
	Message string   `json:"message"`
	User    UserView `json:"user"`
}

// LoginUser is the public identity echoed at login.
type LoginUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginResponse carries the session token and its expiry.
type LoginResponse struct {
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      LoginUser `json:"user"`
}

// StartWorkoutRequest is the optional payload for POST /workout.
type StartWorkoutRequest struct {
	StartedAt *time.Time               `json:"started_at"`
	PresetID  *string                  `json:"preset_id"`
	Exercises []domain.WorkoutExercise `json:"exercises"`
}

// EndWorkoutRequest is the optional payload for PUT /workout/{id}/end.
type EndWorkoutRequest struct {
	EndedAt *time.Time `json:"ended_at"`
}

// WorkoutView is the JSON shape of a workout.
type WorkoutView struct {
	ID        string                   `json:"id"`
	UserID    string                   `json:"user_id"`
	PresetID  *string                  `json:"preset_id"`
	StartedAt time.Time                `json:"started_at"`
	EndedAt   *time.Time               `json:"ended_at"`
	Exercises []domain.WorkoutExercise `json:"exercises"`
	CreatedAt time.Time                `json:"created_at"`
}

// PresetRequest is the payload for POST and PUT on /presets.
type PresetRequest struct {
	Title     string  `json:"title"`
	WorkoutID *string `json:"workout_id"`
}

func (r PresetRequest) input() domain.PresetInput {
	return domain.PresetInput{Title: r.Title, WorkoutID: r.WorkoutID}
}

// PresetView is the JSON shape of a preset.
type PresetView struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	WorkoutID *string   `json:"workout_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ExerciseRequest is shared by catalog and custom exercises.
type ExerciseRequest struct {
	Title string `json:"title"`
	Sets  int    `json:"sets"`
}

func (r ExerciseRequest) input() domain.ExerciseInput {
	return domain.ExerciseInput{Title: r.Title, Sets: r.Sets}
}

// ExerciseView is the JSON shape of a catalog exercise.
type ExerciseView struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Sets      int       `json:"sets"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomExerciseView is the JSON shape of a custom exercise.
type CustomExerciseView struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Sets      int       `json:"sets"`
	CreatedAt time.Time `json:"created_at"`
}

// ExerciseContentRequest is the payload for POST /exercise-content. Exactly one
// of the two exercise references must be set.
type ExerciseContentRequest struct {
	WorkoutID        string  `json:"workout_id"`
	ExerciseID       *string `json:"exercise_id"`
	CustomExerciseID *string `json:"custom_exercise_id"`
	Reps             int     `json:"reps"`
	Sets             int     `json:"sets"`
	Weight           float64 `json:"weight"`
	Duration         int     `json:"duration"`
	DurationType     string  `json:"type_of_duration"`
}

// ExerciseContentUpdateRequest carries the measurements PUT /exercise-content/{id}
// may change.
type ExerciseContentUpdateRequest struct {
	Reps         int     `json:"reps"`
	Sets         int     `json:"sets"`
	Weight       float64 `json:"weight"`
	Duration     int     `json:"duration"`
	DurationType string  `json:"type_of_duration"`
}

// ExerciseContentView is the JSON shape of an exercise content row, with the
// referenced exercise title resolved.
type ExerciseContentView struct {
	ID                  string    `json:"id"`
	WorkoutID           string    `json:"workout_id"`
	ExerciseID          *string   `json:"exercise_id"`
	CustomExerciseID    *string   `json:"custom_exercise_id"`
	Reps                int       `json:"reps"`
	Sets                int       `json:"sets"`
	Weight              float64   `json:"weight"`
	Duration            int       `json:"duration"`
	DurationType        string    `json:"type_of_duration"`
	ExerciseTitle       string    `json:"exercise_title,omitempty"`
	CustomExerciseTitle string    `json:"custom_exercise_title,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// DeletedResponse acknowledges a delete and echoes the removed row.
type DeletedResponse struct {
	Message string `json:"message"`
	Deleted any    `json:"deleted"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toUserView(u domain.User) UserView {
	view := UserView{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		CreatedAt:   u.CreatedAt,
	}
	if u.Birthdate != nil {
		view.Birthdate = u.Birthdate.Format(time.DateOnly)
	}
	return view
}

func toWorkoutView(w domain.Workout) WorkoutView {
	exercises := w.Exercises
	if exercises == nil {
		exercises = []domain.WorkoutExercise{}
	}
	return WorkoutView{
		ID:        w.ID,
		UserID:    w.UserID,
		PresetID:  w.PresetID,
		StartedAt: w.StartedAt,
		EndedAt:   w.EndedAt,
		Exercises: exercises,
		CreatedAt: w.CreatedAt,
	}
}

func toPresetView(p domain.Preset) PresetView {
	return PresetView{ID: p.ID, UserID: p.UserID, Title: p.Title, WorkoutID: p.WorkoutID, CreatedAt: p.CreatedAt}
}

func toExerciseView(e domain.Exercise) ExerciseView {
	return ExerciseView{ID: e.ID, Title: e.Title, Sets: e.Sets, CreatedAt: e.CreatedAt}
}

func toCustomExerciseView(e domain.CustomExercise) CustomExerciseView {
	return CustomExerciseView{ID: e.ID, UserID: e.UserID, Title: e.Title, Sets: e.Sets, CreatedAt: e.CreatedAt}
}

func toExerciseContentView(c domain.ExerciseContent) ExerciseContentView {
	return ExerciseContentView{
		ID:                  c.ID,
		WorkoutID:           c.WorkoutID,
		ExerciseID:          c.ExerciseID,
		CustomExerciseID:    c.CustomExerciseID,
		Reps:                c.Reps,
		Sets:                c.Sets,
		Weight:              c.Weight,
		Duration:            c.Duration,
		DurationType:        c.DurationType,
		ExerciseTitle:       c.ExerciseTitle,
		CustomExerciseTitle: c.CustomExerciseTitle,
		CreatedAt:           c.CreatedAt,
	}
}
