package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"example.com/workoutlog/internal/auth"
	"example.com/workoutlog/internal/observability"
)

// UserRepository persists accounts. CreateUser returns ErrUserExists on a
// duplicate username or email; FindUserByUsername returns ErrUserNotFound.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) (*User, error)
	FindUserByUsername(ctx context.Context, username string) (*User, error)
}

// PasswordHasher hashes and checks credentials. Verify reports a mismatch as
// false and never errors.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenIssuer mints session tokens for a user id.
type TokenIssuer interface {
	Issue(userID string, scopes ...string) (string, time.Time, error)
}

// UserService handles signup and login.
type UserService struct {
	repo          UserRepository
	hasher        PasswordHasher
	issuer        TokenIssuer
	catalogAdmins map[string]struct{}
	now           func() time.Time
}

// UserOption customises a UserService.
type UserOption func(*UserService)

// WithCatalogAdmins grants auth.ScopeCatalogWrite to the named users at login.
func WithCatalogAdmins(usernames ...string) UserOption {
	return func(s *UserService) {
		for _, name := range usernames {
			if name = strings.TrimSpace(name); name != "" {
				s.catalogAdmins[name] = struct{}{}
			}
		}
	}
}

// NewUserService constructs a UserService.
func NewUserService(repo UserRepository, hasher PasswordHasher, issuer TokenIssuer, opts ...UserOption) *UserService {
	s := &UserService{
		repo:          repo,
		hasher:        hasher,
		issuer:        issuer,
		catalogAdmins: make(map[string]struct{}),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignupInput carries the signup form.
type SignupInput struct {
	Username    string
	PhoneNumber string
	Email       string
	Password    string
	Birthdate   string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      User
}

// Signup registers a new account and stores only the password digest.
func (s *UserService) Signup(ctx context.Context, input SignupInput) (*User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	switch {
	case username == "":
		return nil, invalid("username is required")
	case email == "":
		return nil, invalid("email is required")
	case input.Password == "":
		return nil, invalid("password is required")
	}

	var birthdate *time.Time
	if raw := strings.TrimSpace(input.Birthdate); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			return nil, invalid("birthdate must be formatted as YYYY-MM-DD")
		}
		birthdate = &parsed
	}

	digest, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, invalid("unable to create user: " + err.Error())
	}

	return s.repo.CreateUser(ctx, User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PhoneNumber:  strings.TrimSpace(input.PhoneNumber),
		Birthdate:    birthdate,
		PasswordHash: digest,
		CreatedAt:    s.now().UTC(),
	})
}

// Login checks credentials and issues a session token. Unknown users and wrong
// passwords both yield ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, invalid("username and password are required")
	}

	user, err := s.repo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	var scopes []string
	if _, ok := s.catalogAdmins[user.Username]; ok {
		scopes = append(scopes, auth.ScopeCatalogWrite)
	}
	token, expiresAt, err := s.issuer.Issue(user.ID, scopes...)
	if err != nil {
		return nil, err
	}
	observability.RecordTokenIssued()
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: *user}, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC().Truncate(24 * time.Hour), nil
}
