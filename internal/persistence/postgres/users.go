package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"

	"example.com/workoutlog/internal/domain"
)

// CreateUser inserts an account. Duplicate usernames or emails yield domain.ErrUserExists.
func (s *Store) CreateUser(ctx context.Context, user domain.User) (*domain.User, error) {
	const stmt = `INSERT INTO users (id, username, email, phone_number, birthdate, password_hash, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`

	var birthdate *time.Time
	if user.Birthdate != nil {
		d := user.Birthdate.UTC()
		birthdate = &d
	}
	_, err := s.db.Exec(ctx, stmt, user.ID, user.Username, user.Email, user.PhoneNumber, birthdate, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if pgErrorCode(err) == pgerrcode.UniqueViolation {
			return nil, domain.ErrUserExists
		}
		return nil, wrap(err, "user_insert")
	}
	return &user, nil
}

// FindUserByUsername returns domain.ErrUserNotFound when no account matches.
func (s *Store) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `SELECT id, username, email, phone_number, birthdate, password_hash, created_at
        FROM users WHERE username = $1`

	var u domain.User
	err := s.db.QueryRow(ctx, query, username).Scan(&u.ID, &u.Username, &u.Email, &u.PhoneNumber, &u.Birthdate, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, wrap(err, "user_lookup")
	}
	return &u, nil
}
