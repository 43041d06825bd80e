package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"math-quiz/internal/auth"
)

func (s *Store) CreateUser(ctx context.Context, user auth.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO users (user_id, email, password_hash, failed_logins, locked_until_unix, created_at_unix)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FailedLogins,
		unixNanoOrZero(user.LockedUntil),
		user.CreatedAt.UnixNano(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return auth.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (auth.User, error) {
	var (
		user            auth.User
		lockedUntilUnix int64
		createdAtUnix   int64
	)
	err := s.db.QueryRowContext(
		ctx,
		`SELECT user_id, email, password_hash, failed_logins, locked_until_unix, created_at_unix
		 FROM users WHERE email = $1`,
		email,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FailedLogins, &lockedUntilUnix, &createdAtUnix)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.User{}, auth.ErrUserNotFound
		}
		return auth.User{}, err
	}

	if lockedUntilUnix != 0 {
		user.LockedUntil = time.Unix(0, lockedUntilUnix).UTC()
	}
	user.CreatedAt = time.Unix(0, createdAtUnix).UTC()
	return user, nil
}

// RecordFailedLogin increments failed_logins inside a single UPDATE so
// concurrent failures cannot overwrite each other's count.
func (s *Store) RecordFailedLogin(ctx context.Context, userID string, maxFailures int, lockUntil time.Time) (bool, error) {
	var (
		failedLogins    int
		lockedUntilUnix int64
	)
	lockUntilUnix := unixNanoOrZero(lockUntil)
	err := s.db.QueryRowContext(
		ctx,
		`UPDATE users SET
		   failed_logins = CASE WHEN failed_logins + 1 >= $1 THEN 0 ELSE failed_logins + 1 END,
		   locked_until_unix = CASE WHEN failed_logins + 1 >= $2 THEN $3 ELSE locked_until_unix END
		 WHERE user_id = $4
		 RETURNING failed_logins, locked_until_unix`,
		maxFailures,
		maxFailures,
		lockUntilUnix,
		userID,
	).Scan(&failedLogins, &lockedUntilUnix)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, auth.ErrUserNotFound
		}
		return false, err
	}
	return failedLogins == 0 && lockedUntilUnix == lockUntilUnix, nil
}

func (s *Store) ResetLoginState(ctx context.Context, userID string) error {
	result, err := s.db.ExecContext(
		ctx,
		`UPDATE users SET failed_logins = 0, locked_until_unix = 0 WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return err
	}
	updated, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if updated == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

func unixNanoOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}
