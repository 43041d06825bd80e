package sqlstore

import (
	"context"
)

func (s *Store) initSchema(ctx context.Context) error {
	// Timestamps are unix nanoseconds so both drivers agree on BIGINT.
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			failed_logins INTEGER NOT NULL DEFAULT 0,
			locked_until_unix BIGINT NOT NULL DEFAULT 0,
			created_at_unix BIGINT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS quizzes (
			quiz_id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			questions_json TEXT NOT NULL,
			answers_json TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at_unix BIGINT NOT NULL,
			version BIGINT NOT NULL DEFAULT 1
		);`,
		`CREATE INDEX IF NOT EXISTS idx_quizzes_owner_created_at ON quizzes(owner_id, created_at_unix);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
