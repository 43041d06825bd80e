package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"math-quiz/internal/db"
)

// Store persists quizzes and users in a SQL database. Queries use $n
// placeholders in order of first appearance so the same text runs on both
// sqlite3 and pgx.
type Store struct {
	db *sql.DB
}

func Open(ctx context.Context, driver db.Driver, dsn string) (*Store, error) {
	conn, err := db.Open(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}

	store, err := New(ctx, conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return store, nil
}

// New wraps an open connection and creates missing tables.
func New(ctx context.Context, conn *sql.DB) (*Store, error) {
	store := &Store{db: conn}
	if err := store.initSchema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
