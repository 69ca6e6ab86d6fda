package dbhelper

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/ray-remotestate/foodcourt/database"
)

const uniqueViolation = "23505"

// Store implements database.Store on top of Postgres.
type Store struct {
	DB *sql.DB
}

var _ database.Store = (*Store)(nil)

func New(db *sql.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) Close(context.Context) error {
	return s.DB.Close()
}

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// parseID rejects identifiers that are not UUIDs before they reach the
// database, which would otherwise fail with a syntax error.
func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, database.ErrNotFound
	}
	return parsed, nil
}

func translate(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return database.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return database.ErrDuplicate
	}
	return err
}
