package postgres

import (
	"errors"

	"applytrack/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// isPgNoRowsError checks if error is a "no rows" error
func isPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// isPgForeignKeyError checks if error is a foreign key violation
func isPgForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23503 = foreign_key_violation
		return pgErr.Code == "23503"
	}
	return false
}

// isPgInvalidTextError reports malformed input such as a non-UUID id (22P02).
// Such ids can never match a row, so callers treat them as not found.
func isPgInvalidTextError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "22P02"
	}
	return false
}

// storageError wraps a driver failure so handlers report it as a storage backend error.
func storageError(op string, err error) error {
	return domain.NewBackendError("storage", &opError{op: op, err: err})
}

type opError struct {
	op  string
	err error
}

func (e *opError) Error() string { return e.op + ": " + e.err.Error() }
func (e *opError) Unwrap() error { return e.err }
