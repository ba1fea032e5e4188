// Package dbx provides tiny database/sql helpers shared by the PostgreSQL
// repositories: the DBTX handle interface and driver error classification.
package dbx

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of database/sql used by our repos.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const (
	codeUniqueViolation      = "23505"
	codeInvalidTextRepresent = "22P02"
)

// IsUniqueViolation reports whether err carries PostgreSQL error 23505.
func IsUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// IsInvalidInput reports whether PostgreSQL rejected a parameter's text form,
// e.g. a malformed UUID.
func IsInvalidInput(err error) bool {
	return hasCode(err, codeInvalidTextRepresent)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
