package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes mapped by the repositories.
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeCheckViolation      = "23514"
)

// PgErrorCode returns the SQLSTATE and constraint name of err, if it is a Postgres error.
func PgErrorCode(err error) (code, constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", "", false
	}
	return pgErr.Code, pgErr.ConstraintName, true
}

func IsUniqueViolation(err error) bool {
	code, _, ok := PgErrorCode(err)
	return ok && code == CodeUniqueViolation
}

func IsForeignKeyViolation(err error) bool {
	code, _, ok := PgErrorCode(err)
	return ok && code == CodeForeignKeyViolation
}
