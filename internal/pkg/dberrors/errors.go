// Package dberrors inspects driver-level Postgres errors so repositories can
// translate them into domain sentinels.
package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolationCode is the Postgres error code for violating a unique
// constraint or index.
const uniqueViolationCode = "23505"

func asPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsDuplicateConstraintError reports whether err is a unique violation on the
// named constraint. Callers use it to map a specific index (a student number,
// an open-alert guard) to the matching domain error.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	pgErr, ok := asPgError(err)
	return ok && pgErr.Code == uniqueViolationCode && pgErr.ConstraintName == constraintName
}
