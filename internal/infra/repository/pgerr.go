package repository

import (
	"errors"

	"clinic-scheduler/internal/infra"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes that map onto repository error kinds.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgExclusionViolation  = "23P01"
)

func kindFromPgErr(err error) infra.RepositoryErrorKind {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return infra.KindDBFailure
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return infra.KindDuplicateKey
	case pgForeignKeyViolation:
		return infra.KindForeignKeyViolated
	case pgExclusionViolation:
		return infra.KindConflict
	}
	return infra.KindDBFailure
}
