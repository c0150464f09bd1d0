package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Postgres error codes the booking and rating flows depend on. The
// overlap exclusion constraint raises 23P01; unique indexes raise 23505.
const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

// IsUniqueViolation reports whether err is a unique-constraint failure.
// The gorm postgres driver surfaces pgconn errors; database/sql paths
// through lib/pq surface pq errors, so both are checked.
func IsUniqueViolation(err error) bool {
	return hasPGCode(err, pgUniqueViolation)
}

// IsExclusionViolation reports whether err is an exclusion-constraint
// failure, raised when two jobs for one cleaner overlap in time.
func IsExclusionViolation(err error) bool {
	return hasPGCode(err, pgExclusionViolation)
}

// IsConflict reports whether err is either constraint class.
func IsConflict(err error) bool {
	return IsUniqueViolation(err) || IsExclusionViolation(err)
}

func hasPGCode(err error, code string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == code
	}

	return false
}
