package dbpkg

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// Setup sets up connection with database.
func Setup(driver, source string) (*sql.DB, error) {
	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

// Postgres error codes the repositories react to.
const (
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

// PQError unwraps *pq.Error from err.
func PQError(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr, true
	}

	return nil, false
}

// IsContention reports whether err is a lock or serialization conflict that can be retried.
func IsContention(err error) bool {
	pqErr, ok := PQError(err)
	if !ok {
		return false
	}

	switch pqErr.Code {
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return true
	}

	return false
}

// IsUniqueViolation reports whether err violates the named unique constraint.
func IsUniqueViolation(err error, constraint string) bool {
	pqErr, ok := PQError(err)
	return ok && pqErr.Code == codeUniqueViolation && pqErr.Constraint == constraint
}

// IsCheckViolation reports whether err violates the named check constraint.
func IsCheckViolation(err error, constraint string) bool {
	pqErr, ok := PQError(err)
	return ok && pqErr.Code == codeCheckViolation && pqErr.Constraint == constraint
}
