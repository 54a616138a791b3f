package errors

import (
	stderrs "errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes we care about (subset)
const (
	// Class 23 - Integrity Constraint Violation
	SQLStateUniqueViolation     = "23505"
	SQLStateForeignKeyViolation = "23503"
	SQLStateNotNullViolation    = "23502"
	SQLStateCheckViolation      = "23514"

	// Class 40 - Transaction Rollback
	SQLStateSerializationFailure = "40001"
	SQLStateDeadlockDetected     = "40P01"

	// Class 53 - Insufficient Resources
	SQLStateTooManyConnections = "53300"

	// Class 57 - Operator Intervention
	SQLStateAdminShutdown = "57P01"
	SQLStateCrashShutdown = "57P02"
	SQLStateCannotConnect = "57P03"
)

// ExtractPgError pulls a *pgconn.PgError out of err, if present
func ExtractPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsSQLState reports whether err carries the given SQLSTATE
func IsSQLState(err error, code string) bool {
	if pgErr, ok := ExtractPgError(err); ok {
		return pgErr.Code == code
	}
	return false
}

// IsUniqueViolation reports a unique constraint violation
func IsUniqueViolation(err error) bool { return IsSQLState(err, SQLStateUniqueViolation) }

// IsForeignKeyViolation reports a foreign key violation
func IsForeignKeyViolation(err error) bool { return IsSQLState(err, SQLStateForeignKeyViolation) }

// IsSerializationFailure reports a serialization failure (retryable)
func IsSerializationFailure(err error) bool { return IsSQLState(err, SQLStateSerializationFailure) }

// IsDeadlock reports a detected deadlock (retryable)
func IsDeadlock(err error) bool { return IsSQLState(err, SQLStateDeadlockDetected) }

// IsTransientPg reports whether the database error is worth retrying
func IsTransientPg(err error) bool {
	if pgErr, ok := ExtractPgError(err); ok {
		switch pgErr.Code {
		case SQLStateSerializationFailure,
			SQLStateDeadlockDetected,
			SQLStateTooManyConnections,
			SQLStateAdminShutdown,
			SQLStateCrashShutdown,
			SQLStateCannotConnect:
			return true
		}
	}
	return false
}

// DBErrorCode maps a database error onto our ErrorCode taxonomy
func DBErrorCode(err error) ErrorCode {
	pgErr, ok := ExtractPgError(err)
	if !ok {
		return ErrorCodeDB
	}
	switch pgErr.Code {
	case SQLStateUniqueViolation:
		return ErrorCodeDuplicateKey
	case SQLStateForeignKeyViolation, SQLStateNotNullViolation, SQLStateCheckViolation:
		return ErrorCodeInvalidArgument
	case SQLStateSerializationFailure, SQLStateDeadlockDetected,
		SQLStateTooManyConnections, SQLStateAdminShutdown,
		SQLStateCrashShutdown, SQLStateCannotConnect:
		return ErrorCodeUnavailable
	default:
		return ErrorCodeDB
	}
}

// WrapDB wraps a database error with a mapped code and message
func WrapDB(err error, msg string) error {
	if err == nil {
		return nil
	}
	return Wrap(err, DBErrorCode(err), msg)
}
