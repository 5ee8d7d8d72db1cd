package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL error classes used for categorisation.
const (
	pgClassIntegrityViolation = "23"
	pgClassConnectionError    = "08"
	pgCodeForeignKeyViolation = "23503"
	pgCodeUniqueViolation     = "23505"
	pgCodeSerializationError  = "40001"
	pgCodeDeadlockDetected    = "40P01"
	pgCodeQueryCanceled       = "57014"
)

// Error implements repositories.RepositoryError for Postgres backed repositories.
type Error struct {
	op          string
	err         error
	notFound    bool
	conflict    bool
	unavailable bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.op != "" {
		return fmt.Sprintf("%s: %v", e.op, e.err)
	}
	return e.err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// IsNotFound reports whether the error represents a missing row.
func (e *Error) IsNotFound() bool {
	return e != nil && e.notFound
}

// IsConflict reports whether the error represents a conflicting write.
func (e *Error) IsConflict() bool {
	return e != nil && e.conflict
}

// IsUnavailable reports whether the error represents a transient backend outage.
func (e *Error) IsUnavailable() bool {
	return e != nil && e.unavailable
}

func newError(op string, err error) *Error {
	if err == nil {
		return nil
	}

	e := &Error{op: op, err: err}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		e.notFound = true
	case errors.Is(err, gorm.ErrDuplicatedKey):
		e.conflict = true
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		// A write referenced a row that does not exist.
		e.notFound = true
	default:
		categorisePgError(e, err)
	}
	return e
}

func categorisePgError(e *Error, err error) {
	var netErr net.Error
	if errors.As(err, &netErr) {
		e.unavailable = true
		return
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return
	}

	switch pgErr.Code {
	case pgCodeForeignKeyViolation:
		e.notFound = true
	case pgCodeUniqueViolation:
		e.conflict = true
	case pgCodeSerializationError, pgCodeDeadlockDetected:
		e.conflict = true
	case pgCodeQueryCanceled:
		e.unavailable = true
	default:
		switch {
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == pgClassConnectionError:
			e.unavailable = true
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == pgClassIntegrityViolation:
			e.conflict = true
		}
	}
}

// WrapError annotates database errors with repository semantics. Context
// cancellations are passed through untouched.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var repoErr *Error
	if errors.As(err, &repoErr) {
		if op != "" && repoErr.op == "" {
			repoErr.op = op
		}
		return repoErr
	}
	return newError(op, err)
}
