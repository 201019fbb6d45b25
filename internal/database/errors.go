package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	// ErrConnection indicates the engine is unreachable or kept failing
	// transiently until the retry budget ran out.
	ErrConnection = errors.New("database connection failed")

	// ErrValidation indicates caller-supplied data violates a field constraint.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates the referenced identifier has no matching row.
	ErrNotFound = errors.New("record not found")

	// ErrConstraint indicates the engine rejected a write because of an
	// integrity constraint (unique index, foreign key, not null).
	ErrConstraint = errors.New("constraint violation")

	// ErrOperation covers every other engine-reported failure.
	ErrOperation = errors.New("database operation failed")
)

// ValidationError describes a single field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func notFound(table string, id uint) error {
	return fmt.Errorf("%w: %s with id %d", ErrNotFound, table, id)
}

// Kind returns a short label for the error category, used in logs and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConstraint):
		return "constraint"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.Is(err, ErrConnection):
		return "connection"
	default:
		return "error"
	}
}

// IsTransient reports whether err is likely to succeed when retried:
// dropped connections, busy or locked databases, serialization failures
// and deadlocks. Validation, not-found and constraint errors never are.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrConstraint) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "08"): // connection_exception
			return true
		case pgErr.Code == "40001", pgErr.Code == "40P01": // serialization_failure, deadlock_detected
			return true
		case pgErr.Code == "53300": // too_many_connections
			return true
		case pgErr.Code == "57P01", pgErr.Code == "57P02", pgErr.Code == "57P03": // shutdown, cannot_connect_now
			return true
		}
		return false
	}
	if pgconn.SafeToRetry(err) {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1040, 1205, 1213, 2006, 2013: // too many connections, lock wait timeout, deadlock, server gone away, lost connection
			return true
		}
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// IsConstraint reports whether err is an integrity constraint violation.
func IsConstraint(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrConstraint) ||
		errors.Is(err, gorm.ErrDuplicatedKey) ||
		errors.Is(err, gorm.ErrForeignKeyViolated) ||
		errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "23") // integrity_constraint_violation
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1048, 1062, 1451, 1452: // null, duplicate entry, row referenced, no parent
			return true
		}
	}
	return false
}

// classify maps a raw engine error onto the package error kinds. Errors that
// already carry a kind are returned unchanged.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrConstraint, ErrConnection, ErrOperation} {
		if errors.Is(err, kind) {
			return err
		}
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, op, err)
	case IsConstraint(err):
		return fmt.Errorf("%w: %s: %w", ErrConstraint, op, err)
	case IsTransient(err):
		return fmt.Errorf("%w: %s: %w", ErrConnection, op, err)
	default:
		return fmt.Errorf("%w: %s: %w", ErrOperation, op, err)
	}
}
