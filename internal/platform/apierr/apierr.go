package apierr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	CodeValidation         = "validation"
	CodeUnauthorized       = "unauthorized"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeConflict           = "conflict"
	CodePreconditionFailed = "precondition_failed"
	CodeRetryable          = "retryable"
	CodeInternal           = "internal"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Validation(format string, args ...any) *Error {
	return New(http.StatusBadRequest, CodeValidation, fmt.Errorf(format, args...))
}

func Unauthorized(format string, args ...any) *Error {
	return New(http.StatusUnauthorized, CodeUnauthorized, fmt.Errorf(format, args...))
}

func Forbidden(format string, args ...any) *Error {
	return New(http.StatusForbidden, CodeForbidden, fmt.Errorf(format, args...))
}

func NotFound(format string, args ...any) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf(format, args...))
}

func Conflict(format string, args ...any) *Error {
	return New(http.StatusConflict, CodeConflict, fmt.Errorf(format, args...))
}

func PreconditionFailed(format string, args ...any) *Error {
	return New(http.StatusPreconditionFailed, CodePreconditionFailed, fmt.Errorf(format, args...))
}

// IsCode reports whether err carries an *Error with the given code.
func IsCode(err error, code string) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// CodeOf returns the code carried by err, or CodeInternal.
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Code != "" {
		return ae.Code
	}
	return CodeInternal
}

// Map translates store and context failures into an *Error. Errors that
// already carry a code keep it, with op prepended to the message.
func Map(op string, err error) error {
	if err == nil {
		return nil
	}
	wrap := func(status int, code string) error {
		if op == "" {
			return New(status, code, err)
		}
		return New(status, code, fmt.Errorf("%s: %w", op, err))
	}

	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return wrap(http.StatusNotFound, CodeNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return wrap(http.StatusConflict, CodeConflict)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return wrap(http.StatusPreconditionFailed, CodePreconditionFailed)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return wrap(http.StatusServiceUnavailable, CodeRetryable)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return wrap(http.StatusConflict, CodeConflict) // unique_violation
		case "23503":
			return wrap(http.StatusPreconditionFailed, CodePreconditionFailed) // foreign_key_violation
		case "40001", "40P01", "55P03":
			return wrap(http.StatusServiceUnavailable, CodeRetryable)
		}
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "duplicate key"),
		strings.Contains(msg, "unique constraint failed"):
		return wrap(http.StatusConflict, CodeConflict)
	case strings.Contains(msg, "foreign key constraint failed"):
		return wrap(http.StatusPreconditionFailed, CodePreconditionFailed)
	case strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "database is locked"):
		return wrap(http.StatusServiceUnavailable, CodeRetryable)
	default:
		return wrap(http.StatusInternalServerError, CodeInternal)
	}
}
