// Package apperr classifies gateway failures into the kinds the API reports
// and maps each kind to a user-facing message.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrDuplicate  = errors.New("unique constraint violated")
	ErrReferenced = errors.New("dependent records exist")
	ErrForbidden  = errors.New("permission denied")
	ErrUpstream   = errors.New("upstream call failed")
	ErrBackend    = errors.New("backend error")
)

// PostgreSQL SQLSTATE codes we care about.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInsufficientPriv    = "42501"
	pgInvalidText         = "22P02" // e.g. a malformed uuid in WHERE id = $1
)

// FromPG wraps a pgx error with the matching sentinel. Nil stays nil.
func FromPG(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w (%s): %v", ErrDuplicate, pgErr.ConstraintName, err)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w (%s): %v", ErrReferenced, pgErr.ConstraintName, err)
		case pgInsufficientPriv:
			return fmt.Errorf("%w: %v", ErrForbidden, err)
		case pgInvalidText:
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		}
	}
	return fmt.Errorf("%w: %v", ErrBackend, err)
}

// Validation builds a validation error with a caller-supplied message.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// AppError is the shape returned to API clients.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"error"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// From maps any error onto an AppError. Validation errors keep their detail
// so the client can show which field is wrong. An upstream failure wins over
// whatever the upstream itself reported.
func From(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	switch {
	case errors.Is(err, ErrUpstream):
		return &AppError{Code: "NOTIFICATION_FAILED", Message: "The send was recorded but the e-mail service could not be reached.", HTTPStatus: http.StatusBadGateway, Err: err}
	case errors.Is(err, ErrValidation):
		return &AppError{Code: "VALIDATION_ERROR", Message: err.Error(), HTTPStatus: http.StatusBadRequest, Err: err}
	case errors.Is(err, ErrNotFound):
		return &AppError{Code: "NOT_FOUND", Message: "The requested record does not exist.", HTTPStatus: http.StatusNotFound, Err: err}
	case errors.Is(err, ErrDuplicate):
		return &AppError{Code: "DUPLICATE_ORDER_NUMBER", Message: "Order number already exists. Retry with a new order.", HTTPStatus: http.StatusConflict, Err: err}
	case errors.Is(err, ErrReferenced):
		return &AppError{Code: "HAS_DEPENDENTS", Message: "Cannot delete: dependent records exist.", HTTPStatus: http.StatusConflict, Err: err}
	case errors.Is(err, ErrForbidden):
		return &AppError{Code: "PERMISSION_DENIED", Message: "You do not have permission for this operation. Contact the administrator.", HTTPStatus: http.StatusForbidden, Err: err}
	default:
		return &AppError{Code: "INTERNAL_ERROR", Message: "Something went wrong. Please retry.", HTTPStatus: http.StatusInternalServerError, Err: err}
	}
}
