// Package apperrors defines the typed errors returned by services and controllers.
// Handlers translate them into HTTP responses; anything else is treated as internal.
package apperrors

import (
	"net/http"

	"github.com/pkg/errors"
)

type AppError struct {
	httpCode int
	code     string
	message  string
}

func New(httpCode int, code, message string) *AppError {
	return &AppError{
		httpCode: httpCode,
		code:     code,
		message:  message,
	}
}

func (e *AppError) Error() string {
	return e.message
}

func (e *AppError) HTTPCode() int {
	return e.httpCode
}

func (e *AppError) Code() string {
	return e.code
}

func (e *AppError) Message() string {
	return e.message
}

// Is matches on the error code so errors rebuilt with WithMessage still compare equal
// to their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.code == e.code
}

// WithMessage returns a copy carrying a more specific message.
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{
		httpCode: e.httpCode,
		code:     e.code,
		message:  message,
	}
}

// Wrap annotates the error with context while keeping it matchable via errors.Is.
func (e *AppError) Wrap(message string) error {
	return errors.Wrap(e, message)
}

// As extracts the AppError from a (possibly wrapped) error chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func Is(err error, target *AppError) bool {
	return errors.Is(err, target)
}

func Validation(message string) *AppError {
	return ErrValidation.WithMessage(message)
}

var (
	ErrValidation   = New(http.StatusBadRequest, "VALIDATION_ERROR", "invalid request")
	ErrUnauthorized = New(http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
	ErrForbidden    = New(http.StatusForbidden, "FORBIDDEN", "access to this resource is not allowed")

	ErrInvalidCredentials = New(http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
	ErrInvalidToken       = New(http.StatusUnauthorized, "INVALID_TOKEN", "invalid or expired token")
	ErrEmailTaken         = New(http.StatusConflict, "EMAIL_TAKEN", "email is already registered")
	ErrLicensePlateTaken  = New(http.StatusConflict, "LICENSE_PLATE_TAKEN", "license plate already registered")

	ErrUserNotFound        = New(http.StatusNotFound, "USER_NOT_FOUND", "user not found")
	ErrVehicleNotFound     = New(http.StatusNotFound, "VEHICLE_NOT_FOUND", "vehicle not found")
	ErrMaintenanceNotFound = New(http.StatusNotFound, "MAINTENANCE_NOT_FOUND", "maintenance not found")
	ErrExpenseNotFound     = New(http.StatusNotFound, "EXPENSE_NOT_FOUND", "expense not found")
	ErrReminderNotFound    = New(http.StatusNotFound, "REMINDER_NOT_FOUND", "reminder not found")
	ErrJobNotFound         = New(http.StatusNotFound, "JOB_NOT_FOUND", "job not found")

	ErrUnknownReminderTemplate = New(
		http.StatusBadRequest,
		"UNKNOWN_REMINDER_TEMPLATE",
		"unrecognized smart reminder type",
	)
)
