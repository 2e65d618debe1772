package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrMethodNotFound  = errors.New("fiat payment method not found")
	ErrNoActiveMaker   = errors.New("no active maker for pair and method")
	ErrUnknownRequest  = errors.New("unknown oracle request")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInsufficientFee = errors.New("insufficient fee token balance")
	ErrRequestPending  = errors.New("prior oracle request still pending")
	ErrInvalidStatus   = errors.New("operation not allowed in current status")
)

// AppError represents application error with HTTP status
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, message, ErrForbidden)
}

func Conflict(message string, err error) *AppError {
	return NewAppError(http.StatusConflict, message, err)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "internal server error", err)
}

// Wrap attaches an HTTP status to a known domain error. Unrecognized errors
// map to 500 so they are never silently reported as client mistakes.
func Wrap(err error) *AppError {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrMethodNotFound),
		errors.Is(err, ErrNoActiveMaker), errors.Is(err, ErrUnknownRequest):
		return NewAppError(http.StatusNotFound, err.Error(), err)
	case errors.Is(err, ErrUnauthorized):
		return NewAppError(http.StatusUnauthorized, err.Error(), err)
	case errors.Is(err, ErrForbidden):
		return NewAppError(http.StatusForbidden, err.Error(), err)
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrInvalidInput):
		return NewAppError(http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, ErrInsufficientFee):
		return NewAppError(http.StatusPaymentRequired, err.Error(), err)
	case errors.Is(err, ErrRequestPending), errors.Is(err, ErrInvalidStatus):
		return NewAppError(http.StatusConflict, err.Error(), err)
	default:
		return InternalError(err)
	}
}
