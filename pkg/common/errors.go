package common

import (
	"errors"
	"net/http"
)

// Common error types
var (
	ErrNotFound        = errors.New("resource not found")
	ErrBadRequest      = errors.New("bad request")
	ErrInternalServer  = errors.New("internal server error")
	ErrConflict        = errors.New("resource conflict")
	ErrValidation      = errors.New("validation error")
	ErrTooManyRequests = errors.New("too many requests")
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code      int               `json:"code"`
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	Err       error             `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the wrapped error to errors.Is / errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithCode attaches a machine-readable error code
func (e *AppError) WithCode(code string) *AppError {
	e.ErrorCode = code
	return e
}

// NewAppError creates a new AppError
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NewNotFoundError(message string, err error) *AppError {
	if err == nil {
		err = ErrNotFound
	}
	return &AppError{
		Code:    http.StatusNotFound,
		Message: message,
		Err:     err,
	}
}

func NewBadRequestError(message string, err error) *AppError {
	if err == nil {
		err = ErrBadRequest
	}
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
		Err:     err,
	}
}

func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: message,
		Err:     err,
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
		Err:     ErrConflict,
	}
}

// NewValidationError reports per-field validation failures with 422
func NewValidationError(message string, fields map[string]string) *AppError {
	return &AppError{
		Code:      http.StatusUnprocessableEntity,
		ErrorCode: "validation_failed",
		Message:   message,
		Fields:    fields,
		Err:       ErrValidation,
	}
}

func NewTooManyRequestsError(message string) *AppError {
	return &AppError{
		Code:    http.StatusTooManyRequests,
		Message: message,
		Err:     ErrTooManyRequests,
	}
}

// AsAppError unwraps err into an *AppError if one is in the chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
