package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeInvalidInput         = "INVALID_INPUT"
	CodeMissingField         = "MISSING_FIELD"
	CodeInvalidEmail         = "INVALID_EMAIL"
	CodeNotFound             = "NOT_FOUND"
	CodeUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE"
	CodePayloadTooLarge      = "PAYLOAD_TOO_LARGE"
	CodeRateLimited          = "RATE_LIMITED"
	CodeTimeout              = "TIMEOUT"
	CodeUnavailable          = "SERVICE_UNAVAILABLE"
	CodeInternal             = "INTERNAL_ERROR"
)

// AppError is an error the site endpoints report to the browser. Only
// Message crosses the wire; Code and Err stay server side.
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	return e.HTTPStatus
}

// ToJSON renders the error in the shape the site forms read: {"error": "..."}.
func (e *AppError) ToJSON() []byte {
	data, _ := json.Marshal(ErrorResponse{Error: e.Message})
	return data
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

func Wrap(err error, code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message, http.StatusBadRequest)
}

func MissingField(field string) *AppError {
	return New(CodeMissingField, "Missing required field: "+field, http.StatusBadRequest).
		WithDetails(map[string]any{"field": field})
}

func InvalidEmail() *AppError {
	return New(CodeInvalidEmail, "Please enter a valid email address", http.StatusBadRequest).
		WithDetails(map[string]any{"field": "email"})
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

func UnsupportedMediaType(expected string) *AppError {
	return New(CodeUnsupportedMediaType, "Content-Type must be "+expected, http.StatusUnsupportedMediaType)
}

func PayloadTooLarge(limit int64) *AppError {
	return New(CodePayloadTooLarge, "Request body too large", http.StatusRequestEntityTooLarge).
		WithDetails(map[string]any{"limit_bytes": limit})
}

func RateLimited() *AppError {
	return New(CodeRateLimited, "Too many requests, please slow down", http.StatusTooManyRequests)
}

func Timeout(message string) *AppError {
	return New(CodeTimeout, message, http.StatusServiceUnavailable)
}

func Unavailable(service string) *AppError {
	return New(CodeUnavailable, fmt.Sprintf("%s is temporarily unavailable", service), http.StatusServiceUnavailable)
}

func Internal(message string, err error) *AppError {
	return Wrap(err, CodeInternal, message, http.StatusInternalServerError)
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError returns the AppError in err's chain, or an opaque internal
// error when there is none.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal server error", err)
}
