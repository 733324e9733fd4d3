// Package errors defines the coded errors autocut passes across package
// boundaries. A code survives wrapping with fmt.Errorf and decides both the
// HTTP status of an API response and the failure category of a job.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies a class of failure
type ErrorCode string

const (
	// Caller mistakes. Retrying with the same input fails the same way.
	ErrCodeInvalidInput         ErrorCode = "INVALID_INPUT"
	ErrCodeValidation           ErrorCode = "VALIDATION"
	ErrCodeTrackIndexOutOfRange ErrorCode = "TRACK_INDEX_OUT_OF_RANGE"
	ErrCodeNotFound             ErrorCode = "NOT_FOUND"

	// Media pipeline failures
	ErrCodeOutputNotCreated ErrorCode = "OUTPUT_NOT_CREATED"
	ErrCodeOutputLocked     ErrorCode = "OUTPUT_LOCKED"
	ErrCodeCodec            ErrorCode = "CODEC"

	ErrCodeInternal ErrorCode = "INTERNAL"
)

var httpStatus = map[ErrorCode]int{
	ErrCodeInvalidInput:         http.StatusBadRequest,
	ErrCodeValidation:           http.StatusBadRequest,
	ErrCodeTrackIndexOutOfRange: http.StatusUnprocessableEntity,
	ErrCodeNotFound:             http.StatusNotFound,
	ErrCodeOutputLocked:         http.StatusConflict,
	ErrCodeCodec:                http.StatusBadGateway,
}

// AppError is an error with a code and structured details
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Cause   error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// HTTPStatus returns the response status for the error's code
func (e *AppError) HTTPStatus() int {
	if status, ok := httpStatus[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Permanent reports whether the failure is the caller's and cannot succeed
// on retry.
func (e *AppError) Permanent() bool {
	switch e.Code {
	case ErrCodeInvalidInput, ErrCodeValidation, ErrCodeTrackIndexOutOfRange, ErrCodeNotFound:
		return true
	}
	return false
}

// New creates an AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Newf creates an AppError with a formatted message
func Newf(code ErrorCode, format string, args ...any) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrapf wraps cause with a code and a formatted message
func Wrapf(cause error, code ErrorCode, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// InvalidInput reports a violated precondition such as an empty waveform, a
// non-positive rate or a malformed interval sequence.
func InvalidInput(format string, args ...any) *AppError {
	return Newf(ErrCodeInvalidInput, format, args...)
}

// ValidationError reports a request field that failed validation
func ValidationError(field, reason string) *AppError {
	return Newf(ErrCodeValidation, "validation failed for field '%s': %s", field, reason).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

// NotFound reports a missing record
func NotFound(resource string, id any) *AppError {
	return Newf(ErrCodeNotFound, "%s %v not found", resource, id).
		WithDetail("resource", resource).
		WithDetail("id", id)
}

// TrackIndexOutOfRange reports a classification track the source lacks
func TrackIndexOutOfRange(index, available int) *AppError {
	return Newf(ErrCodeTrackIndexOutOfRange,
		"audio track %d does not exist; the source has %d track(s), numbered from 0", index, available).
		WithDetail("index", index).
		WithDetail("available", available)
}

// OutputNotCreated reports a file missing after the stage that should have
// written it.
func OutputNotCreated(stage, path string) *AppError {
	return Newf(ErrCodeOutputNotCreated, "%s did not produce %s", stage, path).
		WithDetail("stage", stage).
		WithDetail("file", path)
}

// OutputLocked reports an output another run is writing
func OutputLocked(path string) *AppError {
	return Newf(ErrCodeOutputLocked, "output %s is being written by another run", path).
		WithDetail("file", path)
}

// Codec wraps a failure reading or writing media through ffmpeg
func Codec(cause error, format string, args ...any) *AppError {
	return Wrapf(cause, ErrCodeCodec, format, args...)
}

// As returns the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err carries code
func Is(err error, code ErrorCode) bool {
	if appErr, ok := As(err); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode returns err's code, or ErrCodeInternal for uncoded errors
func GetCode(err error) ErrorCode {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}

// HTTPStatus returns the response status for err
func HTTPStatus(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// IsPermanent reports whether err is a caller mistake
func IsPermanent(err error) bool {
	appErr, ok := As(err)
	return ok && appErr.Permanent()
}
