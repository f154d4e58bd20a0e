package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aalekhpatel07/text-cleaner/internal/core/services/cleaner"
)

// ErrorCode represents a unique error code for each error type
type ErrorCode string

const (
	// General errors
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeBadRequest         ErrorCode = "BAD_REQUEST"
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"

	// Cleaning errors
	ErrCodeUnknownTransformation ErrorCode = "UNKNOWN_TRANSFORMATION"
	ErrCodeUnknownPreset         ErrorCode = "UNKNOWN_PRESET"
	ErrCodeBuiltinPreset         ErrorCode = "BUILTIN_PRESET"
	ErrCodePresetConflict        ErrorCode = "PRESET_CONFLICT"
	ErrCodeTextTooLarge          ErrorCode = "TEXT_TOO_LARGE"

	// File processing errors
	ErrCodeInvalidFile       ErrorCode = "INVALID_FILE"
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	ErrCodeFileParseError    ErrorCode = "FILE_PARSE_ERROR"

	// Job errors
	ErrCodeJobNotFound  ErrorCode = "JOB_NOT_FOUND"
	ErrCodeJobsDisabled ErrorCode = "JOBS_DISABLED"
	ErrCodeJobNotReady  ErrorCode = "JOB_NOT_READY"

	// Infrastructure errors
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
	ErrCodeQueueError    ErrorCode = "QUEUE_ERROR"
	ErrCodeCacheError    ErrorCode = "CACHE_ERROR"
)

// AppError represents a structured application error
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	StatusCode int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s - %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails adds additional context to the error
func (e *AppError) WithDetails(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError
func New(code ErrorCode, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap wraps an existing error with AppError context
func Wrap(err error, code ErrorCode, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Err:        err,
	}
}

// Common error constructors

func Internal(message string) *AppError {
	return New(ErrCodeInternal, message, http.StatusInternalServerError)
}

func InternalWrap(err error, message string) *AppError {
	return Wrap(err, ErrCodeInternal, message, http.StatusInternalServerError)
}

func NotFound(message string) *AppError {
	return New(ErrCodeNotFound, message, http.StatusNotFound)
}

func BadRequest(message string) *AppError {
	return New(ErrCodeBadRequest, message, http.StatusBadRequest)
}

// Cleaning errors

func UnknownTransformation(err error, name string) *AppError {
	return Wrap(err, ErrCodeUnknownTransformation,
		fmt.Sprintf("unknown transformation: %s", name),
		http.StatusBadRequest).WithDetails("name", name)
}

func UnknownPreset(err error) *AppError {
	return Wrap(err, ErrCodeUnknownPreset, "unknown preset", http.StatusBadRequest)
}

func BuiltinPreset(err error) *AppError {
	return Wrap(err, ErrCodeBuiltinPreset, "built-in presets cannot be changed", http.StatusConflict)
}

func PresetConflict(err error) *AppError {
	return Wrap(err, ErrCodePresetConflict, "preset name or alias is already in use", http.StatusConflict)
}

func TextTooLarge(size, limit int) *AppError {
	return New(ErrCodeTextTooLarge,
		fmt.Sprintf("text of %d bytes exceeds the limit of %d bytes", size, limit),
		http.StatusRequestEntityTooLarge).WithDetails("limit", limit)
}

// File processing errors

func InvalidFile(message string) *AppError {
	return New(ErrCodeInvalidFile, message, http.StatusBadRequest)
}

func UnsupportedFormat(format string) *AppError {
	return New(ErrCodeUnsupportedFormat,
		fmt.Sprintf("unsupported file format: %s", format),
		http.StatusBadRequest)
}

func FileParseError(err error) *AppError {
	return Wrap(err, ErrCodeFileParseError, "failed to parse file", http.StatusBadRequest)
}

// Job errors

func JobNotFound(id string) *AppError {
	return New(ErrCodeJobNotFound,
		fmt.Sprintf("job %s not found", id),
		http.StatusNotFound)
}

func JobNotReady(id, status string) *AppError {
	return New(ErrCodeJobNotReady,
		fmt.Sprintf("job %s has no results yet", id),
		http.StatusConflict).WithDetails("status", status)
}

func JobsDisabled() *AppError {
	return New(ErrCodeJobsDisabled,
		"batch jobs require a database and a queue",
		http.StatusServiceUnavailable)
}

// Infrastructure errors

func DatabaseError(err error) *AppError {
	return Wrap(err, ErrCodeDatabaseError, "database operation failed", http.StatusInternalServerError)
}

func QueueError(err error) *AppError {
	return Wrap(err, ErrCodeQueueError, "failed to enqueue task", http.StatusInternalServerError)
}

// FromCleanerError maps errors from the cleaner package onto AppErrors.
// Anything else becomes an internal error; AppErrors pass through.
func FromCleanerError(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := GetAppError(err); ok {
		return appErr
	}
	if name, ok := cleaner.UnknownName(err); ok {
		return UnknownTransformation(err, name)
	}
	if errors.Is(err, cleaner.ErrUnknownPreset) {
		return UnknownPreset(err)
	}
	if errors.Is(err, cleaner.ErrBuiltinPreset) {
		return BuiltinPreset(err)
	}
	if errors.Is(err, cleaner.ErrPresetConflict) {
		return PresetConflict(err)
	}
	return InternalWrap(err, "cleaning failed")
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error chain
func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}
