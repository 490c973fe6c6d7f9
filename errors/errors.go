package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an AppError with the same code, so sentinel
// values such as ErrPipeNotReady match with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// Sentinels for errors.Is comparisons. Never return these directly; use the
// constructors so details stay per-call.
var (
	ErrNullArgument          = &AppError{Code: ErrCodeNullArgument}
	ErrPipeAlreadyTerminated = &AppError{Code: ErrCodePipeAlreadyTerminated}
	ErrPipeNotReady          = &AppError{Code: ErrCodePipeNotReady}
	ErrPipeViewExtended      = &AppError{Code: ErrCodePipeViewExtended}
	ErrWriteFailed           = &AppError{Code: ErrCodeWriteFailed}
	ErrSourceFailed          = &AppError{Code: ErrCodeSourceFailed}
	ErrStreamEnded           = &AppError{Code: ErrCodeStreamEnded}
	ErrBufferOverflow        = &AppError{Code: ErrCodeBufferOverflow}
	ErrInvalidConfig         = &AppError{Code: ErrCodeInvalidConfig}
)

// --- Constructors ---

// NullArgument creates an error for a required argument that was nil.
func NullArgument(name string) *AppError {
	return &AppError{
		Code: ErrCodeNullArgument, Message: fmt.Sprintf("%s must not be nil", name),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"argument": name},
	}
}

// PipeAlreadyTerminated creates an error for attach on a closed chain.
func PipeAlreadyTerminated(pipe string) *AppError {
	return &AppError{
		Code: ErrCodePipeAlreadyTerminated, Message: "pipe already ended with a sink-only stage",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"pipe": pipe},
	}
}

// PipeNotReady creates an error for lifecycle calls on an unfinished chain.
func PipeNotReady(pipe, operation string) *AppError {
	return &AppError{
		Code: ErrCodePipeNotReady, Message: fmt.Sprintf("cannot %s a pipe without a terminal stage", operation),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"pipe": pipe, "operation": operation},
	}
}

// PipeViewExtended creates an error for a second attach on the same view.
func PipeViewExtended(pipe string, hop int) *AppError {
	return &AppError{
		Code: ErrCodePipeViewExtended, Message: "pipe view already has a downstream stage",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"pipe": pipe, "hop": hop},
	}
}

// WriteFailed wraps a sink write failure.
func WriteFailed(pipe string, hop int, cause error) *AppError {
	return &AppError{
		Code: ErrCodeWriteFailed, Message: fmt.Sprintf("write to hop %d failed", hop),
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"pipe": pipe, "hop": hop}, Cause: cause,
	}
}

// SourceFailed wraps an error reported by an upstream source.
func SourceFailed(pipe string, hop int, cause error) *AppError {
	return &AppError{
		Code: ErrCodeSourceFailed, Message: fmt.Sprintf("source of hop %d failed", hop),
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"pipe": pipe, "hop": hop}, Cause: cause,
	}
}

// StreamEnded creates an error for a write after end-of-stream.
func StreamEnded() *AppError {
	return &AppError{
		Code: ErrCodeStreamEnded, Message: "stream already ended",
		HTTPStatus: http.StatusGone,
	}
}

// BufferOverflow creates an error for a write beyond a sink's absolute ceiling.
func BufferOverflow(limit int) *AppError {
	return &AppError{
		Code: ErrCodeBufferOverflow, Message: fmt.Sprintf("buffer holds its maximum of %d items", limit),
		HTTPStatus: http.StatusInsufficientStorage, Retryable: true,
		Details: map[string]any{"limit": limit},
	}
}

// InvalidConfig creates an error for a configuration that failed validation.
func InvalidConfig(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidConfig, Message: message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Details: details,
	}
}

// Internal creates a new AppError for an internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}
