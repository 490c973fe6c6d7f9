package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Structural misuse of a pipe. Reported synchronously to the caller.
const (
	// ErrCodeNullArgument indicates a required Source or Sink was absent.
	ErrCodeNullArgument ErrorCode = "NULL_ARGUMENT"
	// ErrCodePipeAlreadyTerminated indicates attach on a chain closed by a sink-only stage.
	ErrCodePipeAlreadyTerminated ErrorCode = "PIPE_ALREADY_TERMINATED"
	// ErrCodePipeNotReady indicates start/stop before the chain has a terminal stage.
	ErrCodePipeNotReady ErrorCode = "PIPE_NOT_READY"
	// ErrCodePipeViewExtended indicates attach on a view that already has a downstream hop.
	ErrCodePipeViewExtended ErrorCode = "PIPE_VIEW_EXTENDED"
)

// Data path errors. Reported asynchronously through a pipe's error handler.
const (
	// ErrCodeWriteFailed indicates a sink rejected a write.
	ErrCodeWriteFailed ErrorCode = "WRITE_FAILED"
	// ErrCodeSourceFailed indicates an upstream source reported an error.
	ErrCodeSourceFailed ErrorCode = "SOURCE_FAILED"
	// ErrCodeStreamEnded indicates a write after end-of-stream.
	ErrCodeStreamEnded ErrorCode = "STREAM_ENDED"
	// ErrCodeBufferOverflow indicates a sink reached its absolute ceiling.
	ErrCodeBufferOverflow ErrorCode = "BUFFER_OVERFLOW"
)

// Configuration and lookup errors
const (
	// ErrCodeInvalidConfig indicates a configuration failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeWriteFailed:    true,
	ErrCodeSourceFailed:   true,
	ErrCodeBufferOverflow: true,
	ErrCodeInternal:       false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
// The pipe never retries; the flag only informs error observers.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
