// Package errors provides standardized error handling for the loan
// application tracker.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidTransition ErrorCode = "INVALID_STATUS_TRANSITION"
	ErrCodeNotFound          ErrorCode = "APPLICATION_NOT_FOUND"
	ErrCodeFileNotFound      ErrorCode = "FILE_NOT_FOUND"
	ErrCodeTransport         ErrorCode = "TRANSPORT_ERROR"
	ErrCodeUploadFailed      ErrorCode = "UPLOAD_FAILED"
	ErrCodeReportFailed      ErrorCode = "REPORT_GENERATION_FAILED"
	ErrCodeStorage           ErrorCode = "STORAGE_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewValidationFailedError creates a non-retryable validation error.
// Validation failures are client-detected and never reach the network layer.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Application data validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidTransitionError creates a non-retryable lifecycle error.
func NewInvalidTransitionError(from, to string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidTransition,
		Message:   "Status transition not allowed",
		Details:   fmt.Sprintf("from: %s, to: %s", from, to),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotFoundError creates a non-retryable not-found error.
func NewNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   "Application not found",
		Details:   fmt.Sprintf("applicationId: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFileNotFoundError creates a non-retryable not-found error for a file slot.
func NewFileNotFoundError(id, fileType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFileNotFound,
		Message:   "Stored file not found",
		Details:   fmt.Sprintf("applicationId: %s, fileType: %s", id, fileType),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTransportError creates a retryable network/transport error. Retry is
// always user-initiated; nothing in the service retries automatically.
func NewTransportError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransport,
		Message:   "Request failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUploadFailedError creates a retryable per-file-slot upload error.
func NewUploadFailedError(fileType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUploadFailed,
		Message:   "File upload failed",
		Details:   fmt.Sprintf("fileType: %s, error: %s", fileType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewReportFailedError creates a retryable report generation error.
func NewReportFailedError(format string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeReportFailed,
		Message:   "Report generation failed",
		Details:   fmt.Sprintf("format: %s, error: %s", format, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageError creates a retryable persistence error.
func NewStorageError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorage,
		Message:   "Storage operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// CodeOf extracts the ErrorCode from err, or "" when err is not a StandardError.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsNotFound reports whether err is a record or file not-found error.
func IsNotFound(err error) bool {
	code := CodeOf(err)
	return code == ErrCodeNotFound || code == ErrCodeFileNotFound
}

// IsValidation reports whether err is a validation or transition error.
func IsValidation(err error) bool {
	code := CodeOf(err)
	return code == ErrCodeValidationFailed || code == ErrCodeInvalidTransition
}

// IsRetryable reports whether the failed operation may be re-attempted by
// the user as-is.
func IsRetryable(err error) bool {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se.Retryable
	}
	return false
}
