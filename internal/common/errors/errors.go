// Package errors provides the portal's standardized error type and codes.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Local (pre-network) errors
const (
	ErrCodeValidation         ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvariantViolation ErrorCode = "INVARIANT_VIOLATION"
	ErrCodeInvalidArgument    ErrorCode = "INVALID_ARGUMENT"
	ErrCodeTypeMismatch       ErrorCode = "TYPE_MISMATCH"
	ErrCodeMissingAnswer      ErrorCode = "MISSING_ANSWER"
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeInvalidState       ErrorCode = "INVALID_STATE"
	ErrCodeSchemaViolation    ErrorCode = "SCHEMA_VIOLATION"
	ErrCodeConfig             ErrorCode = "CONFIG_ERROR"
)

// Remote errors
const (
	ErrCodeRemote              ErrorCode = "REMOTE_ERROR"
	ErrCodeUnauthorized        ErrorCode = "UNAUTHORIZED"
	ErrCodeDuplicateSubmission ErrorCode = "DUPLICATE_SUBMISSION"
	ErrCodeStorage             ErrorCode = "STORAGE_ERROR"
)

// DefaultRemoteMessage is shown when the backend did not supply one.
const DefaultRemoteMessage = "요청을 처리하는 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요."

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationError carries the user-facing reason as its message.
func NewValidationError(reason string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidation,
		Message:   reason,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvariantViolationError reports a caller breaking a draft or answer invariant.
func NewInvariantViolationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvariantViolation,
		Message:   "Operation would violate a model invariant",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidArgumentError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidArgument,
		Message:   "Invalid argument",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewTypeMismatchError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTypeMismatch,
		Message:   "Value does not match the question type",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewMissingAnswerError(questionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingAnswer,
		Message:   "Answer set has no value for a referenced question",
		Details:   fmt.Sprintf("questionId: %s", questionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewNotFoundError(kind, id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("%s not found", kind),
		Details:   fmt.Sprintf("id: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidStateError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidState,
		Message:   "Transition not allowed from current state",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSchemaViolationError reports a serialized payload rejected by its JSON schema.
func NewSchemaViolationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSchemaViolation,
		Message:   "Payload does not match the expected schema",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewConfigError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfig,
		Message:   "Invalid configuration",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRemoteError wraps a failed backend call. An empty message falls back to
// DefaultRemoteMessage.
func NewRemoteError(status int, message string, cause error) *StandardError {
	if strings.TrimSpace(message) == "" {
		message = DefaultRemoteMessage
	}
	e := &StandardError{
		Code:      ErrCodeRemote,
		Message:   message,
		Retryable: true,
		Metadata:  map[string]interface{}{"status": status},
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

func NewUnauthorizedError(message string) *StandardError {
	if strings.TrimSpace(message) == "" {
		message = "로그인이 필요합니다."
	}
	return &StandardError{
		Code:      ErrCodeUnauthorized,
		Message:   message,
		Retryable: false,
		Metadata:  map[string]interface{}{"status": 401},
		Timestamp: time.Now().UTC(),
	}
}

func NewDuplicateSubmissionError(remoteID int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateSubmission,
		Message:   "이미 제출된 지원서입니다.",
		Details:   fmt.Sprintf("applicationId: %d", remoteID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewStorageError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorage,
		Message:   fmt.Sprintf("Storage operation '%s' failed", op),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// As extracts a *StandardError from an error chain.
func As(err error) (*StandardError, bool) {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code ErrorCode) bool {
	se, ok := As(err)
	return ok && se.Code == code
}

// IsRetryable reports whether the user may re-trigger the failed operation unchanged.
func IsRetryable(err error) bool {
	se, ok := As(err)
	return ok && se.Retryable
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeValidation, ErrCodeSchemaViolation:
		return "VALIDATION"
	case ErrCodeInvariantViolation, ErrCodeInvalidArgument, ErrCodeTypeMismatch,
		ErrCodeMissingAnswer, ErrCodeInvalidState:
		return "CONTRACT"
	case ErrCodeRemote, ErrCodeUnauthorized, ErrCodeDuplicateSubmission:
		return "REMOTE"
	}
	if strings.HasSuffix(string(code), "NOT_FOUND") {
		return "CONTRACT"
	}
	return "OTHER"
}

// CodeOf returns the code carried by err, "" for nil and UNKNOWN_ERROR for
// errors that are not StandardErrors.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	if se, ok := As(err); ok {
		return string(se.Code)
	}
	return "UNKNOWN_ERROR"
}
