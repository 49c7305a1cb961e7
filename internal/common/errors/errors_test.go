package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteError(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := NewRemoteError(0, "  ", cause)

	assert.Equal(t, ErrCodeRemote, err.Code)
	assert.Equal(t, DefaultRemoteMessage, err.Message)
	assert.Equal(t, cause.Error(), err.Details)
	assert.Equal(t, 0, err.Metadata["status"])
	assert.True(t, err.Retryable)
	assert.True(t, stderrors.Is(err, cause))

	withMsg := NewRemoteError(409, "이미 가입된 이메일입니다.", nil)
	assert.Equal(t, "이미 가입된 이메일입니다.", withMsg.Message)
	assert.Empty(t, withMsg.Details)
}

func TestUnauthorizedError_DefaultMessage(t *testing.T) {
	assert.Equal(t, "로그인이 필요합니다.", NewUnauthorizedError("").Message)
	assert.Equal(t, "세션이 만료되었습니다.", NewUnauthorizedError("세션이 만료되었습니다.").Message)
}

func TestHelpers_WalkWrappedChains(t *testing.T) {
	wrapped := fmt.Errorf("question 2: %w", NewInvariantViolationError("too few options"))

	se, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeInvariantViolation, se.Code)
	assert.True(t, HasCode(wrapped, ErrCodeInvariantViolation))
	assert.False(t, HasCode(wrapped, ErrCodeValidation))
	assert.False(t, IsRetryable(wrapped))
	assert.True(t, IsRetryable(NewStorageError("record", fmt.Errorf("timeout"))))

	_, ok = As(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, "", CodeOf(nil))
	assert.Equal(t, "NOT_FOUND", CodeOf(NewNotFoundError("form", "7")))
	assert.Equal(t, "UNKNOWN_ERROR", CodeOf(fmt.Errorf("boom")))
}

func TestGetErrorCategory(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrCodeValidation, "VALIDATION"},
		{ErrCodeSchemaViolation, "VALIDATION"},
		{ErrCodeTypeMismatch, "CONTRACT"},
		{ErrCodeMissingAnswer, "CONTRACT"},
		{ErrCodeNotFound, "CONTRACT"},
		{ErrCodeRemote, "REMOTE"},
		{ErrCodeUnauthorized, "REMOTE"},
		{ErrCodeDuplicateSubmission, "REMOTE"},
		{ErrCodeConfig, "OTHER"},
		{ErrCodeStorage, "OTHER"},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, GetErrorCategory(tt.code))
		})
	}
}

func TestStandardError_Format(t *testing.T) {
	err := NewDuplicateSubmissionError(31).WithMetadata("formId", int64(7))

	assert.Equal(t, "StandardError[DUPLICATE_SUBMISSION]: 이미 제출된 지원서입니다. (applicationId: 31)", err.Error())
	assert.Equal(t, int64(7), err.Metadata["formId"])
}
