package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/ezexam/internal/errors"
)

func TestNewInvalidReferenceError_ListsEveryID(t *testing.T) {
	err := errors.NewInvalidReferenceError(
		errors.InvalidReference{Kind: "problem", IDs: []int64{7, 9}},
		errors.InvalidReference{Kind: "option", IDs: []int64{40}},
	)

	assert.Equal(t, errors.ErrCodeValidation, err.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, err.Status)
	assert.Equal(t, "invalid problem ids [7, 9]; invalid option ids [40]", err.Message)

	refs, ok := err.Details.([]errors.InvalidReference)
	require.True(t, ok)
	assert.Len(t, refs, 2)
}

func TestFieldErrors(t *testing.T) {
	fe := errors.FieldErrors{}
	assert.NoError(t, fe.Err())

	fe.Add("attempt_id", "is required")
	fe.Add("answers", "must not be empty")
	fe.Add("attempt_id", "second reason is ignored")

	err := fe.Err()
	require.Error(t, err)
	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
	assert.Equal(t, "validation failed for answers, attempt_id", appErr.Message)
	assert.Equal(t, map[string]string{"attempt_id": "is required", "answers": "must not be empty"}, appErr.Details)
}

func TestIsCode_Wrapped(t *testing.T) {
	base := errors.NewNotFoundError("lesson", 3)
	wrapped := fmt.Errorf("loading: %w", base)

	assert.True(t, errors.IsCode(wrapped, errors.ErrCodeNotFound))
	assert.False(t, errors.IsCode(wrapped, errors.ErrCodeValidation))
	assert.False(t, errors.IsCode(fmt.Errorf("plain"), errors.ErrCodeNotFound))
}

func TestInternalError_HidesCause(t *testing.T) {
	cause := fmt.Errorf("disk I/O error")
	err := errors.NewInternalError(cause)

	assert.Equal(t, "internal server error", err.Message)
	assert.ErrorIs(t, err, cause)
}

func TestNewRetryableError_HidesCause(t *testing.T) {
	err := errors.NewRetryableError(fmt.Errorf("database is locked"))

	assert.Equal(t, errors.ErrCodeInternal, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, "temporarily unavailable, please retry", err.Message)
	assert.NotContains(t, err.Message, "locked")
}
