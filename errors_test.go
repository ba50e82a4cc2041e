package cohort

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchErrorPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewFetchError("lab_results", cause)

	assert.True(t, IsFetchError(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "lab_results")
	assert.Contains(t, err.Error(), ErrCodeFetchFailed)
}

func TestRecordNotFoundError(t *testing.T) {
	err := NewRecordNotFoundError(42)

	assert.True(t, IsRecordNotFoundError(err))
	assert.False(t, IsFetchError(err))
	assert.Contains(t, err.Error(), "record 42")
}

func TestQueryErrorWithSubject(t *testing.T) {
	subjectID := uuid.MustParse("66666666-6666-6666-6666-666666666666")
	err := NewQueryError("resolve record ids", errors.New("timeout")).WithSubject(subjectID)

	require.NotNil(t, err.SubjectID)
	assert.Equal(t, subjectID, *err.SubjectID)
	assert.Contains(t, err.Error(), subjectID.String())
}

func TestWithDetail(t *testing.T) {
	err := NewValidationError("bad input").WithDetail("field", "subjectId")
	assert.Equal(t, "subjectId", err.Details["field"])
	assert.True(t, IsValidationError(err))
}

func TestErrorHelpersRejectForeignErrors(t *testing.T) {
	plain := fmt.Errorf("some error")
	assert.False(t, IsRecordNotFoundError(plain))
	assert.False(t, IsFetchError(plain))
	assert.False(t, IsValidationError(plain))
	assert.False(t, IsRecordNotFoundError(nil))
}

func TestErrorHelpersUnwrapWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("hydration failed: %w", NewRecordNotFoundError(7))
	assert.True(t, IsRecordNotFoundError(wrapped))
}
