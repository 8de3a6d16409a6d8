package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "schedule conflict", err: NewScheduleConflictError("clash", nil), want: KindConflict},
		{name: "course not found", err: NewNotFoundError(ErrCourseNotFound, "Course not found"), want: KindNotFound},
		{name: "wrapped not found", err: fmt.Errorf("loading: %w", ErrStudentNotFound), want: KindNotFound},
		{name: "invalid slot", err: NewValidationError(ErrInvalidSlot, "period out of range"), want: KindValidation},
		{name: "no active term", err: ErrNoActiveTerm, want: KindValidation},
		{name: "forbidden", err: NewForbiddenError("admins only"), want: KindPermission},
		{name: "internal", err: NewInternalError("Failed to save", errors.New("connection reset")), want: KindInternal},
		{name: "unknown", err: errors.New("boom"), want: KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestInternalErrorHidesCause(t *testing.T) {
	cause := errors.New("pq: relation does not exist")
	err := NewInternalError("Failed to update schedule", cause)

	assert.Equal(t, "Failed to update schedule", err.Error())
	assert.True(t, errors.Is(err, ErrInternal))

	var ce *CustomError
	if assert.True(t, errors.As(err, &ce)) {
		assert.Equal(t, cause, ce.Cause())
	}
}

func TestDetails(t *testing.T) {
	err := NewScheduleConflictError("clash", map[string]interface{}{"count": 2})
	assert.Equal(t, 2, Details(fmt.Errorf("wrap: %w", err))["count"])
	assert.Nil(t, Details(errors.New("plain")))
	assert.Equal(t, "clash", Message(err))
}
