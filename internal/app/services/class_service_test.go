package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/pkg/apperrors"
)

func TestClassRoster(t *testing.T) {
	f := newFixture(t)
	ada := f.student(t, "Ada", "Lovelace")
	hopper := f.teacher(t, "Grace", "Hopper")
	svc := NewClassService(f.store, f.log)

	class, err := svc.CreateClass(f.ctx, &models.Class{Name: " 9A ", GradeLevel: 9})
	require.NoError(t, err)
	assert.Equal(t, "9A", class.Name)

	class, err = svc.AddStudent(f.ctx, class.ID, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{ada.ID}, class.StudentIDs)

	_, err = svc.AddStudent(f.ctx, class.ID, ada.ID)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	_, err = svc.AddStudent(f.ctx, class.ID, hopper.ID)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	classes, err := svc.ListClasses(f.ctx)
	require.NoError(t, err)
	require.Len(t, classes, 1)

	class, err = svc.RemoveStudent(f.ctx, class.ID, ada.ID)
	require.NoError(t, err)
	assert.Empty(t, class.StudentIDs)

	_, err = svc.RemoveStudent(f.ctx, class.ID, ada.ID)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestClassValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewClassService(f.store, f.log)

	_, err := svc.CreateClass(f.ctx, &models.Class{Name: ""})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = svc.GetClass(f.ctx, 42)
	assert.ErrorIs(t, err, apperrors.ErrClassNotFound)
}
