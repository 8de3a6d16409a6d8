package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/pkg/apperrors"
)

func TestCreateCourseDefaultsToActiveTerm(t *testing.T) {
	f := newFixture(t)
	hopper := f.teacher(t, "Grace", "Hopper")
	ada := f.student(t, "Ada", "Lovelace")
	svc := NewCourseService(f.store, nil, f.log)

	course, err := svc.CreateCourse(f.ctx, &models.Course{
		Name:       "  Algebra ",
		Subject:    "Mathematics",
		TeacherID:  hopper.ID,
		StudentIDs: []int64{ada.ID, ada.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "Algebra", course.Name)
	assert.Equal(t, f.term.ID, course.TermID)
	assert.Equal(t, []int64{ada.ID}, course.StudentIDs)

	got, err := svc.GetCourse(f.ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, course.ID, got.ID)
}

func TestCreateCourseValidation(t *testing.T) {
	f := newFixture(t)
	hopper := f.teacher(t, "Grace", "Hopper")
	ada := f.student(t, "Ada", "Lovelace")
	missingClass := int64(999)
	svc := NewCourseService(f.store, nil, f.log)

	tests := []struct {
		name     string
		course   models.Course
		sentinel error
	}{
		{"empty name", models.Course{Name: " ", TeacherID: hopper.ID}, apperrors.ErrValidationFailed},
		{"student as teacher", models.Course{Name: "Algebra", TeacherID: ada.ID}, apperrors.ErrTeacherNotFound},
		{"teacher as student", models.Course{Name: "Algebra", TeacherID: hopper.ID, StudentIDs: []int64{hopper.ID}}, apperrors.ErrStudentNotFound},
		{"unknown term", models.Course{Name: "Algebra", TeacherID: hopper.ID, TermID: 999}, apperrors.ErrTermNotFound},
		{"unknown class", models.Course{Name: "Algebra", TeacherID: hopper.ID, ClassID: &missingClass}, apperrors.ErrClassNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			course := tt.course
			_, err := svc.CreateCourse(f.ctx, &course)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestListCourses(t *testing.T) {
	f := newFixture(t)
	hopper := f.teacher(t, "Grace", "Hopper")
	curie := f.teacher(t, "Marie", "Curie")
	ada := f.student(t, "Ada", "Lovelace")
	f.course(t, "Algebra", hopper, ada)
	f.course(t, "Geometry", hopper)
	physics := f.course(t, "Physics", curie, ada)
	require.NoError(t, f.store.Courses().Archive(f.ctx, physics.ID))
	f.course(t, "Chemistry", curie)
	svc := NewCourseService(f.store, nil, f.log)

	all, err := svc.ListCourses(f.ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := svc.ListCourses(f.ctx, &hopper.ID, nil)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	enrolled, err := svc.ListCourses(f.ctx, nil, &ada.ID)
	require.NoError(t, err)
	require.Len(t, enrolled, 1)
	assert.Equal(t, "Algebra", enrolled[0].Name)

	_, err = svc.ListCourses(f.ctx, &hopper.ID, &ada.ID)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestArchiveCourseRemovesSlots(t *testing.T) {
	f := newFixture(t)
	hopper := f.teacher(t, "Grace", "Hopper")
	ada := f.student(t, "Ada", "Lovelace")
	algebra := f.course(t, "Algebra", hopper, ada)
	f.slot(t, algebra, models.Monday, 0)
	f.slot(t, algebra, models.Monday, 1)
	n := &recordingNotifier{}
	svc := NewCourseService(f.store, n, f.log)

	require.NoError(t, svc.ArchiveCourse(f.ctx, algebra.ID))
	assert.Empty(t, f.teacherSlots(t, hopper))

	_, err := svc.GetCourse(f.ctx, algebra.ID)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	changes := n.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, []int64{ada.ID}, changes[0].StudentIDs)

	err = svc.ArchiveCourse(f.ctx, algebra.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}
