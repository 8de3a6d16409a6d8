package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/pkg/apperrors"
)

func TestCourseConflictNoStudents(t *testing.T) {
	f := newFixture(t)
	teacher := f.teacher(t, "Grace", "Hopper")
	course := f.course(t, "Algebra", teacher)

	svc := NewConflictService(f.store, f.log)
	conflicts, err := svc.CheckCourseScheduleUpdateConflict(f.ctx, course.ID, []models.SlotCoordinate{{DayOfWeek: models.Monday, Period: 0}})
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestCourseConflictReportsEveryStudent(t *testing.T) {
	f := newFixture(t)
	hopper := f.teacher(t, "Grace", "Hopper")
	curie := f.teacher(t, "Marie", "Curie")
	ada := f.student(t, "Ada", "Lovelace")
	alan := f.student(t, "Alan", "Turing")
	free := f.student(t, "Emmy", "Noether")

	physics := f.course(t, "Physics", curie, ada, alan)
	f.slot(t, physics, models.Monday, 0)
	f.slot(t, physics, models.Tuesday, 2)
	algebra := f.course(t, "Algebra", hopper, ada, alan, free)

	svc := NewConflictService(f.store, f.log)
	conflicts, err := svc.CheckCourseScheduleUpdateConflict(f.ctx, algebra.ID, []models.SlotCoordinate{
		{DayOfWeek: models.Monday, Period: 0},
		{DayOfWeek: models.Monday, Period: 0},
		{DayOfWeek: models.Tuesday, Period: 2},
		{DayOfWeek: models.Friday, Period: 5},
	})
	require.NoError(t, err)
	require.Len(t, conflicts, 4)

	for _, c := range conflicts {
		assert.NotEqual(t, free.ID, c.StudentID)
		assert.Equal(t, physics.ID, c.Conflict.CourseID)
		assert.Equal(t, "Physics", c.Conflict.CourseName)
	}
	assert.Equal(t, ada.ID, conflicts[0].StudentID)
	assert.Equal(t, "Ada Lovelace", conflicts[0].StudentName)
	assert.Equal(t, models.Monday, conflicts[0].Conflict.DayOfWeek)
	assert.Equal(t,
		"Schedule conflict: student Ada Lovelace already has Physics on Monday, period 1",
		ConflictMessage(conflicts[0]))
}

func TestCourseConflictIgnoresOwnSlotsAndOtherTerms(t *testing.T) {
	f := newFixture(t)
	hopper := f.teacher(t, "Grace", "Hopper")
	curie := f.teacher(t, "Marie", "Curie")
	ada := f.student(t, "Ada", "Lovelace")

	algebra := f.course(t, "Algebra", hopper, ada)
	f.slot(t, algebra, models.Monday, 0)

	old := f.newTerm(t, "2024 Spring")
	past := &models.Course{Name: "Chemistry", TeacherID: curie.ID, TermID: old.ID, StudentIDs: []int64{ada.ID}}
	require.NoError(t, f.store.Courses().Create(f.ctx, past))
	f.slot(t, past, models.Wednesday, 1)

	archived := f.course(t, "Biology", curie, ada)
	slot := f.slot(t, archived, models.Thursday, 4)
	require.NoError(t, f.store.Schedules().Archive(f.ctx, slot.ID))

	svc := NewConflictService(f.store, f.log)
	conflicts, err := svc.CheckCourseScheduleUpdateConflict(f.ctx, algebra.ID, []models.SlotCoordinate{
		{DayOfWeek: models.Monday, Period: 0},
		{DayOfWeek: models.Wednesday, Period: 1},
		{DayOfWeek: models.Thursday, Period: 4},
	})
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestCourseConflictValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewConflictService(f.store, f.log)

	_, err := svc.CheckCourseScheduleUpdateConflict(f.ctx, 1, []models.SlotCoordinate{{DayOfWeek: 7, Period: 0}})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidSlot)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = svc.CheckCourseScheduleUpdateConflict(f.ctx, 999, nil)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestStudentConflictReturnsFirstInGridOrder(t *testing.T) {
	f := newFixture(t)
	hopper := f.teacher(t, "Grace", "Hopper")
	curie := f.teacher(t, "Marie", "Curie")
	ada := f.student(t, "Ada", "Lovelace")

	physics := f.course(t, "Physics", curie, ada)
	f.slot(t, physics, models.Wednesday, 3)
	f.slot(t, physics, models.Monday, 6)

	algebra := f.course(t, "Algebra", hopper)
	f.slot(t, algebra, models.Wednesday, 3)
	f.slot(t, algebra, models.Monday, 6)
	f.slot(t, algebra, models.Friday, 0)

	svc := NewConflictService(f.store, f.log)
	conflict, err := svc.CheckStudentScheduleConflict(f.ctx, ada.ID, algebra.ID)
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, models.Monday, conflict.DayOfWeek)
	assert.Equal(t, 6, conflict.Period)
	assert.Equal(t, "Physics", conflict.CourseName)
}

func TestStudentConflictNone(t *testing.T) {
	f := newFixture(t)
	hopper := f.teacher(t, "Grace", "Hopper")
	ada := f.student(t, "Ada", "Lovelace")
	unscheduled := f.course(t, "Algebra", hopper)

	svc := NewConflictService(f.store, f.log)
	conflict, err := svc.CheckStudentScheduleConflict(f.ctx, ada.ID, unscheduled.ID)
	require.NoError(t, err)
	assert.Nil(t, conflict)

	_, err = svc.CheckStudentScheduleConflict(f.ctx, hopper.ID, unscheduled.ID)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestStudentConflictOutsideActiveTerm(t *testing.T) {
	f := newFixture(t)
	hopper := f.teacher(t, "Grace", "Hopper")
	course := f.course(t, "Algebra", hopper)

	other := f.newTerm(t, "2026 Spring")
	require.NoError(t, f.store.Terms().SetActive(f.ctx, other.ID))
	ada := f.student(t, "Ada", "Lovelace")

	svc := NewConflictService(f.store, f.log)
	conflict, err := svc.CheckStudentScheduleConflict(f.ctx, ada.ID, course.ID)
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestCourseConflictOutsideActiveTerm(t *testing.T) {
	f := newFixture(t)
	hopper := f.teacher(t, "Grace", "Hopper")
	curie := f.teacher(t, "Marie", "Curie")
	ada := f.student(t, "Ada", "Lovelace")
	physics := f.course(t, "Physics", curie, ada)
	f.slot(t, physics, models.Monday, 0)

	spring := f.newTerm(t, "2026 Spring")
	old := &models.Course{Name: "Algebra", Subject: "Algebra", TeacherID: hopper.ID, TermID: spring.ID, StudentIDs: []int64{ada.ID}}
	require.NoError(t, f.store.Courses().Create(f.ctx, old))

	svc := NewConflictService(f.store, f.log)
	conflicts, err := svc.CheckCourseScheduleUpdateConflict(f.ctx, old.ID, []models.SlotCoordinate{{DayOfWeek: models.Monday, Period: 0}})
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}
