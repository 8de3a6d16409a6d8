package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/app/repositories"
)

func TestTransactionRollback(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	errBoom := errors.New("boom")
	err := s.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		require.NoError(t, tx.Users().Create(ctx, &models.User{Email: "a@school.test", RoleType: models.RoleTeacher}))
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	users, err := s.Users().ListByRole(ctx, models.RoleTeacher)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestTransactionsSerialize(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
				existing, err := tx.Schedules().FindTeacherSlot(ctx, 1, 1, models.SlotCoordinate{DayOfWeek: 1, Period: 1})
				if err != nil || existing != nil {
					return err
				}
				return tx.Schedules().Create(ctx, &models.ScheduleSlot{CourseID: 1, TeacherID: 1, TermID: 1, DayOfWeek: 1, Period: 1})
			})
		}()
	}
	wg.Wait()

	slots, err := s.Schedules().ListTeacherSlots(ctx, 1, 1)
	require.NoError(t, err)
	assert.Len(t, slots, 1)
}

func TestScheduleTeacherCellIsUnique(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	slot := models.ScheduleSlot{CourseID: 1, TeacherID: 7, TermID: 1, DayOfWeek: 2, Period: 3}

	first := slot
	require.NoError(t, s.Schedules().Create(ctx, &first))
	second := slot
	assert.ErrorIs(t, s.Schedules().Create(ctx, &second), repositories.ErrDuplicate)

	require.NoError(t, s.Schedules().Archive(ctx, first.ID))
	third := slot
	assert.NoError(t, s.Schedules().Create(ctx, &third))
}

func TestTermSetActiveIsExclusive(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	a := &models.Term{Name: "Fall", StartDate: time.Now(), EndDate: time.Now().AddDate(0, 4, 0)}
	b := &models.Term{Name: "Spring", StartDate: time.Now().AddDate(0, 5, 0), EndDate: time.Now().AddDate(0, 9, 0)}
	require.NoError(t, s.Terms().Create(ctx, a))
	require.NoError(t, s.Terms().Create(ctx, b))

	require.NoError(t, s.Terms().SetActive(ctx, a.ID))
	require.NoError(t, s.Terms().SetActive(ctx, b.ID))

	active, err := s.Terms().GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, b.ID, active.ID)

	got, err := s.Terms().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	assert.ErrorIs(t, s.Terms().SetActive(ctx, 999), repositories.ErrNotFound)
}

func TestListStudentSlotsExcludesCourse(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	math := &models.Course{Name: "Math", TeacherID: 1, TermID: 1, StudentIDs: []int64{10, 11}}
	art := &models.Course{Name: "Art", TeacherID: 2, TermID: 1, StudentIDs: []int64{10}}
	old := &models.Course{Name: "Old", TeacherID: 2, TermID: 2, StudentIDs: []int64{10}}
	for _, c := range []*models.Course{math, art, old} {
		require.NoError(t, s.Courses().Create(ctx, c))
	}
	for _, slot := range []models.ScheduleSlot{
		{CourseID: math.ID, TeacherID: 1, TermID: 1, DayOfWeek: 1, Period: 0},
		{CourseID: art.ID, TeacherID: 2, TermID: 1, DayOfWeek: 2, Period: 4},
		{CourseID: old.ID, TeacherID: 2, TermID: 2, DayOfWeek: 3, Period: 1},
	} {
		slot := slot
		require.NoError(t, s.Schedules().Create(ctx, &slot))
	}

	got, err := s.Schedules().ListStudentSlots(ctx, 1, []int64{10, 11}, math.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.StudentSlot{StudentID: 10, CourseID: art.ID, CourseName: "Art", DayOfWeek: 2, Period: 4}, got[0])
}

func TestCourseStudents(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	c := &models.Course{Name: "Math", TeacherID: 1, TermID: 1}
	require.NoError(t, s.Courses().Create(ctx, c))

	require.NoError(t, s.Courses().AddStudent(ctx, c.ID, 5))
	assert.ErrorIs(t, s.Courses().AddStudent(ctx, c.ID, 5), repositories.ErrDuplicate)

	got, err := s.Courses().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, got.StudentIDs)

	require.NoError(t, s.Courses().RemoveStudent(ctx, c.ID, 5))
	assert.ErrorIs(t, s.Courses().RemoveStudent(ctx, c.ID, 5), repositories.ErrNotFound)

	require.NoError(t, s.Courses().Archive(ctx, c.ID))
	_, err = s.Courses().GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
