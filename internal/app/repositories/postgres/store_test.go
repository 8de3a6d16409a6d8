package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/app/repositories"
)

func TestTermLockKey(t *testing.T) {
	assert.Equal(t, scheduleLockNamespace, termLockKey(1)>>48)
	assert.NotEqual(t, termLockKey(1), termLockKey(2))
	// ids above 32 bits stay distinct
	assert.NotEqual(t, termLockKey(1), termLockKey(1<<32+1))
}

func TestLockTermUsesBigintKey(t *testing.T) {
	c := newCapture()
	s := &Store{q: c, inTx: true}

	require.NoError(t, s.LockTerm(context.Background(), 1<<40))
	require.Len(t, c.calls, 1)
	assert.Equal(t, "SELECT pg_advisory_xact_lock($1)", c.calls[0].sql)
	assert.Equal(t, []any{termLockKey(1 << 40)}, c.calls[0].args)
}

func TestSetActiveClearsOthersFirst(t *testing.T) {
	c := newCapture()
	s := &Store{q: c, inTx: true}

	require.NoError(t, s.Terms().SetActive(context.Background(), 7))
	require.Len(t, c.calls, 2)
	assert.Equal(t, "UPDATE terms SET is_active = $1 WHERE is_active = $2 AND id <> $3", c.calls[0].sql)
	assert.Equal(t, []any{false, true, int64(7)}, c.calls[0].args)
	assert.Equal(t, "UPDATE terms SET is_active = $1 WHERE id = $2", c.calls[1].sql)
	assert.Equal(t, []any{true, int64(7)}, c.calls[1].args)
}

func TestSetActiveUnknownID(t *testing.T) {
	c := newCapture()
	c.tag = "UPDATE 0"
	s := &Store{q: c, inTx: true}

	err := s.AcademicYears().SetActive(context.Background(), 99)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	require.Len(t, c.calls, 2)
	assert.Contains(t, c.calls[0].sql, "UPDATE academic_years")
}

func TestListStudentSlotsQuery(t *testing.T) {
	c := newCapture()
	s := &Store{q: c}

	slots, err := s.Schedules().ListStudentSlots(context.Background(), 3, []int64{11, 12}, 9)
	require.NoError(t, err)
	assert.Empty(t, slots)
	require.Len(t, c.calls, 1)

	sql := c.calls[0].sql
	assert.Contains(t, sql, "FROM courses c CROSS JOIN LATERAL unnest(c.student_ids) AS sid")
	assert.Contains(t, sql, "JOIN schedule_slots s ON s.course_id = c.id")
	assert.Contains(t, sql, "c.state = $1 AND c.term_id = $2 AND s.state = $3")
	assert.Contains(t, sql, "c.id <> $4")
	assert.Contains(t, sql, "sid = ANY($5)")
	assert.Equal(t, []any{models.LifecycleActive, int64(3), models.LifecycleActive, int64(9), []int64{11, 12}}, c.calls[0].args)
}

func TestListStudentSlotsWithoutStudentsSkipsQuery(t *testing.T) {
	c := newCapture()
	s := &Store{q: c}

	slots, err := s.Schedules().ListStudentSlots(context.Background(), 3, nil, 9)
	require.NoError(t, err)
	assert.Nil(t, slots)
	assert.Empty(t, c.calls)
}

func TestFindTeacherSlotMissingCell(t *testing.T) {
	c := newCapture()
	s := &Store{q: c}

	slot, err := s.Schedules().FindTeacherSlot(context.Background(), 3, 4, models.SlotCoordinate{DayOfWeek: models.Monday, Period: 2})
	require.NoError(t, err)
	assert.Nil(t, slot)
	require.Len(t, c.calls, 1)
	assert.Contains(t, c.calls[0].sql, "FROM schedule_slots WHERE state = $1 AND day_of_week = $2 AND period = $3 AND teacher_id = $4 AND term_id = $5 LIMIT 1")
}

func TestCreateSlotInOccupiedTeacherCell(t *testing.T) {
	c := newCapture()
	c.rowErr = &pgconn.PgError{Code: "23505", ConstraintName: "uq_slots_teacher_cell"}
	s := &Store{q: c}

	err := s.Schedules().Create(context.Background(), &models.ScheduleSlot{CourseID: 1, TeacherID: 4, TermID: 3, DayOfWeek: models.Monday, Period: 0})
	require.Error(t, err)
	assert.ErrorIs(t, err, repositories.ErrDuplicate)
	require.Len(t, c.calls, 1)
	assert.Contains(t, c.calls[0].sql, "INSERT INTO schedule_slots (course_id,teacher_id,term_id,day_of_week,period) VALUES ($1,$2,$3,$4,$5)")
}
