package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/app/repositories"
	"github.com/yigit/timetable/internal/db"
)

var slotColumns = []string{"id", "course_id", "teacher_id", "term_id", "day_of_week", "period", "state", "archived_at", "created_at", "updated_at"}

// ScheduleRepository handles database operations for schedule slots
type ScheduleRepository struct {
	q db.Querier
}

func scanSlot(row pgx.Row) (*models.ScheduleSlot, error) {
	var s models.ScheduleSlot
	err := row.Scan(&s.ID, &s.CourseID, &s.TeacherID, &s.TermID, &s.DayOfWeek, &s.Period,
		&s.State, &s.ArchivedAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func activeSlots() squirrel.SelectBuilder {
	return psql.Select(slotColumns...).
		From("schedule_slots").
		Where(squirrel.Eq{"state": models.LifecycleActive})
}

func (r *ScheduleRepository) findOne(ctx context.Context, b squirrel.SelectBuilder) (*models.ScheduleSlot, error) {
	query, args, err := b.Limit(1).ToSql()
	if err != nil {
		return nil, buildError(err)
	}

	slot, err := scanSlot(r.q.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding slot: %w", err)
	}
	return slot, nil
}

func (r *ScheduleRepository) listSlots(ctx context.Context, b squirrel.SelectBuilder) ([]models.ScheduleSlot, error) {
	query, args, err := b.OrderBy("day_of_week", "period", "id").ToSql()
	if err != nil {
		return nil, buildError(err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing slots: %w", err)
	}
	defer rows.Close()

	var slots []models.ScheduleSlot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning slot: %w", err)
		}
		slots = append(slots, *s)
	}
	return slots, rows.Err()
}

// FindTeacherSlot returns the active slot in a teacher's cell, or nil
func (r *ScheduleRepository) FindTeacherSlot(ctx context.Context, termID, teacherID int64, at models.SlotCoordinate) (*models.ScheduleSlot, error) {
	return r.findOne(ctx, activeSlots().Where(squirrel.Eq{
		"term_id":     termID,
		"teacher_id":  teacherID,
		"day_of_week": at.DayOfWeek,
		"period":      at.Period,
	}))
}

// FindCourseSlot returns the active slot of a course at a cell, or nil
func (r *ScheduleRepository) FindCourseSlot(ctx context.Context, courseID int64, at models.SlotCoordinate) (*models.ScheduleSlot, error) {
	return r.findOne(ctx, activeSlots().Where(squirrel.Eq{
		"course_id":   courseID,
		"day_of_week": at.DayOfWeek,
		"period":      at.Period,
	}))
}

// ListTeacherSlots lists a teacher's active slots in a term
func (r *ScheduleRepository) ListTeacherSlots(ctx context.Context, termID, teacherID int64) ([]models.ScheduleSlot, error) {
	return r.listSlots(ctx, activeSlots().Where(squirrel.Eq{"term_id": termID, "teacher_id": teacherID}))
}

// ListCourseSlots lists a course's active slots
func (r *ScheduleRepository) ListCourseSlots(ctx context.Context, courseID int64) ([]models.ScheduleSlot, error) {
	return r.listSlots(ctx, activeSlots().Where(squirrel.Eq{"course_id": courseID}))
}

// ListStudentSlots expands the student lists of the term's other courses
// into occupied cells per student.
func (r *ScheduleRepository) ListStudentSlots(ctx context.Context, termID int64, studentIDs []int64, excludeCourseID int64) ([]models.StudentSlot, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}

	query, args, err := psql.Select("sid", "c.id", "c.name", "s.day_of_week", "s.period").
		From("courses c").
		CrossJoin("LATERAL unnest(c.student_ids) AS sid").
		Join("schedule_slots s ON s.course_id = c.id").
		Where(squirrel.Eq{
			"c.term_id": termID,
			"c.state":   models.LifecycleActive,
			"s.state":   models.LifecycleActive,
		}).
		Where(squirrel.NotEq{"c.id": excludeCourseID}).
		Where(squirrel.Expr("sid = ANY(?)", studentIDs)).
		OrderBy("sid", "s.day_of_week", "s.period", "c.id").
		ToSql()
	if err != nil {
		return nil, buildError(err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing student slots: %w", err)
	}
	defer rows.Close()

	var slots []models.StudentSlot
	for rows.Next() {
		var s models.StudentSlot
		if err := rows.Scan(&s.StudentID, &s.CourseID, &s.CourseName, &s.DayOfWeek, &s.Period); err != nil {
			return nil, fmt.Errorf("error scanning student slot: %w", err)
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// ListEntries lists display entries of a term narrowed by filter
func (r *ScheduleRepository) ListEntries(ctx context.Context, filter repositories.ScheduleFilter) ([]models.ScheduleEntry, error) {
	b := psql.Select("s.id", "c.id", "c.name", "c.subject", "u.id", "u.first_name", "u.last_name", "c.class_id", "s.day_of_week", "s.period").
		From("schedule_slots s").
		Join("courses c ON c.id = s.course_id").
		Join("users u ON u.id = c.teacher_id").
		Where(squirrel.Eq{
			"c.term_id": filter.TermID,
			"s.state":   models.LifecycleActive,
			"c.state":   models.LifecycleActive,
		})

	if filter.TeacherID != nil {
		b = b.Where(squirrel.Eq{"c.teacher_id": *filter.TeacherID})
	}
	if filter.CourseID != nil {
		b = b.Where(squirrel.Eq{"c.id": *filter.CourseID})
	}
	if filter.StudentID != nil {
		b = b.Where(squirrel.Expr("? = ANY(c.student_ids)", *filter.StudentID))
	}

	query, args, err := b.OrderBy("u.last_name", "u.first_name", "u.id", "s.day_of_week", "s.period", "s.id").ToSql()
	if err != nil {
		return nil, buildError(err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing schedule entries: %w", err)
	}
	defer rows.Close()

	var entries []models.ScheduleEntry
	for rows.Next() {
		var (
			e                   models.ScheduleEntry
			firstName, lastName string
		)
		err := rows.Scan(&e.SlotID, &e.CourseID, &e.CourseName, &e.Subject, &e.TeacherID,
			&firstName, &lastName, &e.ClassID, &e.DayOfWeek, &e.Period)
		if err != nil {
			return nil, fmt.Errorf("error scanning schedule entry: %w", err)
		}
		e.TeacherName = (&models.User{FirstName: firstName, LastName: lastName}).FullName()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Create inserts an active slot
func (r *ScheduleRepository) Create(ctx context.Context, slot *models.ScheduleSlot) error {
	query, args, err := psql.Insert("schedule_slots").
		Columns("course_id", "teacher_id", "term_id", "day_of_week", "period").
		Values(slot.CourseID, slot.TeacherID, slot.TermID, slot.DayOfWeek, slot.Period).
		Suffix("RETURNING id, state, created_at, updated_at").
		ToSql()
	if err != nil {
		return buildError(err)
	}

	err = r.q.QueryRow(ctx, query, args...).Scan(&slot.ID, &slot.State, &slot.CreatedAt, &slot.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating slot: %w", translate(err))
	}
	return nil
}

// UpdateCourse reassigns an active slot to another course
func (r *ScheduleRepository) UpdateCourse(ctx context.Context, slotID, courseID int64) error {
	query, args, err := psql.Update("schedule_slots").
		Set("course_id", courseID).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": slotID, "state": models.LifecycleActive}).
		ToSql()
	if err != nil {
		return buildError(err)
	}

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error updating slot %d: %w", slotID, translate(err))
	}
	if tag.RowsAffected() == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// Archive soft-deletes one slot
func (r *ScheduleRepository) Archive(ctx context.Context, slotID int64) error {
	tag, err := r.archive(ctx, squirrel.Eq{"id": slotID})
	if err != nil {
		return err
	}
	if tag == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// ArchiveByCourse soft-deletes every slot of a course
func (r *ScheduleRepository) ArchiveByCourse(ctx context.Context, courseID int64) error {
	_, err := r.archive(ctx, squirrel.Eq{"course_id": courseID})
	return err
}

func (r *ScheduleRepository) archive(ctx context.Context, where squirrel.Eq) (int64, error) {
	now := time.Now()
	query, args, err := psql.Update("schedule_slots").
		Set("state", models.LifecycleArchived).
		Set("archived_at", now).
		Set("updated_at", now).
		Where(where).
		Where(squirrel.Eq{"state": models.LifecycleActive}).
		ToSql()
	if err != nil {
		return 0, buildError(err)
	}

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("error archiving slots: %w", err)
	}
	return tag.RowsAffected(), nil
}
