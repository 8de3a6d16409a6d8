package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/app/repositories"
	"github.com/yigit/timetable/internal/db"
)

var courseColumns = []string{"id", "name", "subject", "teacher_id", "term_id", "class_id", "student_ids", "state", "archived_at", "created_at", "updated_at"}

// CourseRepository handles database operations for courses
type CourseRepository struct {
	q db.Querier
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var c models.Course
	err := row.Scan(&c.ID, &c.Name, &c.Subject, &c.TeacherID, &c.TermID, &c.ClassID, &c.StudentIDs,
		&c.State, &c.ArchivedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if c.StudentIDs == nil {
		c.StudentIDs = []int64{}
	}
	return &c, nil
}

// Create inserts a course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	studentIDs := course.StudentIDs
	if studentIDs == nil {
		studentIDs = []int64{}
	}

	query, args, err := psql.Insert("courses").
		Columns("name", "subject", "teacher_id", "term_id", "class_id", "student_ids").
		Values(course.Name, course.Subject, course.TeacherID, course.TermID, course.ClassID, studentIDs).
		Suffix("RETURNING id, state, created_at, updated_at").
		ToSql()
	if err != nil {
		return buildError(err)
	}

	err = r.q.QueryRow(ctx, query, args...).Scan(&course.ID, &course.State, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating course: %w", translate(err))
	}
	course.StudentIDs = studentIDs
	return nil
}

// GetByID retrieves an active course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	query, args, err := psql.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"id": id, "state": models.LifecycleActive}).
		ToSql()
	if err != nil {
		return nil, buildError(err)
	}

	course, err := scanCourse(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate(err)
	}
	return course, nil
}

// ListByTerm lists the active courses of a term
func (r *CourseRepository) ListByTerm(ctx context.Context, termID int64) ([]models.Course, error) {
	return r.list(ctx, squirrel.Eq{"term_id": termID})
}

// ListByTeacher lists the active courses a teacher gives in a term
func (r *CourseRepository) ListByTeacher(ctx context.Context, termID, teacherID int64) ([]models.Course, error) {
	return r.list(ctx, squirrel.Eq{"term_id": termID, "teacher_id": teacherID})
}

// ListByStudent lists the active courses a student is enrolled in for a term
func (r *CourseRepository) ListByStudent(ctx context.Context, termID, studentID int64) ([]models.Course, error) {
	return r.list(ctx, squirrel.And{
		squirrel.Eq{"term_id": termID},
		squirrel.Expr("? = ANY(student_ids)", studentID),
	})
}

func (r *CourseRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]models.Course, error) {
	query, args, err := psql.Select(courseColumns...).
		From("courses").
		Where(where).
		Where(squirrel.Eq{"state": models.LifecycleActive}).
		OrderBy("name", "id").
		ToSql()
	if err != nil {
		return nil, buildError(err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course: %w", err)
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}

// Archive soft-deletes a course
func (r *CourseRepository) Archive(ctx context.Context, id int64) error {
	now := time.Now()
	query, args, err := psql.Update("courses").
		Set("state", models.LifecycleArchived).
		Set("archived_at", now).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": id, "state": models.LifecycleActive}).
		ToSql()
	if err != nil {
		return buildError(err)
	}

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error archiving course %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// AddStudent appends studentID to the course's student list
func (r *CourseRepository) AddStudent(ctx context.Context, courseID, studentID int64) error {
	query, args, err := psql.Update("courses").
		Set("student_ids", squirrel.Expr("array_append(student_ids, ?::bigint)", studentID)).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": courseID, "state": models.LifecycleActive}).
		Where(squirrel.Expr("NOT (? = ANY(student_ids))", studentID)).
		ToSql()
	if err != nil {
		return buildError(err)
	}

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error enrolling student %d: %w", studentID, translate(err))
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Either the course is gone or the student is already on it
	course, err := r.GetByID(ctx, courseID)
	if err != nil {
		return err
	}
	if course.HasStudent(studentID) {
		return repositories.ErrDuplicate
	}
	return repositories.ErrNotFound
}

// RemoveStudent drops studentID from the course's student list
func (r *CourseRepository) RemoveStudent(ctx context.Context, courseID, studentID int64) error {
	query, args, err := psql.Update("courses").
		Set("student_ids", squirrel.Expr("array_remove(student_ids, ?::bigint)", studentID)).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": courseID, "state": models.LifecycleActive}).
		Where(squirrel.Expr("? = ANY(student_ids)", studentID)).
		ToSql()
	if err != nil {
		return buildError(err)
	}

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error unenrolling student %d: %w", studentID, err)
	}
	if tag.RowsAffected() == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
