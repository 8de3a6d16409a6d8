package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/app/repositories"
	"github.com/yigit/timetable/internal/db"
)

// ClassRepository handles database operations for classes and rosters
type ClassRepository struct {
	q db.Querier
}

// Create inserts a class
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	query, args, err := psql.Insert("classes").
		Columns("name", "grade_level").
		Values(class.Name, class.GradeLevel).
		Suffix("RETURNING id, state, created_at, updated_at").
		ToSql()
	if err != nil {
		return buildError(err)
	}

	err = r.q.QueryRow(ctx, query, args...).Scan(&class.ID, &class.State, &class.CreatedAt, &class.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating class: %w", translate(err))
	}
	return nil
}

// GetByID retrieves an active class with its roster
func (r *ClassRepository) GetByID(ctx context.Context, id int64) (*models.Class, error) {
	query, args, err := psql.Select("id", "name", "grade_level", "state", "archived_at", "created_at", "updated_at").
		From("classes").
		Where(squirrel.Eq{"id": id, "state": models.LifecycleActive}).
		ToSql()
	if err != nil {
		return nil, buildError(err)
	}

	var c models.Class
	err = r.q.QueryRow(ctx, query, args...).Scan(&c.ID, &c.Name, &c.GradeLevel, &c.State, &c.ArchivedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}

	c.StudentIDs, err = r.ListStudentIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List lists active classes with their rosters
func (r *ClassRepository) List(ctx context.Context) ([]models.Class, error) {
	query, args, err := psql.Select("c.id", "c.name", "c.grade_level", "c.state", "c.archived_at", "c.created_at", "c.updated_at",
		"COALESCE(array_agg(cs.student_id ORDER BY cs.student_id) FILTER (WHERE cs.student_id IS NOT NULL), '{}')").
		From("classes c").
		LeftJoin("class_students cs ON cs.class_id = c.id").
		Where(squirrel.Eq{"c.state": models.LifecycleActive}).
		GroupBy("c.id").
		OrderBy("c.grade_level", "c.name", "c.id").
		ToSql()
	if err != nil {
		return nil, buildError(err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing classes: %w", err)
	}
	defer rows.Close()

	var classes []models.Class
	for rows.Next() {
		var c models.Class
		if err := rows.Scan(&c.ID, &c.Name, &c.GradeLevel, &c.State, &c.ArchivedAt, &c.CreatedAt, &c.UpdatedAt, &c.StudentIDs); err != nil {
			return nil, fmt.Errorf("error scanning class: %w", err)
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// AddStudent inserts a roster row
func (r *ClassRepository) AddStudent(ctx context.Context, classID, studentID int64) error {
	query, args, err := psql.Insert("class_students").
		Columns("class_id", "student_id").
		Values(classID, studentID).
		ToSql()
	if err != nil {
		return buildError(err)
	}

	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("error adding student %d to class %d: %w", studentID, classID, translate(err))
	}
	return nil
}

// RemoveStudent deletes a roster row
func (r *ClassRepository) RemoveStudent(ctx context.Context, classID, studentID int64) error {
	query, args, err := psql.Delete("class_students").
		Where(squirrel.Eq{"class_id": classID, "student_id": studentID}).
		ToSql()
	if err != nil {
		return buildError(err)
	}

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error removing student %d from class %d: %w", studentID, classID, err)
	}
	if tag.RowsAffected() == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// ListStudentIDs lists the roster of a class in ID order
func (r *ClassRepository) ListStudentIDs(ctx context.Context, classID int64) ([]int64, error) {
	query, args, err := psql.Select("student_id").
		From("class_students").
		Where(squirrel.Eq{"class_id": classID}).
		OrderBy("student_id").
		ToSql()
	if err != nil {
		return nil, buildError(err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing class students: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning class student: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
