package memory

import (
	"context"
	"sort"
	"time"

	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/app/repositories"
)

// CourseRepository is the in-memory course store
type CourseRepository struct {
	s *Store
}

func copyCourse(c models.Course) *models.Course {
	c.StudentIDs = append([]int64{}, c.StudentIDs...)
	return &c
}

func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.s.write(func(d *data) error {
		now := time.Now()
		course.ID = d.id()
		course.State = models.LifecycleActive
		course.CreatedAt, course.UpdatedAt = now, now
		if course.StudentIDs == nil {
			course.StudentIDs = []int64{}
		}
		d.courses[course.ID] = *copyCourse(*course)
		return nil
	})
}

func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	var out *models.Course
	err := r.s.read(func(d *data) error {
		c, ok := d.courses[id]
		if !ok || !c.IsActive() {
			return repositories.ErrNotFound
		}
		out = copyCourse(c)
		return nil
	})
	return out, err
}

func (r *CourseRepository) ListByTerm(ctx context.Context, termID int64) ([]models.Course, error) {
	return r.list(func(c *models.Course) bool { return c.TermID == termID })
}

func (r *CourseRepository) ListByTeacher(ctx context.Context, termID, teacherID int64) ([]models.Course, error) {
	return r.list(func(c *models.Course) bool { return c.TermID == termID && c.TeacherID == teacherID })
}

func (r *CourseRepository) ListByStudent(ctx context.Context, termID, studentID int64) ([]models.Course, error) {
	return r.list(func(c *models.Course) bool { return c.TermID == termID && c.HasStudent(studentID) })
}

func (r *CourseRepository) list(match func(c *models.Course) bool) ([]models.Course, error) {
	var out []models.Course
	err := r.s.read(func(d *data) error {
		for _, c := range d.courses {
			if c.IsActive() && match(&c) {
				out = append(out, *copyCourse(c))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r *CourseRepository) Archive(ctx context.Context, id int64) error {
	return r.s.write(func(d *data) error {
		c, ok := d.courses[id]
		if !ok || !c.IsActive() {
			return repositories.ErrNotFound
		}
		c.Archive(time.Now())
		d.courses[id] = c
		return nil
	})
}

func (r *CourseRepository) AddStudent(ctx context.Context, courseID, studentID int64) error {
	return r.s.write(func(d *data) error {
		c, ok := d.courses[courseID]
		if !ok || !c.IsActive() {
			return repositories.ErrNotFound
		}
		if c.HasStudent(studentID) {
			return repositories.ErrDuplicate
		}
		c.StudentIDs = append(append([]int64{}, c.StudentIDs...), studentID)
		c.UpdatedAt = time.Now()
		d.courses[courseID] = c
		return nil
	})
}

func (r *CourseRepository) RemoveStudent(ctx context.Context, courseID, studentID int64) error {
	return r.s.write(func(d *data) error {
		c, ok := d.courses[courseID]
		if !ok || !c.IsActive() || !c.HasStudent(studentID) {
			return repositories.ErrNotFound
		}
		ids := make([]int64, 0, len(c.StudentIDs))
		for _, id := range c.StudentIDs {
			if id != studentID {
				ids = append(ids, id)
			}
		}
		c.StudentIDs = ids
		c.UpdatedAt = time.Now()
		d.courses[courseID] = c
		return nil
	})
}
