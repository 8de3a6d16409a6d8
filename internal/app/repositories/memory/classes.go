package memory

import (
	"context"
	"sort"
	"time"

	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/app/repositories"
)

// ClassRepository is the in-memory class store
type ClassRepository struct {
	s *Store
}

func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	return r.s.write(func(d *data) error {
		now := time.Now()
		class.ID = d.id()
		class.State = models.LifecycleActive
		class.CreatedAt, class.UpdatedAt = now, now
		class.StudentIDs = []int64{}
		d.classes[class.ID] = *class
		d.classStudents[class.ID] = make(map[int64]time.Time)
		return nil
	})
}

func rosterOf(d *data, classID int64) []int64 {
	ids := []int64{}
	for sid := range d.classStudents[classID] {
		ids = append(ids, sid)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r *ClassRepository) GetByID(ctx context.Context, id int64) (*models.Class, error) {
	var out *models.Class
	err := r.s.read(func(d *data) error {
		c, ok := d.classes[id]
		if !ok || !c.IsActive() {
			return repositories.ErrNotFound
		}
		c.StudentIDs = rosterOf(d, id)
		out = &c
		return nil
	})
	return out, err
}

func (r *ClassRepository) List(ctx context.Context) ([]models.Class, error) {
	var out []models.Class
	err := r.s.read(func(d *data) error {
		for id, c := range d.classes {
			if c.IsActive() {
				c.StudentIDs = rosterOf(d, id)
				out = append(out, c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.GradeLevel != b.GradeLevel {
			return a.GradeLevel < b.GradeLevel
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	return out, err
}

func (r *ClassRepository) AddStudent(ctx context.Context, classID, studentID int64) error {
	return r.s.write(func(d *data) error {
		c, ok := d.classes[classID]
		if !ok || !c.IsActive() {
			return repositories.ErrNotFound
		}
		if _, ok := d.users[studentID]; !ok {
			return repositories.ErrNotFound
		}
		members := d.classStudents[classID]
		if _, exists := members[studentID]; exists {
			return repositories.ErrDuplicate
		}
		members[studentID] = time.Now()
		return nil
	})
}

func (r *ClassRepository) RemoveStudent(ctx context.Context, classID, studentID int64) error {
	return r.s.write(func(d *data) error {
		members := d.classStudents[classID]
		if _, exists := members[studentID]; !exists {
			return repositories.ErrNotFound
		}
		delete(members, studentID)
		return nil
	})
}

func (r *ClassRepository) ListStudentIDs(ctx context.Context, classID int64) ([]int64, error) {
	var out []int64
	err := r.s.read(func(d *data) error {
		out = rosterOf(d, classID)
		return nil
	})
	return out, err
}
