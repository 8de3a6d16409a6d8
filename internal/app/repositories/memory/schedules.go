package memory

import (
	"context"
	"sort"
	"time"

	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/app/repositories"
)

// ScheduleRepository is the in-memory slot store
type ScheduleRepository struct {
	s *Store
}

func slotLess(a, b *models.ScheduleSlot) bool {
	if a.DayOfWeek != b.DayOfWeek || a.Period != b.Period {
		return a.Coordinate().Less(b.Coordinate())
	}
	return a.ID < b.ID
}

func (r *ScheduleRepository) find(match func(s *models.ScheduleSlot) bool) (*models.ScheduleSlot, error) {
	var out *models.ScheduleSlot
	err := r.s.read(func(d *data) error {
		for _, s := range d.slots {
			if s.IsActive() && match(&s) {
				out = &s
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ScheduleRepository) list(match func(s *models.ScheduleSlot) bool) ([]models.ScheduleSlot, error) {
	var out []models.ScheduleSlot
	err := r.s.read(func(d *data) error {
		for _, s := range d.slots {
			if s.IsActive() && match(&s) {
				out = append(out, s)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return slotLess(&out[i], &out[j]) })
	return out, err
}

func (r *ScheduleRepository) FindTeacherSlot(ctx context.Context, termID, teacherID int64, at models.SlotCoordinate) (*models.ScheduleSlot, error) {
	return r.find(func(s *models.ScheduleSlot) bool {
		return s.TermID == termID && s.TeacherID == teacherID && s.Coordinate() == at
	})
}

func (r *ScheduleRepository) FindCourseSlot(ctx context.Context, courseID int64, at models.SlotCoordinate) (*models.ScheduleSlot, error) {
	return r.find(func(s *models.ScheduleSlot) bool {
		return s.CourseID == courseID && s.Coordinate() == at
	})
}

func (r *ScheduleRepository) ListTeacherSlots(ctx context.Context, termID, teacherID int64) ([]models.ScheduleSlot, error) {
	return r.list(func(s *models.ScheduleSlot) bool { return s.TermID == termID && s.TeacherID == teacherID })
}

func (r *ScheduleRepository) ListCourseSlots(ctx context.Context, courseID int64) ([]models.ScheduleSlot, error) {
	return r.list(func(s *models.ScheduleSlot) bool { return s.CourseID == courseID })
}

func (r *ScheduleRepository) ListStudentSlots(ctx context.Context, termID int64, studentIDs []int64, excludeCourseID int64) ([]models.StudentSlot, error) {
	wanted := make(map[int64]bool, len(studentIDs))
	for _, id := range studentIDs {
		wanted[id] = true
	}

	var out []models.StudentSlot
	err := r.s.read(func(d *data) error {
		for _, s := range d.slots {
			if !s.IsActive() || s.CourseID == excludeCourseID {
				continue
			}
			c, ok := d.courses[s.CourseID]
			if !ok || !c.IsActive() || c.TermID != termID {
				continue
			}
			for _, sid := range c.StudentIDs {
				if wanted[sid] {
					out = append(out, models.StudentSlot{
						StudentID:  sid,
						CourseID:   c.ID,
						CourseName: c.Name,
						DayOfWeek:  s.DayOfWeek,
						Period:     s.Period,
					})
				}
			}
		}
		return nil
	})

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.StudentID != b.StudentID {
			return a.StudentID < b.StudentID
		}
		ac := models.SlotCoordinate{DayOfWeek: a.DayOfWeek, Period: a.Period}
		bc := models.SlotCoordinate{DayOfWeek: b.DayOfWeek, Period: b.Period}
		if ac != bc {
			return ac.Less(bc)
		}
		return a.CourseID < b.CourseID
	})
	return out, err
}

func (r *ScheduleRepository) ListEntries(ctx context.Context, filter repositories.ScheduleFilter) ([]models.ScheduleEntry, error) {
	type row struct {
		entry   models.ScheduleEntry
		teacher models.User
	}

	var rows []row
	err := r.s.read(func(d *data) error {
		for _, s := range d.slots {
			if !s.IsActive() {
				continue
			}
			c, ok := d.courses[s.CourseID]
			if !ok || !c.IsActive() || c.TermID != filter.TermID {
				continue
			}
			if filter.TeacherID != nil && c.TeacherID != *filter.TeacherID {
				continue
			}
			if filter.CourseID != nil && c.ID != *filter.CourseID {
				continue
			}
			if filter.StudentID != nil && !c.HasStudent(*filter.StudentID) {
				continue
			}
			teacher, ok := d.users[c.TeacherID]
			if !ok {
				continue
			}
			rows = append(rows, row{
				entry: models.ScheduleEntry{
					SlotID:      s.ID,
					CourseID:    c.ID,
					CourseName:  c.Name,
					Subject:     c.Subject,
					TeacherID:   teacher.ID,
					TeacherName: teacher.FullName(),
					ClassID:     c.ClassID,
					DayOfWeek:   s.DayOfWeek,
					Period:      s.Period,
				},
				teacher: teacher,
			})
		}
		return nil
	})

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.teacher.ID != b.teacher.ID {
			return userLess(&a.teacher, &b.teacher)
		}
		ac, bc := a.entry.Coordinate(), b.entry.Coordinate()
		if ac != bc {
			return ac.Less(bc)
		}
		return a.entry.SlotID < b.entry.SlotID
	})

	var out []models.ScheduleEntry
	for _, rw := range rows {
		out = append(out, rw.entry)
	}
	return out, err
}

func (r *ScheduleRepository) Create(ctx context.Context, slot *models.ScheduleSlot) error {
	return r.s.write(func(d *data) error {
		for _, s := range d.slots {
			if s.IsActive() && s.TermID == slot.TermID && s.TeacherID == slot.TeacherID && s.Coordinate() == slot.Coordinate() {
				return repositories.ErrDuplicate
			}
		}
		now := time.Now()
		slot.ID = d.id()
		slot.State = models.LifecycleActive
		slot.ArchivedAt = nil
		slot.CreatedAt, slot.UpdatedAt = now, now
		d.slots[slot.ID] = *slot
		return nil
	})
}

func (r *ScheduleRepository) UpdateCourse(ctx context.Context, slotID, courseID int64) error {
	return r.s.write(func(d *data) error {
		s, ok := d.slots[slotID]
		if !ok || !s.IsActive() {
			return repositories.ErrNotFound
		}
		s.CourseID = courseID
		s.UpdatedAt = time.Now()
		d.slots[slotID] = s
		return nil
	})
}

func (r *ScheduleRepository) Archive(ctx context.Context, slotID int64) error {
	return r.s.write(func(d *data) error {
		s, ok := d.slots[slotID]
		if !ok || !s.IsActive() {
			return repositories.ErrNotFound
		}
		s.Archive(time.Now())
		d.slots[slotID] = s
		return nil
	})
}

func (r *ScheduleRepository) ArchiveByCourse(ctx context.Context, courseID int64) error {
	return r.s.write(func(d *data) error {
		now := time.Now()
		for id, s := range d.slots {
			if s.CourseID == courseID && s.IsActive() {
				s.Archive(now)
				d.slots[id] = s
			}
		}
		return nil
	})
}
