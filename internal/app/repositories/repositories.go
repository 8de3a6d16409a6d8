package repositories

import (
	"context"
	"errors"

	"github.com/yigit/timetable/internal/app/models"
)

// ErrNotFound is returned by Get* methods when no active record matches.
// Find* methods return a nil record and a nil error instead.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a write violates a uniqueness rule.
var ErrDuplicate = errors.New("duplicate record")

// UserRepository handles teacher, student and admin records
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// GetByIDs returns the active users among ids keyed by id. Unknown ids
	// are absent from the map.
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error)
	ListByRole(ctx context.Context, role models.RoleType) ([]models.User, error)
}

// TermRepository handles terms
type TermRepository interface {
	Create(ctx context.Context, term *models.Term) error
	GetByID(ctx context.Context, id int64) (*models.Term, error)
	GetActive(ctx context.Context) (*models.Term, error)
	List(ctx context.Context) ([]models.Term, error)
	// SetActive marks id as the only active term.
	SetActive(ctx context.Context, id int64) error
}

// AcademicYearRepository handles academic years
type AcademicYearRepository interface {
	Create(ctx context.Context, year *models.AcademicYear) error
	GetByID(ctx context.Context, id int64) (*models.AcademicYear, error)
	GetActive(ctx context.Context) (*models.AcademicYear, error)
	List(ctx context.Context) ([]models.AcademicYear, error)
	// SetActive marks id as the only active academic year.
	SetActive(ctx context.Context, id int64) error
}

// CourseRepository handles courses and their student lists
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	ListByTerm(ctx context.Context, termID int64) ([]models.Course, error)
	ListByTeacher(ctx context.Context, termID, teacherID int64) ([]models.Course, error)
	ListByStudent(ctx context.Context, termID, studentID int64) ([]models.Course, error)
	Archive(ctx context.Context, id int64) error
	// AddStudent returns ErrDuplicate when the student is already enrolled.
	AddStudent(ctx context.Context, courseID, studentID int64) error
	RemoveStudent(ctx context.Context, courseID, studentID int64) error
}

// ScheduleFilter selects display entries. TermID is required; the other
// fields narrow the result when set.
type ScheduleFilter struct {
	TermID    int64
	TeacherID *int64
	CourseID  *int64
	StudentID *int64
}

// ScheduleRepository handles schedule slots
type ScheduleRepository interface {
	// FindTeacherSlot is the occupancy query for a teacher's cell.
	FindTeacherSlot(ctx context.Context, termID, teacherID int64, at models.SlotCoordinate) (*models.ScheduleSlot, error)
	// FindCourseSlot is the occupancy query for a course's cell.
	FindCourseSlot(ctx context.Context, courseID int64, at models.SlotCoordinate) (*models.ScheduleSlot, error)
	ListTeacherSlots(ctx context.Context, termID, teacherID int64) ([]models.ScheduleSlot, error)
	ListCourseSlots(ctx context.Context, courseID int64) ([]models.ScheduleSlot, error)
	// ListStudentSlots returns the occupied cells of each student through
	// every active course of termID other than excludeCourseID.
	ListStudentSlots(ctx context.Context, termID int64, studentIDs []int64, excludeCourseID int64) ([]models.StudentSlot, error)
	ListEntries(ctx context.Context, filter ScheduleFilter) ([]models.ScheduleEntry, error)
	Create(ctx context.Context, slot *models.ScheduleSlot) error
	UpdateCourse(ctx context.Context, slotID, courseID int64) error
	Archive(ctx context.Context, slotID int64) error
	ArchiveByCourse(ctx context.Context, courseID int64) error
}

// ClassRepository handles classes and roster membership
type ClassRepository interface {
	Create(ctx context.Context, class *models.Class) error
	GetByID(ctx context.Context, id int64) (*models.Class, error)
	List(ctx context.Context) ([]models.Class, error)
	// AddStudent returns ErrDuplicate when the student is already a member.
	AddStudent(ctx context.Context, classID, studentID int64) error
	RemoveStudent(ctx context.Context, classID, studentID int64) error
	ListStudentIDs(ctx context.Context, classID int64) ([]int64, error)
}

// Store groups the repositories of one storage backend
type Store interface {
	Users() UserRepository
	Terms() TermRepository
	AcademicYears() AcademicYearRepository
	Courses() CourseRepository
	Schedules() ScheduleRepository
	Classes() ClassRepository

	// WithinTransaction runs fn against a transactional view of the store.
	// Returning an error from fn discards every write made through tx.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
	// LockTerm serializes schedule mutations of termID until the enclosing
	// transaction ends.
	LockTerm(ctx context.Context, termID int64) error
}
