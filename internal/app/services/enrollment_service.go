package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/app/repositories"
	"github.com/yigit/timetable/internal/pkg/apperrors"
)

// EnrollmentService adds and removes course students. Enrolling checks the
// student's week against the course's slots.
type EnrollmentService struct {
	store    repositories.Store
	notifier ChangeNotifier
	logger   zerolog.Logger
}

// NewEnrollmentService creates a new enrollment service. notifier may be nil.
func NewEnrollmentService(store repositories.Store, notifier ChangeNotifier, logger zerolog.Logger) *EnrollmentService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &EnrollmentService{store: store, notifier: notifier, logger: logger}
}

// EnrollClassResult reports a class-wide enrollment
type EnrollClassResult struct {
	Enrolled []int64
	Skipped  []models.StudentConflict
}

func (s *EnrollmentService) notify(ctx context.Context, course *models.Course, studentIDs []int64) {
	s.notifier.ScheduleChanged(ctx, ScheduleChange{
		TermID:     course.TermID,
		TeacherID:  course.TeacherID,
		CourseIDs:  []int64{course.ID},
		StudentIDs: studentIDs,
	})
}

// enroll adds one student inside tx, returning the blocking conflict if any
func enroll(ctx context.Context, tx repositories.Store, termID int64, course *models.Course, student *models.User) (*models.ScheduleConflict, error) {
	if course.HasStudent(student.ID) {
		return nil, apperrors.NewCustomError(apperrors.ErrAlreadyEnrolled, fmt.Sprintf("%s is already enrolled in %s", student.FullName(), course.Name))
	}

	conflict, err := studentConflict(ctx, tx, termID, student.ID, course)
	if err != nil {
		return nil, fmt.Errorf("error checking conflicts for student %d: %w", student.ID, err)
	}
	if conflict != nil {
		return conflict, nil
	}

	if err := tx.Courses().AddStudent(ctx, course.ID, student.ID); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.NewCustomError(apperrors.ErrAlreadyEnrolled, fmt.Sprintf("%s is already enrolled in %s", student.FullName(), course.Name))
		}
		return nil, fmt.Errorf("error enrolling student %d: %w", student.ID, err)
	}
	course.StudentIDs = append(course.StudentIDs, student.ID)
	return nil, nil
}

// EnrollStudent adds a student to a course unless the course's slots
// collide with the student's other active-term courses
func (s *EnrollmentService) EnrollStudent(ctx context.Context, courseID, studentID int64) (*models.Course, error) {
	var course *models.Course
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		term, err := activeTerm(ctx, tx)
		if err != nil {
			return err
		}
		if err := tx.LockTerm(ctx, term.ID); err != nil {
			return err
		}
		student, err := loadUser(ctx, tx, studentID, models.RoleStudent)
		if err != nil {
			return err
		}
		if course, err = loadCourse(ctx, tx, courseID); err != nil {
			return err
		}

		conflict, err := enroll(ctx, tx, term.ID, course, student)
		if err != nil {
			return err
		}
		if conflict != nil {
			sc := models.StudentConflict{StudentID: student.ID, StudentName: student.FullName(), Conflict: *conflict}
			return apperrors.NewScheduleConflictError(ConflictMessage(sc), map[string]interface{}{
				"conflicts": []models.StudentConflict{sc},
			})
		}
		return nil
	})
	if err != nil {
		return nil, fail(s.logger, err, "Failed to enroll student")
	}

	s.notify(ctx, course, []int64{studentID})
	s.logger.Info().Int64("courseID", courseID).Int64("studentID", studentID).Msg("Student enrolled")
	return course, nil
}

// UnenrollStudent removes a student from a course
func (s *EnrollmentService) UnenrollStudent(ctx context.Context, courseID, studentID int64) (*models.Course, error) {
	var course *models.Course
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		var err error
		if course, err = loadCourse(ctx, tx, courseID); err != nil {
			return err
		}
		if err := tx.Courses().RemoveStudent(ctx, courseID, studentID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return apperrors.NewNotFoundError(apperrors.ErrStudentNotFound, fmt.Sprintf("Student %d is not enrolled in %s", studentID, course.Name))
			}
			return fmt.Errorf("error unenrolling student %d: %w", studentID, err)
		}
		course, err = tx.Courses().GetByID(ctx, courseID)
		return err
	})
	if err != nil {
		return nil, fail(s.logger, err, "Failed to unenroll student")
	}

	s.notify(ctx, course, []int64{studentID})
	s.logger.Info().Int64("courseID", courseID).Int64("studentID", studentID).Msg("Student unenrolled")
	return course, nil
}

// EnrollClass enrolls every roster member of the course's class. Students
// who are already enrolled are left alone; students who would be
// double-booked are skipped and reported.
func (s *EnrollmentService) EnrollClass(ctx context.Context, courseID int64) (*EnrollClassResult, error) {
	result := &EnrollClassResult{Enrolled: []int64{}, Skipped: []models.StudentConflict{}}
	var course *models.Course
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		term, err := activeTerm(ctx, tx)
		if err != nil {
			return err
		}
		if err := tx.LockTerm(ctx, term.ID); err != nil {
			return err
		}
		if course, err = loadCourse(ctx, tx, courseID); err != nil {
			return err
		}
		if course.ClassID == nil {
			return apperrors.NewValidationError(nil, fmt.Sprintf("Course %s has no class", course.Name))
		}

		roster, err := tx.Classes().ListStudentIDs(ctx, *course.ClassID)
		if err != nil {
			return fmt.Errorf("error loading class roster: %w", err)
		}
		users, err := tx.Users().GetByIDs(ctx, roster)
		if err != nil {
			return fmt.Errorf("error loading class students: %w", err)
		}

		for _, id := range roster {
			student, ok := users[id]
			if !ok || student.RoleType != models.RoleStudent || course.HasStudent(id) {
				continue
			}
			conflict, err := enroll(ctx, tx, term.ID, course, student)
			if err != nil {
				return err
			}
			if conflict != nil {
				result.Skipped = append(result.Skipped, models.StudentConflict{
					StudentID:   id,
					StudentName: student.FullName(),
					Conflict:    *conflict,
				})
				continue
			}
			result.Enrolled = append(result.Enrolled, id)
		}
		return nil
	})
	if err != nil {
		return nil, fail(s.logger, err, "Failed to enroll class")
	}

	if len(result.Enrolled) > 0 {
		s.notify(ctx, course, result.Enrolled)
	}
	s.logger.Info().
		Int64("courseID", courseID).
		Int("enrolled", len(result.Enrolled)).
		Int("skipped", len(result.Skipped)).
		Msg("Class enrolled")
	return result, nil
}
