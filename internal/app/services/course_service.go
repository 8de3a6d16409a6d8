package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/app/repositories"
	"github.com/yigit/timetable/internal/pkg/apperrors"
)

// CourseService handles course records
type CourseService struct {
	store    repositories.Store
	notifier ChangeNotifier
	logger   zerolog.Logger
}

// NewCourseService creates a new course service. notifier may be nil.
func NewCourseService(store repositories.Store, notifier ChangeNotifier, logger zerolog.Logger) *CourseService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &CourseService{store: store, notifier: notifier, logger: logger}
}

// CreateCourse creates a course. A zero TermID selects the active term.
// Initial students are enrolled without conflict checks since the new
// course has no slots yet.
func (s *CourseService) CreateCourse(ctx context.Context, course *models.Course) (*models.Course, error) {
	course.Name = strings.TrimSpace(course.Name)
	if course.Name == "" {
		return nil, apperrors.NewValidationError(nil, "Course name cannot be empty")
	}

	if _, err := loadUser(ctx, s.store, course.TeacherID, models.RoleTeacher); err != nil {
		return nil, fail(s.logger, err, "Failed to create course")
	}

	if course.TermID == 0 {
		term, err := activeTerm(ctx, s.store)
		if err != nil {
			return nil, fail(s.logger, err, "Failed to create course")
		}
		course.TermID = term.ID
	} else if _, err := s.store.Terms().GetByID(ctx, course.TermID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(apperrors.ErrTermNotFound, fmt.Sprintf("Term %d not found", course.TermID))
		}
		return nil, fail(s.logger, err, "Failed to create course")
	}

	if course.ClassID != nil {
		if _, err := s.store.Classes().GetByID(ctx, *course.ClassID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, apperrors.NewNotFoundError(apperrors.ErrClassNotFound, fmt.Sprintf("Class %d not found", *course.ClassID))
			}
			return nil, fail(s.logger, err, "Failed to create course")
		}
	}

	course.StudentIDs = uniqueIDs(course.StudentIDs)
	if len(course.StudentIDs) > 0 {
		users, err := s.store.Users().GetByIDs(ctx, course.StudentIDs)
		if err != nil {
			return nil, fail(s.logger, err, "Failed to create course")
		}
		for _, id := range course.StudentIDs {
			if u, ok := users[id]; !ok || u.RoleType != models.RoleStudent {
				return nil, apperrors.NewNotFoundError(apperrors.ErrStudentNotFound, fmt.Sprintf("Student %d not found", id))
			}
		}
	}

	if err := s.store.Courses().Create(ctx, course); err != nil {
		return nil, fail(s.logger, err, "Failed to create course")
	}
	s.logger.Info().Int64("courseID", course.ID).Int64("teacherID", course.TeacherID).Int64("termID", course.TermID).Msg("Course created")
	return course, nil
}

// GetCourse retrieves an active course
func (s *CourseService) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	course, err := loadCourse(ctx, s.store, id)
	if err != nil {
		return nil, fail(s.logger, err, "Failed to load course")
	}
	return course, nil
}

// ListCourses lists the active term's courses, optionally for one teacher
// or one enrolled student
func (s *CourseService) ListCourses(ctx context.Context, teacherID, studentID *int64) ([]models.Course, error) {
	if teacherID != nil && studentID != nil {
		return nil, apperrors.NewValidationError(nil, "Filter by teacher or by student, not both")
	}
	term, err := activeTerm(ctx, s.store)
	if err != nil {
		return nil, fail(s.logger, err, "Failed to list courses")
	}

	var courses []models.Course
	switch {
	case teacherID != nil:
		courses, err = s.store.Courses().ListByTeacher(ctx, term.ID, *teacherID)
	case studentID != nil:
		courses, err = s.store.Courses().ListByStudent(ctx, term.ID, *studentID)
	default:
		courses, err = s.store.Courses().ListByTerm(ctx, term.ID)
	}
	if err != nil {
		return nil, fail(s.logger, err, "Failed to list courses")
	}
	return courses, nil
}

// ArchiveCourse retires a course together with its slots
func (s *CourseService) ArchiveCourse(ctx context.Context, id int64) error {
	var course *models.Course
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		var err error
		if course, err = loadCourse(ctx, tx, id); err != nil {
			return err
		}
		if err := tx.LockTerm(ctx, course.TermID); err != nil {
			return err
		}
		if err := tx.Schedules().ArchiveByCourse(ctx, id); err != nil {
			return fmt.Errorf("error archiving slots of course %d: %w", id, err)
		}
		if err := tx.Courses().Archive(ctx, id); err != nil {
			return fmt.Errorf("error archiving course %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return fail(s.logger, err, "Failed to archive course")
	}

	s.notifier.ScheduleChanged(ctx, ScheduleChange{
		TermID:     course.TermID,
		TeacherID:  course.TeacherID,
		CourseIDs:  []int64{course.ID},
		StudentIDs: course.StudentIDs,
	})
	s.logger.Info().Int64("courseID", id).Msg("Course archived")
	return nil
}
