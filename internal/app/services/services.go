// Package services holds the timetable business logic:
//   - ConflictService: student double-booking checks
//   - ScheduleService: slot mutation and schedule views
//   - TermService: terms and academic years
//   - CourseService, EnrollmentService, ClassService: catalog and rosters
//   - ExportService: master schedule workbook
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

// fail passes application errors through and hides everything else behind
// a logged internal error
func fail(logger zerolog.Logger, err error, msg string) error {
	var ce *apperrors.CustomError
	if errors.As(err, &ce) {
		return err
	}
	logger.Error().Err(err).Msg(msg)
	return apperrors.NewInternalError(msg, err)
}

// activeTerm loads the active term or reports that none is set
func activeTerm(ctx context.Context, store repositories.Store) (*models.Term, error) {
	term, err := store.Terms().GetActive(ctx)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NewValidationError(apperrors.ErrNoActiveTerm, "No active term is set")
	}
	if err != nil {
		return nil, fmt.Errorf("error loading active term: %w", err)
	}
	return term, nil
}

var roleSentinels = map[models.RoleType]error{
	models.RoleTeacher: apperrors.ErrTeacherNotFound,
	models.RoleStudent: apperrors.ErrStudentNotFound,
}

// loadUser loads an active user that must hold role
func loadUser(ctx context.Context, store repositories.Store, id int64, role models.RoleType) (*models.User, error) {
	sentinel, ok := roleSentinels[role]
	if !ok {
		sentinel = apperrors.ErrResourceNotFound
	}
	notFound := apperrors.NewNotFoundError(sentinel, fmt.Sprintf("%s %d not found", roleLabel(role), id))

	user, err := store.Users().GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFound
	}
	if err != nil {
		return nil, fmt.Errorf("error loading user %d: %w", id, err)
	}
	if user.RoleType != role {
		return nil, notFound
	}
	return user, nil
}

func roleLabel(role models.RoleType) string {
	switch role {
	case models.RoleTeacher:
		return "Teacher"
	case models.RoleStudent:
		return "Student"
	default:
		return "User"
	}
}

// loadCourse loads an active course
func loadCourse(ctx context.Context, store repositories.Store, id int64) (*models.Course, error) {
	course, err := store.Courses().GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NewNotFoundError(apperrors.ErrCourseNotFound, fmt.Sprintf("Course %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("error loading course %d: %w", id, err)
	}
	return course, nil
}

// studentName is the display name used in conflict messages
func studentName(users map[int64]*models.User, id int64) string {
	if u, ok := users[id]; ok {
		return u.FullName()
	}
	return fmt.Sprintf("#%d", id)
}
