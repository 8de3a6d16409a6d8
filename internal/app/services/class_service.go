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

// ClassService handles class rosters. Roster membership does not enroll
// students in courses; see EnrollmentService.EnrollClass.
type ClassService struct {
	store  repositories.Store
	logger zerolog.Logger
}

// NewClassService creates a new class service
func NewClassService(store repositories.Store, logger zerolog.Logger) *ClassService {
	return &ClassService{store: store, logger: logger}
}

func classNotFound(id int64) error {
	return apperrors.NewNotFoundError(apperrors.ErrClassNotFound, fmt.Sprintf("Class %d not found", id))
}

// CreateClass creates an empty class
func (s *ClassService) CreateClass(ctx context.Context, class *models.Class) (*models.Class, error) {
	class.Name = strings.TrimSpace(class.Name)
	if class.Name == "" {
		return nil, apperrors.NewValidationError(nil, "Class name cannot be empty")
	}
	if err := s.store.Classes().Create(ctx, class); err != nil {
		return nil, fail(s.logger, err, "Failed to create class")
	}
	return class, nil
}

// GetClass retrieves a class with its roster
func (s *ClassService) GetClass(ctx context.Context, id int64) (*models.Class, error) {
	class, err := s.store.Classes().GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, classNotFound(id)
	}
	if err != nil {
		return nil, fail(s.logger, err, "Failed to load class")
	}
	return class, nil
}

// ListClasses lists classes with their rosters
func (s *ClassService) ListClasses(ctx context.Context) ([]models.Class, error) {
	classes, err := s.store.Classes().List(ctx)
	if err != nil {
		return nil, fail(s.logger, err, "Failed to list classes")
	}
	return classes, nil
}

// AddStudent adds a student to the roster
func (s *ClassService) AddStudent(ctx context.Context, classID, studentID int64) (*models.Class, error) {
	if _, err := s.GetClass(ctx, classID); err != nil {
		return nil, err
	}
	student, err := loadUser(ctx, s.store, studentID, models.RoleStudent)
	if err != nil {
		return nil, fail(s.logger, err, "Failed to add class student")
	}

	err = s.store.Classes().AddStudent(ctx, classID, studentID)
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil, apperrors.NewConflictError(fmt.Sprintf("%s is already in class %d", student.FullName(), classID))
	}
	if err != nil {
		return nil, fail(s.logger, err, "Failed to add class student")
	}
	return s.GetClass(ctx, classID)
}

// RemoveStudent removes a student from the roster
func (s *ClassService) RemoveStudent(ctx context.Context, classID, studentID int64) (*models.Class, error) {
	if _, err := s.GetClass(ctx, classID); err != nil {
		return nil, err
	}

	err := s.store.Classes().RemoveStudent(ctx, classID, studentID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NewNotFoundError(apperrors.ErrStudentNotFound, fmt.Sprintf("Student %d is not in class %d", studentID, classID))
	}
	if err != nil {
		return nil, fail(s.logger, err, "Failed to remove class student")
	}
	return s.GetClass(ctx, classID)
}
