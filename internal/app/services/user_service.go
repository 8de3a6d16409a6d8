package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/app/repositories"
	"github.com/yigit/timetable/internal/pkg/apperrors"
)

// UserService manages the teacher, student and admin directory
type UserService struct {
	store  repositories.Store
	logger zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(store repositories.Store, logger zerolog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

func validRole(role models.RoleType) bool {
	switch role {
	case models.RoleAdmin, models.RoleTeacher, models.RoleStudent:
		return true
	}
	return false
}

// CreateUser adds a user. Emails are unique regardless of case.
func (s *UserService) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.Email = strings.TrimSpace(user.Email)
	user.FirstName = strings.TrimSpace(user.FirstName)
	user.LastName = strings.TrimSpace(user.LastName)

	if _, err := mail.ParseAddress(user.Email); err != nil {
		return nil, apperrors.NewValidationError(apperrors.ErrValidationFailed, fmt.Sprintf("Invalid email %q", user.Email))
	}
	if user.FirstName == "" {
		return nil, apperrors.NewValidationError(apperrors.ErrValidationFailed, "First name is required")
	}
	if !validRole(user.RoleType) {
		return nil, apperrors.NewValidationError(apperrors.ErrValidationFailed, fmt.Sprintf("Unknown role %q", user.RoleType))
	}

	err := s.store.Users().Create(ctx, user)
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil, apperrors.NewConflictError(fmt.Sprintf("User %s already exists", user.Email))
	}
	if err != nil {
		return nil, fail(s.logger, err, "Failed to create user")
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(user.RoleType)).Msg("User created")
	return user, nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("User %d not found", id))
	}
	if err != nil {
		return nil, fail(s.logger, err, "Failed to load user")
	}
	return user, nil
}

// ListUsers lists the users holding role, ordered by last then first name
func (s *UserService) ListUsers(ctx context.Context, role models.RoleType) ([]models.User, error) {
	if !validRole(role) {
		return nil, apperrors.NewValidationError(apperrors.ErrValidationFailed, fmt.Sprintf("Unknown role %q", role))
	}
	users, err := s.store.Users().ListByRole(ctx, role)
	if err != nil {
		return nil, fail(s.logger, err, "Failed to list users")
	}
	return users, nil
}
