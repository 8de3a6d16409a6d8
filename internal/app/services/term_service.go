package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/app/repositories"
	"github.com/yigit/timetable/internal/pkg/apperrors"
)

// TermService handles terms and academic years
type TermService struct {
	store    repositories.Store
	notifier ChangeNotifier
	logger   zerolog.Logger
}

// NewTermService creates a new term service. notifier may be nil.
func NewTermService(store repositories.Store, notifier ChangeNotifier, logger zerolog.Logger) *TermService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &TermService{store: store, notifier: notifier, logger: logger}
}

func validatePeriod(name string, start, end time.Time) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.NewValidationError(nil, "Name cannot be empty")
	}
	if start.IsZero() || end.IsZero() {
		return apperrors.NewValidationError(nil, "Start and end dates are required")
	}
	if !end.After(start) {
		return apperrors.NewValidationError(nil, "End date must be after start date")
	}
	return nil
}

// CreateTerm creates an inactive term
func (s *TermService) CreateTerm(ctx context.Context, term *models.Term) (*models.Term, error) {
	if err := validatePeriod(term.Name, term.StartDate, term.EndDate); err != nil {
		return nil, err
	}
	if term.Parity != models.TermOdd && term.Parity != models.TermEven {
		return nil, apperrors.NewValidationError(nil, "Parity must be ODD or EVEN")
	}
	if term.AcademicYearID != nil {
		if _, err := s.GetAcademicYear(ctx, *term.AcademicYearID); err != nil {
			return nil, err
		}
	}

	if err := s.store.Terms().Create(ctx, term); err != nil {
		return nil, fail(s.logger, err, "Failed to create term")
	}
	s.logger.Info().Int64("termID", term.ID).Str("name", term.Name).Msg("Term created")
	return term, nil
}

// GetTerm retrieves a term by ID
func (s *TermService) GetTerm(ctx context.Context, id int64) (*models.Term, error) {
	term, err := s.store.Terms().GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NewNotFoundError(apperrors.ErrTermNotFound, fmt.Sprintf("Term %d not found", id))
	}
	if err != nil {
		return nil, fail(s.logger, err, "Failed to load term")
	}
	return term, nil
}

// ListTerms lists every term, newest first
func (s *TermService) ListTerms(ctx context.Context) ([]models.Term, error) {
	terms, err := s.store.Terms().List(ctx)
	if err != nil {
		return nil, fail(s.logger, err, "Failed to list terms")
	}
	return terms, nil
}

// ActiveTerm returns the active term
func (s *TermService) ActiveTerm(ctx context.Context) (*models.Term, error) {
	term, err := activeTerm(ctx, s.store)
	if err != nil {
		return nil, fail(s.logger, err, "Failed to load active term")
	}
	return term, nil
}

// ActivateTerm makes id the only active term. Every schedule view changes
// with it.
func (s *TermService) ActivateTerm(ctx context.Context, id int64) (*models.Term, error) {
	err := s.store.Terms().SetActive(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NewNotFoundError(apperrors.ErrTermNotFound, fmt.Sprintf("Term %d not found", id))
	}
	if err != nil {
		return nil, fail(s.logger, err, "Failed to activate term")
	}

	s.notifier.ScheduleChanged(ctx, ScheduleChange{TermID: id})
	s.logger.Info().Int64("termID", id).Msg("Term activated")
	return s.GetTerm(ctx, id)
}

// CreateAcademicYear creates an inactive academic year
func (s *TermService) CreateAcademicYear(ctx context.Context, year *models.AcademicYear) (*models.AcademicYear, error) {
	if err := validatePeriod(year.Name, year.StartDate, year.EndDate); err != nil {
		return nil, err
	}

	err := s.store.AcademicYears().Create(ctx, year)
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil, apperrors.NewConflictError(fmt.Sprintf("Academic year %s already exists", year.Name))
	}
	if err != nil {
		return nil, fail(s.logger, err, "Failed to create academic year")
	}
	return year, nil
}

// GetAcademicYear retrieves an academic year by ID
func (s *TermService) GetAcademicYear(ctx context.Context, id int64) (*models.AcademicYear, error) {
	year, err := s.store.AcademicYears().GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NewNotFoundError(apperrors.ErrAcademicYearNotFound, fmt.Sprintf("Academic year %d not found", id))
	}
	if err != nil {
		return nil, fail(s.logger, err, "Failed to load academic year")
	}
	return year, nil
}

// ListAcademicYears lists every academic year, newest first
func (s *TermService) ListAcademicYears(ctx context.Context) ([]models.AcademicYear, error) {
	years, err := s.store.AcademicYears().List(ctx)
	if err != nil {
		return nil, fail(s.logger, err, "Failed to list academic years")
	}
	return years, nil
}

// ActivateAcademicYear makes id the only active academic year
func (s *TermService) ActivateAcademicYear(ctx context.Context, id int64) (*models.AcademicYear, error) {
	err := s.store.AcademicYears().SetActive(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NewNotFoundError(apperrors.ErrAcademicYearNotFound, fmt.Sprintf("Academic year %d not found", id))
	}
	if err != nil {
		return nil, fail(s.logger, err, "Failed to activate academic year")
	}
	s.logger.Info().Int64("academicYearID", id).Msg("Academic year activated")
	return s.GetAcademicYear(ctx, id)
}
