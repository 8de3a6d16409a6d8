package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/app/repositories/memory"
	"github.com/yigit/timetable/internal/pkg/apperrors"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTermLifecycle(t *testing.T) {
	ctx := context.Background()
	n := &recordingNotifier{}
	svc := NewTermService(memory.NewStore(), n, zerolog.Nop())

	_, err := svc.ActiveTerm(ctx)
	assert.ErrorIs(t, err, apperrors.ErrNoActiveTerm)

	year, err := svc.CreateAcademicYear(ctx, &models.AcademicYear{Name: "2025/2026", StartDate: day(2025, 9, 1), EndDate: day(2026, 6, 30)})
	require.NoError(t, err)
	_, err = svc.CreateAcademicYear(ctx, &models.AcademicYear{Name: "2025/2026", StartDate: day(2025, 9, 1), EndDate: day(2026, 6, 30)})
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	fall, err := svc.CreateTerm(ctx, &models.Term{Name: "Fall", AcademicYearID: &year.ID, Parity: models.TermOdd, StartDate: day(2025, 9, 1), EndDate: day(2026, 1, 20)})
	require.NoError(t, err)
	spring, err := svc.CreateTerm(ctx, &models.Term{Name: "Spring", AcademicYearID: &year.ID, Parity: models.TermEven, StartDate: day(2026, 2, 1), EndDate: day(2026, 6, 30)})
	require.NoError(t, err)

	active, err := svc.ActivateTerm(ctx, fall.ID)
	require.NoError(t, err)
	assert.True(t, active.IsActive)
	active, err = svc.ActivateTerm(ctx, spring.ID)
	require.NoError(t, err)
	assert.Equal(t, spring.ID, active.ID)

	terms, err := svc.ListTerms(ctx)
	require.NoError(t, err)
	require.Len(t, terms, 2)
	activeCount := 0
	for _, term := range terms {
		if term.IsActive {
			activeCount++
		}
	}
	assert.Equal(t, 1, activeCount)
	assert.Len(t, n.Changes(), 2)

	_, err = svc.ActivateTerm(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrTermNotFound)
	current, err := svc.ActiveTerm(ctx)
	require.NoError(t, err)
	assert.Equal(t, spring.ID, current.ID)

	activeYear, err := svc.ActivateAcademicYear(ctx, year.ID)
	require.NoError(t, err)
	assert.True(t, activeYear.IsActive)
}

func TestCreateTermValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewTermService(memory.NewStore(), nil, zerolog.Nop())
	missing := int64(7)

	tests := []struct {
		name     string
		term     models.Term
		sentinel error
	}{
		{"empty name", models.Term{Parity: models.TermOdd, StartDate: day(2025, 9, 1), EndDate: day(2026, 1, 1)}, apperrors.ErrValidationFailed},
		{"end before start", models.Term{Name: "Fall", Parity: models.TermOdd, StartDate: day(2026, 1, 1), EndDate: day(2025, 9, 1)}, apperrors.ErrValidationFailed},
		{"bad parity", models.Term{Name: "Fall", Parity: "THIRD", StartDate: day(2025, 9, 1), EndDate: day(2026, 1, 1)}, apperrors.ErrValidationFailed},
		{"unknown year", models.Term{Name: "Fall", AcademicYearID: &missing, Parity: models.TermOdd, StartDate: day(2025, 9, 1), EndDate: day(2026, 1, 1)}, apperrors.ErrAcademicYearNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := tt.term
			_, err := svc.CreateTerm(ctx, &term)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}
}
