package dto

import (
	"time"

	"github.com/yigit/timetable/internal/app/models"
)

// CreateTermRequest represents a request to create a term
type CreateTermRequest struct {
	Name           string    `json:"name" binding:"required,min=2,max=100" example:"2025 Fall"`
	AcademicYearID *int64    `json:"academicYearId" binding:"omitempty,min=1" example:"1"`
	Parity         string    `json:"parity" binding:"required,oneof=ODD EVEN" example:"ODD"`
	StartDate      time.Time `json:"startDate" binding:"required" example:"2025-09-01T00:00:00Z"`
	EndDate        time.Time `json:"endDate" binding:"required,gtfield=StartDate" example:"2026-01-20T00:00:00Z"`
}

// ToModel converts the request
func (r CreateTermRequest) ToModel() *models.Term {
	return &models.Term{
		Name:           r.Name,
		AcademicYearID: r.AcademicYearID,
		Parity:         models.TermParity(r.Parity),
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
	}
}

// CreateAcademicYearRequest represents a request to create an academic year
type CreateAcademicYearRequest struct {
	Name      string    `json:"name" binding:"required,min=2,max=100" example:"2025/2026"`
	StartDate time.Time `json:"startDate" binding:"required" example:"2025-09-01T00:00:00Z"`
	EndDate   time.Time `json:"endDate" binding:"required,gtfield=StartDate" example:"2026-06-30T00:00:00Z"`
}

// ToModel converts the request
func (r CreateAcademicYearRequest) ToModel() *models.AcademicYear {
	return &models.AcademicYear{
		Name:      r.Name,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}
}
