package models

import "time"

// TermParity marks a term as the odd or even half of an academic year.
type TermParity string

const (
	TermOdd  TermParity = "ODD"
	TermEven TermParity = "EVEN"
)

// AcademicYear groups terms. At most one academic year is active.
type AcademicYear struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	StartDate time.Time `json:"startDate" db:"start_date"`
	EndDate   time.Time `json:"endDate" db:"end_date"`
	IsActive  bool      `json:"isActive" db:"is_active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Term is a bounded academic period. Courses and schedule slots of the
// single active term are the ones considered by conflict checks.
type Term struct {
	ID             int64      `json:"id" db:"id"`
	AcademicYearID *int64     `json:"academicYearId,omitempty" db:"academic_year_id"`
	Name           string     `json:"name" db:"name"`
	Parity         TermParity `json:"parity" db:"parity"`
	StartDate      time.Time  `json:"startDate" db:"start_date"`
	EndDate        time.Time  `json:"endDate" db:"end_date"`
	IsActive       bool       `json:"isActive" db:"is_active"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
}
