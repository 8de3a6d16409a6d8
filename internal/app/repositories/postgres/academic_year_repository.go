package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/timetable/internal/app/models"
)

var academicYearColumns = []string{"id", "name", "start_date", "end_date", "is_active", "created_at"}

// AcademicYearRepository handles database operations for academic years
type AcademicYearRepository struct {
	store *Store
}

func scanAcademicYear(row pgx.Row) (*models.AcademicYear, error) {
	var y models.AcademicYear
	if err := row.Scan(&y.ID, &y.Name, &y.StartDate, &y.EndDate, &y.IsActive, &y.CreatedAt); err != nil {
		return nil, err
	}
	return &y, nil
}

// Create inserts an inactive academic year
func (r *AcademicYearRepository) Create(ctx context.Context, year *models.AcademicYear) error {
	query, args, err := psql.Insert("academic_years").
		Columns("name", "start_date", "end_date").
		Values(year.Name, year.StartDate, year.EndDate).
		Suffix("RETURNING id, is_active, created_at").
		ToSql()
	if err != nil {
		return buildError(err)
	}

	if err := r.store.q.QueryRow(ctx, query, args...).Scan(&year.ID, &year.IsActive, &year.CreatedAt); err != nil {
		return fmt.Errorf("error creating academic year: %w", translate(err))
	}
	return nil
}

// GetByID retrieves an academic year by ID
func (r *AcademicYearRepository) GetByID(ctx context.Context, id int64) (*models.AcademicYear, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetActive retrieves the active academic year
func (r *AcademicYearRepository) GetActive(ctx context.Context) (*models.AcademicYear, error) {
	return r.getOne(ctx, squirrel.Eq{"is_active": true})
}

func (r *AcademicYearRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.AcademicYear, error) {
	query, args, err := psql.Select(academicYearColumns...).From("academic_years").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, buildError(err)
	}

	year, err := scanAcademicYear(r.store.q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate(err)
	}
	return year, nil
}

// List lists academic years, newest first
func (r *AcademicYearRepository) List(ctx context.Context) ([]models.AcademicYear, error) {
	query, args, err := psql.Select(academicYearColumns...).From("academic_years").OrderBy("start_date DESC", "id DESC").ToSql()
	if err != nil {
		return nil, buildError(err)
	}

	rows, err := r.store.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing academic years: %w", err)
	}
	defer rows.Close()

	var years []models.AcademicYear
	for rows.Next() {
		y, err := scanAcademicYear(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning academic year: %w", err)
		}
		years = append(years, *y)
	}
	return years, rows.Err()
}

// SetActive deactivates every other academic year and activates id
func (r *AcademicYearRepository) SetActive(ctx context.Context, id int64) error {
	return setActive(ctx, r.store, "academic_years", id)
}
