package memory

import (
	"context"
	"sort"
	"time"

	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/app/repositories"
)

// TermRepository is the in-memory term store
type TermRepository struct {
	s *Store
}

func (r *TermRepository) Create(ctx context.Context, term *models.Term) error {
	return r.s.write(func(d *data) error {
		term.ID = d.id()
		term.IsActive = false
		term.CreatedAt = time.Now()
		d.terms[term.ID] = *term
		return nil
	})
}

func (r *TermRepository) GetByID(ctx context.Context, id int64) (*models.Term, error) {
	var out *models.Term
	err := r.s.read(func(d *data) error {
		t, ok := d.terms[id]
		if !ok {
			return repositories.ErrNotFound
		}
		out = &t
		return nil
	})
	return out, err
}

func (r *TermRepository) GetActive(ctx context.Context) (*models.Term, error) {
	var out *models.Term
	err := r.s.read(func(d *data) error {
		for _, t := range d.terms {
			if t.IsActive {
				out = &t
				return nil
			}
		}
		return repositories.ErrNotFound
	})
	return out, err
}

func (r *TermRepository) List(ctx context.Context) ([]models.Term, error) {
	var out []models.Term
	err := r.s.read(func(d *data) error {
		for _, t := range d.terms {
			out = append(out, t)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, err
}

func (r *TermRepository) SetActive(ctx context.Context, id int64) error {
	return r.s.write(func(d *data) error {
		if _, ok := d.terms[id]; !ok {
			return repositories.ErrNotFound
		}
		for k, t := range d.terms {
			t.IsActive = k == id
			d.terms[k] = t
		}
		return nil
	})
}

// AcademicYearRepository is the in-memory academic year store
type AcademicYearRepository struct {
	s *Store
}

func (r *AcademicYearRepository) Create(ctx context.Context, year *models.AcademicYear) error {
	return r.s.write(func(d *data) error {
		for _, y := range d.academicYears {
			if y.Name == year.Name {
				return repositories.ErrDuplicate
			}
		}
		year.ID = d.id()
		year.IsActive = false
		year.CreatedAt = time.Now()
		d.academicYears[year.ID] = *year
		return nil
	})
}

func (r *AcademicYearRepository) GetByID(ctx context.Context, id int64) (*models.AcademicYear, error) {
	var out *models.AcademicYear
	err := r.s.read(func(d *data) error {
		y, ok := d.academicYears[id]
		if !ok {
			return repositories.ErrNotFound
		}
		out = &y
		return nil
	})
	return out, err
}

func (r *AcademicYearRepository) GetActive(ctx context.Context) (*models.AcademicYear, error) {
	var out *models.AcademicYear
	err := r.s.read(func(d *data) error {
		for _, y := range d.academicYears {
			if y.IsActive {
				out = &y
				return nil
			}
		}
		return repositories.ErrNotFound
	})
	return out, err
}

func (r *AcademicYearRepository) List(ctx context.Context) ([]models.AcademicYear, error) {
	var out []models.AcademicYear
	err := r.s.read(func(d *data) error {
		for _, y := range d.academicYears {
			out = append(out, y)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, err
}

func (r *AcademicYearRepository) SetActive(ctx context.Context, id int64) error {
	return r.s.write(func(d *data) error {
		if _, ok := d.academicYears[id]; !ok {
			return repositories.ErrNotFound
		}
		for k, y := range d.academicYears {
			y.IsActive = k == id
			d.academicYears[k] = y
		}
		return nil
	})
}
