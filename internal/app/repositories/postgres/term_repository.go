package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/app/repositories"
)

var termColumns = []string{"id", "academic_year_id", "name", "parity", "start_date", "end_date", "is_active", "created_at"}

// TermRepository handles database operations for terms
type TermRepository struct {
	store *Store
}

func scanTerm(row pgx.Row) (*models.Term, error) {
	var t models.Term
	if err := row.Scan(&t.ID, &t.AcademicYearID, &t.Name, &t.Parity, &t.StartDate, &t.EndDate, &t.IsActive, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts an inactive term
func (r *TermRepository) Create(ctx context.Context, term *models.Term) error {
	query, args, err := psql.Insert("terms").
		Columns("academic_year_id", "name", "parity", "start_date", "end_date").
		Values(term.AcademicYearID, term.Name, term.Parity, term.StartDate, term.EndDate).
		Suffix("RETURNING id, is_active, created_at").
		ToSql()
	if err != nil {
		return buildError(err)
	}

	if err := r.store.q.QueryRow(ctx, query, args...).Scan(&term.ID, &term.IsActive, &term.CreatedAt); err != nil {
		return fmt.Errorf("error creating term: %w", translate(err))
	}
	return nil
}

// GetByID retrieves a term by ID
func (r *TermRepository) GetByID(ctx context.Context, id int64) (*models.Term, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetActive retrieves the active term
func (r *TermRepository) GetActive(ctx context.Context) (*models.Term, error) {
	return r.getOne(ctx, squirrel.Eq{"is_active": true})
}

func (r *TermRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Term, error) {
	query, args, err := psql.Select(termColumns...).From("terms").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, buildError(err)
	}

	term, err := scanTerm(r.store.q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate(err)
	}
	return term, nil
}

// List lists terms, newest first
func (r *TermRepository) List(ctx context.Context) ([]models.Term, error) {
	query, args, err := psql.Select(termColumns...).From("terms").OrderBy("start_date DESC", "id DESC").ToSql()
	if err != nil {
		return nil, buildError(err)
	}

	rows, err := r.store.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing terms: %w", err)
	}
	defer rows.Close()

	var terms []models.Term
	for rows.Next() {
		t, err := scanTerm(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning term: %w", err)
		}
		terms = append(terms, *t)
	}
	return terms, rows.Err()
}

// SetActive deactivates every other term and activates id in one transaction
func (r *TermRepository) SetActive(ctx context.Context, id int64) error {
	return setActive(ctx, r.store, "terms", id)
}

// setActive is shared by every table carrying an exclusive is_active flag
func setActive(ctx context.Context, store *Store, table string, id int64) error {
	return store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		q := tx.(*Store).q

		clear, args, err := psql.Update(table).
			Set("is_active", false).
			Where(squirrel.Eq{"is_active": true}).
			Where(squirrel.NotEq{"id": id}).
			ToSql()
		if err != nil {
			return buildError(err)
		}
		if _, err := q.Exec(ctx, clear, args...); err != nil {
			return fmt.Errorf("error clearing active %s: %w", table, err)
		}

		set, args, err := psql.Update(table).Set("is_active", true).Where(squirrel.Eq{"id": id}).ToSql()
		if err != nil {
			return buildError(err)
		}
		tag, err := q.Exec(ctx, set, args...)
		if err != nil {
			return fmt.Errorf("error activating %s %d: %w", table, id, translate(err))
		}
		if tag.RowsAffected() == 0 {
			return repositories.ErrNotFound
		}
		return nil
	})
}
