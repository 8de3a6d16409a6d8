package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/db"
)

var userColumns = []string{"id", "email", "first_name", "last_name", "role_type", "state", "archived_at", "created_at", "updated_at"}

// UserRepository handles database operations for users
type UserRepository struct {
	q db.Querier
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.RoleType,
		&u.State, &u.ArchivedAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query, args, err := psql.Insert("users").
		Columns("email", "first_name", "last_name", "role_type").
		Values(user.Email, user.FirstName, user.LastName, user.RoleType).
		Suffix("RETURNING id, state, created_at, updated_at").
		ToSql()
	if err != nil {
		return buildError(err)
	}

	err = r.q.QueryRow(ctx, query, args...).Scan(&user.ID, &user.State, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating user: %w", translate(err))
	}
	return nil
}

// GetByID retrieves an active user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query, args, err := psql.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"id": id, "state": models.LifecycleActive}).
		ToSql()
	if err != nil {
		return nil, buildError(err)
	}

	user, err := scanUser(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate(err)
	}
	return user, nil
}

// GetByIDs retrieves active users keyed by ID
func (r *UserRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error) {
	users := make(map[int64]*models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	query, args, err := psql.Select(userColumns...).
		From("users").
		Where(squirrel.Expr("id = ANY(?)", ids)).
		Where(squirrel.Eq{"state": models.LifecycleActive}).
		ToSql()
	if err != nil {
		return nil, buildError(err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error loading users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		users[u.ID] = u
	}
	return users, rows.Err()
}

// ListByRole lists active users with the given role ordered by name
func (r *UserRepository) ListByRole(ctx context.Context, role models.RoleType) ([]models.User, error) {
	query, args, err := psql.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"role_type": role, "state": models.LifecycleActive}).
		OrderBy("last_name", "first_name", "id").
		ToSql()
	if err != nil {
		return nil, buildError(err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}
