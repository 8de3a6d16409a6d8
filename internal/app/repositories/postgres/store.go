package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/timetable/internal/app/repositories"
	"github.com/yigit/timetable/internal/db"
	"github.com/yigit/timetable/internal/pkg/dberrors"
)

// psql builds PostgreSQL statements with $n placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// scheduleLockNamespace keeps term advisory locks apart from other lock
// users. It fills the top 16 bits of the lock key.
const scheduleLockNamespace int64 = 0x5C4E

// termLockKey packs the namespace and the low 48 bits of termID into one
// bigint advisory lock key
func termLockKey(termID int64) int64 {
	return scheduleLockNamespace<<48 | termID&(1<<48-1)
}

// Store is the PostgreSQL implementation of repositories.Store
type Store struct {
	db   *db.PostgresDB
	q    db.Querier
	inTx bool
}

// NewStore creates a store over the connection pool
func NewStore(database *db.PostgresDB) *Store {
	return &Store{db: database, q: database.Pool}
}

func (s *Store) Users() repositories.UserRepository { return &UserRepository{q: s.q} }

func (s *Store) Terms() repositories.TermRepository { return &TermRepository{store: s} }

func (s *Store) AcademicYears() repositories.AcademicYearRepository {
	return &AcademicYearRepository{store: s}
}

func (s *Store) Courses() repositories.CourseRepository { return &CourseRepository{q: s.q} }

func (s *Store) Schedules() repositories.ScheduleRepository { return &ScheduleRepository{q: s.q} }

func (s *Store) Classes() repositories.ClassRepository { return &ClassRepository{q: s.q} }

// WithinTransaction runs fn in a database transaction. Nested calls reuse
// the enclosing transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, &Store{db: s.db, q: tx, inTx: true})
	})
}

// LockTerm takes a transaction-scoped advisory lock on the term
func (s *Store) LockTerm(ctx context.Context, termID int64) error {
	if _, err := s.q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, termLockKey(termID)); err != nil {
		return fmt.Errorf("error locking term %d: %w", termID, err)
	}
	return nil
}

// translate maps driver errors onto repository errors
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return repositories.ErrNotFound
	case dberrors.IsUniqueViolation(err):
		return fmt.Errorf("%w: %v", repositories.ErrDuplicate, err)
	case dberrors.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %v", repositories.ErrNotFound, err)
	default:
		return err
	}
}

// buildError wraps a squirrel ToSql failure
func buildError(err error) error {
	return fmt.Errorf("error building SQL: %w", err)
}
