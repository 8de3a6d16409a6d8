// Package memory is an in-process repositories.Store used by tests and by
// the memory database driver.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/app/repositories"
)

type data struct {
	nextID        int64
	users         map[int64]models.User
	academicYears map[int64]models.AcademicYear
	terms         map[int64]models.Term
	courses       map[int64]models.Course
	slots         map[int64]models.ScheduleSlot
	classes       map[int64]models.Class
	classStudents map[int64]map[int64]time.Time
}

func newData() *data {
	return &data{
		users:         make(map[int64]models.User),
		academicYears: make(map[int64]models.AcademicYear),
		terms:         make(map[int64]models.Term),
		courses:       make(map[int64]models.Course),
		slots:         make(map[int64]models.ScheduleSlot),
		classes:       make(map[int64]models.Class),
		classStudents: make(map[int64]map[int64]time.Time),
	}
}

func (d *data) id() int64 {
	d.nextID++
	return d.nextID
}

func (d *data) clone() *data {
	c := newData()
	c.nextID = d.nextID
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.academicYears {
		c.academicYears[k] = v
	}
	for k, v := range d.terms {
		c.terms[k] = v
	}
	for k, v := range d.courses {
		v.StudentIDs = append([]int64(nil), v.StudentIDs...)
		c.courses[k] = v
	}
	for k, v := range d.slots {
		c.slots[k] = v
	}
	for k, v := range d.classes {
		c.classes[k] = v
	}
	for k, members := range d.classStudents {
		m := make(map[int64]time.Time, len(members))
		for sid, at := range members {
			m[sid] = at
		}
		c.classStudents[k] = m
	}
	return c
}

type database struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	data *data
}

// Store keeps every record in memory. Transactions are serialized and
// roll back by restoring a snapshot.
type Store struct {
	db   *database
	inTx bool
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{db: &database{data: newData()}}
}

func (s *Store) Users() repositories.UserRepository { return &UserRepository{s} }

func (s *Store) Terms() repositories.TermRepository { return &TermRepository{s} }

func (s *Store) AcademicYears() repositories.AcademicYearRepository {
	return &AcademicYearRepository{s}
}

func (s *Store) Courses() repositories.CourseRepository { return &CourseRepository{s} }

func (s *Store) Schedules() repositories.ScheduleRepository { return &ScheduleRepository{s} }

func (s *Store) Classes() repositories.ClassRepository { return &ClassRepository{s} }

// WithinTransaction runs fn while holding the transaction lock. Nested
// calls reuse the enclosing transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	s.db.txMu.Lock()
	defer s.db.txMu.Unlock()

	s.db.mu.RLock()
	snapshot := s.db.data.clone()
	s.db.mu.RUnlock()

	if err := fn(ctx, &Store{db: s.db, inTx: true}); err != nil {
		s.db.mu.Lock()
		s.db.data = snapshot
		s.db.mu.Unlock()
		return err
	}
	return nil
}

// LockTerm is satisfied by the transaction lock
func (s *Store) LockTerm(ctx context.Context, termID int64) error {
	return ctx.Err()
}

func (s *Store) read(fn func(d *data) error) error {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return fn(s.db.data)
}

// write applies fn under the write lock. Outside a transaction it also
// waits for any open transaction to finish.
func (s *Store) write(fn func(d *data) error) error {
	if !s.inTx {
		s.db.txMu.Lock()
		defer s.db.txMu.Unlock()
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return fn(s.db.data)
}
