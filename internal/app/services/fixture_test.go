package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/app/repositories/memory"
	"github.com/yigit/timetable/internal/pkg/websocket"
)

type fixture struct {
	ctx   context.Context
	store *memory.Store
	term  *models.Term
	log   zerolog.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{ctx: context.Background(), store: memory.NewStore(), log: zerolog.Nop()}
	f.term = f.newTerm(t, "2025 Fall")
	require.NoError(t, f.store.Terms().SetActive(f.ctx, f.term.ID))
	return f
}

func (f *fixture) newTerm(t *testing.T, name string) *models.Term {
	t.Helper()
	term := &models.Term{
		Name:      name,
		Parity:    models.TermOdd,
		StartDate: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, f.store.Terms().Create(f.ctx, term))
	return term
}

func (f *fixture) user(t *testing.T, role models.RoleType, first, last string) *models.User {
	t.Helper()
	u := &models.User{
		Email:     fmt.Sprintf("%s.%s@school.test", strings.ToLower(first), strings.ToLower(last)),
		FirstName: first,
		LastName:  last,
		RoleType:  role,
	}
	require.NoError(t, f.store.Users().Create(f.ctx, u))
	return u
}

func (f *fixture) teacher(t *testing.T, first, last string) *models.User {
	return f.user(t, models.RoleTeacher, first, last)
}

func (f *fixture) student(t *testing.T, first, last string) *models.User {
	return f.user(t, models.RoleStudent, first, last)
}

func (f *fixture) course(t *testing.T, name string, teacher *models.User, students ...*models.User) *models.Course {
	t.Helper()
	c := &models.Course{Name: name, Subject: name, TeacherID: teacher.ID, TermID: f.term.ID}
	for _, s := range students {
		c.StudentIDs = append(c.StudentIDs, s.ID)
	}
	require.NoError(t, f.store.Courses().Create(f.ctx, c))
	return c
}

func (f *fixture) slot(t *testing.T, c *models.Course, dayOfWeek, period int) *models.ScheduleSlot {
	t.Helper()
	s := &models.ScheduleSlot{
		CourseID:  c.ID,
		TeacherID: c.TeacherID,
		TermID:    c.TermID,
		DayOfWeek: dayOfWeek,
		Period:    period,
	}
	require.NoError(t, f.store.Schedules().Create(f.ctx, s))
	return s
}

func (f *fixture) teacherSlots(t *testing.T, teacher *models.User) []models.ScheduleSlot {
	t.Helper()
	slots, err := f.store.Schedules().ListTeacherSlots(f.ctx, f.term.ID, teacher.ID)
	require.NoError(t, err)
	return slots
}

func courseID(c *models.Course) *int64 {
	id := c.ID
	return &id
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []*websocket.Event
}

func (p *recordingPublisher) Publish(event *websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Events() []*websocket.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*websocket.Event{}, p.events...)
}

// recordingNotifier keeps every change
type recordingNotifier struct {
	mu      sync.Mutex
	changes []ScheduleChange
}

func (n *recordingNotifier) ScheduleChanged(_ context.Context, change ScheduleChange) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, change)
}

func (n *recordingNotifier) Changes() []ScheduleChange {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]ScheduleChange{}, n.changes...)
}
