package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/app/repositories"
	"github.com/yigit/timetable/internal/pkg/apperrors"
	"github.com/yigit/timetable/internal/pkg/cache"
)

// ScheduleService assigns courses to grid cells and projects the grid for
// display. Every mutation checks and writes inside one transaction that
// holds the term lock.
type ScheduleService struct {
	store    repositories.Store
	cache    cache.Cache
	notifier ChangeNotifier
	logger   zerolog.Logger
}

// NewScheduleService creates a new schedule service. c and notifier may be nil.
func NewScheduleService(store repositories.Store, c cache.Cache, notifier ChangeNotifier, logger zerolog.Logger) *ScheduleService {
	if c == nil {
		c = cache.Noop{}
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &ScheduleService{store: store, cache: c, notifier: notifier, logger: logger}
}

// scheduleTx is the state shared by the mutators within one transaction
type scheduleTx struct {
	tx      repositories.Store
	term    *models.Term
	teacher *models.User
}

func (s *ScheduleService) begin(ctx context.Context, tx repositories.Store, teacherID int64) (*scheduleTx, error) {
	term, err := activeTerm(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := tx.LockTerm(ctx, term.ID); err != nil {
		return nil, err
	}
	teacher, err := loadUser(ctx, tx, teacherID, models.RoleTeacher)
	if err != nil {
		return nil, err
	}
	return &scheduleTx{tx: tx, term: term, teacher: teacher}, nil
}

// course loads a course that the teacher gives in the active term
func (st *scheduleTx) course(ctx context.Context, id int64) (*models.Course, error) {
	course, err := loadCourse(ctx, st.tx, id)
	if err != nil {
		return nil, err
	}
	if course.TeacherID != st.teacher.ID {
		return nil, apperrors.NewValidationError(nil, fmt.Sprintf("Course %s is not taught by %s", course.Name, st.teacher.FullName()))
	}
	if course.TermID != st.term.ID {
		return nil, apperrors.NewValidationError(nil, fmt.Sprintf("Course %s does not belong to the active term", course.Name))
	}
	return course, nil
}

func invalidSlot(dayOfWeek, period int) error {
	return apperrors.NewValidationError(apperrors.ErrInvalidSlot,
		fmt.Sprintf("Invalid slot: day %d, period %d", dayOfWeek, period))
}

// UpdateSchedule assigns courseID to the teacher's cell, or clears the cell
// when courseID is nil. Clearing an empty cell succeeds and returns nil.
// An occupied cell is reassigned in place. The returned slot reflects the
// stored state after the call.
func (s *ScheduleService) UpdateSchedule(ctx context.Context, teacherID int64, dayOfWeek, period int, courseID *int64) (*models.ScheduleSlot, error) {
	at := models.SlotCoordinate{DayOfWeek: dayOfWeek, Period: period}
	if !at.Valid() {
		return nil, invalidSlot(dayOfWeek, period)
	}

	var (
		result  *models.ScheduleSlot
		change  ScheduleChange
		changed bool
	)
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		st, err := s.begin(ctx, tx, teacherID)
		if err != nil {
			return err
		}
		change = ScheduleChange{TermID: st.term.ID, TeacherID: teacherID}

		existing, err := tx.Schedules().FindTeacherSlot(ctx, st.term.ID, teacherID, at)
		if err != nil {
			return fmt.Errorf("error finding slot: %w", err)
		}

		var previous *models.Course
		if existing != nil {
			if previous, err = loadCourse(ctx, tx, existing.CourseID); err != nil && !errors.Is(err, apperrors.ErrCourseNotFound) {
				return err
			}
		}

		if courseID == nil {
			if existing == nil {
				return nil
			}
			if err := tx.Schedules().Archive(ctx, existing.ID); err != nil {
				return fmt.Errorf("error clearing slot %d: %w", existing.ID, err)
			}
			change.CourseIDs = []int64{existing.CourseID}
			if previous != nil {
				change.StudentIDs = previous.StudentIDs
			}
			changed = true
			return nil
		}

		course, err := st.course(ctx, *courseID)
		if err != nil {
			return err
		}
		if existing != nil && existing.CourseID == course.ID {
			result = existing
			return nil
		}

		conflicts, err := courseConflicts(ctx, tx, st.term.ID, course, []models.SlotCoordinate{at})
		if err != nil {
			return fmt.Errorf("error checking conflicts for course %d: %w", course.ID, err)
		}
		if existing != nil {
			conflicts = withoutCourse(conflicts, existing.CourseID)
		}
		if len(conflicts) > 0 {
			return apperrors.NewScheduleConflictError(ConflictMessage(conflicts[0]), map[string]interface{}{
				"conflicts": conflicts,
			})
		}

		if existing != nil {
			if err := tx.Schedules().UpdateCourse(ctx, existing.ID, course.ID); err != nil {
				return fmt.Errorf("error reassigning slot %d: %w", existing.ID, err)
			}
			change.CourseIDs = []int64{existing.CourseID, course.ID}
			if previous != nil {
				change.StudentIDs = previous.StudentIDs
			}
			existing.CourseID = course.ID
			result = existing
		} else {
			slot := &models.ScheduleSlot{
				CourseID:  course.ID,
				TeacherID: teacherID,
				TermID:    st.term.ID,
				DayOfWeek: at.DayOfWeek,
				Period:    at.Period,
			}
			if err := tx.Schedules().Create(ctx, slot); err != nil {
				if errors.Is(err, repositories.ErrDuplicate) {
					return apperrors.NewConflictError(fmt.Sprintf("%s already teaches on %s", st.teacher.FullName(), at))
				}
				return fmt.Errorf("error creating slot: %w", err)
			}
			change.CourseIDs = []int64{course.ID}
			result = slot
		}
		change.StudentIDs = uniqueIDs(change.StudentIDs, course.StudentIDs)
		changed = true
		return nil
	})
	if err != nil {
		s.logger.Debug().Err(err).Int64("teacherID", teacherID).Int("dayOfWeek", dayOfWeek).Int("period", period).Msg("Schedule update rejected")
		return nil, fail(s.logger, err, "Failed to update schedule")
	}

	if changed {
		s.notifier.ScheduleChanged(ctx, change)
		s.logger.Info().
			Int64("teacherID", teacherID).
			Int("dayOfWeek", dayOfWeek).
			Int("period", period).
			Msg("Schedule slot updated")
	}
	return result, nil
}

// SaveTeacherSchedule replaces the teacher's week with desired. Every
// course's full candidate slot set is checked first; any conflict rejects
// the whole batch and every conflict message is reported.
func (s *ScheduleService) SaveTeacherSchedule(ctx context.Context, teacherID int64, desired []models.SlotAssignment) (*models.ScheduleDiff, error) {
	byCoord := make(map[models.SlotCoordinate]models.SlotAssignment, len(desired))
	for _, a := range desired {
		at := a.Coordinate()
		if !at.Valid() {
			return nil, invalidSlot(a.DayOfWeek, a.Period)
		}
		if a.CourseID <= 0 {
			return nil, apperrors.NewValidationError(nil, fmt.Sprintf("Missing course for %s", at))
		}
		if _, dup := byCoord[at]; dup {
			return nil, apperrors.NewValidationError(apperrors.ErrDuplicateSlot, fmt.Sprintf("%s is listed more than once", at))
		}
		byCoord[at] = a
	}

	diff := &models.ScheduleDiff{}
	var change ScheduleChange
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		st, err := s.begin(ctx, tx, teacherID)
		if err != nil {
			return err
		}

		// Candidate slot sets grouped by course
		candidates := make(map[int64][]models.SlotCoordinate)
		for at, a := range byCoord {
			candidates[a.CourseID] = append(candidates[a.CourseID], at)
		}
		courseIDs := make([]int64, 0, len(candidates))
		for id := range candidates {
			courseIDs = append(courseIDs, id)
		}
		sort.Slice(courseIDs, func(i, j int) bool { return courseIDs[i] < courseIDs[j] })

		courses := make(map[int64]*models.Course, len(courseIDs))
		for _, id := range courseIDs {
			course, err := st.course(ctx, id)
			if err != nil {
				return err
			}
			courses[id] = course
		}

		current, err := tx.Schedules().ListTeacherSlots(ctx, st.term.ID, teacherID)
		if err != nil {
			return fmt.Errorf("error listing teacher slots: %w", err)
		}
		replaced := make(map[models.SlotCoordinate]int64, len(current))
		for _, slot := range current {
			replaced[slot.Coordinate()] = slot.CourseID
		}

		var (
			messages []string
			all      []models.StudentConflict
		)
		for _, id := range courseIDs {
			slots := candidates[id]
			models.SortCoordinates(slots)
			conflicts, err := courseConflicts(ctx, tx, st.term.ID, courses[id], slots)
			if err != nil {
				return fmt.Errorf("error checking conflicts for course %d: %w", id, err)
			}
			conflicts = withoutReplaced(conflicts, replaced)
			for _, c := range conflicts {
				messages = append(messages, ConflictMessage(c))
			}
			all = append(all, conflicts...)
		}
		if len(messages) > 0 {
			return apperrors.NewScheduleConflictError(strings.Join(messages, "; "), map[string]interface{}{
				"messages":  messages,
				"conflicts": all,
			})
		}

		currentByCoord := make(map[models.SlotCoordinate]models.ScheduleSlot, len(current))
		var touched []int64
		for _, slot := range current {
			at := slot.Coordinate()
			currentByCoord[at] = slot
			want, keep := byCoord[at]
			switch {
			case !keep:
				diff.Deleted = append(diff.Deleted, slot)
				touched = append(touched, slot.CourseID)
			case want.CourseID != slot.CourseID:
				touched = append(touched, slot.CourseID, want.CourseID)
				slot.CourseID = want.CourseID
				diff.Updated = append(diff.Updated, slot)
			}
		}
		for at, a := range byCoord {
			if _, exists := currentByCoord[at]; !exists {
				diff.Created = append(diff.Created, models.ScheduleSlot{
					CourseID:  a.CourseID,
					TeacherID: teacherID,
					TermID:    st.term.ID,
					DayOfWeek: at.DayOfWeek,
					Period:    at.Period,
				})
				touched = append(touched, a.CourseID)
			}
		}
		sort.Slice(diff.Created, func(i, j int) bool {
			return diff.Created[i].Coordinate().Less(diff.Created[j].Coordinate())
		})

		// Archive first so freed cells never trip the teacher cell index
		for _, slot := range diff.Deleted {
			if err := tx.Schedules().Archive(ctx, slot.ID); err != nil {
				return fmt.Errorf("error archiving slot %d: %w", slot.ID, err)
			}
		}
		for _, slot := range diff.Updated {
			if err := tx.Schedules().UpdateCourse(ctx, slot.ID, slot.CourseID); err != nil {
				return fmt.Errorf("error updating slot %d: %w", slot.ID, err)
			}
		}
		for i := range diff.Created {
			if err := tx.Schedules().Create(ctx, &diff.Created[i]); err != nil {
				return fmt.Errorf("error creating slot: %w", err)
			}
		}

		change = ScheduleChange{TermID: st.term.ID, TeacherID: teacherID, CourseIDs: uniqueIDs(touched)}
		var students []int64
		for _, id := range change.CourseIDs {
			if c, ok := courses[id]; ok {
				students = append(students, c.StudentIDs...)
			} else if c, err := tx.Courses().GetByID(ctx, id); err == nil {
				students = append(students, c.StudentIDs...)
			}
		}
		change.StudentIDs = uniqueIDs(students)
		return nil
	})
	if err != nil {
		s.logger.Debug().Err(err).Int64("teacherID", teacherID).Int("slots", len(desired)).Msg("Teacher schedule save rejected")
		return nil, fail(s.logger, err, "Failed to save teacher schedule")
	}

	if !diff.Empty() {
		s.notifier.ScheduleChanged(ctx, change)
	}
	s.logger.Info().
		Int64("teacherID", teacherID).
		Int("created", len(diff.Created)).
		Int("updated", len(diff.Updated)).
		Int("deleted", len(diff.Deleted)).
		Msg("Teacher schedule saved")
	return diff, nil
}

// cached serves key from the cache or fills it with load. Cache failures
// only cost a store read. The value is written back under the generation
// seen before loading, so a change committed meanwhile discards it.
func cached[T any](ctx context.Context, s *ScheduleService, key string, load func() (T, error)) (T, error) {
	var v T
	gen, found, err := s.cache.Get(ctx, key, &v)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Schedule cache read failed")
	} else if found {
		return v, nil
	}
	readOK := err == nil

	v, err = load()
	if err != nil {
		return v, err
	}
	if !readOK {
		return v, nil
	}
	if err := s.cache.Set(ctx, key, gen, v); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Schedule cache write failed")
	}
	return v, nil
}

// TeacherSchedule returns the teacher's week in the active term
func (s *ScheduleService) TeacherSchedule(ctx context.Context, teacherID int64) (*models.TeacherWeek, error) {
	term, err := activeTerm(ctx, s.store)
	if err != nil {
		return nil, fail(s.logger, err, "Failed to load teacher schedule")
	}
	teacher, err := loadUser(ctx, s.store, teacherID, models.RoleTeacher)
	if err != nil {
		return nil, fail(s.logger, err, "Failed to load teacher schedule")
	}

	week, err := cached(ctx, s, cache.Key("teacher", term.ID, teacherID), func() (*models.TeacherWeek, error) {
		entries, err := s.store.Schedules().ListEntries(ctx, repositories.ScheduleFilter{TermID: term.ID, TeacherID: &teacherID})
		if err != nil {
			return nil, err
		}
		return &models.TeacherWeek{TeacherID: teacher.ID, TeacherName: teacher.FullName(), Entries: entries}, nil
	})
	if err != nil {
		return nil, fail(s.logger, err, "Failed to load teacher schedule")
	}
	return week, nil
}

// StudentSchedule returns the student's entries across the active term
func (s *ScheduleService) StudentSchedule(ctx context.Context, studentID int64) ([]models.ScheduleEntry, error) {
	term, err := activeTerm(ctx, s.store)
	if err != nil {
		return nil, fail(s.logger, err, "Failed to load student schedule")
	}
	if _, err := loadUser(ctx, s.store, studentID, models.RoleStudent); err != nil {
		return nil, fail(s.logger, err, "Failed to load student schedule")
	}

	entries, err := cached(ctx, s, cache.Key("student", term.ID, studentID), func() ([]models.ScheduleEntry, error) {
		return s.store.Schedules().ListEntries(ctx, repositories.ScheduleFilter{TermID: term.ID, StudentID: &studentID})
	})
	if err != nil {
		return nil, fail(s.logger, err, "Failed to load student schedule")
	}
	return entries, nil
}

// CourseSchedule returns the course's entries. A course outside the active
// term has none.
func (s *ScheduleService) CourseSchedule(ctx context.Context, courseID int64) ([]models.ScheduleEntry, error) {
	term, err := activeTerm(ctx, s.store)
	if err != nil {
		return nil, fail(s.logger, err, "Failed to load course schedule")
	}
	if _, err := loadCourse(ctx, s.store, courseID); err != nil {
		return nil, fail(s.logger, err, "Failed to load course schedule")
	}

	entries, err := cached(ctx, s, cache.Key("course", term.ID, courseID), func() ([]models.ScheduleEntry, error) {
		return s.store.Schedules().ListEntries(ctx, repositories.ScheduleFilter{TermID: term.ID, CourseID: &courseID})
	})
	if err != nil {
		return nil, fail(s.logger, err, "Failed to load course schedule")
	}
	return entries, nil
}

// MasterSchedule returns every teacher's week in the active term, teachers
// without slots included
func (s *ScheduleService) MasterSchedule(ctx context.Context) (*models.MasterSchedule, error) {
	term, err := activeTerm(ctx, s.store)
	if err != nil {
		return nil, fail(s.logger, err, "Failed to load master schedule")
	}

	master, err := cached(ctx, s, cache.Key("master", term.ID), func() (*models.MasterSchedule, error) {
		teachers, err := s.store.Users().ListByRole(ctx, models.RoleTeacher)
		if err != nil {
			return nil, err
		}
		entries, err := s.store.Schedules().ListEntries(ctx, repositories.ScheduleFilter{TermID: term.ID})
		if err != nil {
			return nil, err
		}

		byTeacher := make(map[int64][]models.ScheduleEntry)
		for _, e := range entries {
			byTeacher[e.TeacherID] = append(byTeacher[e.TeacherID], e)
		}

		m := &models.MasterSchedule{TermID: term.ID, TermName: term.Name, Teachers: make([]models.TeacherWeek, 0, len(teachers))}
		for _, t := range teachers {
			m.Teachers = append(m.Teachers, models.TeacherWeek{
				TeacherID:   t.ID,
				TeacherName: t.FullName(),
				Entries:     byTeacher[t.ID],
			})
		}
		return m, nil
	})
	if err != nil {
		return nil, fail(s.logger, err, "Failed to load master schedule")
	}
	return master, nil
}
