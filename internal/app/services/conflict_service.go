package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/app/repositories"
	"github.com/yigit/timetable/internal/pkg/apperrors"
)

// ConflictService detects student double-bookings. It never writes.
type ConflictService struct {
	store  repositories.Store
	logger zerolog.Logger
}

// NewConflictService creates a new conflict service
func NewConflictService(store repositories.Store, logger zerolog.Logger) *ConflictService {
	return &ConflictService{store: store, logger: logger}
}

// CheckCourseScheduleUpdateConflict reports every student of the course who
// would be double-booked if slots became the course's complete slot set.
// Other courses are compared through their stored slots in the active term.
// A course of another term has no conflicts.
func (s *ConflictService) CheckCourseScheduleUpdateConflict(ctx context.Context, courseID int64, slots []models.SlotCoordinate) ([]models.StudentConflict, error) {
	for _, c := range slots {
		if !c.Valid() {
			return nil, apperrors.NewValidationError(apperrors.ErrInvalidSlot, fmt.Sprintf("Invalid slot: day %d, period %d", c.DayOfWeek, c.Period))
		}
	}

	term, err := activeTerm(ctx, s.store)
	if err != nil {
		return nil, fail(s.logger, err, "Failed to check course schedule conflicts")
	}
	course, err := loadCourse(ctx, s.store, courseID)
	if err != nil {
		return nil, fail(s.logger, err, "Failed to check course schedule conflicts")
	}

	conflicts, err := courseConflicts(ctx, s.store, term.ID, course, slots)
	if err != nil {
		s.logger.Error().Err(err).Int64("courseID", courseID).Int64("termID", term.ID).Msg("Course conflict check failed")
		return nil, apperrors.NewInternalError("Failed to check course schedule conflicts", err)
	}
	return conflicts, nil
}

// CheckStudentScheduleConflict returns the first of the course's current
// slots, in day and period order, that the student's other active-term
// courses already occupy, or nil.
func (s *ConflictService) CheckStudentScheduleConflict(ctx context.Context, studentID, courseID int64) (*models.ScheduleConflict, error) {
	term, err := activeTerm(ctx, s.store)
	if err != nil {
		return nil, fail(s.logger, err, "Failed to check student schedule conflict")
	}
	if _, err := loadUser(ctx, s.store, studentID, models.RoleStudent); err != nil {
		return nil, fail(s.logger, err, "Failed to check student schedule conflict")
	}
	course, err := loadCourse(ctx, s.store, courseID)
	if err != nil {
		return nil, fail(s.logger, err, "Failed to check student schedule conflict")
	}

	conflict, err := studentConflict(ctx, s.store, term.ID, studentID, course)
	if err != nil {
		s.logger.Error().Err(err).Int64("studentID", studentID).Int64("courseID", courseID).Msg("Student conflict check failed")
		return nil, apperrors.NewInternalError("Failed to check student schedule conflict", err)
	}
	return conflict, nil
}

type studentCell struct {
	studentID int64
	at        models.SlotCoordinate
}

// occupancy indexes student slots by student and cell. The first course
// listed for a cell wins.
func occupancy(slots []models.StudentSlot) map[studentCell]models.StudentSlot {
	occupied := make(map[studentCell]models.StudentSlot, len(slots))
	for _, ss := range slots {
		key := studentCell{ss.StudentID, models.SlotCoordinate{DayOfWeek: ss.DayOfWeek, Period: ss.Period}}
		if _, ok := occupied[key]; !ok {
			occupied[key] = ss
		}
	}
	return occupied
}

// courseConflicts is the course-level detector over an arbitrary store view,
// so mutators can run it inside their transaction. A course outside termID
// never conflicts.
func courseConflicts(ctx context.Context, store repositories.Store, termID int64, course *models.Course, slots []models.SlotCoordinate) ([]models.StudentConflict, error) {
	if course.TermID != termID || len(course.StudentIDs) == 0 || len(slots) == 0 {
		return nil, nil
	}

	taken, err := store.Schedules().ListStudentSlots(ctx, termID, course.StudentIDs, course.ID)
	if err != nil {
		return nil, err
	}
	if len(taken) == 0 {
		return nil, nil
	}
	occupied := occupancy(taken)

	users, err := store.Users().GetByIDs(ctx, course.StudentIDs)
	if err != nil {
		return nil, err
	}

	var conflicts []models.StudentConflict
	for _, studentID := range course.StudentIDs {
		seen := make(map[models.SlotCoordinate]bool, len(slots))
		for _, at := range slots {
			if seen[at] {
				continue
			}
			seen[at] = true

			other, ok := occupied[studentCell{studentID, at}]
			if !ok {
				continue
			}
			conflicts = append(conflicts, models.StudentConflict{
				StudentID:   studentID,
				StudentName: studentName(users, studentID),
				Conflict: models.ScheduleConflict{
					CourseID:   other.CourseID,
					CourseName: other.CourseName,
					DayOfWeek:  at.DayOfWeek,
					Period:     at.Period,
				},
			})
		}
	}
	return conflicts, nil
}

// studentConflict is the student-level detector over an arbitrary store view
func studentConflict(ctx context.Context, store repositories.Store, termID, studentID int64, course *models.Course) (*models.ScheduleConflict, error) {
	if course.TermID != termID {
		return nil, nil
	}

	slots, err := store.Schedules().ListCourseSlots(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, nil
	}

	taken, err := store.Schedules().ListStudentSlots(ctx, termID, []int64{studentID}, course.ID)
	if err != nil {
		return nil, err
	}
	occupied := occupancy(taken)

	for i := range slots {
		at := slots[i].Coordinate()
		if other, ok := occupied[studentCell{studentID, at}]; ok {
			return &models.ScheduleConflict{
				CourseID:   other.CourseID,
				CourseName: other.CourseName,
				DayOfWeek:  at.DayOfWeek,
				Period:     at.Period,
			}, nil
		}
	}
	return nil, nil
}

// ConflictMessage renders a double-booking for people
func ConflictMessage(c models.StudentConflict) string {
	at := models.SlotCoordinate{DayOfWeek: c.Conflict.DayOfWeek, Period: c.Conflict.Period}
	return fmt.Sprintf("Schedule conflict: student %s already has %s on %s", c.StudentName, c.Conflict.CourseName, at)
}

// withoutCourse drops conflicts caused by courseID
func withoutCourse(conflicts []models.StudentConflict, courseID int64) []models.StudentConflict {
	out := conflicts[:0]
	for _, c := range conflicts {
		if c.Conflict.CourseID != courseID {
			out = append(out, c)
		}
	}
	return out
}

// withoutReplaced drops conflicts with slots that the save overwrites.
// replaced maps a cell to the course currently held there.
func withoutReplaced(conflicts []models.StudentConflict, replaced map[models.SlotCoordinate]int64) []models.StudentConflict {
	out := conflicts[:0]
	for _, c := range conflicts {
		at := models.SlotCoordinate{DayOfWeek: c.Conflict.DayOfWeek, Period: c.Conflict.Period}
		if courseID, ok := replaced[at]; ok && courseID == c.Conflict.CourseID {
			continue
		}
		out = append(out, c)
	}
	return out
}
