package dto

import "github.com/yigit/timetable/internal/app/models"

// Day fields on requests and responses use the Monday-first UI ordering
// (0 = Monday .. 6 = Sunday). DayOfWeek fields use the stored ordering
// (0 = Sunday).

// UpdateSlotRequest assigns or clears one cell of a teacher's grid
type UpdateSlotRequest struct {
	Day      *int   `json:"day" binding:"required,uiday" example:"0"`
	Period   *int   `json:"period" binding:"required,period" example:"2"`
	CourseID *int64 `json:"courseId" binding:"omitempty,min=1" example:"12"`
}

// SlotEntryRequest is one desired cell of a bulk save
type SlotEntryRequest struct {
	Day      *int  `json:"day" binding:"required,uiday" example:"1"`
	Period   *int  `json:"period" binding:"required,period" example:"3"`
	CourseID int64 `json:"courseId" binding:"required,min=1" example:"12"`
}

// SaveTeacherScheduleRequest replaces a teacher's whole week. An empty
// list clears the week; a missing or null list is rejected.
type SaveTeacherScheduleRequest struct {
	Schedules []SlotEntryRequest `json:"schedules" binding:"required,dive"`
}

// SlotRequest is a bare grid cell
type SlotRequest struct {
	Day    *int `json:"day" binding:"required,uiday" example:"0"`
	Period *int `json:"period" binding:"required,period" example:"2"`
}

// CheckConflictsRequest proposes a complete slot set for a course
type CheckConflictsRequest struct {
	Slots []SlotRequest `json:"slots" binding:"required,dive"`
}

// Coordinate converts the request cell into stored coordinates
func (r SlotRequest) Coordinate() models.SlotCoordinate {
	return models.SlotCoordinate{DayOfWeek: models.UIDayToStored(*r.Day), Period: *r.Period}
}

// Assignments converts the request into stored assignments
func (r SaveTeacherScheduleRequest) Assignments() []models.SlotAssignment {
	out := make([]models.SlotAssignment, 0, len(r.Schedules))
	for _, s := range r.Schedules {
		out = append(out, models.SlotAssignment{
			DayOfWeek: models.UIDayToStored(*s.Day),
			Period:    *s.Period,
			CourseID:  s.CourseID,
		})
	}
	return out
}

// SlotResponse is a stored schedule slot
type SlotResponse struct {
	ID        int64 `json:"id"`
	CourseID  int64 `json:"courseId"`
	TeacherID int64 `json:"teacherId"`
	TermID    int64 `json:"termId"`
	Day       int   `json:"day"`
	DayOfWeek int   `json:"dayOfWeek"`
	Period    int   `json:"period"`
}

// FromSlot converts a model slot
func FromSlot(s *models.ScheduleSlot) *SlotResponse {
	if s == nil {
		return nil
	}
	return &SlotResponse{
		ID:        s.ID,
		CourseID:  s.CourseID,
		TeacherID: s.TeacherID,
		TermID:    s.TermID,
		Day:       models.StoredDayToUI(s.DayOfWeek),
		DayOfWeek: s.DayOfWeek,
		Period:    s.Period,
	}
}

// FromSlots converts a slice of model slots
func FromSlots(slots []models.ScheduleSlot) []SlotResponse {
	out := make([]SlotResponse, 0, len(slots))
	for i := range slots {
		out = append(out, *FromSlot(&slots[i]))
	}
	return out
}

// EntryResponse is a display cell
type EntryResponse struct {
	SlotID      int64  `json:"slotId"`
	CourseID    int64  `json:"courseId"`
	CourseName  string `json:"courseName"`
	Subject     string `json:"subject"`
	TeacherID   int64  `json:"teacherId"`
	TeacherName string `json:"teacherName"`
	Day         int    `json:"day"`
	DayOfWeek   int    `json:"dayOfWeek"`
	Period      int    `json:"period"`
}

// FromEntry converts a model entry
func FromEntry(e *models.ScheduleEntry) *EntryResponse {
	if e == nil {
		return nil
	}
	return &EntryResponse{
		SlotID:      e.SlotID,
		CourseID:    e.CourseID,
		CourseName:  e.CourseName,
		Subject:     e.Subject,
		TeacherID:   e.TeacherID,
		TeacherName: e.TeacherName,
		Day:         models.StoredDayToUI(e.DayOfWeek),
		DayOfWeek:   e.DayOfWeek,
		Period:      e.Period,
	}
}

// GridDay is one row of a weekly grid
type GridDay struct {
	Day       int              `json:"day"`
	DayOfWeek int              `json:"dayOfWeek"`
	Name      string           `json:"name"`
	Periods   []*EntryResponse `json:"periods"`
}

// WeekResponse is a Monday-first weekly grid plus the flat entry list
type WeekResponse struct {
	Days    []GridDay       `json:"days"`
	Entries []EntryResponse `json:"entries"`
}

// NewWeekResponse lays entries out on a Monday-first grid
func NewWeekResponse(entries []models.ScheduleEntry) WeekResponse {
	grid := models.EntryGrid(entries)
	resp := WeekResponse{
		Days:    make([]GridDay, 0, models.DaysPerWeek),
		Entries: make([]EntryResponse, 0, len(entries)),
	}
	for ui, row := range grid.Rows() {
		day := GridDay{
			Day:       ui,
			DayOfWeek: models.UIDayToStored(ui),
			Name:      models.DayName(models.UIDayToStored(ui)),
			Periods:   make([]*EntryResponse, models.PeriodsPerDay),
		}
		for p, e := range row {
			day.Periods[p] = FromEntry(e)
		}
		resp.Days = append(resp.Days, day)
	}
	for i := range entries {
		resp.Entries = append(resp.Entries, *FromEntry(&entries[i]))
	}
	return resp
}

// TeacherWeekResponse is one teacher block of the master schedule
type TeacherWeekResponse struct {
	TeacherID   int64  `json:"teacherId"`
	TeacherName string `json:"teacherName"`
	WeekResponse
}

// MasterScheduleResponse is the institution-wide grid
type MasterScheduleResponse struct {
	TermID   int64                 `json:"termId"`
	TermName string                `json:"termName"`
	Teachers []TeacherWeekResponse `json:"teachers"`
}

// FromMasterSchedule converts the model master schedule
func FromMasterSchedule(m *models.MasterSchedule) MasterScheduleResponse {
	resp := MasterScheduleResponse{
		TermID:   m.TermID,
		TermName: m.TermName,
		Teachers: make([]TeacherWeekResponse, 0, len(m.Teachers)),
	}
	for _, t := range m.Teachers {
		resp.Teachers = append(resp.Teachers, TeacherWeekResponse{
			TeacherID:    t.TeacherID,
			TeacherName:  t.TeacherName,
			WeekResponse: NewWeekResponse(t.Entries),
		})
	}
	return resp
}

// ConflictResponse is a student double-booking
type ConflictResponse struct {
	StudentID   int64  `json:"studentId"`
	StudentName string `json:"studentName"`
	CourseName  string `json:"courseName"`
	Day         int    `json:"day"`
	DayOfWeek   int    `json:"dayOfWeek"`
	Period      int    `json:"period"`
}

// FromConflicts converts detector output
func FromConflicts(conflicts []models.StudentConflict) []ConflictResponse {
	out := make([]ConflictResponse, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, ConflictResponse{
			StudentID:   c.StudentID,
			StudentName: c.StudentName,
			CourseName:  c.Conflict.CourseName,
			Day:         models.StoredDayToUI(c.Conflict.DayOfWeek),
			DayOfWeek:   c.Conflict.DayOfWeek,
			Period:      c.Conflict.Period,
		})
	}
	return out
}

// ScheduleDiffResponse reports the effect of a bulk save
type ScheduleDiffResponse struct {
	Created []SlotResponse `json:"created"`
	Updated []SlotResponse `json:"updated"`
	Deleted []SlotResponse `json:"deleted"`
}

// FromScheduleDiff converts a model diff
func FromScheduleDiff(d *models.ScheduleDiff) ScheduleDiffResponse {
	return ScheduleDiffResponse{
		Created: FromSlots(d.Created),
		Updated: FromSlots(d.Updated),
		Deleted: FromSlots(d.Deleted),
	}
}

// CheckConflictsResponse is the result of a dry-run course check
type CheckConflictsResponse struct {
	HasConflicts bool               `json:"hasConflicts"`
	Messages     []string           `json:"messages"`
	Conflicts    []ConflictResponse `json:"conflicts"`
}

// StudentConflictResponse is the result of a student-level check
type StudentConflictResponse struct {
	HasConflict bool              `json:"hasConflict"`
	Conflict    *ConflictResponse `json:"conflict,omitempty"`
}
