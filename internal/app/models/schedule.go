package models

// ScheduleSlot assigns a course to one grid cell. TeacherID and TermID are
// copied from the course so the one-course-per-teacher-per-cell rule can be
// enforced by an index.
type ScheduleSlot struct {
	ID        int64 `json:"id" db:"id"`
	CourseID  int64 `json:"courseId" db:"course_id"`
	TeacherID int64 `json:"teacherId" db:"teacher_id"`
	TermID    int64 `json:"termId" db:"term_id"`
	DayOfWeek int   `json:"dayOfWeek" db:"day_of_week"`
	Period    int   `json:"period" db:"period"`
	Record
}

// Coordinate returns the grid cell of the slot
func (s *ScheduleSlot) Coordinate() SlotCoordinate {
	return SlotCoordinate{DayOfWeek: s.DayOfWeek, Period: s.Period}
}

// SlotAssignment is one desired entry of a bulk teacher schedule.
type SlotAssignment struct {
	DayOfWeek int   `json:"dayOfWeek"`
	Period    int   `json:"period"`
	CourseID  int64 `json:"courseId"`
}

// Coordinate returns the grid cell of the assignment
func (a SlotAssignment) Coordinate() SlotCoordinate {
	return SlotCoordinate{DayOfWeek: a.DayOfWeek, Period: a.Period}
}

// ScheduleConflict names the course that already occupies a cell.
type ScheduleConflict struct {
	CourseID   int64  `json:"courseId"`
	CourseName string `json:"courseName"`
	DayOfWeek  int    `json:"dayOfWeek"`
	Period     int    `json:"period"`
}

// StudentConflict is a double-booking of one student.
type StudentConflict struct {
	StudentID   int64            `json:"studentId"`
	StudentName string           `json:"studentName"`
	Conflict    ScheduleConflict `json:"conflict"`
}

// StudentSlot is an occupied cell in some student's week, as seen through
// one of the courses the student is enrolled in.
type StudentSlot struct {
	StudentID  int64
	CourseID   int64
	CourseName string
	DayOfWeek  int
	Period     int
}

// ScheduleEntry is a slot joined with its course and teacher for display.
type ScheduleEntry struct {
	SlotID      int64  `json:"slotId"`
	CourseID    int64  `json:"courseId"`
	CourseName  string `json:"courseName"`
	Subject     string `json:"subject"`
	TeacherID   int64  `json:"teacherId"`
	TeacherName string `json:"teacherName"`
	ClassID     *int64 `json:"classId,omitempty"`
	DayOfWeek   int    `json:"dayOfWeek"`
	Period      int    `json:"period"`
}

// Coordinate returns the grid cell of the entry
func (e *ScheduleEntry) Coordinate() SlotCoordinate {
	return SlotCoordinate{DayOfWeek: e.DayOfWeek, Period: e.Period}
}

// TeacherWeek is one teacher's row group in the master schedule.
type TeacherWeek struct {
	TeacherID   int64           `json:"teacherId"`
	TeacherName string          `json:"teacherName"`
	Entries     []ScheduleEntry `json:"entries"`
}

// Grid places the week's entries on the day x period grid
func (w *TeacherWeek) Grid() *Grid[ScheduleEntry] {
	return EntryGrid(w.Entries)
}

// EntryGrid builds a grid from entries. When two entries share a cell the
// later one wins.
func EntryGrid(entries []ScheduleEntry) *Grid[ScheduleEntry] {
	g := &Grid[ScheduleEntry]{}
	for i := range entries {
		g.Set(entries[i].Coordinate(), &entries[i])
	}
	return g
}

// MasterSchedule is the institution-wide timetable of the active term.
type MasterSchedule struct {
	TermID   int64         `json:"termId"`
	TermName string        `json:"termName"`
	Teachers []TeacherWeek `json:"teachers"`
}

// ScheduleDiff summarises a bulk teacher schedule save.
type ScheduleDiff struct {
	Created []ScheduleSlot `json:"created"`
	Updated []ScheduleSlot `json:"updated"`
	Deleted []ScheduleSlot `json:"deleted"`
}

// Empty reports whether the save changed nothing
func (d *ScheduleDiff) Empty() bool {
	return len(d.Created) == 0 && len(d.Updated) == 0 && len(d.Deleted) == 0
}
