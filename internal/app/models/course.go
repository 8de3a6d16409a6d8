package models

// Course is one subject taught by one teacher in one term, optionally for
// one class. Enrolled students are held as an identifier list.
type Course struct {
	ID         int64   `json:"id" db:"id"`
	Name       string  `json:"name" db:"name"`
	Subject    string  `json:"subject" db:"subject"`
	TeacherID  int64   `json:"teacherId" db:"teacher_id"`
	TermID     int64   `json:"termId" db:"term_id"`
	ClassID    *int64  `json:"classId,omitempty" db:"class_id"`
	StudentIDs []int64 `json:"studentIds" db:"student_ids"`
	Record
}

// HasStudent reports whether studentID is enrolled
func (c *Course) HasStudent(studentID int64) bool {
	for _, id := range c.StudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}
