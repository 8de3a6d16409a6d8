package models

import "time"

// Class is a roster grouping of students. Membership is kept in join rows
// separate from course enrollment.
type Class struct {
	ID         int64   `json:"id" db:"id"`
	Name       string  `json:"name" db:"name"`
	GradeLevel int     `json:"gradeLevel" db:"grade_level"`
	StudentIDs []int64 `json:"studentIds,omitempty"`
	Record
}

// ClassMembership is one roster join row.
type ClassMembership struct {
	ClassID   int64     `json:"classId" db:"class_id"`
	StudentID int64     `json:"studentId" db:"student_id"`
	JoinedAt  time.Time `json:"joinedAt" db:"joined_at"`
}
