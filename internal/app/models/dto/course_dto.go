package dto

import "github.com/yigit/timetable/internal/app/models"

// CreateCourseRequest represents a request to create a course. The course
// is created in the active term unless TermID is given.
type CreateCourseRequest struct {
	Name       string  `json:"name" binding:"required,min=2,max=200" example:"Algebra I - 9A"`
	Subject    string  `json:"subject" binding:"required,max=100" example:"Mathematics"`
	TeacherID  int64   `json:"teacherId" binding:"required,min=1" example:"3"`
	TermID     *int64  `json:"termId" binding:"omitempty,min=1" example:"1"`
	ClassID    *int64  `json:"classId" binding:"omitempty,min=1" example:"2"`
	StudentIDs []int64 `json:"studentIds" binding:"omitempty,dive,min=1"`
}

// ToModel converts the request
func (r CreateCourseRequest) ToModel() *models.Course {
	c := &models.Course{
		Name:       r.Name,
		Subject:    r.Subject,
		TeacherID:  r.TeacherID,
		ClassID:    r.ClassID,
		StudentIDs: r.StudentIDs,
	}
	if r.TermID != nil {
		c.TermID = *r.TermID
	}
	return c
}

// EnrollStudentRequest adds one student to a course or class
type EnrollStudentRequest struct {
	StudentID int64 `json:"studentId" binding:"required,min=1" example:"17"`
}

// EnrollClassResponse reports a class-wide enrollment
type EnrollClassResponse struct {
	Enrolled []int64            `json:"enrolled"`
	Skipped  []ConflictResponse `json:"skipped"`
}

// CreateClassRequest represents a request to create a class
type CreateClassRequest struct {
	Name       string `json:"name" binding:"required,min=1,max=100" example:"9A"`
	GradeLevel int    `json:"gradeLevel" binding:"min=0,max=13" example:"9"`
}
