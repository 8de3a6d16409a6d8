package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/timetable/internal/app/models/dto"
	"github.com/yigit/timetable/internal/app/services"
	"github.com/yigit/timetable/internal/middleware"
	"github.com/yigit/timetable/internal/pkg/helpers"
)

// CourseController handles courses and their enrollment
type CourseController struct {
	courses    *services.CourseService
	enrollment *services.EnrollmentService
}

// NewCourseController creates a new CourseController
func NewCourseController(courses *services.CourseService, enrollment *services.EnrollmentService) *CourseController {
	return &CourseController{courses: courses, enrollment: enrollment}
}

// ListCourses lists the active term's courses, optionally for one teacher
// or student
// @Summary List courses
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param teacherId query int false "Teacher ID"
// @Param studentId query int false "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Course}
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	teacherID, err := helpers.ParseOptionalIDQuery(ctx, "teacherId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	studentID, err := helpers.ParseOptionalIDQuery(ctx, "studentId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	courses, err := c.courses.ListCourses(ctx.Request.Context(), teacherID, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(courses, ""))
}

// CreateCourse creates a course
// @Summary Create course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course"
// @Success 201 {object} dto.APIResponse{data=models.Course}
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	course, err := c.courses.CreateCourse(ctx.Request.Context(), req.ToModel())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(course, "Course created"))
}

// GetCourse returns a course
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	course, err := c.courses.GetCourse(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course, ""))
}

// ArchiveCourse archives a course and its slots
func (c *CourseController) ArchiveCourse(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.courses.ArchiveCourse(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Course archived"))
}

// EnrollStudent adds a student to a course
// @Summary Enroll student
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.EnrollStudentRequest true "Student"
// @Success 200 {object} dto.APIResponse{data=models.Course}
// @Failure 409 {object} dto.APIResponse "Already enrolled or schedule conflict"
// @Router /courses/{id}/students [post]
func (c *CourseController) EnrollStudent(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.EnrollStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	course, err := c.enrollment.EnrollStudent(ctx.Request.Context(), id, req.StudentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course, "Student enrolled"))
}

// UnenrollStudent removes a student from a course
func (c *CourseController) UnenrollStudent(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	studentID, err := helpers.ParseIDParam(ctx, "studentId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	course, err := c.enrollment.UnenrollStudent(ctx.Request.Context(), id, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course, "Student unenrolled"))
}

// EnrollClass enrolls the course's class roster
func (c *CourseController) EnrollClass(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	result, err := c.enrollment.EnrollClass(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.EnrollClassResponse{
		Enrolled: result.Enrolled,
		Skipped:  dto.FromConflicts(result.Skipped),
	}, "Class enrolled"))
}
