package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/app/models/dto"
	"github.com/yigit/timetable/internal/app/services"
	"github.com/yigit/timetable/internal/middleware"
	"github.com/yigit/timetable/internal/pkg/helpers"
)

// ClassController handles class rosters
type ClassController struct {
	classes *services.ClassService
}

// NewClassController creates a new ClassController
func NewClassController(classes *services.ClassService) *ClassController {
	return &ClassController{classes: classes}
}

// ListClasses lists classes with their rosters
func (c *ClassController) ListClasses(ctx *gin.Context) {
	classes, err := c.classes.ListClasses(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(classes, ""))
}

// CreateClass creates an empty class
func (c *ClassController) CreateClass(ctx *gin.Context) {
	var req dto.CreateClassRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	class, err := c.classes.CreateClass(ctx.Request.Context(), &models.Class{Name: req.Name, GradeLevel: req.GradeLevel})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(class, "Class created"))
}

// GetClass returns a class with its roster
func (c *ClassController) GetClass(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	class, err := c.classes.GetClass(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(class, ""))
}

// AddStudent adds a student to the roster
func (c *ClassController) AddStudent(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.EnrollStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	class, err := c.classes.AddStudent(ctx.Request.Context(), id, req.StudentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(class, "Student added"))
}

// RemoveStudent removes a student from the roster
func (c *ClassController) RemoveStudent(ctx *gin.Context) {
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

	class, err := c.classes.RemoveStudent(ctx.Request.Context(), id, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(class, "Student removed"))
}
