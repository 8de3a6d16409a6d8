package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/timetable/internal/app/controllers"
	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/middleware"
	"github.com/yigit/timetable/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	scheduleController *controllers.ScheduleController,
	termController *controllers.TermController,
	courseController *controllers.CourseController,
	classController *controllers.ClassController,
	userController *controllers.UserController,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	// API version group
	v1 := router.Group("/api/v1")

	// Every API route needs a valid token
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	// Mutations are limited to administrators
	admin := authenticated.Group("")
	admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))

	// --- Schedule routes ---
	schedules := authenticated.Group("/schedules")
	{
		schedules.GET("/teachers/:teacherId", scheduleController.GetTeacherSchedule)
		schedules.GET("/students/:studentId", scheduleController.GetStudentSchedule)
		schedules.GET("/students/:studentId/conflicts/:courseId", scheduleController.CheckStudentConflict)
		schedules.GET("/courses/:courseId", scheduleController.GetCourseSchedule)
		schedules.POST("/courses/:courseId/conflicts", scheduleController.CheckCourseConflicts)
		schedules.GET("/master", scheduleController.GetMasterSchedule)
		schedules.GET("/master/export", scheduleController.ExportMasterSchedule)
		schedules.GET("/ws", wsHandler.HandleConnection)
	}

	schedulesAdmin := admin.Group("/schedules")
	{
		schedulesAdmin.PUT("/teachers/:teacherId/slots", scheduleController.UpdateSlot)
		schedulesAdmin.PUT("/teachers/:teacherId", scheduleController.SaveTeacherSchedule)
	}

	// --- Term routes ---
	terms := authenticated.Group("/terms")
	{
		terms.GET("", termController.ListTerms)
		terms.GET("/active", termController.GetActiveTerm)
	}

	termsAdmin := admin.Group("/terms")
	{
		termsAdmin.POST("", termController.CreateTerm)
		termsAdmin.POST("/:id/activate", termController.ActivateTerm)
	}

	years := authenticated.Group("/academic-years")
	{
		years.GET("", termController.ListAcademicYears)
	}

	yearsAdmin := admin.Group("/academic-years")
	{
		yearsAdmin.POST("", termController.CreateAcademicYear)
		yearsAdmin.POST("/:id/activate", termController.ActivateAcademicYear)
	}

	// --- Course routes ---
	courses := authenticated.Group("/courses")
	{
		courses.GET("", courseController.ListCourses)
		courses.GET("/:id", courseController.GetCourse)
	}

	coursesAdmin := admin.Group("/courses")
	{
		coursesAdmin.POST("", courseController.CreateCourse)
		coursesAdmin.DELETE("/:id", courseController.ArchiveCourse)
		coursesAdmin.POST("/:id/students", courseController.EnrollStudent)
		coursesAdmin.DELETE("/:id/students/:studentId", courseController.UnenrollStudent)
		coursesAdmin.POST("/:id/enroll-class", courseController.EnrollClass)
	}

	// --- User directory ---
	users := authenticated.Group("/users")
	{
		users.GET("", userController.ListUsers)
		users.GET("/:id", userController.GetUser)
	}

	// --- Class routes ---
	classes := authenticated.Group("/classes")
	{
		classes.GET("", classController.ListClasses)
		classes.GET("/:id", classController.GetClass)
	}

	classesAdmin := admin.Group("/classes")
	{
		classesAdmin.POST("", classController.CreateClass)
		classesAdmin.POST("/:id/students", classController.AddStudent)
		classesAdmin.DELETE("/:id/students/:studentId", classController.RemoveStudent)
	}
}
