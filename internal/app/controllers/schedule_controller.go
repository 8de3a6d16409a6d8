package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/app/models/dto"
	"github.com/yigit/timetable/internal/app/services"
	"github.com/yigit/timetable/internal/middleware"
	"github.com/yigit/timetable/internal/pkg/helpers"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ScheduleController handles timetable grid operations
type ScheduleController struct {
	schedules *services.ScheduleService
	conflicts *services.ConflictService
	export    *services.ExportService
}

// NewScheduleController creates a new ScheduleController
func NewScheduleController(schedules *services.ScheduleService, conflicts *services.ConflictService, export *services.ExportService) *ScheduleController {
	return &ScheduleController{
		schedules: schedules,
		conflicts: conflicts,
		export:    export,
	}
}

// GetTeacherSchedule returns a teacher's weekly grid
// @Summary Get teacher schedule
// @Tags schedules
// @Produce json
// @Security BearerAuth
// @Param teacherId path int true "Teacher ID"
// @Success 200 {object} dto.APIResponse{data=dto.TeacherWeekResponse}
// @Failure 404 {object} dto.APIResponse "Teacher not found"
// @Router /schedules/teachers/{teacherId} [get]
func (c *ScheduleController) GetTeacherSchedule(ctx *gin.Context) {
	teacherID, err := helpers.ParseIDParam(ctx, "teacherId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	week, err := c.schedules.TeacherSchedule(ctx.Request.Context(), teacherID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.TeacherWeekResponse{
		TeacherID:    week.TeacherID,
		TeacherName:  week.TeacherName,
		WeekResponse: dto.NewWeekResponse(week.Entries),
	}, ""))
}

// UpdateSlot assigns a course to one cell of a teacher's grid, or clears it
// @Summary Update one schedule slot
// @Description Day is Monday-first (0 = Monday). A null courseId clears the cell.
// @Tags schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param teacherId path int true "Teacher ID"
// @Param request body dto.UpdateSlotRequest true "Slot"
// @Success 200 {object} dto.APIResponse{data=dto.SlotResponse}
// @Failure 400 {object} dto.APIResponse "Invalid slot"
// @Failure 409 {object} dto.APIResponse "Schedule conflict"
// @Router /schedules/teachers/{teacherId}/slots [put]
func (c *ScheduleController) UpdateSlot(ctx *gin.Context) {
	teacherID, err := helpers.ParseIDParam(ctx, "teacherId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateSlotRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	slot, err := c.schedules.UpdateSchedule(ctx.Request.Context(), teacherID, models.UIDayToStored(*req.Day), *req.Period, req.CourseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	message := "Schedule updated"
	if slot == nil {
		message = "Schedule slot cleared"
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromSlot(slot), message))
}

// SaveTeacherSchedule replaces a teacher's whole week
// @Summary Save teacher schedule
// @Description Replaces every slot of the teacher. Any conflict rejects the whole batch.
// @Tags schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param teacherId path int true "Teacher ID"
// @Param request body dto.SaveTeacherScheduleRequest true "Desired week"
// @Success 200 {object} dto.APIResponse{data=dto.ScheduleDiffResponse}
// @Failure 409 {object} dto.APIResponse "Schedule conflicts"
// @Router /schedules/teachers/{teacherId} [put]
func (c *ScheduleController) SaveTeacherSchedule(ctx *gin.Context) {
	teacherID, err := helpers.ParseIDParam(ctx, "teacherId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.SaveTeacherScheduleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	diff, err := c.schedules.SaveTeacherSchedule(ctx.Request.Context(), teacherID, req.Assignments())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromScheduleDiff(diff), "Schedule saved"))
}

// GetStudentSchedule returns a student's weekly grid
func (c *ScheduleController) GetStudentSchedule(ctx *gin.Context) {
	studentID, err := helpers.ParseIDParam(ctx, "studentId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	entries, err := c.schedules.StudentSchedule(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewWeekResponse(entries), ""))
}

// GetCourseSchedule returns a course's slots
func (c *ScheduleController) GetCourseSchedule(ctx *gin.Context) {
	courseID, err := helpers.ParseIDParam(ctx, "courseId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	entries, err := c.schedules.CourseSchedule(ctx.Request.Context(), courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewWeekResponse(entries), ""))
}

// CheckCourseConflicts reports the students a proposed slot set would
// double-book, without writing anything
// @Summary Dry-run course conflict check
// @Tags schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Param request body dto.CheckConflictsRequest true "Proposed slots"
// @Success 200 {object} dto.APIResponse{data=dto.CheckConflictsResponse}
// @Router /schedules/courses/{courseId}/conflicts [post]
func (c *ScheduleController) CheckCourseConflicts(ctx *gin.Context) {
	courseID, err := helpers.ParseIDParam(ctx, "courseId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.CheckConflictsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	slots := make([]models.SlotCoordinate, 0, len(req.Slots))
	for _, s := range req.Slots {
		slots = append(slots, s.Coordinate())
	}

	conflicts, err := c.conflicts.CheckCourseScheduleUpdateConflict(ctx.Request.Context(), courseID, slots)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.CheckConflictsResponse{
		HasConflicts: len(conflicts) > 0,
		Messages:     make([]string, 0, len(conflicts)),
		Conflicts:    dto.FromConflicts(conflicts),
	}
	for _, conflict := range conflicts {
		resp.Messages = append(resp.Messages, services.ConflictMessage(conflict))
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// CheckStudentConflict reports whether enrolling the student would
// double-book them
func (c *ScheduleController) CheckStudentConflict(ctx *gin.Context) {
	studentID, err := helpers.ParseIDParam(ctx, "studentId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	courseID, err := helpers.ParseIDParam(ctx, "courseId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	conflict, err := c.conflicts.CheckStudentScheduleConflict(ctx.Request.Context(), studentID, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.StudentConflictResponse{HasConflict: conflict != nil}
	if conflict != nil {
		converted := dto.FromConflicts([]models.StudentConflict{{StudentID: studentID, Conflict: *conflict}})
		resp.Conflict = &converted[0]
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// GetMasterSchedule returns every teacher's week
func (c *ScheduleController) GetMasterSchedule(ctx *gin.Context) {
	master, err := c.schedules.MasterSchedule(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromMasterSchedule(master), ""))
}

// ExportMasterSchedule downloads the master schedule as a workbook
// @Summary Export master schedule
// @Tags schedules
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Router /schedules/master/export [get]
func (c *ScheduleController) ExportMasterSchedule(ctx *gin.Context) {
	var buf bytes.Buffer
	master, err := c.export.WriteMasterSchedule(ctx.Request.Context(), &buf)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="master-schedule-%d.xlsx"`, master.TermID))
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
