package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/app/models/dto"
	"github.com/yigit/timetable/internal/app/services"
	"github.com/yigit/timetable/internal/middleware"
	"github.com/yigit/timetable/internal/pkg/helpers"
)

// UserController serves the teacher and student directory
type UserController struct {
	users *services.UserService
}

// NewUserController creates a new UserController
func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// ListUsers lists users of one role
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param role query string true "TEACHER, STUDENT or ADMIN"
// @Success 200 {object} dto.APIResponse{data=[]models.User}
// @Router /users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	role := models.RoleType(strings.ToUpper(ctx.Query("role")))

	users, err := c.users.ListUsers(ctx.Request.Context(), role)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(users, ""))
}

// GetUser returns one user
func (c *UserController) GetUser(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	user, err := c.users.GetUser(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(user, ""))
}
