package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/timetable/internal/app/models/dto"
	"github.com/yigit/timetable/internal/app/services"
	"github.com/yigit/timetable/internal/middleware"
	"github.com/yigit/timetable/internal/pkg/helpers"
)

// TermController handles terms and academic years
type TermController struct {
	terms *services.TermService
}

// NewTermController creates a new TermController
func NewTermController(terms *services.TermService) *TermController {
	return &TermController{terms: terms}
}

// ListTerms lists every term
// @Summary List terms
// @Tags terms
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Term}
// @Router /terms [get]
func (c *TermController) ListTerms(ctx *gin.Context) {
	terms, err := c.terms.ListTerms(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(terms, ""))
}

// CreateTerm creates an inactive term
// @Summary Create term
// @Tags terms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTermRequest true "Term"
// @Success 201 {object} dto.APIResponse{data=models.Term}
// @Router /terms [post]
func (c *TermController) CreateTerm(ctx *gin.Context) {
	var req dto.CreateTermRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	term, err := c.terms.CreateTerm(ctx.Request.Context(), req.ToModel())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(term, "Term created"))
}

// GetActiveTerm returns the active term
func (c *TermController) GetActiveTerm(ctx *gin.Context) {
	term, err := c.terms.ActiveTerm(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(term, ""))
}

// ActivateTerm makes a term the only active one
func (c *TermController) ActivateTerm(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	term, err := c.terms.ActivateTerm(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(term, "Term activated"))
}

// ListAcademicYears lists every academic year
func (c *TermController) ListAcademicYears(ctx *gin.Context) {
	years, err := c.terms.ListAcademicYears(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(years, ""))
}

// CreateAcademicYear creates an inactive academic year
func (c *TermController) CreateAcademicYear(ctx *gin.Context) {
	var req dto.CreateAcademicYearRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	year, err := c.terms.CreateAcademicYear(ctx.Request.Context(), req.ToModel())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(year, "Academic year created"))
}

// ActivateAcademicYear makes an academic year the only active one
func (c *TermController) ActivateAcademicYear(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	year, err := c.terms.ActivateAcademicYear(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(year, "Academic year activated"))
}
