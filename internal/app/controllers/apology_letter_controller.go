package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/osahq/conduct/internal/app/models/dto"
	"github.com/osahq/conduct/internal/app/services"
	"github.com/osahq/conduct/internal/middleware"
	"github.com/osahq/conduct/internal/pkg/helpers"
)

// ApologyLetterController handles apology letter operations
type ApologyLetterController struct {
	apologyLetterService services.ApologyLetterService
}

// NewApologyLetterController creates a new ApologyLetterController
func NewApologyLetterController(apologyLetterService services.ApologyLetterService) *ApologyLetterController {
	return &ApologyLetterController{
		apologyLetterService: apologyLetterService,
	}
}

// SubmitApologyLetter files an apology letter against a violation
// @Summary Submit an apology letter
// @Description Files a written apology for a violation. The author is the student the violation names.
// @Tags apology-letters
// @Accept json
// @Produce json
// @Param id path int true "Violation ID"
// @Param request body dto.SubmitApologyRequest true "Letter content"
// @Success 201 {object} dto.APIResponse{data=dto.ApologyLetterResponse} "Letter submitted successfully"
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid request data"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Violation not found"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail} "Internal server error"
// @Router /violations/{id}/apology-letters [post]
func (c *ApologyLetterController) SubmitApologyLetter(ctx *gin.Context) {
	violationID, err := parseIDParam(ctx, "id")
	if err != nil {
		invalidIDResponse(ctx, "Invalid violation ID")
		return
	}

	var req dto.SubmitApologyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewAPIError(dto.HandleValidationError(err)))
		return
	}

	letter, err := c.apologyLetterService.SubmitApologyLetter(ctx, violationID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(letter))
}

// GetAllApologyLetters lists apology letters
// @Summary List apology letters
// @Description Lists apology letters with optional filters, newest first
// @Tags apology-letters
// @Accept json
// @Produce json
// @Param violationId query int false "Filter by violation ID"
// @Param studentId query int false "Filter by student ID"
// @Param status query string false "Filter by review status" Enums(pending, approved, rejected, revision_needed)
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 10, max: 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ApologyLetterListResponse} "Letters retrieved successfully"
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid filter parameters"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail} "Internal server error"
// @Router /apology-letters [get]
func (c *ApologyLetterController) GetAllApologyLetters(ctx *gin.Context) {
	var filter dto.ApologyLetterFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewAPIError(dto.HandleValidationError(err)))
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	letters, err := c.apologyLetterService.GetAllApologyLetters(ctx, &filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(letters))
}

// GetApologyLetterByID retrieves an apology letter
// @Summary Get apology letter by ID
// @Description Retrieves a single apology letter with its review state
// @Tags apology-letters
// @Accept json
// @Produce json
// @Param id path int true "Apology letter ID"
// @Success 200 {object} dto.APIResponse{data=dto.ApologyLetterResponse} "Letter retrieved successfully"
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid letter ID"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Letter not found"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail} "Internal server error"
// @Router /apology-letters/{id} [get]
func (c *ApologyLetterController) GetApologyLetterByID(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		invalidIDResponse(ctx, "Invalid apology letter ID")
		return
	}

	letter, err := c.apologyLetterService.GetApologyLetterByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(letter))
}

// ReviewApologyLetter records a staff ruling on a letter
// @Summary Review an apology letter
// @Description Approves, rejects or sends a letter back for revision. Approval resolves the linked violation when it is still pending.
// @Tags apology-letters
// @Accept json
// @Produce json
// @Param id path int true "Apology letter ID"
// @Param request body dto.ReviewApologyRequest true "Review ruling"
// @Success 200 {object} dto.APIResponse{data=dto.ApologyLetterResponse} "Letter reviewed successfully"
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid request data"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Letter not found"
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail} "Letter already reviewed"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail} "Internal server error"
// @Router /apology-letters/{id}/review [post]
func (c *ApologyLetterController) ReviewApologyLetter(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		invalidIDResponse(ctx, "Invalid apology letter ID")
		return
	}

	var req dto.ReviewApologyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewAPIError(dto.HandleValidationError(err)))
		return
	}

	letter, err := c.apologyLetterService.ReviewApologyLetter(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(letter))
}
