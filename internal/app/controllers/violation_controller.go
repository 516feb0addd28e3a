package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/osahq/conduct/internal/app/models/dto"
	"github.com/osahq/conduct/internal/app/services"
	"github.com/osahq/conduct/internal/middleware"
	"github.com/osahq/conduct/internal/pkg/helpers"
)

// ViolationController handles violation ledger operations
type ViolationController struct {
	violationService services.ViolationService
}

// NewViolationController creates a new ViolationController
func NewViolationController(violationService services.ViolationService) *ViolationController {
	return &ViolationController{
		violationService: violationService,
	}
}

// CreateViolation records a new violation
// @Summary Record a violation
// @Description Records a disciplinary incident against a student. Recording may raise a staff alert when the student crosses the threshold.
// @Tags violations
// @Accept json
// @Produce json
// @Param request body dto.CreateViolationRequest true "Violation data"
// @Success 201 {object} dto.APIResponse{data=dto.ViolationResponse} "Violation recorded successfully"
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid request data"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Student or violation type not found"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail} "Internal server error"
// @Router /violations [post]
func (c *ViolationController) CreateViolation(ctx *gin.Context) {
	var req dto.CreateViolationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewAPIError(dto.HandleValidationError(err)))
		return
	}

	violation, err := c.violationService.CreateViolation(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(violation))
}

// GetAllViolations lists violations
// @Summary List violations
// @Description Lists violations with optional filters, newest first
// @Tags violations
// @Accept json
// @Produce json
// @Param studentId query int false "Filter by student ID"
// @Param severity query string false "Filter by severity" Enums(minor, major)
// @Param status query string false "Filter by review status" Enums(reported, under_review, resolved, dismissed)
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 10, max: 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ViolationListResponse} "Violations retrieved successfully"
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid filter parameters"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail} "Internal server error"
// @Router /violations [get]
func (c *ViolationController) GetAllViolations(ctx *gin.Context) {
	var filter dto.ViolationFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewAPIError(dto.HandleValidationError(err)))
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	violations, err := c.violationService.GetAllViolations(ctx, &filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(violations))
}

// GetViolationByID retrieves a violation
// @Summary Get violation by ID
// @Description Retrieves a single violation with student and type details
// @Tags violations
// @Accept json
// @Produce json
// @Param id path int true "Violation ID"
// @Success 200 {object} dto.APIResponse{data=dto.ViolationResponse} "Violation retrieved successfully"
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid violation ID"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Violation not found"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail} "Internal server error"
// @Router /violations/{id} [get]
func (c *ViolationController) GetViolationByID(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		invalidIDResponse(ctx, "Invalid violation ID")
		return
	}

	violation, err := c.violationService.GetViolationByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(violation))
}

// UpdateViolationStatus moves a violation through its review lifecycle
// @Summary Update violation status
// @Description Changes the review status. Resolved and dismissed are terminal; repeating the current status is a no-op.
// @Tags violations
// @Accept json
// @Produce json
// @Param id path int true "Violation ID"
// @Param request body dto.UpdateViolationStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=dto.ViolationResponse} "Status updated successfully"
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid request data"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Violation not found"
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail} "Violation already closed"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail} "Internal server error"
// @Router /violations/{id}/status [patch]
func (c *ViolationController) UpdateViolationStatus(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		invalidIDResponse(ctx, "Invalid violation ID")
		return
	}

	var req dto.UpdateViolationStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewAPIError(dto.HandleValidationError(err)))
		return
	}

	violation, err := c.violationService.UpdateViolationStatus(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(violation))
}

// DeleteViolation removes a violation from the ledger
// @Summary Delete a violation
// @Description Deletes a violation. Alerts it triggered stay, with the reference cleared; counts recompute on the next recording.
// @Tags violations
// @Accept json
// @Produce json
// @Param id path int true "Violation ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Violation deleted successfully"
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid violation ID"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Violation not found"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail} "Internal server error"
// @Router /violations/{id} [delete]
func (c *ViolationController) DeleteViolation(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		invalidIDResponse(ctx, "Invalid violation ID")
		return
	}

	if err := c.violationService.DeleteViolation(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Violation deleted"}))
}

// GetOverdueViolations lists violations pending past the review deadline
// @Summary List overdue violations
// @Description Lists violations still awaiting review past the configured deadline, oldest first
// @Tags violations
// @Accept json
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.OverdueViolationListResponse} "Overdue violations retrieved successfully"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail} "Internal server error"
// @Router /violations/overdue [get]
func (c *ViolationController) GetOverdueViolations(ctx *gin.Context) {
	violations, err := c.violationService.GetOverdueViolations(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(violations))
}
