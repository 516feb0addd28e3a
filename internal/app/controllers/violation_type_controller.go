package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/osahq/conduct/internal/app/models/dto"
	"github.com/osahq/conduct/internal/app/services"
	"github.com/osahq/conduct/internal/middleware"
)

// ViolationTypeController handles handbook catalog operations
type ViolationTypeController struct {
	violationTypeService services.ViolationTypeService
}

// NewViolationTypeController creates a new ViolationTypeController
func NewViolationTypeController(violationTypeService services.ViolationTypeService) *ViolationTypeController {
	return &ViolationTypeController{
		violationTypeService: violationTypeService,
	}
}

// CreateViolationType adds a handbook entry
// @Summary Create a violation type
// @Description Adds an entry to the handbook catalog
// @Tags violation-types
// @Accept json
// @Produce json
// @Param request body dto.CreateViolationTypeRequest true "Violation type data"
// @Success 201 {object} dto.APIResponse{data=dto.ViolationTypeResponse} "Violation type created successfully"
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid request data"
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail} "Code already exists"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail} "Internal server error"
// @Router /violation-types [post]
func (c *ViolationTypeController) CreateViolationType(ctx *gin.Context) {
	var req dto.CreateViolationTypeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewAPIError(dto.HandleValidationError(err)))
		return
	}

	violationType, err := c.violationTypeService.CreateViolationType(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(violationType))
}

// GetAllViolationTypes lists the handbook catalog
// @Summary List violation types
// @Description Lists handbook entries, optionally only the ones still in use
// @Tags violation-types
// @Accept json
// @Produce json
// @Param activeOnly query bool false "Only list active entries"
// @Success 200 {object} dto.APIResponse{data=dto.ViolationTypeListResponse} "Violation types retrieved successfully"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail} "Internal server error"
// @Router /violation-types [get]
func (c *ViolationTypeController) GetAllViolationTypes(ctx *gin.Context) {
	activeOnly := ctx.Query("activeOnly") == "true"

	violationTypes, err := c.violationTypeService.GetAllViolationTypes(ctx, activeOnly)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(violationTypes))
}

// GetViolationTypeByID retrieves a handbook entry
// @Summary Get violation type by ID
// @Description Retrieves a single handbook entry
// @Tags violation-types
// @Accept json
// @Produce json
// @Param id path int true "Violation type ID"
// @Success 200 {object} dto.APIResponse{data=dto.ViolationTypeResponse} "Violation type retrieved successfully"
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid violation type ID"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Violation type not found"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail} "Internal server error"
// @Router /violation-types/{id} [get]
func (c *ViolationTypeController) GetViolationTypeByID(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		invalidIDResponse(ctx, "Invalid violation type ID")
		return
	}

	violationType, err := c.violationTypeService.GetViolationTypeByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(violationType))
}

// UpdateViolationType edits a handbook entry
// @Summary Update a violation type
// @Description Edits a handbook entry. Deactivating blocks new violations from referencing it; old ones keep it.
// @Tags violation-types
// @Accept json
// @Produce json
// @Param id path int true "Violation type ID"
// @Param request body dto.UpdateViolationTypeRequest true "Violation type data"
// @Success 200 {object} dto.APIResponse{data=dto.ViolationTypeResponse} "Violation type updated successfully"
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid request data"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Violation type not found"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail} "Internal server error"
// @Router /violation-types/{id} [put]
func (c *ViolationTypeController) UpdateViolationType(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		invalidIDResponse(ctx, "Invalid violation type ID")
		return
	}

	var req dto.UpdateViolationTypeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewAPIError(dto.HandleValidationError(err)))
		return
	}

	violationType, err := c.violationTypeService.UpdateViolationType(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(violationType))
}
