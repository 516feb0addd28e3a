package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/osahq/conduct/internal/app/models/dto"
	"github.com/osahq/conduct/internal/app/services"
	"github.com/osahq/conduct/internal/middleware"
	"github.com/osahq/conduct/internal/pkg/helpers"
)

// AlertController handles staff alert and guidance meeting operations
type AlertController struct {
	alertService services.AlertService
}

// NewAlertController creates a new AlertController
func NewAlertController(alertService services.AlertService) *AlertController {
	return &AlertController{
		alertService: alertService,
	}
}

// GetAllAlerts lists staff alerts
// @Summary List alerts
// @Description Lists staff alerts with optional student and status filters, newest first
// @Tags alerts
// @Accept json
// @Produce json
// @Param studentId query int false "Filter by student ID"
// @Param status query string false "Filter by alert status" Enums(open, resolved, dismissed)
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 10, max: 100)"
// @Success 200 {object} dto.APIResponse{data=dto.AlertListResponse} "Alerts retrieved successfully"
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid filter parameters"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail} "Internal server error"
// @Router /alerts [get]
func (c *AlertController) GetAllAlerts(ctx *gin.Context) {
	var filter dto.AlertFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewAPIError(dto.HandleValidationError(err)))
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	alerts, err := c.alertService.GetAllAlerts(ctx, &filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(alerts))
}

// GetAlertByID retrieves an alert
// @Summary Get alert by ID
// @Description Retrieves a staff alert with its meeting state
// @Tags alerts
// @Accept json
// @Produce json
// @Param id path int true "Alert ID"
// @Success 200 {object} dto.APIResponse{data=dto.AlertResponse} "Alert retrieved successfully"
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid alert ID"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Alert not found"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail} "Internal server error"
// @Router /alerts/{id} [get]
func (c *AlertController) GetAlertByID(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		invalidIDResponse(ctx, "Invalid alert ID")
		return
	}

	alert, err := c.alertService.GetAlertByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(alert))
}

// ScheduleMeeting schedules the guidance meeting for an alert
// @Summary Schedule the guidance meeting
// @Description Schedules or reschedules the guidance meeting attached to an open alert
// @Tags alerts
// @Accept json
// @Produce json
// @Param id path int true "Alert ID"
// @Param request body dto.ScheduleMeetingRequest true "Meeting schedule data"
// @Success 200 {object} dto.APIResponse{data=dto.AlertResponse} "Meeting scheduled successfully"
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid request data"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Alert not found"
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail} "Alert closed or meeting already concluded"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail} "Internal server error"
// @Router /alerts/{id}/meeting [post]
func (c *AlertController) ScheduleMeeting(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		invalidIDResponse(ctx, "Invalid alert ID")
		return
	}

	var req dto.ScheduleMeetingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewAPIError(dto.HandleValidationError(err)))
		return
	}

	alert, err := c.alertService.ScheduleMeeting(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(alert))
}

// MarkMeetingMet records that the guidance meeting took place
// @Summary Mark the guidance meeting as met
// @Description Records that the scheduled meeting happened. Met is a terminal meeting state.
// @Tags alerts
// @Accept json
// @Produce json
// @Param id path int true "Alert ID"
// @Param request body dto.MarkMeetingMetRequest false "Meeting notes"
// @Success 200 {object} dto.APIResponse{data=dto.AlertResponse} "Meeting marked met successfully"
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid request data"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Alert not found"
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail} "Meeting is not in a schedulable state"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail} "Internal server error"
// @Router /alerts/{id}/meeting/met [post]
func (c *AlertController) MarkMeetingMet(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		invalidIDResponse(ctx, "Invalid alert ID")
		return
	}

	// The body is optional; met without notes is fine
	var req dto.MarkMeetingMetRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewAPIError(dto.HandleValidationError(err)))
			return
		}
	}

	alert, err := c.alertService.MarkMeetingMet(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(alert))
}

// ResolveAlert closes an alert as handled
// @Summary Resolve an alert
// @Description Closes an open alert after the case was handled
// @Tags alerts
// @Accept json
// @Produce json
// @Param id path int true "Alert ID"
// @Success 200 {object} dto.APIResponse{data=dto.AlertResponse} "Alert resolved successfully"
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid alert ID"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Alert not found"
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail} "Alert already closed"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail} "Internal server error"
// @Router /alerts/{id}/resolve [post]
func (c *AlertController) ResolveAlert(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		invalidIDResponse(ctx, "Invalid alert ID")
		return
	}

	alert, err := c.alertService.ResolveAlert(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(alert))
}

// DismissAlert withdraws an alert without intervention
// @Summary Dismiss an alert
// @Description Withdraws an open alert. A dismissed alert can be restored while the case stays unresolved.
// @Tags alerts
// @Accept json
// @Produce json
// @Param id path int true "Alert ID"
// @Param request body dto.DismissAlertRequest false "Dismissal data"
// @Success 200 {object} dto.APIResponse{data=dto.AlertResponse} "Alert dismissed successfully"
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid request data"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Alert not found"
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail} "Alert already closed"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail} "Internal server error"
// @Router /alerts/{id}/dismiss [post]
func (c *AlertController) DismissAlert(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		invalidIDResponse(ctx, "Invalid alert ID")
		return
	}

	// The body is optional; dismissal does not have to name who dismissed
	var req dto.DismissAlertRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewAPIError(dto.HandleValidationError(err)))
			return
		}
	}

	alert, err := c.alertService.DismissAlert(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(alert))
}

// RestoreAlert reopens a dismissed alert
// @Summary Restore a dismissed alert
// @Description Reopens a dismissed alert. Fails when another open alert exists for the student.
// @Tags alerts
// @Accept json
// @Produce json
// @Param id path int true "Alert ID"
// @Success 200 {object} dto.APIResponse{data=dto.AlertResponse} "Alert restored successfully"
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid alert ID"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Alert not found"
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail} "Alert not dismissed or student already flagged"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail} "Internal server error"
// @Router /alerts/{id}/restore [post]
func (c *AlertController) RestoreAlert(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		invalidIDResponse(ctx, "Invalid alert ID")
		return
	}

	alert, err := c.alertService.RestoreAlert(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(alert))
}
