package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/osahq/conduct/internal/app/controllers"
	"github.com/osahq/conduct/internal/app/models/dto"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	studentController *controllers.StudentController,
	violationController *controllers.ViolationController,
	violationTypeController *controllers.ViolationTypeController,
	alertController *controllers.AlertController,
	apologyLetterController *controllers.ApologyLetterController,
	messageController *controllers.MessageController,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// Student registry
	students := v1.Group("/students")
	{
		students.POST("", studentController.CreateStudent)
		students.GET("", studentController.GetAllStudents)
		students.GET("/:id", studentController.GetStudentByID)
		students.PUT("/:id", studentController.UpdateStudent)
		students.GET("/:id/eligibility", studentController.GetEligibility)
	}

	// Violation ledger
	violations := v1.Group("/violations")
	{
		violations.POST("", violationController.CreateViolation)
		violations.GET("", violationController.GetAllViolations)
		violations.GET("/overdue", violationController.GetOverdueViolations)
		violations.GET("/:id", violationController.GetViolationByID)
		violations.PATCH("/:id/status", violationController.UpdateViolationStatus)
		violations.DELETE("/:id", violationController.DeleteViolation)

		// Letters are filed against the violation they apologize for
		violations.POST("/:id/apology-letters", apologyLetterController.SubmitApologyLetter)
	}

	// Handbook catalog
	violationTypes := v1.Group("/violation-types")
	{
		violationTypes.POST("", violationTypeController.CreateViolationType)
		violationTypes.GET("", violationTypeController.GetAllViolationTypes)
		violationTypes.GET("/:id", violationTypeController.GetViolationTypeByID)
		violationTypes.PUT("/:id", violationTypeController.UpdateViolationType)
	}

	// Staff alerts and the guidance meeting lifecycle
	alerts := v1.Group("/alerts")
	{
		alerts.GET("", alertController.GetAllAlerts)
		alerts.GET("/:id", alertController.GetAlertByID)
		alerts.POST("/:id/meeting", alertController.ScheduleMeeting)
		alerts.POST("/:id/meeting/met", alertController.MarkMeetingMet)
		alerts.POST("/:id/resolve", alertController.ResolveAlert)
		alerts.POST("/:id/dismiss", alertController.DismissAlert)
		alerts.POST("/:id/restore", alertController.RestoreAlert)
	}

	// Apology letter review
	apologyLetters := v1.Group("/apology-letters")
	{
		apologyLetters.GET("", apologyLetterController.GetAllApologyLetters)
		apologyLetters.GET("/:id", apologyLetterController.GetApologyLetterByID)
		apologyLetters.POST("/:id/review", apologyLetterController.ReviewApologyLetter)
	}

	// In-app notification inbox
	messages := v1.Group("/messages")
	{
		messages.GET("", messageController.GetInbox)
		messages.POST("/:id/read", messageController.MarkMessageRead)
	}

	// Health check endpoint
	v1.GET("/ping", func(c *gin.Context) {
		c.JSON(200, dto.NewAPIResponse(gin.H{"status": "ok"}))
	})

	// Swagger routes are set up in bootstrap already
}
