package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/osahq/conduct/internal/app/models/dto"
	"github.com/osahq/conduct/internal/app/services"
	"github.com/osahq/conduct/internal/middleware"
	"github.com/osahq/conduct/internal/pkg/helpers"
)

// parseIDParam parses a positive integer ID from the request path
func parseIDParam(ctx *gin.Context, paramName string) (int64, error) {
	idStr := ctx.Param(paramName)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, strconv.ErrSyntax
	}
	return id, nil
}

// invalidIDResponse writes the standard 400 for a malformed path ID
func invalidIDResponse(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusBadRequest, dto.NewAPIError(
		dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message)))
}

// StudentController handles student registry operations
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{
		studentService: studentService,
	}
}

// CreateStudent handles student registration
// @Summary Register a new student
// @Description Creates the user account and the student profile together
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.CreateStudentRequest true "Student registration data"
// @Success 201 {object} dto.APIResponse{data=dto.StudentResponse} "Student created successfully"
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid request data"
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail} "Email or student number already exists"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail} "Internal server error"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewAPIError(dto.HandleValidationError(err)))
		return
	}

	student, err := c.studentService.CreateStudent(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(student))
}

// GetAllStudents lists students
// @Summary List students
// @Description Lists students with optional search and filters
// @Tags students
// @Accept json
// @Produce json
// @Param search query string false "Match student number or name"
// @Param department query string false "Filter by department"
// @Param yearLevel query int false "Filter by year level"
// @Param enrollmentStatus query string false "Filter by enrollment status" Enums(Active, Suspended, Graduated)
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 10, max: 100)"
// @Success 200 {object} dto.APIResponse{data=dto.StudentListResponse} "Students retrieved successfully"
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid filter parameters"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail} "Internal server error"
// @Router /students [get]
func (c *StudentController) GetAllStudents(ctx *gin.Context) {
	var filter dto.StudentFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewAPIError(dto.HandleValidationError(err)))
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	students, err := c.studentService.GetAllStudents(ctx, &filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(students))
}

// GetStudentByID retrieves a student with violation statistics
// @Summary Get student by ID
// @Description Retrieves a student profile with violation statistics
// @Tags students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse} "Student retrieved successfully"
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid student ID"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Student not found"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail} "Internal server error"
// @Router /students/{id} [get]
func (c *StudentController) GetStudentByID(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		invalidIDResponse(ctx, "Invalid student ID")
		return
	}

	student, err := c.studentService.GetStudentByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(student))
}

// UpdateStudent edits a student profile
// @Summary Update a student
// @Description Updates a student profile. Changing the year level restarts the promotion clock.
// @Tags students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Student profile data"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse} "Student updated successfully"
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid request data"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Student not found"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail} "Internal server error"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		invalidIDResponse(ctx, "Invalid student ID")
		return
	}

	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewAPIError(dto.HandleValidationError(err)))
		return
	}

	student, err := c.studentService.UpdateStudent(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(student))
}

// GetEligibility evaluates a student's clearance eligibility
// @Summary Evaluate student eligibility
// @Description Computes the clearance decision from the student's violation ledger at request time
// @Tags students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.EligibilityResponse} "Eligibility evaluated successfully"
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid student ID"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Student not found"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail} "Internal server error"
// @Router /students/{id}/eligibility [get]
func (c *StudentController) GetEligibility(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		invalidIDResponse(ctx, "Invalid student ID")
		return
	}

	eligibility, err := c.studentService.EvaluateEligibility(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(eligibility))
}
