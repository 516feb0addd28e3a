package dto

import (
	"time"

	"github.com/osahq/conduct/internal/app/models"
)

// CreateViolationRequest represents data for recording a new violation.
// Severity may be omitted when a violation type is given; the type's default
// severity applies then.
type CreateViolationRequest struct {
	StudentID        int64      `json:"studentId" binding:"required,gt=0"`
	ViolationTypeID  *int64     `json:"violationTypeId,omitempty" binding:"omitempty,gt=0"`
	ReportedBy       *int64     `json:"reportedBy,omitempty" binding:"omitempty,gt=0"`
	IncidentAt       *time.Time `json:"incidentAt,omitempty"`
	Severity         string     `json:"severity,omitempty" binding:"omitempty,oneof=minor major"`
	Location         string     `json:"location,omitempty"`
	Description      string     `json:"description" binding:"required"`
	WitnessStatement string     `json:"witnessStatement,omitempty"`
}

// UpdateViolationStatusRequest represents a review state change for a violation
type UpdateViolationStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=reported under_review resolved dismissed"`
}

// ViolationFilterRequest represents filter parameters for listing violations
type ViolationFilterRequest struct {
	StudentID *int64 `form:"studentId" binding:"omitempty,gt=0"`
	Severity  string `form:"severity" binding:"omitempty,oneof=minor major"`
	Status    string `form:"status" binding:"omitempty,oneof=reported under_review resolved dismissed"`
}

// ViolationResponse represents a recorded violation
type ViolationResponse struct {
	ID               int64      `json:"id"`
	StudentID        int64      `json:"studentId"`
	StudentNumber    string     `json:"studentNumber,omitempty"`
	StudentName      string     `json:"studentName,omitempty"`
	ViolationTypeID  *int64     `json:"violationTypeId,omitempty"`
	ViolationType    string     `json:"violationType,omitempty"`
	ReportedBy       *int64     `json:"reportedBy,omitempty"`
	ReporterName     string     `json:"reporterName,omitempty"`
	IncidentAt       time.Time  `json:"incidentAt"`
	Severity         string     `json:"severity"`
	Location         string     `json:"location,omitempty"`
	Description      string     `json:"description"`
	WitnessStatement string     `json:"witnessStatement,omitempty"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// ViolationListResponse represents a paginated list of violations
type ViolationListResponse struct {
	Violations []ViolationResponse `json:"violations"`
	Pagination PaginationInfo      `json:"pagination"`
}

// OverdueViolationListResponse represents the overdue case report: pending
// violations that have sat unreviewed past the overdue window
type OverdueViolationListResponse struct {
	Cutoff     time.Time           `json:"cutoff"`
	Count      int                 `json:"count"`
	Violations []ViolationResponse `json:"violations"`
}

// FromViolation converts a models.Violation to a ViolationResponse
func FromViolation(violation *models.Violation) ViolationResponse {
	if violation == nil {
		return ViolationResponse{}
	}

	resp := ViolationResponse{
		ID:               violation.ID,
		StudentID:        violation.StudentID,
		ViolationTypeID:  violation.ViolationTypeID,
		ReportedBy:       violation.ReportedBy,
		IncidentAt:       violation.IncidentAt,
		Severity:         string(violation.Severity),
		Location:         violation.Location,
		Description:      violation.Description,
		WitnessStatement: violation.WitnessStatement,
		Status:           string(violation.Status),
		CreatedAt:        violation.CreatedAt,
		UpdatedAt:        violation.UpdatedAt,
	}

	if violation.Student != nil {
		resp.StudentNumber = violation.Student.StudentID
		resp.StudentName = violation.Student.DisplayName()
	}
	if violation.ViolationType != nil {
		resp.ViolationType = violation.ViolationType.Name
	}
	if violation.Reporter != nil {
		resp.ReporterName = violation.Reporter.FullName()
	}

	return resp
}
