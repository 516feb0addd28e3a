package dto

import (
	"time"

	"github.com/osahq/conduct/internal/app/models"
)

// CreateStudentRequest represents student registration data. Registration
// creates the user account and the student profile together.
type CreateStudentRequest struct {
	Email           string `json:"email" binding:"required,email"`
	FirstName       string `json:"firstName" binding:"required"`
	LastName        string `json:"lastName" binding:"required"`
	StudentID       string `json:"studentId" binding:"required,student_number"`
	Program         string `json:"program" binding:"required"`
	YearLevel       int    `json:"yearLevel" binding:"required,min=1"`
	Department      string `json:"department" binding:"required"`
	ContactNumber   string `json:"contactNumber,omitempty"`
	GuardianName    string `json:"guardianName,omitempty"`
	GuardianContact string `json:"guardianContact,omitempty"`
}

// UpdateStudentRequest represents student profile update data
type UpdateStudentRequest struct {
	Program          string `json:"program" binding:"required"`
	YearLevel        int    `json:"yearLevel" binding:"required,min=1"`
	Department       string `json:"department" binding:"required"`
	EnrollmentStatus string `json:"enrollmentStatus" binding:"required,oneof=Active Suspended Graduated"`
	ContactNumber    string `json:"contactNumber,omitempty"`
	GuardianName     string `json:"guardianName,omitempty"`
	GuardianContact  string `json:"guardianContact,omitempty"`
}

// StudentFilterRequest represents filter parameters for listing students.
// Search matches the student number or either name part.
type StudentFilterRequest struct {
	Search           string `form:"search"`
	Department       string `form:"department"`
	YearLevel        *int   `form:"yearLevel" binding:"omitempty,min=1"`
	EnrollmentStatus string `form:"enrollmentStatus" binding:"omitempty,oneof=Active Suspended Graduated"`
}

// StudentResponse represents a student profile with account information
type StudentResponse struct {
	ID               int64  `json:"id"`
	UserID           int64  `json:"userId"`
	StudentID        string `json:"studentId"`
	FirstName        string `json:"firstName,omitempty"`
	LastName         string `json:"lastName,omitempty"`
	Email            string `json:"email,omitempty"`
	Program          string `json:"program"`
	YearLevel        int    `json:"yearLevel"`
	Department       string `json:"department"`
	EnrollmentStatus string `json:"enrollmentStatus"`
	ContactNumber    string `json:"contactNumber,omitempty"`
	GuardianName     string `json:"guardianName,omitempty"`
	GuardianContact  string `json:"guardianContact,omitempty"`

	// Stats is populated on detail views only
	Stats *StudentStatsResponse `json:"stats,omitempty"`
}

// StudentStatsResponse summarizes a student's violation record
type StudentStatsResponse struct {
	Total            int        `json:"total"`
	Pending          int        `json:"pending"`
	Resolved         int        `json:"resolved"`
	Dismissed        int        `json:"dismissed"`
	LatestIncidentAt *time.Time `json:"latestIncidentAt,omitempty"`
}

// StudentListResponse represents a paginated list of students
type StudentListResponse struct {
	Students   []StudentResponse `json:"students"`
	Pagination PaginationInfo    `json:"pagination"`
}

// FromStudent converts a models.Student to a StudentResponse
func FromStudent(student *models.Student) StudentResponse {
	if student == nil {
		return StudentResponse{}
	}

	resp := StudentResponse{
		ID:               student.ID,
		UserID:           student.UserID,
		StudentID:        student.StudentID,
		Program:          student.Program,
		YearLevel:        student.YearLevel,
		Department:       student.Department,
		EnrollmentStatus: string(student.EnrollmentStatus),
		ContactNumber:    student.ContactNumber,
		GuardianName:     student.GuardianName,
		GuardianContact:  student.GuardianContact,
	}

	if student.User != nil {
		resp.FirstName = student.User.FirstName
		resp.LastName = student.User.LastName
		resp.Email = student.User.Email
	}

	return resp
}

// FromStudentStats converts a models.StudentStats to a StudentStatsResponse
func FromStudentStats(stats *models.StudentStats) *StudentStatsResponse {
	if stats == nil {
		return nil
	}
	return &StudentStatsResponse{
		Total:            stats.Total,
		Pending:          stats.Pending,
		Resolved:         stats.Resolved,
		Dismissed:        stats.Dismissed,
		LatestIncidentAt: stats.LatestIncidentAt,
	}
}
