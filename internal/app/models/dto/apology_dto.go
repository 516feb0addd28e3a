package dto

import (
	"time"

	"github.com/osahq/conduct/internal/app/models"
)

// SubmitApologyRequest represents a student's apology letter submission. The
// violation comes from the URL; the student is the one the violation names.
type SubmitApologyRequest struct {
	Content string `json:"content" binding:"required,min=20"`
}

// ReviewApologyRequest represents a staff ruling on a submitted letter.
// Sending a letter back for revision keeps it open for resubmission.
type ReviewApologyRequest struct {
	Status     string `json:"status" binding:"required,oneof=approved rejected revision_needed"`
	VerifiedBy *int64 `json:"verifiedBy,omitempty" binding:"omitempty,gt=0"`
	Remarks    string `json:"remarks,omitempty"`
}

// ApologyLetterFilterRequest represents filter parameters for listing letters
type ApologyLetterFilterRequest struct {
	ViolationID *int64 `form:"violationId" binding:"omitempty,gt=0"`
	StudentID   *int64 `form:"studentId" binding:"omitempty,gt=0"`
	Status      string `form:"status" binding:"omitempty,oneof=pending approved rejected revision_needed"`
}

// ApologyLetterResponse represents an apology letter with review state
type ApologyLetterResponse struct {
	ID            int64      `json:"id"`
	ViolationID   int64      `json:"violationId"`
	StudentID     int64      `json:"studentId"`
	StudentNumber string     `json:"studentNumber,omitempty"`
	StudentName   string     `json:"studentName,omitempty"`
	Content       string     `json:"content"`
	Status        string     `json:"status"`
	SubmittedAt   time.Time  `json:"submittedAt"`
	VerifiedBy    *int64     `json:"verifiedBy,omitempty"`
	VerifiedAt    *time.Time `json:"verifiedAt,omitempty"`
	Remarks       string     `json:"remarks,omitempty"`
}

// ApologyLetterListResponse represents a paginated list of apology letters
type ApologyLetterListResponse struct {
	Letters    []ApologyLetterResponse `json:"letters"`
	Pagination PaginationInfo          `json:"pagination"`
}

// FromApologyLetter converts a models.ApologyLetter to an ApologyLetterResponse
func FromApologyLetter(letter *models.ApologyLetter) ApologyLetterResponse {
	if letter == nil {
		return ApologyLetterResponse{}
	}

	resp := ApologyLetterResponse{
		ID:          letter.ID,
		ViolationID: letter.ViolationID,
		StudentID:   letter.StudentID,
		Content:     letter.Content,
		Status:      string(letter.Status),
		SubmittedAt: letter.SubmittedAt,
		VerifiedBy:  letter.VerifiedBy,
		VerifiedAt:  letter.VerifiedAt,
		Remarks:     letter.Remarks,
	}

	if letter.Student != nil {
		resp.StudentNumber = letter.Student.StudentID
		resp.StudentName = letter.Student.DisplayName()
	}

	return resp
}
