package models

import "time"

// ApologyStatus tracks staff review of a submitted apology letter.
type ApologyStatus string

const (
	ApologyPending        ApologyStatus = "pending"
	ApologyApproved       ApologyStatus = "approved"
	ApologyRejected       ApologyStatus = "rejected"
	ApologyRevisionNeeded ApologyStatus = "revision_needed"
)

// Valid checks if the status is one of the defined values
func (s ApologyStatus) Valid() bool {
	switch s {
	case ApologyPending, ApologyApproved, ApologyRejected, ApologyRevisionNeeded:
		return true
	}
	return false
}

// Reviewed reports whether staff already ruled on the letter. A letter sent
// back for revision stays open for re-review.
func (s ApologyStatus) Reviewed() bool {
	return s == ApologyApproved || s == ApologyRejected
}

// ApologyLetter defines a student's written apology for a violation based on
// the 'apology_letters' table. Approval of the letter resolves the linked
// violation.
type ApologyLetter struct {
	ID          int64         `json:"id" db:"id" example:"1"`                     // Unique identifier for the letter
	ViolationID int64         `json:"violationId" db:"violation_id" example:"4"`  // Violation the letter apologizes for
	StudentID   int64         `json:"studentId" db:"student_id" example:"1"`      // Student who wrote the letter
	Content     string        `json:"content" db:"content"`                       // Letter body
	Status      ApologyStatus `json:"status" db:"status" example:"pending"`       // Review outcome
	SubmittedAt time.Time     `json:"submittedAt" db:"submitted_at"`              // When the letter was submitted
	VerifiedBy  *int64        `json:"verifiedBy,omitempty" db:"verified_by"`      // User ID of the reviewing staff member
	VerifiedAt  *time.Time    `json:"verifiedAt,omitempty" db:"verified_at"`      // When the review happened
	Remarks     string        `json:"remarks,omitempty" db:"remarks"`             // Reviewer remarks

	// Relations (populated when needed)
	Violation *Violation `json:"violation,omitempty"` // Violation the letter is attached to
	Student   *Student   `json:"student,omitempty"`   // Author of the letter
}
