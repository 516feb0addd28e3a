package models

import "time"

// ViolationSeverity classifies how heavily a violation counts against a
// student's record.
type ViolationSeverity string

const (
	SeverityMinor ViolationSeverity = "minor"
	SeverityMajor ViolationSeverity = "major"
)

// Valid checks if the severity is one of the defined values
func (s ViolationSeverity) Valid() bool {
	return s == SeverityMinor || s == SeverityMajor
}

// ViolationStatus tracks a violation through its review lifecycle.
type ViolationStatus string

const (
	ViolationReported    ViolationStatus = "reported"
	ViolationUnderReview ViolationStatus = "under_review"
	ViolationResolved    ViolationStatus = "resolved"
	ViolationDismissed   ViolationStatus = "dismissed"
)

// Valid checks if the status is one of the defined values
func (s ViolationStatus) Valid() bool {
	switch s {
	case ViolationReported, ViolationUnderReview, ViolationResolved, ViolationDismissed:
		return true
	}
	return false
}

// Terminal reports whether the status closes the violation. Terminal
// violations never reopen.
func (s ViolationStatus) Terminal() bool {
	return s == ViolationResolved || s == ViolationDismissed
}

// Pending reports whether the violation still awaits a decision.
func (s ViolationStatus) Pending() bool {
	return s == ViolationReported || s == ViolationUnderReview
}

// Violation defines a recorded disciplinary incident based on the
// 'violations' table.
type Violation struct {
	ID               int64             `json:"id" db:"id" example:"1"`                             // Unique identifier for the violation
	StudentID        int64             `json:"studentId" db:"student_id" example:"1"`              // ID of the student involved
	ViolationTypeID  *int64            `json:"violationTypeId,omitempty" db:"violation_type_id"`   // Optional catalog entry describing the offense
	ReportedBy       *int64            `json:"reportedBy,omitempty" db:"reported_by"`              // User ID of the reporting staff member
	IncidentAt       time.Time         `json:"incidentAt" db:"incident_at"`                        // When the incident happened
	Severity         ViolationSeverity `json:"severity" db:"severity" example:"major"`             // Weight of the offense
	Location         string            `json:"location" db:"location" example:"Main Library"`      // Where the incident happened
	Description      string            `json:"description" db:"description"`                       // Narrative of the incident
	WitnessStatement string            `json:"witnessStatement,omitempty" db:"witness_statement"`  // Optional witness account
	Status           ViolationStatus   `json:"status" db:"status" example:"reported"`              // Review lifecycle state
	CreatedAt        time.Time         `json:"createdAt" db:"created_at"`                          // Record creation timestamp
	UpdatedAt        time.Time         `json:"updatedAt" db:"updated_at"`                          // Record update timestamp

	// Relations (populated when needed)
	Student       *Student       `json:"student,omitempty"`       // Student involved
	ViolationType *ViolationType `json:"violationType,omitempty"` // Catalog entry for the offense
	Reporter      *User          `json:"reporter,omitempty"`      // Staff member who reported it
}
