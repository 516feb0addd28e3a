package models

import "time"

// MeetingStatus tracks the guidance meeting attached to a staff alert.
type MeetingStatus string

const (
	MeetingNotScheduled MeetingStatus = "not_scheduled"
	MeetingScheduled    MeetingStatus = "scheduled"
	MeetingMet          MeetingStatus = "met"
	MeetingExpired      MeetingStatus = "expired"
)

// Valid checks if the status is one of the defined values
func (s MeetingStatus) Valid() bool {
	switch s {
	case MeetingNotScheduled, MeetingScheduled, MeetingMet, MeetingExpired:
		return true
	}
	return false
}

// Terminal reports whether the meeting reached a final state. Terminal
// meeting states never change again.
func (s MeetingStatus) Terminal() bool {
	return s == MeetingMet || s == MeetingExpired
}

// StaffAlert defines an escalation raised when a student's effective major
// count crosses the intervention threshold, based on the 'staff_alerts'
// table. At most one open alert exists per student.
type StaffAlert struct {
	ID                   int64         `json:"id" db:"id" example:"1"`                                     // Unique identifier for the alert
	StudentID            int64         `json:"studentId" db:"student_id" example:"1"`                      // ID of the student the alert concerns
	TriggeredViolationID *int64        `json:"triggeredViolationId,omitempty" db:"triggered_violation_id"` // Violation whose recording crossed the threshold
	EffectiveMajorCount  int           `json:"effectiveMajorCount" db:"effective_major_count" example:"3"` // Snapshot of the count at issue time
	Resolved             bool          `json:"resolved" db:"resolved" example:"false"`                     // Whether the case was closed after intervention
	ResolvedAt           *time.Time    `json:"resolvedAt,omitempty" db:"resolved_at"`                      // When the case was closed
	Dismissed            bool          `json:"dismissed" db:"dismissed" example:"false"`                   // Whether the alert was withdrawn without intervention
	DismissedAt          *time.Time    `json:"dismissedAt,omitempty" db:"dismissed_at"`                    // When the alert was withdrawn
	DismissedBy          *int64        `json:"dismissedBy,omitempty" db:"dismissed_by"`                    // User ID of the coordinator who withdrew it
	MeetingStatus        MeetingStatus `json:"meetingStatus" db:"meeting_status" example:"not_scheduled"`  // Guidance meeting state
	ScheduledMeetingAt   *time.Time    `json:"scheduledMeetingAt,omitempty" db:"scheduled_meeting_at"`     // Agreed meeting time
	MeetingNotes         string        `json:"meetingNotes,omitempty" db:"meeting_notes"`                  // Coordinator notes from the meeting
	MeetingStatusUpdatedAt *time.Time  `json:"meetingStatusUpdatedAt,omitempty" db:"meeting_status_updated_at"` // Last meeting state change
	CreatedAt            time.Time     `json:"createdAt" db:"created_at"`                                  // When the alert was raised

	// Relations (populated when needed)
	Student            *Student   `json:"student,omitempty"`            // Student the alert concerns
	TriggeredViolation *Violation `json:"triggeredViolation,omitempty"` // Violation that crossed the threshold
}

// Open reports whether the alert still demands staff attention. An alert is
// open until it is resolved or dismissed.
func (a *StaffAlert) Open() bool {
	return !a.Resolved && !a.Dismissed
}
