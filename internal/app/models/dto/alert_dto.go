package dto

import (
	"time"

	"github.com/osahq/conduct/internal/app/models"
)

// ScheduleMeetingRequest represents data for scheduling the guidance meeting
// attached to an alert
type ScheduleMeetingRequest struct {
	ScheduledAt time.Time `json:"scheduledAt" binding:"required"`
	Notes       string    `json:"notes,omitempty"`
}

// MarkMeetingMetRequest represents data for recording that the guidance
// meeting took place
type MarkMeetingMetRequest struct {
	Notes string `json:"notes,omitempty"`
}

// DismissAlertRequest represents data for withdrawing an alert without
// intervention
type DismissAlertRequest struct {
	DismissedBy *int64 `json:"dismissedBy,omitempty" binding:"omitempty,gt=0"`
}

// AlertFilterRequest represents filter parameters for listing alerts
type AlertFilterRequest struct {
	StudentID *int64 `form:"studentId" binding:"omitempty,gt=0"`
	Status    string `form:"status" binding:"omitempty,oneof=open resolved dismissed"`
}

// AlertResponse represents a staff alert with its meeting state
type AlertResponse struct {
	ID                     int64      `json:"id"`
	StudentID              int64      `json:"studentId"`
	StudentNumber          string     `json:"studentNumber,omitempty"`
	StudentName            string     `json:"studentName,omitempty"`
	TriggeredViolationID   *int64     `json:"triggeredViolationId,omitempty"`
	EffectiveMajorCount    int        `json:"effectiveMajorCount"`
	Open                   bool       `json:"open"`
	Resolved               bool       `json:"resolved"`
	ResolvedAt             *time.Time `json:"resolvedAt,omitempty"`
	Dismissed              bool       `json:"dismissed"`
	DismissedAt            *time.Time `json:"dismissedAt,omitempty"`
	DismissedBy            *int64     `json:"dismissedBy,omitempty"`
	MeetingStatus          string     `json:"meetingStatus"`
	ScheduledMeetingAt     *time.Time `json:"scheduledMeetingAt,omitempty"`
	MeetingNotes           string     `json:"meetingNotes,omitempty"`
	MeetingStatusUpdatedAt *time.Time `json:"meetingStatusUpdatedAt,omitempty"`
	CreatedAt              time.Time  `json:"createdAt"`
}

// AlertListResponse represents a paginated list of staff alerts
type AlertListResponse struct {
	Alerts     []AlertResponse `json:"alerts"`
	Pagination PaginationInfo  `json:"pagination"`
}

// FromStaffAlert converts a models.StaffAlert to an AlertResponse
func FromStaffAlert(alert *models.StaffAlert) AlertResponse {
	if alert == nil {
		return AlertResponse{}
	}

	resp := AlertResponse{
		ID:                     alert.ID,
		StudentID:              alert.StudentID,
		TriggeredViolationID:   alert.TriggeredViolationID,
		EffectiveMajorCount:    alert.EffectiveMajorCount,
		Open:                   alert.Open(),
		Resolved:               alert.Resolved,
		ResolvedAt:             alert.ResolvedAt,
		Dismissed:              alert.Dismissed,
		DismissedAt:            alert.DismissedAt,
		DismissedBy:            alert.DismissedBy,
		MeetingStatus:          string(alert.MeetingStatus),
		ScheduledMeetingAt:     alert.ScheduledMeetingAt,
		MeetingNotes:           alert.MeetingNotes,
		MeetingStatusUpdatedAt: alert.MeetingStatusUpdatedAt,
		CreatedAt:              alert.CreatedAt,
	}

	if alert.Student != nil {
		resp.StudentNumber = alert.Student.StudentID
		resp.StudentName = alert.Student.DisplayName()
	}

	return resp
}
