package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/osahq/conduct/internal/app/models"
	"github.com/osahq/conduct/internal/app/models/dto"
	"github.com/osahq/conduct/internal/app/repositories"
	"github.com/osahq/conduct/internal/pkg/apperrors"
	"github.com/osahq/conduct/internal/pkg/notify"
)

// AlertService defines the interface for staff alert operations, including
// the guidance meeting lifecycle
type AlertService interface {
	GetAlertByID(ctx context.Context, id int64) (*dto.AlertResponse, error)
	GetAllAlerts(ctx context.Context, filter *dto.AlertFilterRequest, page, size int) (*dto.AlertListResponse, error)
	ScheduleMeeting(ctx context.Context, id int64, req *dto.ScheduleMeetingRequest) (*dto.AlertResponse, error)
	MarkMeetingMet(ctx context.Context, id int64, req *dto.MarkMeetingMetRequest) (*dto.AlertResponse, error)
	ResolveAlert(ctx context.Context, id int64) (*dto.AlertResponse, error)
	DismissAlert(ctx context.Context, id int64, req *dto.DismissAlertRequest) (*dto.AlertResponse, error)
	RestoreAlert(ctx context.Context, id int64) (*dto.AlertResponse, error)
	SweepExpiredMeetings(ctx context.Context, now time.Time) (int, error)
}

// alertServiceImpl implements AlertService
type alertServiceImpl struct {
	alertStore AlertStore
	userStore  UserStore
	notifier   notify.Notifier
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAlertService creates a new AlertService
func NewAlertService(
	alertStore AlertStore,
	userStore UserStore,
	notifier notify.Notifier,
	logger zerolog.Logger,
	now func() time.Time,
) AlertService {
	return &alertServiceImpl{
		alertStore: alertStore,
		userStore:  userStore,
		notifier:   notifier,
		logger:     logger,
		now:        now,
	}
}

// GetAlertByID retrieves an alert with its student
func (s *alertServiceImpl) GetAlertByID(ctx context.Context, id int64) (*dto.AlertResponse, error) {
	alert, err := s.alertStore.GetAlertByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting alert: %w", err)
	}

	resp := dto.FromStaffAlert(alert)
	return &resp, nil
}

// GetAllAlerts retrieves alerts with filtering and pagination
func (s *alertServiceImpl) GetAllAlerts(ctx context.Context, filter *dto.AlertFilterRequest, page, size int) (*dto.AlertListResponse, error) {
	params := repositories.ListAlertsParams{
		Page: page,
		Size: size,
	}
	if filter != nil {
		params.StudentID = filter.StudentID
		params.Status = filter.Status
	}

	alerts, pagination, err := s.alertStore.ListAlerts(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("error listing alerts: %w", err)
	}

	responses := make([]dto.AlertResponse, 0, len(alerts))
	for _, alert := range alerts {
		responses = append(responses, dto.FromStaffAlert(alert))
	}

	return &dto.AlertListResponse{
		Alerts:     responses,
		Pagination: pagination,
	}, nil
}

// openAlert loads an alert and rejects operations on closed ones. A resolved
// or dismissed alert behaves like a missing one for mutation purposes.
func (s *alertServiceImpl) openAlert(ctx context.Context, id int64) (*models.StaffAlert, error) {
	alert, err := s.alertStore.GetAlertByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting alert: %w", err)
	}
	if !alert.Open() {
		return nil, apperrors.ErrAlertClosed
	}
	return alert, nil
}

// ScheduleMeeting sets the guidance meeting time on an open alert.
// Re-scheduling a still-pending meeting is allowed; past datetimes are
// accepted and simply expire on the next sweep.
func (s *alertServiceImpl) ScheduleMeeting(ctx context.Context, id int64, req *dto.ScheduleMeetingRequest) (*dto.AlertResponse, error) {
	alert, err := s.openAlert(ctx, id)
	if err != nil {
		return nil, err
	}

	if alert.MeetingStatus.Terminal() {
		return nil, apperrors.NewInvalidTransitionError(
			fmt.Sprintf("meeting is already %s and cannot be scheduled again", alert.MeetingStatus))
	}

	notes := req.Notes
	if notes == "" {
		notes = alert.MeetingNotes
	}

	at := s.now()
	if err := s.alertStore.ScheduleMeeting(ctx, id, req.ScheduledAt, notes, at); err != nil {
		return nil, fmt.Errorf("error scheduling meeting: %w", err)
	}

	s.logger.Info().
		Int64("alert_id", id).
		Int64("student_id", alert.StudentID).
		Time("scheduled_at", req.ScheduledAt).
		Msg("Guidance meeting scheduled")

	alert.MeetingStatus = models.MeetingScheduled
	alert.ScheduledMeetingAt = &req.ScheduledAt
	alert.MeetingNotes = notes
	alert.MeetingStatusUpdatedAt = &at

	s.notifyMeetingScheduled(ctx, alert, req.ScheduledAt)

	resp := dto.FromStaffAlert(alert)
	return &resp, nil
}

// MarkMeetingMet records that the student attended the guidance meeting.
// Only a scheduled meeting can be marked met.
func (s *alertServiceImpl) MarkMeetingMet(ctx context.Context, id int64, req *dto.MarkMeetingMetRequest) (*dto.AlertResponse, error) {
	alert, err := s.openAlert(ctx, id)
	if err != nil {
		return nil, err
	}

	if alert.MeetingStatus != models.MeetingScheduled {
		return nil, apperrors.NewInvalidTransitionError(
			fmt.Sprintf("meeting is %s and cannot be marked met", alert.MeetingStatus))
	}

	notes := req.Notes
	if notes == "" {
		notes = alert.MeetingNotes
	}

	at := s.now()
	if err := s.alertStore.MarkMeetingMet(ctx, id, notes, at); err != nil {
		return nil, fmt.Errorf("error marking meeting met: %w", err)
	}

	s.logger.Info().
		Int64("alert_id", id).
		Int64("student_id", alert.StudentID).
		Msg("Guidance meeting marked met")

	alert.MeetingStatus = models.MeetingMet
	alert.MeetingNotes = notes
	alert.MeetingStatusUpdatedAt = &at

	resp := dto.FromStaffAlert(alert)
	return &resp, nil
}

// ResolveAlert closes an open alert after the case was handled
func (s *alertServiceImpl) ResolveAlert(ctx context.Context, id int64) (*dto.AlertResponse, error) {
	alert, err := s.openAlert(ctx, id)
	if err != nil {
		return nil, err
	}

	at := s.now()
	if err := s.alertStore.ResolveAlert(ctx, id, at); err != nil {
		return nil, fmt.Errorf("error resolving alert: %w", err)
	}

	s.logger.Info().
		Int64("alert_id", id).
		Int64("student_id", alert.StudentID).
		Msg("Alert resolved")

	alert.Resolved = true
	alert.ResolvedAt = &at

	resp := dto.FromStaffAlert(alert)
	return &resp, nil
}

// DismissAlert withdraws an open alert without intervention. Dismissal is a
// soft delete; RestoreAlert reverses it.
func (s *alertServiceImpl) DismissAlert(ctx context.Context, id int64, req *dto.DismissAlertRequest) (*dto.AlertResponse, error) {
	alert, err := s.openAlert(ctx, id)
	if err != nil {
		return nil, err
	}

	var dismissedBy *int64
	if req != nil && req.DismissedBy != nil {
		if _, err := s.userStore.GetUserByID(ctx, *req.DismissedBy); err != nil {
			return nil, fmt.Errorf("error getting dismissing user: %w", err)
		}
		dismissedBy = req.DismissedBy
	}

	at := s.now()
	if err := s.alertStore.DismissAlert(ctx, id, dismissedBy, at); err != nil {
		return nil, fmt.Errorf("error dismissing alert: %w", err)
	}

	s.logger.Info().
		Int64("alert_id", id).
		Int64("student_id", alert.StudentID).
		Msg("Alert dismissed")

	alert.Dismissed = true
	alert.DismissedAt = &at
	alert.DismissedBy = dismissedBy

	resp := dto.FromStaffAlert(alert)
	return &resp, nil
}

// RestoreAlert reopens a dismissed alert. Restoring fails when the student
// has accumulated a newer open alert in the meantime.
func (s *alertServiceImpl) RestoreAlert(ctx context.Context, id int64) (*dto.AlertResponse, error) {
	alert, err := s.alertStore.GetAlertByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting alert: %w", err)
	}
	if alert.Resolved {
		return nil, apperrors.ErrAlertClosed
	}
	if !alert.Dismissed {
		return nil, apperrors.NewInvalidTransitionError("alert is not dismissed and cannot be restored")
	}

	if err := s.alertStore.RestoreAlert(ctx, id); err != nil {
		return nil, fmt.Errorf("error restoring alert: %w", err)
	}

	s.logger.Info().
		Int64("alert_id", id).
		Int64("student_id", alert.StudentID).
		Msg("Alert restored")

	alert.Dismissed = false
	alert.DismissedAt = nil
	alert.DismissedBy = nil

	resp := dto.FromStaffAlert(alert)
	return &resp, nil
}

// SweepExpiredMeetings expires every scheduled meeting whose time has passed
// and notifies each side once. The guarded update makes repeated sweeps safe:
// an alert already expired, or touched since it was listed, is skipped without
// a second notification. Returns how many meetings this sweep expired.
func (s *alertServiceImpl) SweepExpiredMeetings(ctx context.Context, now time.Time) (int, error) {
	alerts, err := s.alertStore.ListExpiredMeetings(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("error listing expired meetings: %w", err)
	}

	expired := 0
	for _, alert := range alerts {
		ok, err := s.alertStore.ExpireMeeting(ctx, alert.ID, now)
		if err != nil {
			s.logger.Error().Err(err).
				Int64("alert_id", alert.ID).
				Msg("Error expiring meeting, skipping")
			continue
		}
		if !ok {
			// Resolved, dismissed or rescheduled since the listing.
			continue
		}

		expired++
		at := now
		alert.MeetingStatus = models.MeetingExpired
		alert.MeetingStatusUpdatedAt = &at

		s.logger.Info().
			Int64("alert_id", alert.ID).
			Int64("student_id", alert.StudentID).
			Msg("Guidance meeting expired, student did not attend")

		s.notifyMeetingMissed(ctx, alert)
	}

	return expired, nil
}

// notifyMeetingScheduled informs the student and the staff about the new
// meeting time. Best effort.
func (s *alertServiceImpl) notifyMeetingScheduled(ctx context.Context, alert *models.StaffAlert, meetingAt time.Time) {
	student := alert.Student
	if student == nil {
		s.logger.Error().Int64("alert_id", alert.ID).Msg("Alert has no student loaded, skipping meeting notifications")
		return
	}

	notifyEach(ctx, s.notifier, s.logger,
		[]notify.Recipient{studentRecipient(student)},
		subjectMeetingStudent,
		meetingScheduledStudentBody(meetingAt, alert.EffectiveMajorCount),
	)

	staff, err := s.userStore.ListActiveUsersByRole(ctx, models.RoleStaff, models.RoleCoordinator)
	if err != nil {
		s.logger.Error().Err(err).Msg("Could not list staff for meeting notifications")
		return
	}
	notifyEach(ctx, s.notifier, s.logger,
		userRecipients(staff),
		subjectMeetingStaff,
		meetingScheduledStaffBody(student.StudentID, student.DisplayName(), alert.EffectiveMajorCount, meetingAt),
	)
}

// notifyMeetingMissed informs the student, the coordinators and the staff
// that the meeting expired unattended. Best effort.
func (s *alertServiceImpl) notifyMeetingMissed(ctx context.Context, alert *models.StaffAlert) {
	student := alert.Student
	if student == nil {
		s.logger.Error().Int64("alert_id", alert.ID).Msg("Alert has no student loaded, skipping missed-meeting notifications")
		return
	}

	notifyEach(ctx, s.notifier, s.logger,
		[]notify.Recipient{studentRecipient(student)},
		subjectMissedStudent,
		meetingMissedStudentBody(alert.ScheduledMeetingAt, alert.EffectiveMajorCount),
	)

	coordinators, err := s.userStore.ListActiveUsersByRole(ctx, models.RoleCoordinator)
	if err != nil {
		s.logger.Error().Err(err).Msg("Could not list coordinators for missed-meeting notifications")
	} else {
		notifyEach(ctx, s.notifier, s.logger,
			userRecipients(coordinators),
			subjectMissedStaff,
			meetingMissedCoordinatorBody(student.StudentID, student.DisplayName(), alert.EffectiveMajorCount, alert.ScheduledMeetingAt),
		)
	}

	staff, err := s.userStore.ListActiveUsersByRole(ctx, models.RoleStaff)
	if err != nil {
		s.logger.Error().Err(err).Msg("Could not list staff for missed-meeting notifications")
		return
	}
	notifyEach(ctx, s.notifier, s.logger,
		userRecipients(staff),
		subjectMissedStaff,
		meetingMissedStaffBody(student.StudentID, student.DisplayName(), alert.ScheduledMeetingAt),
	)
}
