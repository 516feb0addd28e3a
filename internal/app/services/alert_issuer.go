package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/osahq/conduct/internal/app/events"
	"github.com/osahq/conduct/internal/app/models"
	"github.com/osahq/conduct/internal/app/policy"
	"github.com/osahq/conduct/internal/pkg/apperrors"
	"github.com/osahq/conduct/internal/pkg/notify"
)

// AlertIssuer raises a staff alert the moment a student's effective major
// count reaches the intervention threshold. It subscribes to the
// ViolationRecorded event; the dispatcher swallows its errors, so nothing
// here can fail the violation write that triggered it.
type AlertIssuer struct {
	violationStore ViolationStore
	alertStore     AlertStore
	studentStore   StudentStore
	userStore      UserStore
	notifier       notify.Notifier
	policy         policy.Config
	logger         zerolog.Logger
}

// NewAlertIssuer creates the issuer. Register it on the event dispatcher to
// activate it.
func NewAlertIssuer(
	violationStore ViolationStore,
	alertStore AlertStore,
	studentStore StudentStore,
	userStore UserStore,
	notifier notify.Notifier,
	policyCfg policy.Config,
	logger zerolog.Logger,
) *AlertIssuer {
	return &AlertIssuer{
		violationStore: violationStore,
		alertStore:     alertStore,
		studentStore:   studentStore,
		userStore:      userStore,
		notifier:       notifier,
		policy:         policyCfg,
		logger:         logger,
	}
}

// HandleViolationRecorded recounts the student's ledger, compares the
// effective score against the threshold and raises at most one open alert.
// The recount is always a fresh aggregate, never an incremental counter, so
// the issuer self-heals when earlier violations were edited or deleted.
func (i *AlertIssuer) HandleViolationRecorded(ctx context.Context, event events.ViolationRecorded) error {
	studentID := event.Violation.StudentID

	majors, minors, err := i.violationStore.CountBySeverity(ctx, studentID)
	if err != nil {
		return fmt.Errorf("error recounting violations: %w", err)
	}

	effective, err := i.policy.EffectiveMajors(majors, minors)
	if err != nil {
		return fmt.Errorf("error computing effective majors: %w", err)
	}

	if effective < i.policy.AlertThreshold {
		return nil
	}

	// A student already flagged does not get re-flagged while their case is
	// open.
	if _, err := i.alertStore.GetOpenAlertByStudent(ctx, studentID); err == nil {
		i.logger.Debug().
			Int64("student_id", studentID).
			Int("effective_majors", effective).
			Msg("Open alert already exists, not re-flagging")
		return nil
	} else if !errors.Is(err, apperrors.ErrAlertNotFound) {
		return fmt.Errorf("error checking for open alert: %w", err)
	}

	violationID := event.Violation.ID
	alert := &models.StaffAlert{
		StudentID:            studentID,
		TriggeredViolationID: &violationID,
		EffectiveMajorCount:  effective,
	}
	if _, err := i.alertStore.CreateAlert(ctx, alert); err != nil {
		// Lost the race against a concurrent recording. The student is
		// flagged either way, which is all the issuer guarantees.
		if errors.Is(err, apperrors.ErrAlertAlreadyOpen) {
			i.logger.Debug().
				Int64("student_id", studentID).
				Msg("Concurrent recording raised the alert first")
			return nil
		}
		return fmt.Errorf("error creating alert: %w", err)
	}

	i.logger.Info().
		Int64("alert_id", alert.ID).
		Int64("student_id", studentID).
		Int64("violation_id", violationID).
		Int("effective_majors", effective).
		Msg("Staff alert raised")

	i.notifyAlertRaised(ctx, alert, event.Violation)
	return nil
}

// notifyAlertRaised informs the student and the staff about the new alert.
// Everything in here is best effort.
func (i *AlertIssuer) notifyAlertRaised(ctx context.Context, alert *models.StaffAlert, violation *models.Violation) {
	student, err := i.studentStore.GetStudentByID(ctx, alert.StudentID)
	if err != nil {
		i.logger.Error().Err(err).
			Int64("student_id", alert.StudentID).
			Msg("Could not load student for alert notifications")
		return
	}

	latestAt, err := i.violationStore.LatestIncidentAt(ctx, alert.StudentID)
	if err != nil {
		i.logger.Error().Err(err).
			Int64("student_id", alert.StudentID).
			Msg("Could not load latest incident for alert notifications")
		latestAt = nil
	}

	notifyEach(ctx, i.notifier, i.logger,
		[]notify.Recipient{studentRecipient(student)},
		subjectAlertStudent,
		alertStudentBody(student.StudentID, alert.EffectiveMajorCount, violation.Description),
	)

	staff, err := i.userStore.ListActiveUsersByRole(ctx, models.RoleStaff, models.RoleCoordinator)
	if err != nil {
		i.logger.Error().Err(err).Msg("Could not list staff for alert notifications")
		return
	}
	notifyEach(ctx, i.notifier, i.logger,
		userRecipients(staff),
		subjectAlertStaff,
		alertStaffBody(student.StudentID, student.DisplayName(), alert.EffectiveMajorCount, latestAt, violation.Description),
	)
}
