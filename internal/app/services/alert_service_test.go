package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/osahq/conduct/internal/app/models"
	"github.com/osahq/conduct/internal/app/models/dto"
	"github.com/osahq/conduct/internal/pkg/apperrors"
)

func TestScheduleMeetingThroughMet(t *testing.T) {
	env := newTestEnv()
	student := env.store.addStudent("2021-00154")
	env.store.addUser(models.RoleStaff, "Sam", "Staff")
	env.store.addUser(models.RoleCoordinator, "Fiona", "Coordinator")
	alert := env.store.addOpenAlert(student.ID, 3)

	meetingAt := env.store.now.Add(48 * time.Hour)
	resp, err := env.alerts.ScheduleMeeting(context.Background(), alert.ID,
		&dto.ScheduleMeetingRequest{ScheduledAt: meetingAt, Notes: "bring your student ID"})
	if err != nil {
		t.Fatalf("ScheduleMeeting failed: %v", err)
	}
	if resp.MeetingStatus != string(models.MeetingScheduled) {
		t.Fatalf("expected scheduled, got %s", resp.MeetingStatus)
	}
	if resp.ScheduledMeetingAt == nil || !resp.ScheduledMeetingAt.Equal(meetingAt) {
		t.Fatalf("expected meeting at %v, got %v", meetingAt, resp.ScheduledMeetingAt)
	}

	if got := env.notifier.withSubject(subjectMeetingStudent); len(got) != 1 || got[0].recipient.UserID != student.UserID {
		t.Fatalf("expected one meeting notice to the student, got %+v", got)
	}
	if got := env.notifier.withSubject(subjectMeetingStaff); len(got) != 2 {
		t.Fatalf("expected staff and coordinator meeting notices, got %d", len(got))
	}

	// Re-scheduling a pending meeting is allowed; empty notes keep the old ones.
	rescheduledAt := meetingAt.Add(24 * time.Hour)
	resp, err = env.alerts.ScheduleMeeting(context.Background(), alert.ID,
		&dto.ScheduleMeetingRequest{ScheduledAt: rescheduledAt})
	if err != nil {
		t.Fatalf("re-scheduling failed: %v", err)
	}
	if resp.ScheduledMeetingAt == nil || !resp.ScheduledMeetingAt.Equal(rescheduledAt) {
		t.Fatalf("expected meeting moved to %v, got %v", rescheduledAt, resp.ScheduledMeetingAt)
	}
	if resp.MeetingNotes != "bring your student ID" {
		t.Fatalf("expected notes to survive the re-schedule, got %q", resp.MeetingNotes)
	}

	resp, err = env.alerts.MarkMeetingMet(context.Background(), alert.ID,
		&dto.MarkMeetingMetRequest{Notes: "student attended, case discussed"})
	if err != nil {
		t.Fatalf("MarkMeetingMet failed: %v", err)
	}
	if resp.MeetingStatus != string(models.MeetingMet) {
		t.Fatalf("expected met, got %s", resp.MeetingStatus)
	}

	// Met is terminal for the meeting.
	if _, err := env.alerts.ScheduleMeeting(context.Background(), alert.ID,
		&dto.ScheduleMeetingRequest{ScheduledAt: rescheduledAt}); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("expected scheduling a met meeting to fail with ErrInvalidTransition, got %v", err)
	}
}

func TestMarkMeetingMetNeedsSchedule(t *testing.T) {
	env := newTestEnv()
	student := env.store.addStudent("2021-00154")
	alert := env.store.addOpenAlert(student.ID, 3)

	_, err := env.alerts.MarkMeetingMet(context.Background(), alert.ID, &dto.MarkMeetingMetRequest{})
	if !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("expected marking an unscheduled meeting met to fail with ErrInvalidTransition, got %v", err)
	}
}

// A meeting whose time passed unattended expires on the sweep, notifies each
// side once, and locks the meeting out of being marked met. A second sweep
// finds nothing and must not re-notify.
func TestSweepExpiredMeetings(t *testing.T) {
	env := newTestEnv()
	student := env.store.addStudent("2021-00154")
	env.store.addUser(models.RoleStaff, "Sam", "Staff")
	env.store.addUser(models.RoleCoordinator, "Fiona", "Coordinator")
	alert := env.store.addOpenAlert(student.ID, 3)

	past := env.store.now.Add(-2 * time.Hour)
	if _, err := env.alerts.ScheduleMeeting(context.Background(), alert.ID,
		&dto.ScheduleMeetingRequest{ScheduledAt: past}); err != nil {
		t.Fatalf("scheduling in the past failed: %v", err)
	}

	expired, err := env.alerts.SweepExpiredMeetings(context.Background(), env.store.now)
	if err != nil {
		t.Fatalf("SweepExpiredMeetings failed: %v", err)
	}
	if expired != 1 {
		t.Fatalf("expected one expired meeting, got %d", expired)
	}
	if env.store.alerts[alert.ID].MeetingStatus != models.MeetingExpired {
		t.Fatalf("expected the meeting marked expired, got %s", env.store.alerts[alert.ID].MeetingStatus)
	}

	if got := env.notifier.withSubject(subjectMissedStudent); len(got) != 1 || got[0].recipient.UserID != student.UserID {
		t.Fatalf("expected one missed-meeting notice to the student, got %+v", got)
	}
	missedStaff := len(env.notifier.withSubject(subjectMissedStaff))
	if missedStaff != 2 {
		t.Fatalf("expected coordinator and staff missed-meeting notices, got %d", missedStaff)
	}

	_, err = env.alerts.MarkMeetingMet(context.Background(), alert.ID, &dto.MarkMeetingMetRequest{})
	if !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("expected marking an expired meeting met to fail with ErrInvalidTransition, got %v", err)
	}

	expired, err = env.alerts.SweepExpiredMeetings(context.Background(), env.store.now)
	if err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	if expired != 0 {
		t.Fatalf("expected the second sweep to find nothing, got %d", expired)
	}
	if got := len(env.notifier.withSubject(subjectMissedStaff)); got != missedStaff {
		t.Fatalf("expected no repeat notifications on the second sweep, got %d", got)
	}
}

func TestResolveAlertClosesIt(t *testing.T) {
	env := newTestEnv()
	student := env.store.addStudent("2021-00154")
	alert := env.store.addOpenAlert(student.ID, 3)

	resp, err := env.alerts.ResolveAlert(context.Background(), alert.ID)
	if err != nil {
		t.Fatalf("ResolveAlert failed: %v", err)
	}
	if !resp.Resolved || resp.Open {
		t.Fatalf("expected a resolved, closed alert, got %+v", resp)
	}
	if resp.ResolvedAt == nil || !resp.ResolvedAt.Equal(env.store.now) {
		t.Fatalf("expected resolution stamped at %v, got %v", env.store.now, resp.ResolvedAt)
	}

	if _, err := env.alerts.ScheduleMeeting(context.Background(), alert.ID,
		&dto.ScheduleMeetingRequest{ScheduledAt: env.store.now.Add(time.Hour)}); !errors.Is(err, apperrors.ErrAlertClosed) {
		t.Fatalf("expected scheduling on a resolved alert to fail with ErrAlertClosed, got %v", err)
	}
	if _, err := env.alerts.ResolveAlert(context.Background(), alert.ID); !errors.Is(err, apperrors.ErrAlertClosed) {
		t.Fatalf("expected resolving twice to fail with ErrAlertClosed, got %v", err)
	}
	if _, err := env.alerts.RestoreAlert(context.Background(), alert.ID); !errors.Is(err, apperrors.ErrAlertClosed) {
		t.Fatalf("expected restoring a resolved alert to fail with ErrAlertClosed, got %v", err)
	}
}

func TestDismissAndRestoreAlert(t *testing.T) {
	env := newTestEnv()
	student := env.store.addStudent("2021-00154")
	coordinator := env.store.addUser(models.RoleCoordinator, "Fiona", "Coordinator")
	alert := env.store.addOpenAlert(student.ID, 3)

	resp, err := env.alerts.DismissAlert(context.Background(), alert.ID,
		&dto.DismissAlertRequest{DismissedBy: &coordinator.ID})
	if err != nil {
		t.Fatalf("DismissAlert failed: %v", err)
	}
	if !resp.Dismissed || resp.Open {
		t.Fatalf("expected a dismissed, closed alert, got %+v", resp)
	}
	if resp.DismissedBy == nil || *resp.DismissedBy != coordinator.ID {
		t.Fatalf("expected dismissal attributed to %d, got %v", coordinator.ID, resp.DismissedBy)
	}

	resp, err = env.alerts.RestoreAlert(context.Background(), alert.ID)
	if err != nil {
		t.Fatalf("RestoreAlert failed: %v", err)
	}
	if resp.Dismissed || !resp.Open || resp.DismissedAt != nil {
		t.Fatalf("expected the restore to reopen the alert cleanly, got %+v", resp)
	}

	if _, err := env.alerts.RestoreAlert(context.Background(), alert.ID); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("expected restoring an open alert to fail with ErrInvalidTransition, got %v", err)
	}
}

func TestRestoreBlockedByNewerOpenAlert(t *testing.T) {
	env := newTestEnv()
	student := env.store.addStudent("2021-00154")
	first := env.store.addOpenAlert(student.ID, 3)

	if _, err := env.alerts.DismissAlert(context.Background(), first.ID, &dto.DismissAlertRequest{}); err != nil {
		t.Fatalf("DismissAlert failed: %v", err)
	}
	env.store.addOpenAlert(student.ID, 4)

	_, err := env.alerts.RestoreAlert(context.Background(), first.ID)
	if !errors.Is(err, apperrors.ErrAlertAlreadyOpen) {
		t.Fatalf("expected the newer open alert to block the restore, got %v", err)
	}
}

func TestDismissAlertUnknownUser(t *testing.T) {
	env := newTestEnv()
	student := env.store.addStudent("2021-00154")
	alert := env.store.addOpenAlert(student.ID, 3)

	_, err := env.alerts.DismissAlert(context.Background(), alert.ID,
		&dto.DismissAlertRequest{DismissedBy: ptrInt64(9999)})
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for an unknown dismissing user, got %v", err)
	}
	if !env.store.alerts[alert.ID].Open() {
		t.Fatalf("expected the alert to stay open after the rejected dismissal")
	}
}
