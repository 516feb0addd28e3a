package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/osahq/conduct/internal/app/models"
	"github.com/osahq/conduct/internal/pkg/helpers"
	"github.com/osahq/conduct/internal/pkg/notify"
)

// Meetings always happen at the OSA office; the system has no room booking.
const meetingLocation = "OSA Office"

const systemSignature = "This is an automated notification from the OSA Violation Monitoring System."

// Notification subjects. The urgent variants go to students, the alert
// variants to staff and coordinators.
const (
	subjectAlertStudent    = "DISCIPLINARY ALERT - URGENT NOTICE"
	subjectAlertStaff      = "DISCIPLINARY THRESHOLD ALERT"
	subjectMeetingStudent  = "MANDATORY MEETING SCHEDULED"
	subjectMeetingStaff    = "MEETING SCHEDULED"
	subjectMissedStudent   = "MEETING MISSED - URGENT NOTICE"
	subjectMissedStaff     = "MEETING MISSED ALERT"
	subjectApologyReviewed = "APOLOGY LETTER REVIEWED"
)

// notifyEach delivers one notification per recipient. Delivery is best
// effort; failures are logged and never propagated to the caller.
func notifyEach(ctx context.Context, notifier notify.Notifier, logger zerolog.Logger, recipients []notify.Recipient, subject, body string) {
	for _, recipient := range recipients {
		if err := notifier.Notify(ctx, recipient, subject, body); err != nil {
			logger.Error().Err(err).
				Int64("recipient_id", recipient.UserID).
				Str("subject", subject).
				Msg("Notification delivery failed")
		}
	}
}

// studentRecipient addresses a notification to the student's user account.
func studentRecipient(student *models.Student) notify.Recipient {
	if student == nil {
		return notify.Recipient{}
	}
	recipient := notify.Recipient{
		UserID: student.UserID,
		Name:   student.DisplayName(),
	}
	if student.User != nil {
		recipient.Email = student.User.Email
	}
	return recipient
}

// userRecipients addresses a notification to each of the given users.
func userRecipients(users []*models.User) []notify.Recipient {
	recipients := make([]notify.Recipient, 0, len(users))
	for _, user := range users {
		recipients = append(recipients, notify.Recipient{
			UserID: user.ID,
			Name:   user.FullName(),
			Email:  user.Email,
		})
	}
	return recipients
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return "not set"
	}
	return helpers.FormatMeetingTime(*t)
}

func alertStudentBody(studentNumber string, effective int, violationDesc string) string {
	return fmt.Sprintf(`You have reached the disciplinary violation threshold.

Record Summary:
- Student ID: %s
- Effective Major Violations: %d

Latest Violation:
%s

You are required to meet with the OSA Coordinator. The OSA Office will contact you to schedule the mandatory meeting.

Next Steps:
1. Watch for the meeting schedule notice
2. Prepare any statements or documents about your case
3. Failure to attend the meeting may result in additional disciplinary action

%s`, studentNumber, effective, violationDesc, systemSignature)
}

func alertStaffBody(studentNumber, studentName string, effective int, latestIncidentAt *time.Time, violationDesc string) string {
	return fmt.Sprintf(`A student has reached the disciplinary violation threshold.

Student Details:
- Student ID: %s
- Name: %s
- Effective Major Violations: %d
- Latest Incident: %s

Triggering Violation:
%s

Recommended Action:
- Schedule the mandatory meeting with the student
- Review the student's violation history

%s`, studentNumber, studentName, effective, formatTimePtr(latestIncidentAt), violationDesc, systemSignature)
}

func meetingScheduledStudentBody(meetingAt time.Time, effective int) string {
	return fmt.Sprintf(`Your mandatory meeting with the OSA Coordinator has been scheduled.

Meeting Details:
- Scheduled Time: %s
- Location: %s

You are required to attend because you reached the violation threshold (%d effective major violations).

Failure to attend will mark the meeting as missed and may result in additional disciplinary action.

%s`, helpers.FormatMeetingTime(meetingAt), meetingLocation, effective, systemSignature)
}

func meetingScheduledStaffBody(studentNumber, studentName string, effective int, meetingAt time.Time) string {
	return fmt.Sprintf(`A mandatory meeting has been scheduled.

Student Details:
- Student ID: %s
- Name: %s
- Effective Major Violations: %d

Meeting Details:
- Scheduled Time: %s
- Location: %s

%s`, studentNumber, studentName, effective, helpers.FormatMeetingTime(meetingAt), meetingLocation, systemSignature)
}

func meetingMissedStudentBody(meetingAt *time.Time, effective int) string {
	return fmt.Sprintf(`Your mandatory meeting with the OSA Coordinator has EXPIRED because you did not attend.

Meeting Details:
- Scheduled Time: %s
- Location: %s
- Status: DID NOT MEET / EXPIRED

IMPORTANT:
This is a serious matter. You were required to attend this meeting due to reaching the violation threshold (%d effective major violations).

Next Steps:
1. Contact the OSA Office IMMEDIATELY to reschedule
2. Failure to comply may result in additional disciplinary action
3. Your violation record will reflect this missed meeting

For questions or to reschedule, contact the OSA Office as soon as possible.

%s`, formatTimePtr(meetingAt), meetingLocation, effective, systemSignature)
}

func meetingMissedCoordinatorBody(studentNumber, studentName string, effective int, meetingAt *time.Time) string {
	return fmt.Sprintf(`A student has FAILED to attend their scheduled meeting.

Student Details:
- Student ID: %s
- Name: %s
- Effective Major Violations: %d

Meeting Details:
- Scheduled Time: %s
- Location: %s
- Status: DID NOT MEET / EXPIRED

Recommended Action:
- Consider rescheduling the meeting
- Review student's violation history
- May require additional disciplinary measures

The student has been notified about the missed meeting.

%s`, studentNumber, studentName, effective, formatTimePtr(meetingAt), meetingLocation, systemSignature)
}

func meetingMissedStaffBody(studentNumber, studentName string, meetingAt *time.Time) string {
	return fmt.Sprintf(`A student has FAILED to attend their scheduled meeting.

Student Details:
- Student ID: %s
- Name: %s

Meeting Details:
- Scheduled Time: %s
- Status: DID NOT MEET / EXPIRED

Please follow up on this alert and consider rescheduling the meeting.

This is an automated notification.`, studentNumber, studentName, formatTimePtr(meetingAt))
}

func apologyReviewedBody(violationID int64, status models.ApologyStatus, remarks string) string {
	var outcome string
	switch status {
	case models.ApologyApproved:
		outcome = "APPROVED. The related violation has been marked resolved."
	case models.ApologyRejected:
		outcome = "REJECTED. The related violation remains on your record unchanged."
	case models.ApologyRevisionNeeded:
		outcome = "sent back for REVISION. Please revise your letter and submit it again."
	default:
		outcome = string(status)
	}

	body := fmt.Sprintf(`Your apology letter for violation #%d has been %s`, violationID, outcome)
	if remarks != "" {
		body += fmt.Sprintf("\n\nReviewer Remarks:\n%s", remarks)
	}
	return body + "\n\n" + systemSignature
}
