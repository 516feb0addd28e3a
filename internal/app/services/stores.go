package services

import (
	"context"
	"time"

	"github.com/osahq/conduct/internal/app/models"
	"github.com/osahq/conduct/internal/app/models/dto"
	"github.com/osahq/conduct/internal/app/repositories"
)

// The store interfaces below are the persistence surface the services depend
// on. The repositories package provides the production implementations over
// Postgres; tests substitute in-memory fakes.

// UserStore reads user accounts for validation and notification fan-out.
type UserStore interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	ListActiveUsersByRole(ctx context.Context, roles ...models.Role) ([]*models.User, error)
}

// StudentStore persists student profiles and their enrollment state.
type StudentStore interface {
	CreateStudentWithUser(ctx context.Context, user *models.User, student *models.Student) error
	GetStudentByID(ctx context.Context, id int64) (*models.Student, error)
	ListStudents(ctx context.Context, params repositories.ListStudentsParams) ([]*models.Student, dto.PaginationInfo, error)
	UpdateStudent(ctx context.Context, student *models.Student) error
	GetStudentStats(ctx context.Context, studentID int64) (*models.StudentStats, error)
	ListPromotable(ctx context.Context, cutoff time.Time) ([]*models.Student, error)
	PromoteStudent(ctx context.Context, id int64, yearLevel int, assignedAt time.Time) error
	GraduateStudent(ctx context.Context, id int64) error
}

// ViolationStore is the violation ledger: the recording operations plus the
// aggregation queries everything else derives from.
type ViolationStore interface {
	CreateViolation(ctx context.Context, violation *models.Violation) (int64, error)
	GetViolationByID(ctx context.Context, id int64) (*models.Violation, error)
	ListViolations(ctx context.Context, params repositories.ListViolationsParams) ([]*models.Violation, dto.PaginationInfo, error)
	ListByStudent(ctx context.Context, studentID int64) ([]models.Violation, error)
	CountBySeverity(ctx context.Context, studentID int64) (majors, minors int, err error)
	LatestIncidentAt(ctx context.Context, studentID int64) (*time.Time, error)
	UpdateViolationStatus(ctx context.Context, id int64, status models.ViolationStatus, at time.Time) error
	DeleteViolation(ctx context.Context, id int64) error
	ListOverdue(ctx context.Context, cutoff time.Time) ([]*models.Violation, error)
}

// ViolationTypeStore persists the handbook catalog.
type ViolationTypeStore interface {
	CreateViolationType(ctx context.Context, vt *models.ViolationType) (int64, error)
	GetViolationTypeByID(ctx context.Context, id int64) (*models.ViolationType, error)
	ListViolationTypes(ctx context.Context, activeOnly bool) ([]*models.ViolationType, error)
	UpdateViolationType(ctx context.Context, vt *models.ViolationType) error
}

// AlertStore persists staff alerts and their meeting state.
type AlertStore interface {
	CreateAlert(ctx context.Context, alert *models.StaffAlert) (int64, error)
	GetAlertByID(ctx context.Context, id int64) (*models.StaffAlert, error)
	GetOpenAlertByStudent(ctx context.Context, studentID int64) (*models.StaffAlert, error)
	ListAlerts(ctx context.Context, params repositories.ListAlertsParams) ([]*models.StaffAlert, dto.PaginationInfo, error)
	ScheduleMeeting(ctx context.Context, id int64, meetingAt time.Time, notes string, at time.Time) error
	MarkMeetingMet(ctx context.Context, id int64, notes string, at time.Time) error
	ListExpiredMeetings(ctx context.Context, asOf time.Time) ([]*models.StaffAlert, error)
	ExpireMeeting(ctx context.Context, id int64, at time.Time) (bool, error)
	ResolveAlert(ctx context.Context, id int64, at time.Time) error
	DismissAlert(ctx context.Context, id int64, dismissedBy *int64, at time.Time) error
	RestoreAlert(ctx context.Context, id int64) error
}

// ApologyLetterStore persists apology letters and their review state.
type ApologyLetterStore interface {
	CreateApologyLetter(ctx context.Context, letter *models.ApologyLetter) (int64, error)
	GetApologyLetterByID(ctx context.Context, id int64) (*models.ApologyLetter, error)
	ListApologyLetters(ctx context.Context, params repositories.ListApologyLettersParams) ([]*models.ApologyLetter, dto.PaginationInfo, error)
	ReviewApologyLetter(ctx context.Context, id int64, status models.ApologyStatus, verifiedBy *int64, remarks string, at time.Time) error
}

// MessageStore reads the in-app message inbox. Writing goes through the
// notify package.
type MessageStore interface {
	GetMessageByID(ctx context.Context, id int64) (*models.Message, error)
	ListMessagesByRecipient(ctx context.Context, params repositories.ListMessagesParams) ([]*models.Message, dto.PaginationInfo, error)
	CountUnread(ctx context.Context, recipientID int64) (int64, error)
	MarkMessageRead(ctx context.Context, id int64, at time.Time) error
}
