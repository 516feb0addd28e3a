package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osahq/conduct/internal/app/models"
	"github.com/osahq/conduct/internal/app/models/dto"
	"github.com/osahq/conduct/internal/pkg/apperrors"
	"github.com/osahq/conduct/internal/pkg/dberrors"
	"github.com/osahq/conduct/internal/pkg/helpers"
	"github.com/osahq/conduct/internal/pkg/logger"
)

// openAlertConstraint is the partial unique index enforcing at most one open
// alert per student. CreateAlert and RestoreAlert map its violation to
// apperrors.ErrAlertAlreadyOpen.
const openAlertConstraint = "uq_staff_alerts_open_student"

// ListAlertsParams holds parameters for filtering and pagination.
type ListAlertsParams struct {
	StudentID *int64
	Status    string // open, resolved or dismissed; empty for all
	Page      int
	Size      int
}

// AlertRepository handles staff alert database operations
type AlertRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAlertRepository creates a new AlertRepository
func NewAlertRepository(db *pgxpool.Pool) *AlertRepository {
	return &AlertRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *AlertRepository) selectAlertQuery() squirrel.SelectBuilder {
	return r.sb.Select(
		"a.id", "a.student_id", "a.triggered_violation_id", "a.effective_major_count",
		"a.resolved", "a.resolved_at", "a.dismissed", "a.dismissed_at", "a.dismissed_by",
		"a.meeting_status", "a.scheduled_meeting_at", "a.meeting_notes",
		"a.meeting_status_updated_at", "a.created_at",
		"s.user_id", "s.student_id AS student_number",
		"u.first_name", "u.last_name", "u.email",
	).
		From("staff_alerts a").
		Join("students s ON a.student_id = s.id").
		Join("users u ON s.user_id = u.id")
}

func scanAlert(row pgx.Row) (*models.StaffAlert, error) {
	var (
		alert         models.StaffAlert
		studentUserID int64
		studentNumber string
		first, last   string
		email         string
	)

	err := row.Scan(
		&alert.ID, &alert.StudentID, &alert.TriggeredViolationID, &alert.EffectiveMajorCount,
		&alert.Resolved, &alert.ResolvedAt, &alert.Dismissed, &alert.DismissedAt, &alert.DismissedBy,
		&alert.MeetingStatus, &alert.ScheduledMeetingAt, &alert.MeetingNotes,
		&alert.MeetingStatusUpdatedAt, &alert.CreatedAt,
		&studentUserID, &studentNumber,
		&first, &last, &email,
	)
	if err != nil {
		return nil, err
	}

	alert.Student = &models.Student{
		ID:        alert.StudentID,
		UserID:    studentUserID,
		StudentID: studentNumber,
		User: &models.User{
			ID:        studentUserID,
			Email:     email,
			FirstName: first,
			LastName:  last,
		},
	}

	return &alert, nil
}

// CreateAlert raises a new alert for a student. The partial unique index
// rejects a second open alert; callers treat that as already-open.
func (r *AlertRepository) CreateAlert(ctx context.Context, alert *models.StaffAlert) (int64, error) {
	sql, args, err := r.sb.Insert("staff_alerts").
		Columns("student_id", "triggered_violation_id", "effective_major_count", "meeting_status").
		Values(alert.StudentID, alert.TriggeredViolationID, alert.EffectiveMajorCount, models.MeetingNotScheduled).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create alert SQL")
		return 0, fmt.Errorf("failed to build create alert query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&alert.ID, &alert.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, openAlertConstraint) {
			return 0, apperrors.ErrAlertAlreadyOpen
		}
		logger.Error().Err(err).Int64("studentID", alert.StudentID).Msg("Error executing create alert query")
		return 0, fmt.Errorf("error creating alert: %w", err)
	}

	alert.MeetingStatus = models.MeetingNotScheduled
	return alert.ID, nil
}

// GetAlertByID retrieves an alert with the student relation
func (r *AlertRepository) GetAlertByID(ctx context.Context, id int64) (*models.StaffAlert, error) {
	sql, args, err := r.selectAlertQuery().
		Where(squirrel.Eq{"a.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get alert by ID SQL")
		return nil, fmt.Errorf("failed to build get alert query: %w", err)
	}

	alert, err := scanAlert(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAlertNotFound
		}
		logger.Error().Err(err).Int64("alertID", id).Msg("Error scanning alert row")
		return nil, fmt.Errorf("error getting alert by ID: %w", err)
	}

	return alert, nil
}

// GetOpenAlertByStudent retrieves the student's open alert if one exists
func (r *AlertRepository) GetOpenAlertByStudent(ctx context.Context, studentID int64) (*models.StaffAlert, error) {
	sql, args, err := r.selectAlertQuery().
		Where(squirrel.Eq{"a.student_id": studentID, "a.resolved": false, "a.dismissed": false}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get open alert SQL")
		return nil, fmt.Errorf("failed to build get open alert query: %w", err)
	}

	alert, err := scanAlert(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAlertNotFound
		}
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error scanning open alert row")
		return nil, fmt.Errorf("error getting open alert: %w", err)
	}

	return alert, nil
}

// ListAlerts retrieves alerts matching the filters with pagination
func (r *AlertRepository) ListAlerts(ctx context.Context, params ListAlertsParams) ([]*models.StaffAlert, dto.PaginationInfo, error) {
	sqlBuilder := r.selectAlertQuery()
	countBuilder := r.sb.Select("count(*)").From("staff_alerts a")

	if params.StudentID != nil {
		sqlBuilder = sqlBuilder.Where(squirrel.Eq{"a.student_id": *params.StudentID})
		countBuilder = countBuilder.Where(squirrel.Eq{"a.student_id": *params.StudentID})
	}
	switch params.Status {
	case "open":
		cond := squirrel.Eq{"a.resolved": false, "a.dismissed": false}
		sqlBuilder = sqlBuilder.Where(cond)
		countBuilder = countBuilder.Where(cond)
	case "resolved":
		sqlBuilder = sqlBuilder.Where(squirrel.Eq{"a.resolved": true})
		countBuilder = countBuilder.Where(squirrel.Eq{"a.resolved": true})
	case "dismissed":
		sqlBuilder = sqlBuilder.Where(squirrel.Eq{"a.dismissed": true})
		countBuilder = countBuilder.Where(squirrel.Eq{"a.dismissed": true})
	}

	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count alerts SQL")
		return nil, dto.PaginationInfo{}, fmt.Errorf("failed to build count alerts query: %w", err)
	}

	var totalItems int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&totalItems); err != nil {
		logger.Error().Err(err).Msg("Error executing count alerts query")
		return nil, dto.PaginationInfo{}, fmt.Errorf("error counting alerts: %w", err)
	}

	pagination := helpers.NewPaginationInfo(totalItems, params.Page, params.Size)
	if totalItems == 0 {
		return []*models.StaffAlert{}, pagination, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(params.Page, params.Size)
	sqlBuilder = sqlBuilder.
		OrderBy("a.created_at DESC").
		Limit(uint64(limit)).
		Offset(offset)

	sqlStr, args, err := sqlBuilder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list alerts SQL")
		return nil, dto.PaginationInfo{}, fmt.Errorf("failed to build list alerts query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list alerts query")
		return nil, dto.PaginationInfo{}, fmt.Errorf("error querying alerts: %w", err)
	}
	defer rows.Close()

	alerts := make([]*models.StaffAlert, 0)
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning alert row during list")
			return nil, dto.PaginationInfo{}, fmt.Errorf("error scanning alert row: %w", err)
		}
		alerts = append(alerts, alert)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating alert rows")
		return nil, dto.PaginationInfo{}, fmt.Errorf("error iterating alert rows: %w", err)
	}

	return alerts, pagination, nil
}

// ScheduleMeeting sets the guidance meeting on an open alert. Allowed while
// the meeting is not yet held: from not_scheduled and from scheduled alike.
// Zero rows means the alert changed underneath the caller.
func (r *AlertRepository) ScheduleMeeting(ctx context.Context, id int64, meetingAt time.Time, notes string, at time.Time) error {
	sql, args, err := r.sb.Update("staff_alerts").
		SetMap(map[string]interface{}{
			"meeting_status":            models.MeetingScheduled,
			"scheduled_meeting_at":      meetingAt,
			"meeting_notes":             notes,
			"meeting_status_updated_at": at,
		}).
		Where(squirrel.Eq{"id": id, "resolved": false, "dismissed": false}).
		Where(squirrel.Eq{"meeting_status": []models.MeetingStatus{models.MeetingNotScheduled, models.MeetingScheduled}}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building schedule meeting SQL")
		return fmt.Errorf("failed to build schedule meeting query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("alertID", id).Msg("Error executing schedule meeting query")
		return fmt.Errorf("error scheduling meeting: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	return nil
}

// MarkMeetingMet records that the guidance meeting took place. Only a
// scheduled meeting on an open alert can be marked met.
func (r *AlertRepository) MarkMeetingMet(ctx context.Context, id int64, notes string, at time.Time) error {
	sql, args, err := r.sb.Update("staff_alerts").
		SetMap(map[string]interface{}{
			"meeting_status":            models.MeetingMet,
			"meeting_notes":             notes,
			"meeting_status_updated_at": at,
		}).
		Where(squirrel.Eq{
			"id":             id,
			"resolved":       false,
			"dismissed":      false,
			"meeting_status": models.MeetingScheduled,
		}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building mark meeting met SQL")
		return fmt.Errorf("failed to build mark meeting met query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("alertID", id).Msg("Error executing mark meeting met query")
		return fmt.Errorf("error marking meeting met: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	return nil
}

// ListExpiredMeetings retrieves open alerts whose scheduled meeting time has
// passed without the student showing up
func (r *AlertRepository) ListExpiredMeetings(ctx context.Context, asOf time.Time) ([]*models.StaffAlert, error) {
	sql, args, err := r.selectAlertQuery().
		Where(squirrel.Eq{
			"a.resolved":       false,
			"a.dismissed":      false,
			"a.meeting_status": models.MeetingScheduled,
		}).
		Where(squirrel.Lt{"a.scheduled_meeting_at": asOf}).
		OrderBy("a.scheduled_meeting_at ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list expired meetings SQL")
		return nil, fmt.Errorf("failed to build list expired meetings query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list expired meetings query")
		return nil, fmt.Errorf("error querying expired meetings: %w", err)
	}
	defer rows.Close()

	alerts := []*models.StaffAlert{}
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning alert row during expired list")
			return nil, fmt.Errorf("error scanning alert row: %w", err)
		}
		alerts = append(alerts, alert)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating expired meeting rows")
		return nil, fmt.Errorf("error iterating alert rows: %w", err)
	}

	return alerts, nil
}

// ExpireMeeting marks a single scheduled meeting as expired. Returns false
// when the alert was resolved, dismissed or rescheduled since it was listed,
// so the sweep can skip the notification.
func (r *AlertRepository) ExpireMeeting(ctx context.Context, id int64, at time.Time) (bool, error) {
	sql, args, err := r.sb.Update("staff_alerts").
		SetMap(map[string]interface{}{
			"meeting_status":            models.MeetingExpired,
			"meeting_status_updated_at": at,
		}).
		Where(squirrel.Eq{
			"id":             id,
			"resolved":       false,
			"dismissed":      false,
			"meeting_status": models.MeetingScheduled,
		}).
		Where(squirrel.Lt{"scheduled_meeting_at": at}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building expire meeting SQL")
		return false, fmt.Errorf("failed to build expire meeting query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("alertID", id).Msg("Error executing expire meeting query")
		return false, fmt.Errorf("error expiring meeting: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

// ResolveAlert closes an open alert after intervention
func (r *AlertRepository) ResolveAlert(ctx context.Context, id int64, at time.Time) error {
	sql, args, err := r.sb.Update("staff_alerts").
		SetMap(map[string]interface{}{
			"resolved":    true,
			"resolved_at": at,
		}).
		Where(squirrel.Eq{"id": id, "resolved": false, "dismissed": false}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building resolve alert SQL")
		return fmt.Errorf("failed to build resolve alert query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("alertID", id).Msg("Error executing resolve alert query")
		return fmt.Errorf("error resolving alert: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	return nil
}

// DismissAlert withdraws an open alert without intervention
func (r *AlertRepository) DismissAlert(ctx context.Context, id int64, dismissedBy *int64, at time.Time) error {
	sql, args, err := r.sb.Update("staff_alerts").
		SetMap(map[string]interface{}{
			"dismissed":    true,
			"dismissed_at": at,
			"dismissed_by": dismissedBy,
		}).
		Where(squirrel.Eq{"id": id, "resolved": false, "dismissed": false}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building dismiss alert SQL")
		return fmt.Errorf("failed to build dismiss alert query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("alertID", id).Msg("Error executing dismiss alert query")
		return fmt.Errorf("error dismissing alert: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	return nil
}

// RestoreAlert reopens a dismissed alert. The partial unique index rejects
// the restore when the student has since accumulated a newer open alert.
func (r *AlertRepository) RestoreAlert(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Update("staff_alerts").
		SetMap(map[string]interface{}{
			"dismissed":    false,
			"dismissed_at": nil,
			"dismissed_by": nil,
		}).
		Where(squirrel.Eq{"id": id, "dismissed": true, "resolved": false}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building restore alert SQL")
		return fmt.Errorf("failed to build restore alert query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, openAlertConstraint) {
			return apperrors.ErrAlertAlreadyOpen
		}
		logger.Error().Err(err).Int64("alertID", id).Msg("Error executing restore alert query")
		return fmt.Errorf("error restoring alert: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	return nil
}
