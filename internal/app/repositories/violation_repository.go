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
	"github.com/osahq/conduct/internal/pkg/helpers"
	"github.com/osahq/conduct/internal/pkg/logger"
)

// ListViolationsParams holds parameters for filtering and pagination.
type ListViolationsParams struct {
	StudentID *int64
	Severity  string
	Status    string
	Page      int
	Size      int
}

// ViolationRepository handles violation ledger database operations
type ViolationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewViolationRepository creates a new ViolationRepository
func NewViolationRepository(db *pgxpool.Pool) *ViolationRepository {
	return &ViolationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// selectViolationDetailsQuery joins the student, the catalog entry and the
// reporter onto the violation row.
func (r *ViolationRepository) selectViolationDetailsQuery() squirrel.SelectBuilder {
	return r.sb.Select(
		"v.id", "v.student_id", "v.violation_type_id", "v.reported_by",
		"v.incident_at", "v.severity", "v.location", "v.description",
		"v.witness_statement", "v.status", "v.created_at", "v.updated_at",
		"s.user_id", "s.student_id AS student_number",
		"su.first_name", "su.last_name", "su.email",
		"vt.code", "vt.name",
		"ru.first_name", "ru.last_name", "ru.email",
	).
		From("violations v").
		Join("students s ON v.student_id = s.id").
		Join("users su ON s.user_id = su.id").
		LeftJoin("violation_types vt ON v.violation_type_id = vt.id").
		LeftJoin("users ru ON v.reported_by = ru.id")
}

// scanViolationDetails scans a joined violation row and builds the relations.
func scanViolationDetails(row pgx.Row) (*models.Violation, error) {
	var (
		v              models.Violation
		studentUserID  int64
		studentNumber  string
		sFirst, sLast  string
		sEmail         string
		vtCode, vtName *string
		rFirst, rLast  *string
		rEmail         *string
	)

	err := row.Scan(
		&v.ID, &v.StudentID, &v.ViolationTypeID, &v.ReportedBy,
		&v.IncidentAt, &v.Severity, &v.Location, &v.Description,
		&v.WitnessStatement, &v.Status, &v.CreatedAt, &v.UpdatedAt,
		&studentUserID, &studentNumber,
		&sFirst, &sLast, &sEmail,
		&vtCode, &vtName,
		&rFirst, &rLast, &rEmail,
	)
	if err != nil {
		return nil, err
	}

	v.Student = &models.Student{
		ID:        v.StudentID,
		UserID:    studentUserID,
		StudentID: studentNumber,
		User: &models.User{
			ID:        studentUserID,
			Email:     sEmail,
			FirstName: sFirst,
			LastName:  sLast,
		},
	}
	if v.ViolationTypeID != nil && vtName != nil {
		v.ViolationType = &models.ViolationType{
			ID:   *v.ViolationTypeID,
			Name: *vtName,
		}
		if vtCode != nil {
			v.ViolationType.Code = *vtCode
		}
	}
	if v.ReportedBy != nil && rFirst != nil {
		v.Reporter = &models.User{
			ID:        *v.ReportedBy,
			FirstName: *rFirst,
		}
		if rLast != nil {
			v.Reporter.LastName = *rLast
		}
		if rEmail != nil {
			v.Reporter.Email = *rEmail
		}
	}

	return &v, nil
}

// CreateViolation records a new violation in the ledger
func (r *ViolationRepository) CreateViolation(ctx context.Context, violation *models.Violation) (int64, error) {
	sql, args, err := r.sb.Insert("violations").
		Columns("student_id", "violation_type_id", "reported_by", "incident_at",
			"severity", "location", "description", "witness_statement", "status").
		Values(violation.StudentID, violation.ViolationTypeID, violation.ReportedBy,
			violation.IncidentAt, violation.Severity, violation.Location,
			violation.Description, violation.WitnessStatement, violation.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create violation SQL")
		return 0, fmt.Errorf("failed to build create violation query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&violation.ID, &violation.CreatedAt, &violation.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", violation.StudentID).Msg("Error executing create violation query")
		return 0, fmt.Errorf("error creating violation: %w", err)
	}

	return violation.ID, nil
}

// GetViolationByID retrieves a violation with its relations
func (r *ViolationRepository) GetViolationByID(ctx context.Context, id int64) (*models.Violation, error) {
	sql, args, err := r.selectViolationDetailsQuery().
		Where(squirrel.Eq{"v.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get violation by ID SQL")
		return nil, fmt.Errorf("failed to build get violation query: %w", err)
	}

	violation, err := scanViolationDetails(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrViolationNotFound
		}
		logger.Error().Err(err).Int64("violationID", id).Msg("Error scanning violation row")
		return nil, fmt.Errorf("error getting violation by ID: %w", err)
	}

	return violation, nil
}

// ListViolations retrieves violations matching the filters with pagination
func (r *ViolationRepository) ListViolations(ctx context.Context, params ListViolationsParams) ([]*models.Violation, dto.PaginationInfo, error) {
	sqlBuilder := r.selectViolationDetailsQuery()
	countBuilder := r.sb.Select("count(*)").From("violations v")

	if params.StudentID != nil {
		sqlBuilder = sqlBuilder.Where(squirrel.Eq{"v.student_id": *params.StudentID})
		countBuilder = countBuilder.Where(squirrel.Eq{"v.student_id": *params.StudentID})
	}
	if params.Severity != "" {
		sqlBuilder = sqlBuilder.Where(squirrel.Eq{"v.severity": params.Severity})
		countBuilder = countBuilder.Where(squirrel.Eq{"v.severity": params.Severity})
	}
	if params.Status != "" {
		sqlBuilder = sqlBuilder.Where(squirrel.Eq{"v.status": params.Status})
		countBuilder = countBuilder.Where(squirrel.Eq{"v.status": params.Status})
	}

	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count violations SQL")
		return nil, dto.PaginationInfo{}, fmt.Errorf("failed to build count violations query: %w", err)
	}

	var totalItems int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&totalItems); err != nil {
		logger.Error().Err(err).Msg("Error executing count violations query")
		return nil, dto.PaginationInfo{}, fmt.Errorf("error counting violations: %w", err)
	}

	pagination := helpers.NewPaginationInfo(totalItems, params.Page, params.Size)
	if totalItems == 0 {
		return []*models.Violation{}, pagination, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(params.Page, params.Size)
	sqlBuilder = sqlBuilder.
		OrderBy("v.created_at DESC").
		Limit(uint64(limit)).
		Offset(offset)

	sqlStr, args, err := sqlBuilder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list violations SQL")
		return nil, dto.PaginationInfo{}, fmt.Errorf("failed to build list violations query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list violations query")
		return nil, dto.PaginationInfo{}, fmt.Errorf("error querying violations: %w", err)
	}
	defer rows.Close()

	violations := make([]*models.Violation, 0)
	for rows.Next() {
		violation, err := scanViolationDetails(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning violation row during list")
			return nil, dto.PaginationInfo{}, fmt.Errorf("error scanning violation row: %w", err)
		}
		violations = append(violations, violation)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating violation rows")
		return nil, dto.PaginationInfo{}, fmt.Errorf("error iterating violation rows: %w", err)
	}

	return violations, pagination, nil
}

// ListByStudent retrieves a student's full violation history, oldest first.
// The eligibility evaluator consumes this without relations.
func (r *ViolationRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.Violation, error) {
	sql, args, err := r.sb.Select(
		"id", "student_id", "violation_type_id", "reported_by", "incident_at",
		"severity", "location", "description", "witness_statement", "status",
		"created_at", "updated_at",
	).
		From("violations").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("incident_at ASC", "id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list violations by student SQL")
		return nil, fmt.Errorf("failed to build list by student query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list violations by student query")
		return nil, fmt.Errorf("error querying violations by student: %w", err)
	}
	defer rows.Close()

	violations := []models.Violation{}
	for rows.Next() {
		var v models.Violation
		if err := rows.Scan(
			&v.ID, &v.StudentID, &v.ViolationTypeID, &v.ReportedBy, &v.IncidentAt,
			&v.Severity, &v.Location, &v.Description, &v.WitnessStatement, &v.Status,
			&v.CreatedAt, &v.UpdatedAt); err != nil {
			logger.Error().Err(err).Msg("Error scanning violation row during list by student")
			return nil, fmt.Errorf("error scanning violation row: %w", err)
		}
		violations = append(violations, v)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating violation rows")
		return nil, fmt.Errorf("error iterating violation rows: %w", err)
	}

	return violations, nil
}

// CountBySeverity counts a student's violations per severity. Every recorded
// violation counts regardless of review status; the threshold alert issuer
// depends on that.
func (r *ViolationRepository) CountBySeverity(ctx context.Context, studentID int64) (majors, minors int, err error) {
	sql, args, err := r.sb.Select(
		"COUNT(*) FILTER (WHERE severity = 'major')",
		"COUNT(*) FILTER (WHERE severity = 'minor')",
	).
		From("violations").
		Where(squirrel.Eq{"student_id": studentID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count by severity SQL")
		return 0, 0, fmt.Errorf("failed to build count by severity query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&majors, &minors); err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error scanning severity counts")
		return 0, 0, fmt.Errorf("error counting violations by severity: %w", err)
	}

	return majors, minors, nil
}

// LatestIncidentAt returns the most recent incident timestamp for a student,
// nil when the ledger holds nothing.
func (r *ViolationRepository) LatestIncidentAt(ctx context.Context, studentID int64) (*time.Time, error) {
	sql, args, err := r.sb.Select("MAX(incident_at)").
		From("violations").
		Where(squirrel.Eq{"student_id": studentID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building latest incident SQL")
		return nil, fmt.Errorf("failed to build latest incident query: %w", err)
	}

	var latest *time.Time
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&latest); err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error scanning latest incident timestamp")
		return nil, fmt.Errorf("error getting latest incident: %w", err)
	}

	return latest, nil
}

// UpdateViolationStatus moves a violation to a new review state
func (r *ViolationRepository) UpdateViolationStatus(ctx context.Context, id int64, status models.ViolationStatus, at time.Time) error {
	sql, args, err := r.sb.Update("violations").
		SetMap(map[string]interface{}{
			"status":     status,
			"updated_at": at,
		}).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update violation status SQL")
		return fmt.Errorf("failed to build update violation status query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("violationID", id).Msg("Error executing update violation status query")
		return fmt.Errorf("error updating violation status: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrViolationNotFound
	}

	return nil
}

// DeleteViolation removes a violation from the ledger. Alerts that referenced
// it keep their snapshot with the reference nulled by the schema.
func (r *ViolationRepository) DeleteViolation(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("violations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete violation SQL")
		return fmt.Errorf("failed to build delete violation query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("violationID", id).Msg("Error executing delete violation query")
		return fmt.Errorf("error deleting violation: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrViolationNotFound
	}

	return nil
}

// ListOverdue retrieves pending violations created at or before the cutoff,
// oldest first
func (r *ViolationRepository) ListOverdue(ctx context.Context, cutoff time.Time) ([]*models.Violation, error) {
	sql, args, err := r.selectViolationDetailsQuery().
		Where(squirrel.Eq{"v.status": []models.ViolationStatus{models.ViolationReported, models.ViolationUnderReview}}).
		Where(squirrel.LtOrEq{"v.created_at": cutoff}).
		OrderBy("v.created_at ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list overdue violations SQL")
		return nil, fmt.Errorf("failed to build list overdue query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list overdue violations query")
		return nil, fmt.Errorf("error querying overdue violations: %w", err)
	}
	defer rows.Close()

	violations := []*models.Violation{}
	for rows.Next() {
		violation, err := scanViolationDetails(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning violation row during overdue list")
			return nil, fmt.Errorf("error scanning violation row: %w", err)
		}
		violations = append(violations, violation)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating overdue violation rows")
		return nil, fmt.Errorf("error iterating violation rows: %w", err)
	}

	return violations, nil
}
