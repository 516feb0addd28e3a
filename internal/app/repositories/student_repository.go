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

// studentColumns lists the joined columns every student select scans.
var studentColumns = []string{
	"s.id", "s.user_id", "s.student_id", "s.program", "s.year_level",
	"s.department", "s.enrollment_status", "s.contact_number",
	"s.guardian_name", "s.guardian_contact", "s.year_level_assigned_at",
	"u.id", "u.email", "u.first_name", "u.last_name", "u.role", "u.is_active",
	"u.created_at", "u.updated_at",
}

// ListStudentsParams holds parameters for filtering and pagination.
type ListStudentsParams struct {
	Search           string // matches student number or name
	Department       string
	YearLevel        *int
	EnrollmentStatus string
	Page             int
	Size             int
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *StudentRepository) selectStudentQuery() squirrel.SelectBuilder {
	return r.sb.Select(studentColumns...).
		From("students s").
		Join("users u ON s.user_id = u.id")
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	student := &models.Student{User: &models.User{}}
	err := row.Scan(
		&student.ID, &student.UserID, &student.StudentID, &student.Program, &student.YearLevel,
		&student.Department, &student.EnrollmentStatus, &student.ContactNumber,
		&student.GuardianName, &student.GuardianContact, &student.YearLevelAssignedAt,
		&student.User.ID, &student.User.Email, &student.User.FirstName, &student.User.LastName,
		&student.User.Role, &student.User.IsActive, &student.User.CreatedAt, &student.User.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return student, nil
}

// CreateStudentWithUser creates the user account and the student profile in a
// single transaction. IDs are written back into the passed models.
func (r *StudentRepository) CreateStudentWithUser(ctx context.Context, user *models.User, student *models.Student) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin create student transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	userSQL, userArgs, err := r.sb.Insert("users").
		Columns("email", "first_name", "last_name", "role", "is_active").
		Values(user.Email, user.FirstName, user.LastName, user.Role, user.IsActive).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create user SQL")
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	if err := tx.QueryRow(ctx, userSQL, userArgs...).Scan(&user.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error executing create user query")
		return fmt.Errorf("error creating user: %w", err)
	}

	student.UserID = user.ID
	studentSQL, studentArgs, err := r.sb.Insert("students").
		Columns("user_id", "student_id", "program", "year_level", "department",
			"enrollment_status", "contact_number", "guardian_name", "guardian_contact",
			"year_level_assigned_at").
		Values(student.UserID, student.StudentID, student.Program, student.YearLevel,
			student.Department, student.EnrollmentStatus, student.ContactNumber,
			student.GuardianName, student.GuardianContact, student.YearLevelAssignedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	if err := tx.QueryRow(ctx, studentSQL, studentArgs...).Scan(&student.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_student_id_key") {
			logger.Warn().Str("studentNumber", student.StudentID).Msg("Attempted to create student with duplicate student number")
			return apperrors.ErrStudentIDAlreadyExists
		}
		logger.Error().Err(err).Str("studentNumber", student.StudentID).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit create student transaction: %w", err)
	}

	student.User = user
	logger.Info().Int64("userID", user.ID).Str("studentNumber", student.StudentID).Msg("Student created successfully")
	return nil
}

// GetStudentByID retrieves a student with the account by internal ID
func (r *StudentRepository) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.selectStudentQuery().
		Where(squirrel.Eq{"s.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student by ID SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}

	return student, nil
}

// GetStudentByNumber retrieves a student by the number printed on the school ID
func (r *StudentRepository) GetStudentByNumber(ctx context.Context, studentNumber string) (*models.Student, error) {
	sql, args, err := r.selectStudentQuery().
		Where(squirrel.Eq{"s.student_id": studentNumber}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student by number SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Str("studentNumber", studentNumber).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student by number: %w", err)
	}

	return student, nil
}

// ListStudents retrieves students matching the filters with pagination
func (r *StudentRepository) ListStudents(ctx context.Context, params ListStudentsParams) ([]*models.Student, dto.PaginationInfo, error) {
	sqlBuilder := r.selectStudentQuery()
	countBuilder := r.sb.Select("count(*)").
		From("students s").
		Join("users u ON s.user_id = u.id")

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		cond := squirrel.Or{
			squirrel.ILike{"s.student_id": pattern},
			squirrel.ILike{"u.first_name": pattern},
			squirrel.ILike{"u.last_name": pattern},
		}
		sqlBuilder = sqlBuilder.Where(cond)
		countBuilder = countBuilder.Where(cond)
	}
	if params.Department != "" {
		sqlBuilder = sqlBuilder.Where(squirrel.Eq{"s.department": params.Department})
		countBuilder = countBuilder.Where(squirrel.Eq{"s.department": params.Department})
	}
	if params.YearLevel != nil {
		sqlBuilder = sqlBuilder.Where(squirrel.Eq{"s.year_level": *params.YearLevel})
		countBuilder = countBuilder.Where(squirrel.Eq{"s.year_level": *params.YearLevel})
	}
	if params.EnrollmentStatus != "" {
		sqlBuilder = sqlBuilder.Where(squirrel.Eq{"s.enrollment_status": params.EnrollmentStatus})
		countBuilder = countBuilder.Where(squirrel.Eq{"s.enrollment_status": params.EnrollmentStatus})
	}

	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count students SQL")
		return nil, dto.PaginationInfo{}, fmt.Errorf("failed to build count students query: %w", err)
	}

	var totalItems int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&totalItems); err != nil {
		logger.Error().Err(err).Msg("Error executing count students query")
		return nil, dto.PaginationInfo{}, fmt.Errorf("error counting students: %w", err)
	}

	pagination := helpers.NewPaginationInfo(totalItems, params.Page, params.Size)
	if totalItems == 0 {
		return []*models.Student{}, pagination, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(params.Page, params.Size)
	sqlBuilder = sqlBuilder.
		OrderBy("u.first_name ASC", "u.last_name ASC", "s.student_id ASC").
		Limit(uint64(limit)).
		Offset(offset)

	sqlStr, args, err := sqlBuilder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list students SQL")
		return nil, dto.PaginationInfo{}, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, dto.PaginationInfo{}, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := make([]*models.Student, 0)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning student row during list")
			return nil, dto.PaginationInfo{}, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating student rows")
		return nil, dto.PaginationInfo{}, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, pagination, nil
}

// UpdateStudent updates a student's profile fields
func (r *StudentRepository) UpdateStudent(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Update("students").
		SetMap(map[string]interface{}{
			"program":                student.Program,
			"year_level":             student.YearLevel,
			"department":             student.Department,
			"enrollment_status":      student.EnrollmentStatus,
			"contact_number":         student.ContactNumber,
			"guardian_name":          student.GuardianName,
			"guardian_contact":       student.GuardianContact,
			"year_level_assigned_at": student.YearLevelAssignedAt,
		}).
		Where(squirrel.Eq{"id": student.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update student SQL")
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", student.ID).Msg("Error executing update student query")
		return fmt.Errorf("error updating student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// GetStudentStats aggregates a student's violation record
func (r *StudentRepository) GetStudentStats(ctx context.Context, studentID int64) (*models.StudentStats, error) {
	sql, args, err := r.sb.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE status IN ('reported', 'under_review'))",
		"COUNT(*) FILTER (WHERE status = 'resolved')",
		"COUNT(*) FILTER (WHERE status = 'dismissed')",
		"MAX(incident_at)",
	).
		From("violations").
		Where(squirrel.Eq{"student_id": studentID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building student stats SQL")
		return nil, fmt.Errorf("failed to build student stats query: %w", err)
	}

	stats := &models.StudentStats{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&stats.Total, &stats.Pending, &stats.Resolved, &stats.Dismissed, &stats.LatestIncidentAt)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error scanning student stats row")
		return nil, fmt.Errorf("error getting student stats: %w", err)
	}

	return stats, nil
}

// ListPromotable retrieves active students whose current year level was
// assigned at or before the cutoff. The promotion sweep feeds on this.
func (r *StudentRepository) ListPromotable(ctx context.Context, cutoff time.Time) ([]*models.Student, error) {
	sql, args, err := r.selectStudentQuery().
		Where(squirrel.Eq{"s.enrollment_status": models.EnrollmentActive}).
		Where("s.year_level_assigned_at IS NOT NULL").
		Where(squirrel.LtOrEq{"s.year_level_assigned_at": cutoff}).
		OrderBy("s.id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list promotable students SQL")
		return nil, fmt.Errorf("failed to build list promotable query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list promotable students query")
		return nil, fmt.Errorf("error querying promotable students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning student row during promotable list")
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating promotable student rows")
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}

// PromoteStudent advances a student to the given year level and restarts the
// promotion clock
func (r *StudentRepository) PromoteStudent(ctx context.Context, id int64, yearLevel int, assignedAt time.Time) error {
	sql, args, err := r.sb.Update("students").
		SetMap(map[string]interface{}{
			"year_level":             yearLevel,
			"year_level_assigned_at": assignedAt,
		}).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building promote student SQL")
		return fmt.Errorf("failed to build promote student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error executing promote student query")
		return fmt.Errorf("error promoting student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// GraduateStudent marks a student as graduated
func (r *StudentRepository) GraduateStudent(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Update("students").
		Set("enrollment_status", models.EnrollmentGraduated).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building graduate student SQL")
		return fmt.Errorf("failed to build graduate student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error executing graduate student query")
		return fmt.Errorf("error graduating student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}
