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

// ListApologyLettersParams holds parameters for filtering and pagination.
type ListApologyLettersParams struct {
	ViolationID *int64
	StudentID   *int64
	Status      string
	Page        int
	Size        int
}

// ApologyLetterRepository handles apology letter database operations
type ApologyLetterRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewApologyLetterRepository creates a new ApologyLetterRepository
func NewApologyLetterRepository(db *pgxpool.Pool) *ApologyLetterRepository {
	return &ApologyLetterRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ApologyLetterRepository) selectApologyLetterQuery() squirrel.SelectBuilder {
	return r.sb.Select(
		"al.id", "al.violation_id", "al.student_id", "al.content", "al.status",
		"al.submitted_at", "al.verified_by", "al.verified_at", "al.remarks",
		"s.user_id", "s.student_id AS student_number",
		"u.first_name", "u.last_name", "u.email",
	).
		From("apology_letters al").
		Join("students s ON al.student_id = s.id").
		Join("users u ON s.user_id = u.id")
}

func scanApologyLetter(row pgx.Row) (*models.ApologyLetter, error) {
	var (
		letter        models.ApologyLetter
		studentUserID int64
		studentNumber string
		first, last   string
		email         string
	)

	err := row.Scan(
		&letter.ID, &letter.ViolationID, &letter.StudentID, &letter.Content, &letter.Status,
		&letter.SubmittedAt, &letter.VerifiedBy, &letter.VerifiedAt, &letter.Remarks,
		&studentUserID, &studentNumber,
		&first, &last, &email,
	)
	if err != nil {
		return nil, err
	}

	letter.Student = &models.Student{
		ID:        letter.StudentID,
		UserID:    studentUserID,
		StudentID: studentNumber,
		User: &models.User{
			ID:        studentUserID,
			Email:     email,
			FirstName: first,
			LastName:  last,
		},
	}

	return &letter, nil
}

// CreateApologyLetter stores a newly submitted letter in pending state
func (r *ApologyLetterRepository) CreateApologyLetter(ctx context.Context, letter *models.ApologyLetter) (int64, error) {
	sql, args, err := r.sb.Insert("apology_letters").
		Columns("violation_id", "student_id", "content", "status").
		Values(letter.ViolationID, letter.StudentID, letter.Content, models.ApologyPending).
		Suffix("RETURNING id, submitted_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create apology letter SQL")
		return 0, fmt.Errorf("failed to build create apology letter query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&letter.ID, &letter.SubmittedAt)
	if err != nil {
		logger.Error().Err(err).Int64("violationID", letter.ViolationID).Msg("Error executing create apology letter query")
		return 0, fmt.Errorf("error creating apology letter: %w", err)
	}

	letter.Status = models.ApologyPending
	return letter.ID, nil
}

// GetApologyLetterByID retrieves a letter with the student relation
func (r *ApologyLetterRepository) GetApologyLetterByID(ctx context.Context, id int64) (*models.ApologyLetter, error) {
	sql, args, err := r.selectApologyLetterQuery().
		Where(squirrel.Eq{"al.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get apology letter SQL")
		return nil, fmt.Errorf("failed to build get apology letter query: %w", err)
	}

	letter, err := scanApologyLetter(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApologyLetterNotFound
		}
		logger.Error().Err(err).Int64("letterID", id).Msg("Error scanning apology letter row")
		return nil, fmt.Errorf("error getting apology letter by ID: %w", err)
	}

	return letter, nil
}

// ListApologyLetters retrieves letters matching the filters with pagination
func (r *ApologyLetterRepository) ListApologyLetters(ctx context.Context, params ListApologyLettersParams) ([]*models.ApologyLetter, dto.PaginationInfo, error) {
	sqlBuilder := r.selectApologyLetterQuery()
	countBuilder := r.sb.Select("count(*)").From("apology_letters al")

	if params.ViolationID != nil {
		sqlBuilder = sqlBuilder.Where(squirrel.Eq{"al.violation_id": *params.ViolationID})
		countBuilder = countBuilder.Where(squirrel.Eq{"al.violation_id": *params.ViolationID})
	}
	if params.StudentID != nil {
		sqlBuilder = sqlBuilder.Where(squirrel.Eq{"al.student_id": *params.StudentID})
		countBuilder = countBuilder.Where(squirrel.Eq{"al.student_id": *params.StudentID})
	}
	if params.Status != "" {
		sqlBuilder = sqlBuilder.Where(squirrel.Eq{"al.status": params.Status})
		countBuilder = countBuilder.Where(squirrel.Eq{"al.status": params.Status})
	}

	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count apology letters SQL")
		return nil, dto.PaginationInfo{}, fmt.Errorf("failed to build count apology letters query: %w", err)
	}

	var totalItems int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&totalItems); err != nil {
		logger.Error().Err(err).Msg("Error executing count apology letters query")
		return nil, dto.PaginationInfo{}, fmt.Errorf("error counting apology letters: %w", err)
	}

	pagination := helpers.NewPaginationInfo(totalItems, params.Page, params.Size)
	if totalItems == 0 {
		return []*models.ApologyLetter{}, pagination, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(params.Page, params.Size)
	sqlBuilder = sqlBuilder.
		OrderBy("al.submitted_at DESC").
		Limit(uint64(limit)).
		Offset(offset)

	sqlStr, args, err := sqlBuilder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list apology letters SQL")
		return nil, dto.PaginationInfo{}, fmt.Errorf("failed to build list apology letters query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list apology letters query")
		return nil, dto.PaginationInfo{}, fmt.Errorf("error querying apology letters: %w", err)
	}
	defer rows.Close()

	letters := make([]*models.ApologyLetter, 0)
	for rows.Next() {
		letter, err := scanApologyLetter(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning apology letter row during list")
			return nil, dto.PaginationInfo{}, fmt.Errorf("error scanning apology letter row: %w", err)
		}
		letters = append(letters, letter)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating apology letter rows")
		return nil, dto.PaginationInfo{}, fmt.Errorf("error iterating apology letter rows: %w", err)
	}

	return letters, pagination, nil
}

// ReviewApologyLetter records the staff ruling on a letter. Approved and
// rejected are final; only pending letters and letters sent back for
// revision accept a review. Zero rows means a concurrent review won.
func (r *ApologyLetterRepository) ReviewApologyLetter(ctx context.Context, id int64, status models.ApologyStatus, verifiedBy *int64, remarks string, at time.Time) error {
	sql, args, err := r.sb.Update("apology_letters").
		SetMap(map[string]interface{}{
			"status":      status,
			"verified_by": verifiedBy,
			"verified_at": at,
			"remarks":     remarks,
		}).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": []models.ApologyStatus{models.ApologyPending, models.ApologyRevisionNeeded}}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building review apology letter SQL")
		return fmt.Errorf("failed to build review apology letter query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("letterID", id).Msg("Error executing review apology letter query")
		return fmt.Errorf("error reviewing apology letter: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrApologyAlreadyReviewed
	}

	return nil
}
