package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osahq/conduct/internal/app/models"
	"github.com/osahq/conduct/internal/pkg/apperrors"
	"github.com/osahq/conduct/internal/pkg/dberrors"
	"github.com/osahq/conduct/internal/pkg/logger"
)

// ViolationTypeRepository handles handbook catalog database operations
type ViolationTypeRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewViolationTypeRepository creates a new ViolationTypeRepository
func NewViolationTypeRepository(db *pgxpool.Pool) *ViolationTypeRepository {
	return &ViolationTypeRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateViolationType adds a new handbook entry
func (r *ViolationTypeRepository) CreateViolationType(ctx context.Context, vt *models.ViolationType) (int64, error) {
	sql, args, err := r.sb.Insert("violation_types").
		Columns("code", "name", "category", "default_severity", "description", "penalty", "is_active").
		Values(vt.Code, vt.Name, vt.Category, vt.DefaultSeverity, vt.Description, vt.Penalty, vt.IsActive).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create violation type SQL")
		return 0, fmt.Errorf("failed to build create violation type query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&vt.ID, &vt.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "violation_types_code_key") {
			return 0, apperrors.ErrViolationTypeCodeExists
		}
		logger.Error().Err(err).Str("code", vt.Code).Msg("Error executing create violation type query")
		return 0, fmt.Errorf("error creating violation type: %w", err)
	}

	return vt.ID, nil
}

// GetViolationTypeByID retrieves a handbook entry by ID
func (r *ViolationTypeRepository) GetViolationTypeByID(ctx context.Context, id int64) (*models.ViolationType, error) {
	sql, args, err := r.sb.Select("id", "code", "name", "category", "default_severity",
		"description", "penalty", "is_active", "created_at").
		From("violation_types").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get violation type by ID SQL")
		return nil, fmt.Errorf("failed to build get violation type query: %w", err)
	}

	vt := &models.ViolationType{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&vt.ID, &vt.Code, &vt.Name, &vt.Category, &vt.DefaultSeverity,
		&vt.Description, &vt.Penalty, &vt.IsActive, &vt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrViolationTypeNotFound
		}
		logger.Error().Err(err).Int64("violationTypeID", id).Msg("Error scanning violation type row")
		return nil, fmt.Errorf("error getting violation type by ID: %w", err)
	}

	return vt, nil
}

// GetViolationTypeByCode retrieves a handbook entry by its handbook code
func (r *ViolationTypeRepository) GetViolationTypeByCode(ctx context.Context, code string) (*models.ViolationType, error) {
	sql, args, err := r.sb.Select("id", "code", "name", "category", "default_severity",
		"description", "penalty", "is_active", "created_at").
		From("violation_types").
		Where(squirrel.Eq{"code": code}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get violation type by code SQL")
		return nil, fmt.Errorf("failed to build get violation type query: %w", err)
	}

	vt := &models.ViolationType{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&vt.ID, &vt.Code, &vt.Name, &vt.Category, &vt.DefaultSeverity,
		&vt.Description, &vt.Penalty, &vt.IsActive, &vt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrViolationTypeNotFound
		}
		logger.Error().Err(err).Str("code", code).Msg("Error scanning violation type row")
		return nil, fmt.Errorf("error getting violation type by code: %w", err)
	}

	return vt, nil
}

// ListViolationTypes retrieves handbook entries ordered by code
func (r *ViolationTypeRepository) ListViolationTypes(ctx context.Context, activeOnly bool) ([]*models.ViolationType, error) {
	builder := r.sb.Select("id", "code", "name", "category", "default_severity",
		"description", "penalty", "is_active", "created_at").
		From("violation_types").
		OrderBy("code ASC")
	if activeOnly {
		builder = builder.Where(squirrel.Eq{"is_active": true})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list violation types SQL")
		return nil, fmt.Errorf("failed to build list violation types query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list violation types query")
		return nil, fmt.Errorf("error querying violation types: %w", err)
	}
	defer rows.Close()

	types := []*models.ViolationType{}
	for rows.Next() {
		vt := &models.ViolationType{}
		if err := rows.Scan(
			&vt.ID, &vt.Code, &vt.Name, &vt.Category, &vt.DefaultSeverity,
			&vt.Description, &vt.Penalty, &vt.IsActive, &vt.CreatedAt); err != nil {
			logger.Error().Err(err).Msg("Error scanning violation type row during list")
			return nil, fmt.Errorf("error scanning violation type row: %w", err)
		}
		types = append(types, vt)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating violation type rows")
		return nil, fmt.Errorf("error iterating violation type rows: %w", err)
	}

	return types, nil
}

// UpdateViolationType updates a handbook entry
func (r *ViolationTypeRepository) UpdateViolationType(ctx context.Context, vt *models.ViolationType) error {
	sql, args, err := r.sb.Update("violation_types").
		SetMap(map[string]interface{}{
			"name":             vt.Name,
			"category":         vt.Category,
			"default_severity": vt.DefaultSeverity,
			"description":      vt.Description,
			"penalty":          vt.Penalty,
			"is_active":        vt.IsActive,
		}).
		Where(squirrel.Eq{"id": vt.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update violation type SQL")
		return fmt.Errorf("failed to build update violation type query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("violationTypeID", vt.ID).Msg("Error executing update violation type query")
		return fmt.Errorf("error updating violation type: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrViolationTypeNotFound
	}

	return nil
}
