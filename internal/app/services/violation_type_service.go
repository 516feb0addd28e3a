package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/osahq/conduct/internal/app/models"
	"github.com/osahq/conduct/internal/app/models/dto"
)

// ViolationTypeService defines the interface for handbook catalog operations
type ViolationTypeService interface {
	CreateViolationType(ctx context.Context, req *dto.CreateViolationTypeRequest) (*dto.ViolationTypeResponse, error)
	GetViolationTypeByID(ctx context.Context, id int64) (*dto.ViolationTypeResponse, error)
	GetAllViolationTypes(ctx context.Context, activeOnly bool) (*dto.ViolationTypeListResponse, error)
	UpdateViolationType(ctx context.Context, id int64, req *dto.UpdateViolationTypeRequest) (*dto.ViolationTypeResponse, error)
}

// violationTypeServiceImpl implements ViolationTypeService
type violationTypeServiceImpl struct {
	violationTypeStore ViolationTypeStore
	logger             zerolog.Logger
}

// NewViolationTypeService creates a new ViolationTypeService
func NewViolationTypeService(violationTypeStore ViolationTypeStore, logger zerolog.Logger) ViolationTypeService {
	return &violationTypeServiceImpl{
		violationTypeStore: violationTypeStore,
		logger:             logger,
	}
}

// CreateViolationType adds an entry to the handbook catalog
func (s *violationTypeServiceImpl) CreateViolationType(ctx context.Context, req *dto.CreateViolationTypeRequest) (*dto.ViolationTypeResponse, error) {
	violationType := &models.ViolationType{
		Code:            req.Code,
		Name:            req.Name,
		Category:        req.Category,
		DefaultSeverity: models.ViolationSeverity(req.DefaultSeverity),
		Description:     req.Description,
		Penalty:         req.Penalty,
		IsActive:        true,
	}

	if _, err := s.violationTypeStore.CreateViolationType(ctx, violationType); err != nil {
		return nil, fmt.Errorf("error creating violation type: %w", err)
	}

	s.logger.Info().
		Int64("violation_type_id", violationType.ID).
		Str("code", violationType.Code).
		Msg("Violation type created")

	resp := dto.FromViolationType(violationType)
	return &resp, nil
}

// GetViolationTypeByID retrieves a catalog entry
func (s *violationTypeServiceImpl) GetViolationTypeByID(ctx context.Context, id int64) (*dto.ViolationTypeResponse, error) {
	violationType, err := s.violationTypeStore.GetViolationTypeByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting violation type: %w", err)
	}

	resp := dto.FromViolationType(violationType)
	return &resp, nil
}

// GetAllViolationTypes lists the catalog, optionally only entries still in use
func (s *violationTypeServiceImpl) GetAllViolationTypes(ctx context.Context, activeOnly bool) (*dto.ViolationTypeListResponse, error) {
	violationTypes, err := s.violationTypeStore.ListViolationTypes(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("error listing violation types: %w", err)
	}

	responses := make([]dto.ViolationTypeResponse, 0, len(violationTypes))
	for _, violationType := range violationTypes {
		responses = append(responses, dto.FromViolationType(violationType))
	}

	return &dto.ViolationTypeListResponse{ViolationTypes: responses}, nil
}

// UpdateViolationType edits a catalog entry. Deactivating an entry keeps old
// violations intact but blocks new ones from referencing it.
func (s *violationTypeServiceImpl) UpdateViolationType(ctx context.Context, id int64, req *dto.UpdateViolationTypeRequest) (*dto.ViolationTypeResponse, error) {
	violationType, err := s.violationTypeStore.GetViolationTypeByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting violation type: %w", err)
	}

	violationType.Name = req.Name
	violationType.Category = req.Category
	violationType.DefaultSeverity = models.ViolationSeverity(req.DefaultSeverity)
	violationType.Description = req.Description
	violationType.Penalty = req.Penalty
	if req.IsActive != nil {
		violationType.IsActive = *req.IsActive
	}

	if err := s.violationTypeStore.UpdateViolationType(ctx, violationType); err != nil {
		return nil, fmt.Errorf("error updating violation type: %w", err)
	}

	s.logger.Info().
		Int64("violation_type_id", violationType.ID).
		Str("code", violationType.Code).
		Msg("Violation type updated")

	resp := dto.FromViolationType(violationType)
	return &resp, nil
}
