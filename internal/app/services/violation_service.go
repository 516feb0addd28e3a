package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/osahq/conduct/internal/app/events"
	"github.com/osahq/conduct/internal/app/models"
	"github.com/osahq/conduct/internal/app/models/dto"
	"github.com/osahq/conduct/internal/app/policy"
	"github.com/osahq/conduct/internal/app/repositories"
	"github.com/osahq/conduct/internal/pkg/apperrors"
)

// ViolationService defines the interface for violation ledger operations
type ViolationService interface {
	CreateViolation(ctx context.Context, req *dto.CreateViolationRequest) (*dto.ViolationResponse, error)
	GetViolationByID(ctx context.Context, id int64) (*dto.ViolationResponse, error)
	GetAllViolations(ctx context.Context, filter *dto.ViolationFilterRequest, page, size int) (*dto.ViolationListResponse, error)
	UpdateViolationStatus(ctx context.Context, id int64, req *dto.UpdateViolationStatusRequest) (*dto.ViolationResponse, error)
	DeleteViolation(ctx context.Context, id int64) error
	GetOverdueViolations(ctx context.Context) (*dto.OverdueViolationListResponse, error)
}

// violationServiceImpl implements ViolationService
type violationServiceImpl struct {
	violationStore     ViolationStore
	violationTypeStore ViolationTypeStore
	studentStore       StudentStore
	userStore          UserStore
	dispatcher         *events.Dispatcher
	policy             policy.Config
	logger             zerolog.Logger
	now                func() time.Time
}

// NewViolationService creates a new ViolationService
func NewViolationService(
	violationStore ViolationStore,
	violationTypeStore ViolationTypeStore,
	studentStore StudentStore,
	userStore UserStore,
	dispatcher *events.Dispatcher,
	policyCfg policy.Config,
	logger zerolog.Logger,
	now func() time.Time,
) ViolationService {
	return &violationServiceImpl{
		violationStore:     violationStore,
		violationTypeStore: violationTypeStore,
		studentStore:       studentStore,
		userStore:          userStore,
		dispatcher:         dispatcher,
		policy:             policyCfg,
		logger:             logger,
		now:                now,
	}
}

// CreateViolation records a new violation and dispatches the recording event.
// The event drives the threshold alert issuer; a failure there never rolls the
// recording back.
func (s *violationServiceImpl) CreateViolation(ctx context.Context, req *dto.CreateViolationRequest) (*dto.ViolationResponse, error) {
	student, err := s.studentStore.GetStudentByID(ctx, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("error getting student: %w", err)
	}

	var violationType *models.ViolationType
	if req.ViolationTypeID != nil {
		violationType, err = s.violationTypeStore.GetViolationTypeByID(ctx, *req.ViolationTypeID)
		if err != nil {
			return nil, fmt.Errorf("error getting violation type: %w", err)
		}
		if !violationType.IsActive {
			return nil, apperrors.ErrViolationTypeInactive
		}
	}

	var reporter *models.User
	if req.ReportedBy != nil {
		reporter, err = s.userStore.GetUserByID(ctx, *req.ReportedBy)
		if err != nil {
			return nil, fmt.Errorf("error getting reporter: %w", err)
		}
	}

	// The explicit severity wins; a violation type supplies its default
	// otherwise.
	severity := models.ViolationSeverity(req.Severity)
	if severity == "" && violationType != nil {
		severity = violationType.DefaultSeverity
	}
	if !severity.Valid() {
		return nil, apperrors.ErrInvalidSeverity
	}

	incidentAt := s.now()
	if req.IncidentAt != nil {
		incidentAt = *req.IncidentAt
	}

	violation := &models.Violation{
		StudentID:        student.ID,
		ViolationTypeID:  req.ViolationTypeID,
		ReportedBy:       req.ReportedBy,
		IncidentAt:       incidentAt,
		Severity:         severity,
		Location:         req.Location,
		Description:      req.Description,
		WitnessStatement: req.WitnessStatement,
		Status:           models.ViolationReported,
	}

	if _, err := s.violationStore.CreateViolation(ctx, violation); err != nil {
		return nil, fmt.Errorf("error creating violation: %w", err)
	}

	violation.Student = student
	violation.ViolationType = violationType
	violation.Reporter = reporter

	s.logger.Info().
		Int64("violation_id", violation.ID).
		Int64("student_id", student.ID).
		Str("severity", string(severity)).
		Msg("Violation recorded")

	// Alert evaluation is a side effect of the recording, not a precondition:
	// subscriber errors are logged by the dispatcher and never surface here.
	s.dispatcher.DispatchViolationRecorded(ctx, events.NewViolationRecorded(violation, violation.CreatedAt))

	resp := dto.FromViolation(violation)
	return &resp, nil
}

// GetViolationByID retrieves a violation with its relations
func (s *violationServiceImpl) GetViolationByID(ctx context.Context, id int64) (*dto.ViolationResponse, error) {
	violation, err := s.violationStore.GetViolationByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting violation: %w", err)
	}

	resp := dto.FromViolation(violation)
	return &resp, nil
}

// GetAllViolations retrieves violations with filtering and pagination
func (s *violationServiceImpl) GetAllViolations(ctx context.Context, filter *dto.ViolationFilterRequest, page, size int) (*dto.ViolationListResponse, error) {
	params := repositories.ListViolationsParams{
		Page: page,
		Size: size,
	}
	if filter != nil {
		params.StudentID = filter.StudentID
		params.Severity = filter.Severity
		params.Status = filter.Status
	}

	violations, pagination, err := s.violationStore.ListViolations(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("error listing violations: %w", err)
	}

	responses := make([]dto.ViolationResponse, 0, len(violations))
	for _, violation := range violations {
		responses = append(responses, dto.FromViolation(violation))
	}

	return &dto.ViolationListResponse{
		Violations: responses,
		Pagination: pagination,
	}, nil
}

// UpdateViolationStatus moves a violation through its review lifecycle.
// Resolved and dismissed are terminal; re-asserting the current status is an
// idempotent no-op.
func (s *violationServiceImpl) UpdateViolationStatus(ctx context.Context, id int64, req *dto.UpdateViolationStatusRequest) (*dto.ViolationResponse, error) {
	violation, err := s.violationStore.GetViolationByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting violation: %w", err)
	}

	newStatus := models.ViolationStatus(req.Status)
	if !newStatus.Valid() {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidViolationStatus, req.Status)
	}
	if newStatus == violation.Status {
		resp := dto.FromViolation(violation)
		return &resp, nil
	}
	if violation.Status.Terminal() {
		return nil, apperrors.NewInvalidTransitionError(
			fmt.Sprintf("violation is already %s and cannot change to %s", violation.Status, newStatus))
	}

	at := s.now()
	if err := s.violationStore.UpdateViolationStatus(ctx, id, newStatus, at); err != nil {
		return nil, fmt.Errorf("error updating violation status: %w", err)
	}

	s.logger.Info().
		Int64("violation_id", id).
		Str("from", string(violation.Status)).
		Str("to", string(newStatus)).
		Msg("Violation status updated")

	violation.Status = newStatus
	violation.UpdatedAt = at
	resp := dto.FromViolation(violation)
	return &resp, nil
}

// DeleteViolation removes a violation by explicit staff action. Alerts keep
// their snapshot but lose the trigger reference; apology letters cascade.
func (s *violationServiceImpl) DeleteViolation(ctx context.Context, id int64) error {
	if err := s.violationStore.DeleteViolation(ctx, id); err != nil {
		return fmt.Errorf("error deleting violation: %w", err)
	}

	s.logger.Info().Int64("violation_id", id).Msg("Violation deleted")
	return nil
}

// GetOverdueViolations reports pending violations that have sat unreviewed
// past the overdue window
func (s *violationServiceImpl) GetOverdueViolations(ctx context.Context) (*dto.OverdueViolationListResponse, error) {
	cutoff := s.now().Add(-s.policy.OverdueAfter)

	violations, err := s.violationStore.ListOverdue(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("error listing overdue violations: %w", err)
	}

	responses := make([]dto.ViolationResponse, 0, len(violations))
	for _, violation := range violations {
		responses = append(responses, dto.FromViolation(violation))
	}

	return &dto.OverdueViolationListResponse{
		Cutoff:     cutoff,
		Count:      len(responses),
		Violations: responses,
	}, nil
}
