package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/osahq/conduct/internal/app/models"
	"github.com/osahq/conduct/internal/app/models/dto"
	"github.com/osahq/conduct/internal/app/policy"
	"github.com/osahq/conduct/internal/app/repositories"
	"github.com/osahq/conduct/internal/pkg/apperrors"
)

// StudentService defines the interface for student profile operations
type StudentService interface {
	CreateStudent(ctx context.Context, req *dto.CreateStudentRequest) (*dto.StudentResponse, error)
	GetStudentByID(ctx context.Context, id int64) (*dto.StudentResponse, error)
	GetAllStudents(ctx context.Context, filter *dto.StudentFilterRequest, page, size int) (*dto.StudentListResponse, error)
	UpdateStudent(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error)
	EvaluateEligibility(ctx context.Context, id int64) (*dto.EligibilityResponse, error)
	SweepPromotions(ctx context.Context, now time.Time) (promoted, graduated int, err error)
}

// studentServiceImpl implements StudentService
type studentServiceImpl struct {
	studentStore   StudentStore
	violationStore ViolationStore
	policy         policy.Config
	logger         zerolog.Logger
	now            func() time.Time
}

// NewStudentService creates a new StudentService
func NewStudentService(
	studentStore StudentStore,
	violationStore ViolationStore,
	policyCfg policy.Config,
	logger zerolog.Logger,
	now func() time.Time,
) StudentService {
	return &studentServiceImpl{
		studentStore:   studentStore,
		violationStore: violationStore,
		policy:         policyCfg,
		logger:         logger,
		now:            now,
	}
}

// CreateStudent registers a student: the user account and the profile are
// created together
func (s *studentServiceImpl) CreateStudent(ctx context.Context, req *dto.CreateStudentRequest) (*dto.StudentResponse, error) {
	if !models.ValidStudentNumber(req.StudentID) {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidStudentID, req.StudentID)
	}

	assignedAt := s.now()

	user := &models.User{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      models.RoleStudent,
		IsActive:  true,
	}
	student := &models.Student{
		StudentID:           req.StudentID,
		Program:             req.Program,
		YearLevel:           req.YearLevel,
		Department:          req.Department,
		EnrollmentStatus:    models.EnrollmentActive,
		ContactNumber:       req.ContactNumber,
		GuardianName:        req.GuardianName,
		GuardianContact:     req.GuardianContact,
		YearLevelAssignedAt: &assignedAt,
	}

	if err := s.studentStore.CreateStudentWithUser(ctx, user, student); err != nil {
		return nil, fmt.Errorf("error creating student: %w", err)
	}

	s.logger.Info().
		Int64("student_id", student.ID).
		Str("student_number", student.StudentID).
		Msg("Student registered")

	resp := dto.FromStudent(student)
	return &resp, nil
}

// GetStudentByID retrieves a student profile with violation statistics
func (s *studentServiceImpl) GetStudentByID(ctx context.Context, id int64) (*dto.StudentResponse, error) {
	student, err := s.studentStore.GetStudentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting student: %w", err)
	}

	stats, err := s.studentStore.GetStudentStats(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting student stats: %w", err)
	}

	resp := dto.FromStudent(student)
	resp.Stats = dto.FromStudentStats(stats)
	return &resp, nil
}

// GetAllStudents retrieves students with filtering and pagination
func (s *studentServiceImpl) GetAllStudents(ctx context.Context, filter *dto.StudentFilterRequest, page, size int) (*dto.StudentListResponse, error) {
	params := repositories.ListStudentsParams{
		Page: page,
		Size: size,
	}
	if filter != nil {
		params.Search = filter.Search
		params.Department = filter.Department
		params.YearLevel = filter.YearLevel
		params.EnrollmentStatus = filter.EnrollmentStatus
	}

	students, pagination, err := s.studentStore.ListStudents(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}

	responses := make([]dto.StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, dto.FromStudent(student))
	}

	return &dto.StudentListResponse{
		Students:   responses,
		Pagination: pagination,
	}, nil
}

// UpdateStudent applies administrative edits to a student profile. A year
// level change restarts the promotion clock.
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error) {
	student, err := s.studentStore.GetStudentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting student: %w", err)
	}

	if req.YearLevel != student.YearLevel {
		assignedAt := s.now()
		student.YearLevelAssignedAt = &assignedAt
	}
	student.Program = req.Program
	student.YearLevel = req.YearLevel
	student.Department = req.Department
	student.EnrollmentStatus = models.EnrollmentStatus(req.EnrollmentStatus)
	student.ContactNumber = req.ContactNumber
	student.GuardianName = req.GuardianName
	student.GuardianContact = req.GuardianContact

	if err := s.studentStore.UpdateStudent(ctx, student); err != nil {
		return nil, fmt.Errorf("error updating student: %w", err)
	}

	s.logger.Info().
		Int64("student_id", student.ID).
		Str("student_number", student.StudentID).
		Msg("Student profile updated")

	resp := dto.FromStudent(student)
	return &resp, nil
}

// EvaluateEligibility computes the good moral character clearance decision
// from the student's full violation history. The decision is derived on every
// call and never persisted, so it cannot go stale against the ledger.
func (s *studentServiceImpl) EvaluateEligibility(ctx context.Context, id int64) (*dto.EligibilityResponse, error) {
	student, err := s.studentStore.GetStudentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting student: %w", err)
	}

	history, err := s.violationStore.ListByStudent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading violation history: %w", err)
	}

	evaluatedAt := s.now()
	decision, err := s.policy.Evaluate(history, evaluatedAt)
	if err != nil {
		return nil, fmt.Errorf("error evaluating eligibility: %w", err)
	}

	resp := dto.FromEligibility(decision, evaluatedAt)
	resp.StudentID = student.ID
	resp.StudentNumber = student.StudentID
	resp.StudentName = student.DisplayName()
	return &resp, nil
}

// SweepPromotions advances active students who spent the promotion window at
// their year level: below the top year they move up one level, at the top
// year they graduate. Per-student failures are logged and skipped so one bad
// record does not stall the sweep.
func (s *studentServiceImpl) SweepPromotions(ctx context.Context, now time.Time) (promoted, graduated int, err error) {
	cutoff := now.Add(-s.policy.PromotionAfter)

	students, err := s.studentStore.ListPromotable(ctx, cutoff)
	if err != nil {
		return 0, 0, fmt.Errorf("error listing promotable students: %w", err)
	}

	for _, student := range students {
		if student.YearLevel < s.policy.MaxYearLevel {
			if err := s.studentStore.PromoteStudent(ctx, student.ID, student.YearLevel+1, now); err != nil {
				s.logger.Error().Err(err).
					Int64("student_id", student.ID).
					Msg("Error promoting student, skipping")
				continue
			}
			promoted++
			s.logger.Info().
				Int64("student_id", student.ID).
				Str("student_number", student.StudentID).
				Int("from_year", student.YearLevel).
				Int("to_year", student.YearLevel+1).
				Msg("Student promoted")
			continue
		}

		if err := s.studentStore.GraduateStudent(ctx, student.ID); err != nil {
			s.logger.Error().Err(err).
				Int64("student_id", student.ID).
				Msg("Error graduating student, skipping")
			continue
		}
		graduated++
		s.logger.Info().
			Int64("student_id", student.ID).
			Str("student_number", student.StudentID).
			Msg("Student graduated")
	}

	return promoted, graduated, nil
}
