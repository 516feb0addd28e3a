package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/osahq/conduct/internal/app/models"
	"github.com/osahq/conduct/internal/app/models/dto"
	"github.com/osahq/conduct/internal/app/repositories"
	"github.com/osahq/conduct/internal/pkg/apperrors"
	"github.com/osahq/conduct/internal/pkg/notify"
)

// ApologyLetterService defines the interface for apology letter operations
type ApologyLetterService interface {
	SubmitApologyLetter(ctx context.Context, violationID int64, req *dto.SubmitApologyRequest) (*dto.ApologyLetterResponse, error)
	GetApologyLetterByID(ctx context.Context, id int64) (*dto.ApologyLetterResponse, error)
	GetAllApologyLetters(ctx context.Context, filter *dto.ApologyLetterFilterRequest, page, size int) (*dto.ApologyLetterListResponse, error)
	ReviewApologyLetter(ctx context.Context, id int64, req *dto.ReviewApologyRequest) (*dto.ApologyLetterResponse, error)
}

// apologyLetterServiceImpl implements ApologyLetterService
type apologyLetterServiceImpl struct {
	apologyStore   ApologyLetterStore
	violationStore ViolationStore
	userStore      UserStore
	notifier       notify.Notifier
	logger         zerolog.Logger
	now            func() time.Time
}

// NewApologyLetterService creates a new ApologyLetterService
func NewApologyLetterService(
	apologyStore ApologyLetterStore,
	violationStore ViolationStore,
	userStore UserStore,
	notifier notify.Notifier,
	logger zerolog.Logger,
	now func() time.Time,
) ApologyLetterService {
	if now == nil {
		now = time.Now
	}
	return &apologyLetterServiceImpl{
		apologyStore:   apologyStore,
		violationStore: violationStore,
		userStore:      userStore,
		notifier:       notifier,
		logger:         logger,
		now:            now,
	}
}

// SubmitApologyLetter files a student's written apology against a violation.
// The author is the student the violation names. Submission is allowed in any
// violation state; review is where the letter gains effect.
func (s *apologyLetterServiceImpl) SubmitApologyLetter(ctx context.Context, violationID int64, req *dto.SubmitApologyRequest) (*dto.ApologyLetterResponse, error) {
	violation, err := s.violationStore.GetViolationByID(ctx, violationID)
	if err != nil {
		return nil, fmt.Errorf("error getting violation: %w", err)
	}

	letter := &models.ApologyLetter{
		ViolationID: violation.ID,
		StudentID:   violation.StudentID,
		Content:     req.Content,
	}

	if _, err := s.apologyStore.CreateApologyLetter(ctx, letter); err != nil {
		return nil, fmt.Errorf("error creating apology letter: %w", err)
	}
	letter.Student = violation.Student

	s.logger.Info().
		Int64("letter_id", letter.ID).
		Int64("violation_id", violation.ID).
		Int64("student_id", violation.StudentID).
		Msg("Apology letter submitted")

	resp := dto.FromApologyLetter(letter)
	return &resp, nil
}

// GetApologyLetterByID retrieves a single apology letter
func (s *apologyLetterServiceImpl) GetApologyLetterByID(ctx context.Context, id int64) (*dto.ApologyLetterResponse, error) {
	letter, err := s.apologyStore.GetApologyLetterByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting apology letter: %w", err)
	}

	resp := dto.FromApologyLetter(letter)
	return &resp, nil
}

// GetAllApologyLetters retrieves apology letters with filtering and pagination
func (s *apologyLetterServiceImpl) GetAllApologyLetters(ctx context.Context, filter *dto.ApologyLetterFilterRequest, page, size int) (*dto.ApologyLetterListResponse, error) {
	params := repositories.ListApologyLettersParams{Page: page, Size: size}
	if filter != nil {
		params.ViolationID = filter.ViolationID
		params.StudentID = filter.StudentID
		params.Status = filter.Status
	}

	letters, pagination, err := s.apologyStore.ListApologyLetters(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("error listing apology letters: %w", err)
	}

	responses := make([]dto.ApologyLetterResponse, 0, len(letters))
	for _, letter := range letters {
		responses = append(responses, dto.FromApologyLetter(letter))
	}

	return &dto.ApologyLetterListResponse{Letters: responses, Pagination: pagination}, nil
}

// ReviewApologyLetter records a staff ruling on a letter. Approval resolves
// the linked violation when it is still pending; a violation already closed
// keeps its state. Rejected and revision_needed leave the violation alone.
func (s *apologyLetterServiceImpl) ReviewApologyLetter(ctx context.Context, id int64, req *dto.ReviewApologyRequest) (*dto.ApologyLetterResponse, error) {
	letter, err := s.apologyStore.GetApologyLetterByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting apology letter: %w", err)
	}

	if letter.Status.Reviewed() {
		return nil, apperrors.ErrApologyAlreadyReviewed
	}

	status := models.ApologyStatus(req.Status)
	if req.VerifiedBy != nil {
		if _, err := s.userStore.GetUserByID(ctx, *req.VerifiedBy); err != nil {
			return nil, fmt.Errorf("error getting reviewer: %w", err)
		}
	}

	at := s.now()
	if err := s.apologyStore.ReviewApologyLetter(ctx, id, status, req.VerifiedBy, req.Remarks, at); err != nil {
		return nil, fmt.Errorf("error reviewing apology letter: %w", err)
	}

	letter.Status = status
	letter.VerifiedBy = req.VerifiedBy
	letter.VerifiedAt = &at
	letter.Remarks = req.Remarks

	s.logger.Info().
		Int64("letter_id", letter.ID).
		Int64("violation_id", letter.ViolationID).
		Str("status", string(status)).
		Msg("Apology letter reviewed")

	if status == models.ApologyApproved {
		s.resolveViolation(ctx, letter.ViolationID, at)
	}
	s.notifyReviewed(ctx, letter)

	resp := dto.FromApologyLetter(letter)
	return &resp, nil
}

// resolveViolation closes the violation an approved letter apologizes for.
// Only pending violations move; resolved and dismissed are terminal. Failure
// here does not fail the review, the letter ruling already stands.
func (s *apologyLetterServiceImpl) resolveViolation(ctx context.Context, violationID int64, at time.Time) {
	violation, err := s.violationStore.GetViolationByID(ctx, violationID)
	if err != nil {
		s.logger.Error().Err(err).
			Int64("violation_id", violationID).
			Msg("Could not load violation after letter approval")
		return
	}
	if !violation.Status.Pending() {
		return
	}

	if err := s.violationStore.UpdateViolationStatus(ctx, violationID, models.ViolationResolved, at); err != nil {
		s.logger.Error().Err(err).
			Int64("violation_id", violationID).
			Msg("Could not resolve violation after letter approval")
		return
	}

	s.logger.Info().
		Int64("violation_id", violationID).
		Msg("Violation resolved by approved apology letter")
}

// notifyReviewed tells the letter's author the review outcome.
func (s *apologyLetterServiceImpl) notifyReviewed(ctx context.Context, letter *models.ApologyLetter) {
	if letter.Student == nil || letter.Student.User == nil {
		return
	}
	body := apologyReviewedBody(letter.ViolationID, letter.Status, letter.Remarks)
	notifyEach(ctx, s.notifier, s.logger, []notify.Recipient{studentRecipient(letter.Student)}, subjectApologyReviewed, body)
}
