package seed

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/osahq/conduct/internal/app/models"
	appRepos "github.com/osahq/conduct/internal/app/repositories"
	"github.com/osahq/conduct/internal/config"
	"github.com/osahq/conduct/internal/pkg/apperrors"
)

// defaultViolationTypes is the handbook catalog installed on first boot.
// Coordinators can extend or retire entries through the API afterwards.
var defaultViolationTypes = []appModels.ViolationType{
	{Code: "MIN-01", Name: "Improper uniform", Category: "Dress Code", DefaultSeverity: appModels.SeverityMinor, Penalty: "Verbal warning and citation ticket"},
	{Code: "MIN-02", Name: "No ID on campus", Category: "Dress Code", DefaultSeverity: appModels.SeverityMinor, Penalty: "Citation ticket"},
	{Code: "MIN-03", Name: "Loitering during class hours", Category: "Campus Order", DefaultSeverity: appModels.SeverityMinor, Penalty: "Verbal warning"},
	{Code: "MIN-04", Name: "Littering", Category: "Campus Order", DefaultSeverity: appModels.SeverityMinor, Penalty: "Community service"},
	{Code: "MAJ-01", Name: "Cheating during examination", Category: "Academic Dishonesty", DefaultSeverity: appModels.SeverityMajor, Penalty: "Suspension and failing grade for the exam"},
	{Code: "MAJ-02", Name: "Plagiarism", Category: "Academic Dishonesty", DefaultSeverity: appModels.SeverityMajor, Penalty: "Suspension"},
	{Code: "MAJ-03", Name: "Falsification of documents", Category: "Dishonesty", DefaultSeverity: appModels.SeverityMajor, Penalty: "Suspension, possible dismissal"},
	{Code: "MAJ-04", Name: "Physical assault", Category: "Misconduct", DefaultSeverity: appModels.SeverityMajor, Penalty: "Suspension, possible dismissal"},
}

// CreateDefaultData creates the system account, the default violation type
// catalog and the demo users if they don't exist. Called from bootstrap after
// migrations; collects errors instead of stopping at the first one so a
// partially seeded database still comes up.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)
	studentRepo := appRepos.NewStudentRepository(dbPool)
	violationTypeRepo := appRepos.NewViolationTypeRepository(dbPool)
	messageRepo := appRepos.NewMessageRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (system account, violation types, demo users)...")
	var finalErr error // To collect potential errors without stopping the process

	// --- System Account --- //
	// The notifier sends alert and meeting messages from this account.
	_, _, err := ensureUser(ctx, userRepo, &appModels.User{
		Email:     cfg.Notify.SystemEmail,
		FirstName: "OSA",
		LastName:  "Notifications",
		Role:      appModels.RoleSystem,
		IsActive:  true,
	}, lgr)
	if err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	// --- Violation Type Catalog --- //
	for i := range defaultViolationTypes {
		vt := defaultViolationTypes[i]
		vt.IsActive = true
		if _, err := violationTypeRepo.CreateViolationType(ctx, &vt); err != nil && !errors.Is(err, apperrors.ErrViolationTypeCodeExists) {
			lgr.Error().Err(err).Str("code", vt.Code).Msg("Error creating default violation type")
			finalErr = errors.Join(finalErr, err)
		}
	}

	// --- Demo Users --- //
	coordinatorID, coordinatorCreated, err := ensureUser(ctx, userRepo, &appModels.User{
		Email:     "osa@chmsu.edu.ph",
		FirstName: "Fiona",
		LastName:  "Coordinator",
		Role:      appModels.RoleCoordinator,
		IsActive:  true,
	}, lgr)
	if err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	staffID, _, err := ensureUser(ctx, userRepo, &appModels.User{
		Email:     "staff@chmsu.edu.ph",
		FirstName: "Sam",
		LastName:  "Staff",
		Role:      appModels.RoleStaff,
		IsActive:  true,
	}, lgr)
	if err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	if err := ensureDemoStudent(ctx, studentRepo, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	// --- Sample Messages --- //
	// Only on the boot that created the coordinator, so restarts don't pile
	// up duplicate inbox entries.
	if coordinatorCreated && coordinatorID > 0 && staffID > 0 {
		samples := []appModels.Message{
			{SenderID: coordinatorID, RecipientID: staffID, Subject: "Report review", Body: "Please review report #102."},
			{SenderID: staffID, RecipientID: coordinatorID, Subject: "Re: Report review", Body: "Acknowledged. Starting review."},
		}
		for i := range samples {
			if _, err := messageRepo.CreateMessage(ctx, &samples[i]); err != nil {
				lgr.Error().Err(err).Msg("Error creating sample message")
				finalErr = errors.Join(finalErr, err)
			}
		}
	}

	if finalErr == nil {
		lgr.Info().Msg("Default data check complete")
	}
	return finalErr
}

// ensureUser creates the user unless an account with the email already
// exists. Returns the account ID either way and whether this call created it.
func ensureUser(ctx context.Context, userRepo *appRepos.UserRepository, user *appModels.User, lgr zerolog.Logger) (int64, bool, error) {
	existing, err := userRepo.GetUserByEmail(ctx, user.Email)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		lgr.Error().Err(err).Str("email", user.Email).Msg("Error checking if user exists")
		return 0, false, err
	}

	id, err := userRepo.CreateUser(ctx, user)
	if err != nil {
		lgr.Error().Err(err).Str("email", user.Email).Msg("Error creating default user")
		return 0, false, err
	}
	lgr.Info().Int64("userID", id).Str("email", user.Email).Str("role", string(user.Role)).Msg("Default user created")
	return id, true, nil
}

// ensureDemoStudent creates the demo student account with its registry
// profile unless the student number is already taken.
func ensureDemoStudent(ctx context.Context, studentRepo *appRepos.StudentRepository, lgr zerolog.Logger) error {
	const studentNumber = "2021-00154"

	if _, err := studentRepo.GetStudentByNumber(ctx, studentNumber); err == nil {
		return nil
	} else if !errors.Is(err, apperrors.ErrStudentNotFound) {
		lgr.Error().Err(err).Str("studentNumber", studentNumber).Msg("Error checking if demo student exists")
		return err
	}

	now := time.Now()
	user := &appModels.User{
		Email:     "student1@chmsu.edu.ph",
		FirstName: "Juan",
		LastName:  "Dela Cruz",
		Role:      appModels.RoleStudent,
		IsActive:  true,
	}
	student := &appModels.Student{
		StudentID:           studentNumber,
		Program:             "BS Computer Science",
		YearLevel:           2,
		Department:          "CCS",
		EnrollmentStatus:    appModels.EnrollmentActive,
		ContactNumber:       "09171234567",
		GuardianName:        "Maria Dela Cruz",
		GuardianContact:     "09179876543",
		YearLevelAssignedAt: &now,
	}
	if err := studentRepo.CreateStudentWithUser(ctx, user, student); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) || errors.Is(err, apperrors.ErrStudentIDAlreadyExists) {
			return nil
		}
		lgr.Error().Err(err).Str("studentNumber", studentNumber).Msg("Error creating demo student")
		return err
	}
	lgr.Info().Int64("studentID", student.ID).Str("studentNumber", studentNumber).Msg("Demo student created")
	return nil
}
