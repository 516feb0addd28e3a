package services

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/osahq/conduct/internal/app/events"
	"github.com/osahq/conduct/internal/app/policy"
	"github.com/osahq/conduct/internal/app/repositories"
	"github.com/osahq/conduct/internal/pkg/notify"
)

// Services holds all the service instances
type Services struct {
	StudentService       StudentService
	ViolationService     ViolationService
	ViolationTypeService ViolationTypeService
	AlertService         AlertService
	ApologyLetterService ApologyLetterService
	MessageService       MessageService
	AlertIssuer          *AlertIssuer
}

// NewServices initializes all services over the production repositories and
// registers the alert issuer on the dispatcher. Pass nil for now to use the
// wall clock.
func NewServices(
	repos *repositories.Repositories,
	dispatcher *events.Dispatcher,
	notifier notify.Notifier,
	policyCfg policy.Config,
	logger zerolog.Logger,
	now func() time.Time,
) *Services {
	if now == nil {
		now = time.Now
	}

	issuer := NewAlertIssuer(
		repos.ViolationRepository,
		repos.AlertRepository,
		repos.StudentRepository,
		repos.UserRepository,
		notifier,
		policyCfg,
		logger,
	)
	dispatcher.Subscribe(issuer)

	return &Services{
		StudentService: NewStudentService(
			repos.StudentRepository,
			repos.ViolationRepository,
			policyCfg,
			logger,
			now,
		),
		ViolationService: NewViolationService(
			repos.ViolationRepository,
			repos.ViolationTypeRepository,
			repos.StudentRepository,
			repos.UserRepository,
			dispatcher,
			policyCfg,
			logger,
			now,
		),
		ViolationTypeService: NewViolationTypeService(repos.ViolationTypeRepository, logger),
		AlertService: NewAlertService(
			repos.AlertRepository,
			repos.UserRepository,
			notifier,
			logger,
			now,
		),
		ApologyLetterService: NewApologyLetterService(
			repos.ApologyLetterRepository,
			repos.ViolationRepository,
			repos.UserRepository,
			notifier,
			logger,
			now,
		),
		MessageService: NewMessageService(repos.MessageRepository, repos.UserRepository, logger, now),
		AlertIssuer:    issuer,
	}
}
