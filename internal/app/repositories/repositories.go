package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository          *UserRepository
	StudentRepository       *StudentRepository
	ViolationRepository     *ViolationRepository
	ViolationTypeRepository *ViolationTypeRepository
	AlertRepository         *AlertRepository
	ApologyLetterRepository *ApologyLetterRepository
	MessageRepository       *MessageRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:          NewUserRepository(db),
		StudentRepository:       NewStudentRepository(db),
		ViolationRepository:     NewViolationRepository(db),
		ViolationTypeRepository: NewViolationTypeRepository(db),
		AlertRepository:         NewAlertRepository(db),
		ApologyLetterRepository: NewApologyLetterRepository(db),
		MessageRepository:       NewMessageRepository(db),
	}
}
