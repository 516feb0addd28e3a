package models

// Role identifies what a user account is allowed to do in the system.
type Role string

// Role values match the values stored in the users.role column. RoleSystem
// is reserved for the account automated notifications are sent from and is
// never assigned through the API.
const (
	RoleStudent     Role = "student"
	RoleStaff       Role = "staff"
	RoleCoordinator Role = "osa_coordinator"
	RoleGuard       Role = "guard"
	RoleSystem      Role = "system"
)

// Valid reports whether the role is one of the known role values.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleStaff, RoleCoordinator, RoleGuard, RoleSystem:
		return true
	}
	return false
}

// Assignable reports whether the role may be given to accounts created
// through the API.
func (r Role) Assignable() bool {
	return r.Valid() && r != RoleSystem
}

// EnrollmentStatus represents a student's standing with the registrar.
type EnrollmentStatus string

// Enrollment status values.
const (
	EnrollmentActive    EnrollmentStatus = "Active"
	EnrollmentSuspended EnrollmentStatus = "Suspended"
	EnrollmentGraduated EnrollmentStatus = "Graduated"
)
