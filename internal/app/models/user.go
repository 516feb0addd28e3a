package models

import "time"

// User defines a system account based on the 'users' table. Students, OSA
// staff, coordinators and gate guards all have one; only its role differs.
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`                          // Unique identifier for the user
	Email     string    `json:"email" db:"email" example:"osa@school.edu.ph"`    // User's email address
	FirstName string    `json:"firstName" db:"first_name" example:"Sam"`         // User's first name
	LastName  string    `json:"lastName" db:"last_name" example:"Staff"`         // User's last name
	Role      Role      `json:"role" db:"role" example:"staff"`                  // Account role (student, staff, osa_coordinator, guard)
	IsActive  bool      `json:"isActive" db:"is_active" example:"true"`          // Whether the account is active
	CreatedAt time.Time `json:"createdAt" db:"created_at"`                       // Timestamp when the account was created
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`                       // Timestamp when the account was last updated
}

// FullName returns the display name used in notifications and lists.
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return u.Email
}
