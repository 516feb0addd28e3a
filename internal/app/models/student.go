package models

import (
	"regexp"
	"time"
)

// studentNumberPattern matches registrar-issued student numbers such as
// 2021-00154: four digit entry year, dash, five digit serial.
var studentNumberPattern = regexp.MustCompile(`^\d{4}-\d{5}$`)

// ValidStudentNumber reports whether s is a well-formed student number.
func ValidStudentNumber(s string) bool {
	return studentNumberPattern.MatchString(s)
}

// Student defines the student profile based on the 'students' table. The
// student number is the identifier printed on the school ID and used by
// reporters; the numeric ID is internal.
type Student struct {
	ID                  int64            `json:"id" db:"id" example:"1"`                                  // Unique identifier for the student record
	UserID              int64            `json:"userId" db:"user_id" example:"5"`                         // ID of the associated user account
	StudentID           string           `json:"studentId" db:"student_id" example:"2021-00154"`          // Student number printed on the school ID
	Program             string           `json:"program" db:"program" example:"BS Computer Science"`      // Degree program
	YearLevel           int              `json:"yearLevel" db:"year_level" example:"2"`                   // Current year level (1-4)
	Department          string           `json:"department" db:"department" example:"CCS"`                // College/department code
	EnrollmentStatus    EnrollmentStatus `json:"enrollmentStatus" db:"enrollment_status" example:"Active"`// Registrar standing
	ContactNumber       string           `json:"contactNumber" db:"contact_number" example:"09171234567"` // Student contact number
	GuardianName        string           `json:"guardianName" db:"guardian_name" example:"Maria Cruz"`    // Guardian display name
	GuardianContact     string           `json:"guardianContact" db:"guardian_contact"`                   // Guardian contact number
	YearLevelAssignedAt *time.Time       `json:"yearLevelAssignedAt,omitempty" db:"year_level_assigned_at"` // When the current year level was assigned (drives auto-promotion)

	// Relations (populated when needed)
	User *User `json:"user,omitempty"` // Associated user account
}

// DisplayName returns the student's name if the user relation is loaded,
// falling back to the student number.
func (s *Student) DisplayName() string {
	if s.User != nil {
		if name := s.User.FullName(); name != "" {
			return name
		}
	}
	return s.StudentID
}

// StudentStats aggregates a student's violation record for staff views.
type StudentStats struct {
	Total            int        `json:"total"`                      // All violations on record
	Pending          int        `json:"pending"`                    // Reported or under review
	Resolved         int        `json:"resolved"`                   // Closed with sanctions completed
	Dismissed        int        `json:"dismissed"`                  // Closed without sanctions
	LatestIncidentAt *time.Time `json:"latestIncidentAt,omitempty"` // Most recent incident timestamp
}
