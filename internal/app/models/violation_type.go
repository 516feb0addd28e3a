package models

import "time"

// ViolationType defines a catalog entry in the student handbook based on the
// 'violation_types' table. Entries carry the default severity applied when a
// violation of this type is reported.
type ViolationType struct {
	ID              int64             `json:"id" db:"id" example:"1"`                              // Unique identifier for the catalog entry
	Code            string            `json:"code" db:"code" example:"MAJ-01"`                     // Handbook code
	Name            string            `json:"name" db:"name" example:"Cheating during examination"`// Short name of the offense
	Category        string            `json:"category" db:"category" example:"Academic Dishonesty"`// Handbook category
	DefaultSeverity ViolationSeverity `json:"defaultSeverity" db:"default_severity" example:"major"`// Severity applied by default
	Description     string            `json:"description,omitempty" db:"description"`              // Longer handbook text
	Penalty         string            `json:"penalty,omitempty" db:"penalty"`                      // Prescribed sanction
	IsActive        bool              `json:"isActive" db:"is_active" example:"true"`              // Whether the entry is selectable for new reports
	CreatedAt       time.Time         `json:"createdAt" db:"created_at"`                           // Record creation timestamp
}
