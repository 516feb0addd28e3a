package dto

import (
	"time"

	"github.com/osahq/conduct/internal/app/policy"
)

// EligibilityResponse represents a clearance decision for a student. The
// decision is computed from the violation ledger at request time.
type EligibilityResponse struct {
	StudentID       int64      `json:"studentId"`
	StudentNumber   string     `json:"studentNumber"`
	StudentName     string     `json:"studentName,omitempty"`
	Outcome         string     `json:"outcome"`
	Label           string     `json:"label"`
	Description     string     `json:"description"`
	Reasons         []string   `json:"reasons"`
	Recommendations []string   `json:"recommendations,omitempty"`
	MajorCount      int        `json:"majorCount"`
	MinorCount      int        `json:"minorCount"`
	EffectiveMajors int        `json:"effectiveMajors"`
	ClearsAt        *time.Time `json:"clearsAt,omitempty"`
	EvaluatedAt     time.Time  `json:"evaluatedAt"`
}

// FromEligibility converts a policy.Eligibility decision to a response
func FromEligibility(eligibility policy.Eligibility, evaluatedAt time.Time) EligibilityResponse {
	return EligibilityResponse{
		Outcome:         string(eligibility.Outcome),
		Label:           eligibility.Label,
		Description:     eligibility.Description,
		Reasons:         eligibility.Reasons,
		Recommendations: eligibility.Recommendations,
		MajorCount:      eligibility.MajorCount,
		MinorCount:      eligibility.MinorCount,
		EffectiveMajors: eligibility.EffectiveMajors,
		ClearsAt:        eligibility.ClearsAt,
		EvaluatedAt:     evaluatedAt,
	}
}
