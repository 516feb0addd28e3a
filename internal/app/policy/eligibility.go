package policy

import (
	"fmt"
	"time"

	"github.com/osahq/conduct/internal/app/models"
)

// Outcome identifies one of the four clearance decisions.
type Outcome string

const (
	OutcomeNotEligible   Outcome = "not_eligible"
	OutcomePendingReview Outcome = "pending_review"
	OutcomeConditional   Outcome = "conditional"
	OutcomeEligible      Outcome = "eligible"
)

// Eligibility is the clearance decision derived from a student's violation
// history. It is recomputed from the ledger on every request and never
// persisted, so it cannot go stale.
type Eligibility struct {
	Outcome         Outcome    `json:"outcome" example:"conditional"`
	Label           string     `json:"label" example:"Conditional"`
	Description     string     `json:"description"`
	Reasons         []string   `json:"reasons"`
	Recommendations []string   `json:"recommendations,omitempty"`
	MajorCount      int        `json:"majorCount" example:"0"`
	MinorCount      int        `json:"minorCount" example:"2"`
	EffectiveMajors int        `json:"effectiveMajors" example:"0"`
	ClearsAt        *time.Time `json:"clearsAt,omitempty"` // end of the clearance window, set only while still inside it
}

// Evaluate classifies a student's full violation history into one of the four
// clearance outcomes. Rules run in strict priority order and the first match
// wins:
//
//  1. any major violation disqualifies, regardless of resolution status
//  2. repeated misconduct disqualifies (two majors, or the effective score
//     reaching the alert threshold on minors alone)
//  3. any case still reported or under review defers the decision
//  4. closed minors grant a conditional clearance, fully clear once the
//     clearance window since the latest incident has lapsed
//  5. a clean record is eligible
//
// The function is pure. It reads the history and now, mutates nothing, and
// errors only on a malformed record.
func (c Config) Evaluate(history []models.Violation, now time.Time) (Eligibility, error) {
	var majors, minors, pending int
	var latest time.Time
	for i := range history {
		v := &history[i]
		switch v.Severity {
		case models.SeverityMajor:
			majors++
		case models.SeverityMinor:
			minors++
		default:
			return Eligibility{}, fmt.Errorf("evaluate eligibility: violation %d has unknown severity %q", v.ID, v.Severity)
		}
		if v.Status.Pending() {
			pending++
		}
		if v.IncidentAt.After(latest) {
			latest = v.IncidentAt
		}
	}

	effective, err := c.EffectiveMajors(majors, minors)
	if err != nil {
		return Eligibility{}, err
	}

	res := Eligibility{
		MajorCount:      majors,
		MinorCount:      minors,
		EffectiveMajors: effective,
	}

	switch {
	case majors > 0:
		res.Outcome = OutcomeNotEligible
		res.Label = "Not Eligible"
		res.Description = "The record contains at least one major violation. Major violations disqualify a student from a good moral character clearance regardless of resolution status."
		res.Reasons = []string{
			fmt.Sprintf("%d major violation(s) on record", majors),
		}
		res.Recommendations = []string{
			"Request a case review with the Office of Student Affairs",
			"Complete any outstanding sanctions before requesting the review",
		}

	// Repeated misconduct. The majors half cannot fire after the rule above,
	// the effective score still trips on accumulated minors alone.
	case majors >= 2 || effective >= c.AlertThreshold:
		res.Outcome = OutcomeNotEligible
		res.Label = "Not Eligible"
		res.Description = "Accumulated violations amount to repeated misconduct and reach the disciplinary threshold."
		res.Reasons = []string{
			fmt.Sprintf("effective major score of %d reaches the threshold of %d", effective, c.AlertThreshold),
			fmt.Sprintf("%d minor violation(s) on record", minors),
		}
		res.Recommendations = []string{
			"Request a case review with the Office of Student Affairs",
		}

	case pending > 0:
		res.Outcome = OutcomePendingReview
		res.Label = "Pending Review"
		res.Description = "A clearance cannot be issued while a disciplinary case is still open."
		res.Reasons = []string{
			fmt.Sprintf("%d case(s) still reported or under review", pending),
		}
		res.Recommendations = []string{
			"Follow up with the reviewing staff member",
			"Submit any requested statements or apology letters",
		}

	case minors > 0:
		res.Outcome = OutcomeConditional
		res.Label = "Conditional"
		res.Description = "Minor violations on record, all closed. A clearance may be issued with conditions."
		res.Reasons = []string{
			fmt.Sprintf("%d minor violation(s) on record, all resolved or dismissed", minors),
		}
		clearsAt := latest.Add(c.ClearanceWindow)
		if now.Before(clearsAt) {
			res.ClearsAt = &clearsAt
			res.Recommendations = []string{
				fmt.Sprintf("Maintain a clean record until %s, when the clearance window lapses", clearsAt.Format("January 2, 2006")),
			}
		}

	default:
		res.Outcome = OutcomeEligible
		res.Label = "Eligible"
		res.Description = "No violations on record. A good moral character clearance may be issued."
		res.Reasons = []string{"no violations on record"}
	}

	return res, nil
}
