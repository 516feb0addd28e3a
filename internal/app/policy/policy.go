// Package policy holds the disciplinary rule constants and the pure decision
// functions built on them. Nothing here touches storage or the wall clock.
// Callers pass counts, violation histories and the current time in, so the
// same rules drive the alert issuer, the eligibility evaluator and the sweeps
// without drifting apart.
package policy

import (
	"fmt"
	"time"

	"github.com/osahq/conduct/internal/pkg/apperrors"
)

// Config carries the named rule constants of the disciplinary policy.
// A policy change is a single edit here or in the configuration file.
type Config struct {
	MinorEquivalence int           // minors that together weigh as one major
	AlertThreshold   int           // effective majors at which a staff alert is raised
	ClearanceWindow  time.Duration // quiet time since the last incident before a minors-only record clears
	OverdueAfter     time.Duration // age at which a pending violation counts as overdue
	PromotionAfter   time.Duration // time spent at a year level before auto-promotion
	MaxYearLevel     int           // year level whose promotion is graduation
}

// Default returns the institutional policy in force.
func Default() Config {
	return Config{
		MinorEquivalence: 3,
		AlertThreshold:   3,
		ClearanceWindow:  180 * 24 * time.Hour,
		OverdueAfter:     7 * 24 * time.Hour,
		PromotionAfter:   304 * 24 * time.Hour, // ten months at 30.4 days each
		MaxYearLevel:     4,
	}
}

// Validate checks that the rule constants are usable.
func (c Config) Validate() error {
	if c.MinorEquivalence < 1 {
		return fmt.Errorf("policy: minor equivalence must be at least 1, got %d", c.MinorEquivalence)
	}
	if c.AlertThreshold < 1 {
		return fmt.Errorf("policy: alert threshold must be at least 1, got %d", c.AlertThreshold)
	}
	if c.ClearanceWindow < 0 {
		return fmt.Errorf("policy: clearance window must not be negative, got %s", c.ClearanceWindow)
	}
	if c.OverdueAfter < 0 {
		return fmt.Errorf("policy: overdue window must not be negative, got %s", c.OverdueAfter)
	}
	if c.PromotionAfter <= 0 {
		return fmt.Errorf("policy: promotion window must be positive, got %s", c.PromotionAfter)
	}
	if c.MaxYearLevel < 1 {
		return fmt.Errorf("policy: max year level must be at least 1, got %d", c.MaxYearLevel)
	}
	return nil
}

// EffectiveMajors converts raw severity counts into the effective major
// score. Every full group of MinorEquivalence minors weighs as one major and
// incomplete groups are discarded, so two minors under the default policy
// contribute nothing. The alert issuer and the eligibility evaluator both
// call this and must agree on the result.
func (c Config) EffectiveMajors(majorCount, minorCount int) (int, error) {
	if majorCount < 0 || minorCount < 0 {
		return 0, apperrors.ErrNegativeCount
	}
	return majorCount + minorCount/c.MinorEquivalence, nil
}
