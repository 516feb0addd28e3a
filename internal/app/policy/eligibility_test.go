package policy

import (
	"reflect"
	"testing"
	"time"

	"github.com/osahq/conduct/internal/app/models"
)

func violation(severity models.ViolationSeverity, status models.ViolationStatus, incidentAt time.Time) models.Violation {
	return models.Violation{
		Severity:   severity,
		Status:     status,
		IncidentAt: incidentAt,
	}
}

func TestEvaluateOutcomes(t *testing.T) {
	cfg := Default()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	dayAgo := func(days int) time.Time { return now.AddDate(0, 0, -days) }

	tests := []struct {
		name          string
		history       []models.Violation
		wantOutcome   Outcome
		wantEffective int
		wantClearsAt  bool
	}{
		{
			name:        "zero violations is eligible",
			history:     nil,
			wantOutcome: OutcomeEligible,
		},
		{
			name: "resolved major still disqualifies",
			history: []models.Violation{
				violation(models.SeverityMajor, models.ViolationResolved, dayAgo(400)),
			},
			wantOutcome:   OutcomeNotEligible,
			wantEffective: 1,
		},
		{
			name: "pending major disqualifies before the pending rule",
			history: []models.Violation{
				violation(models.SeverityMajor, models.ViolationReported, dayAgo(2)),
			},
			wantOutcome:   OutcomeNotEligible,
			wantEffective: 1,
		},
		{
			name: "dismissed major still disqualifies",
			history: []models.Violation{
				violation(models.SeverityMajor, models.ViolationDismissed, dayAgo(300)),
			},
			wantOutcome:   OutcomeNotEligible,
			wantEffective: 1,
		},
		{
			name: "three closed minors reach the threshold",
			history: []models.Violation{
				violation(models.SeverityMinor, models.ViolationResolved, dayAgo(30)),
				violation(models.SeverityMinor, models.ViolationResolved, dayAgo(20)),
				violation(models.SeverityMinor, models.ViolationResolved, dayAgo(10)),
			},
			wantOutcome:   OutcomeNotEligible,
			wantEffective: 3,
		},
		{
			name: "open minor case defers the decision",
			history: []models.Violation{
				violation(models.SeverityMinor, models.ViolationResolved, dayAgo(40)),
				violation(models.SeverityMinor, models.ViolationUnderReview, dayAgo(5)),
			},
			wantOutcome: OutcomePendingReview,
		},
		{
			name: "closed minors inside the window are conditional with a wait",
			history: []models.Violation{
				violation(models.SeverityMinor, models.ViolationResolved, dayAgo(50)),
				violation(models.SeverityMinor, models.ViolationResolved, dayAgo(60)),
			},
			wantOutcome:  OutcomeConditional,
			wantClearsAt: true,
		},
		{
			name: "closed minors past the window are conditional without a wait",
			history: []models.Violation{
				violation(models.SeverityMinor, models.ViolationResolved, dayAgo(200)),
				violation(models.SeverityMinor, models.ViolationDismissed, dayAgo(250)),
			},
			wantOutcome: OutcomeConditional,
		},
		{
			name: "single dismissed minor is conditional",
			history: []models.Violation{
				violation(models.SeverityMinor, models.ViolationDismissed, dayAgo(300)),
			},
			wantOutcome: OutcomeConditional,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cfg.Evaluate(tt.history, now)
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if got.Outcome != tt.wantOutcome {
				t.Fatalf("expected outcome %s, got %s", tt.wantOutcome, got.Outcome)
			}
			if got.EffectiveMajors != tt.wantEffective {
				t.Fatalf("expected effective score %d, got %d", tt.wantEffective, got.EffectiveMajors)
			}
			if tt.wantClearsAt && got.ClearsAt == nil {
				t.Fatalf("expected a clearance date while inside the window")
			}
			if !tt.wantClearsAt && got.ClearsAt != nil {
				t.Fatalf("expected no clearance date, got %v", got.ClearsAt)
			}
			if tt.wantClearsAt && len(got.Recommendations) == 0 {
				t.Fatalf("expected a wait recommendation while inside the window")
			}
			if got.Label == "" || got.Description == "" || len(got.Reasons) == 0 {
				t.Fatalf("expected label, description and reasons to be populated")
			}
		})
	}
}

func TestEvaluateClearanceWindowBoundary(t *testing.T) {
	cfg := Default()
	incident := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	history := []models.Violation{
		violation(models.SeverityMinor, models.ViolationResolved, incident),
	}
	clearsAt := incident.Add(cfg.ClearanceWindow)

	inside, err := cfg.Evaluate(history, clearsAt.Add(-time.Second))
	if err != nil {
		t.Fatalf("evaluate inside window: %v", err)
	}
	if inside.ClearsAt == nil || !inside.ClearsAt.Equal(clearsAt) {
		t.Fatalf("expected clearance date %v, got %v", clearsAt, inside.ClearsAt)
	}
	if len(inside.Recommendations) == 0 {
		t.Fatalf("expected a wait recommendation one second before the window lapses")
	}

	lapsed, err := cfg.Evaluate(history, clearsAt)
	if err != nil {
		t.Fatalf("evaluate at window boundary: %v", err)
	}
	if lapsed.ClearsAt != nil {
		t.Fatalf("expected no clearance date once the window has lapsed, got %v", lapsed.ClearsAt)
	}
	if len(lapsed.Recommendations) != 0 {
		t.Fatalf("expected no outstanding recommendation once the window has lapsed, got %v", lapsed.Recommendations)
	}
}

func TestEvaluateUsesLatestIncident(t *testing.T) {
	cfg := Default()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	old := now.AddDate(0, 0, -300)
	recent := now.AddDate(0, 0, -10)
	history := []models.Violation{
		violation(models.SeverityMinor, models.ViolationResolved, old),
		violation(models.SeverityMinor, models.ViolationResolved, recent),
	}

	got, err := cfg.Evaluate(history, now)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	want := recent.Add(cfg.ClearanceWindow)
	if got.ClearsAt == nil || !got.ClearsAt.Equal(want) {
		t.Fatalf("expected window anchored to latest incident %v, got %v", want, got.ClearsAt)
	}
}

func TestEvaluateUnknownSeverity(t *testing.T) {
	cfg := Default()
	history := []models.Violation{
		{Severity: "expulsion", Status: models.ViolationReported, IncidentAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
	}

	if _, err := cfg.Evaluate(history, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)); err == nil {
		t.Fatalf("expected error for unknown severity, got nil")
	}
}

func TestEvaluateMatchesCalculator(t *testing.T) {
	cfg := Default()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		majors int
		minors int
	}{
		{majors: 0, minors: 0},
		{majors: 1, minors: 8},
		{majors: 2, minors: 2},
		{majors: 0, minors: 7},
	}

	for _, tt := range tests {
		history := make([]models.Violation, 0, tt.majors+tt.minors)
		for i := 0; i < tt.majors; i++ {
			history = append(history, violation(models.SeverityMajor, models.ViolationResolved, now.AddDate(0, 0, -i-1)))
		}
		for i := 0; i < tt.minors; i++ {
			history = append(history, violation(models.SeverityMinor, models.ViolationResolved, now.AddDate(0, 0, -i-1)))
		}

		want, err := cfg.EffectiveMajors(tt.majors, tt.minors)
		if err != nil {
			t.Fatalf("effective majors: %v", err)
		}
		got, err := cfg.Evaluate(history, now)
		if err != nil {
			t.Fatalf("evaluate: %v", err)
		}
		if got.EffectiveMajors != want {
			t.Fatalf("calculator and evaluator disagree for %d majors and %d minors: %d vs %d", tt.majors, tt.minors, want, got.EffectiveMajors)
		}
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	cfg := Default()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	history := []models.Violation{
		violation(models.SeverityMinor, models.ViolationResolved, now.AddDate(0, 0, -50)),
		violation(models.SeverityMinor, models.ViolationResolved, now.AddDate(0, 0, -90)),
	}

	first, err := cfg.Evaluate(history, now)
	if err != nil {
		t.Fatalf("first evaluate: %v", err)
	}
	second, err := cfg.Evaluate(history, now)
	if err != nil {
		t.Fatalf("second evaluate: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results for identical history, got %+v and %+v", first, second)
	}
}
