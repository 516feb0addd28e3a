package services

import (
	"context"
	"errors"
	"testing"

	"github.com/osahq/conduct/internal/app/models"
	"github.com/osahq/conduct/internal/app/models/dto"
	"github.com/osahq/conduct/internal/pkg/apperrors"
)

func TestCreateViolationTypeStartsActive(t *testing.T) {
	env := newTestEnv()

	resp, err := env.types.CreateViolationType(context.Background(), &dto.CreateViolationTypeRequest{
		Code:            "MAJ-01",
		Name:            "Cheating during examination",
		Category:        "Academic Dishonesty",
		DefaultSeverity: "major",
		Penalty:         "Suspension and grade of 5.0 in the subject",
	})
	if err != nil {
		t.Fatalf("CreateViolationType failed: %v", err)
	}
	if !resp.IsActive {
		t.Fatalf("expected new catalog entries to start active")
	}
	if resp.DefaultSeverity != string(models.SeverityMajor) {
		t.Fatalf("expected major default severity, got %s", resp.DefaultSeverity)
	}

	_, err = env.types.CreateViolationType(context.Background(), &dto.CreateViolationTypeRequest{
		Code:            "MAJ-01",
		Name:            "Duplicate",
		Category:        "Academic Dishonesty",
		DefaultSeverity: "major",
	})
	if !errors.Is(err, apperrors.ErrViolationTypeCodeExists) {
		t.Fatalf("expected a duplicate code to fail, got %v", err)
	}
}

func TestListViolationTypesActiveOnly(t *testing.T) {
	env := newTestEnv()
	env.store.addViolationType("MIN-01", models.SeverityMinor, true)
	env.store.addViolationType("MIN-02", models.SeverityMinor, false)

	all, err := env.types.GetAllViolationTypes(context.Background(), false)
	if err != nil {
		t.Fatalf("listing all types failed: %v", err)
	}
	if len(all.ViolationTypes) != 2 {
		t.Fatalf("expected both entries, got %d", len(all.ViolationTypes))
	}

	active, err := env.types.GetAllViolationTypes(context.Background(), true)
	if err != nil {
		t.Fatalf("listing active types failed: %v", err)
	}
	if len(active.ViolationTypes) != 1 || active.ViolationTypes[0].Code != "MIN-01" {
		t.Fatalf("expected only the active entry, got %+v", active.ViolationTypes)
	}
}

// Retiring a catalog entry keeps recorded violations intact but blocks new
// reports from referencing it.
func TestDeactivatedTypeRejectsNewReports(t *testing.T) {
	env := newTestEnv()
	student := env.store.addStudent("2021-00154")
	entry := env.store.addViolationType("MIN-01", models.SeverityMinor, true)

	first, err := env.violations.CreateViolation(context.Background(), &dto.CreateViolationRequest{
		StudentID:       student.ID,
		ViolationTypeID: &entry.ID,
		Description:     "Improper uniform at the gate",
	})
	if err != nil {
		t.Fatalf("CreateViolation failed: %v", err)
	}

	inactive := false
	resp, err := env.types.UpdateViolationType(context.Background(), entry.ID, &dto.UpdateViolationTypeRequest{
		Name:            entry.Name,
		Category:        entry.Category,
		DefaultSeverity: string(entry.DefaultSeverity),
		IsActive:        &inactive,
	})
	if err != nil {
		t.Fatalf("UpdateViolationType failed: %v", err)
	}
	if resp.IsActive {
		t.Fatalf("expected the entry deactivated")
	}

	_, err = env.violations.CreateViolation(context.Background(), &dto.CreateViolationRequest{
		StudentID:       student.ID,
		ViolationTypeID: &entry.ID,
		Description:     "Improper uniform at the gate",
	})
	if !errors.Is(err, apperrors.ErrViolationTypeInactive) {
		t.Fatalf("expected new reports against the retired entry to fail, got %v", err)
	}

	if got := env.store.violations[first.ID]; got == nil {
		t.Fatalf("expected the earlier violation to survive the deactivation")
	}
}
