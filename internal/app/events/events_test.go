package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/osahq/conduct/internal/app/models"
)

type recordingSubscriber struct {
	calls []ViolationRecorded
	err   error
}

func (s *recordingSubscriber) HandleViolationRecorded(_ context.Context, event ViolationRecorded) error {
	s.calls = append(s.calls, event)
	return s.err
}

func TestDispatcherDeliversInRegistrationOrder(t *testing.T) {
	dispatcher := NewDispatcher(zerolog.Nop())

	var order []string
	first := subscriberFunc(func(context.Context, ViolationRecorded) error {
		order = append(order, "first")
		return nil
	})
	second := subscriberFunc(func(context.Context, ViolationRecorded) error {
		order = append(order, "second")
		return nil
	})
	dispatcher.Subscribe(first)
	dispatcher.Subscribe(second)

	event := NewViolationRecorded(&models.Violation{ID: 7, StudentID: 3}, time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))
	dispatcher.DispatchViolationRecorded(context.Background(), event)

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("expected delivery in registration order, got %v", order)
	}
}

func TestDispatcherSwallowsSubscriberErrors(t *testing.T) {
	dispatcher := NewDispatcher(zerolog.Nop())

	failing := &recordingSubscriber{err: errors.New("boom")}
	healthy := &recordingSubscriber{}
	dispatcher.Subscribe(failing)
	dispatcher.Subscribe(healthy)

	event := NewViolationRecorded(&models.Violation{ID: 1, StudentID: 2}, time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))
	dispatcher.DispatchViolationRecorded(context.Background(), event)

	if len(failing.calls) != 1 {
		t.Fatalf("expected failing subscriber to be called once, got %d", len(failing.calls))
	}
	if len(healthy.calls) != 1 {
		t.Fatalf("expected delivery to continue past a failing subscriber, got %d calls", len(healthy.calls))
	}
}

func TestNewViolationRecordedAssignsUniqueIDs(t *testing.T) {
	violation := &models.Violation{ID: 1, StudentID: 2}
	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	first := NewViolationRecorded(violation, at)
	second := NewViolationRecorded(violation, at)

	if first.EventID == second.EventID {
		t.Fatalf("expected distinct event IDs, both were %s", first.EventID)
	}
	if !first.RecordedAt.Equal(at) {
		t.Fatalf("expected recorded time %v, got %v", at, first.RecordedAt)
	}
}

// subscriberFunc adapts a function to the ViolationSubscriber interface.
type subscriberFunc func(ctx context.Context, event ViolationRecorded) error

func (f subscriberFunc) HandleViolationRecorded(ctx context.Context, event ViolationRecorded) error {
	return f(ctx, event)
}
