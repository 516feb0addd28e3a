// Package events defines the domain events raised by the conduct engine and
// a synchronous in-process dispatcher for them. Dispatching an event is an
// explicit call site, not a storage hook, so the trigger points stay visible
// and testable.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/osahq/conduct/internal/app/models"
)

// ViolationRecorded is raised exactly once for every violation successfully
// persisted. Edits and status changes never raise it.
type ViolationRecorded struct {
	EventID    uuid.UUID
	Violation  *models.Violation
	RecordedAt time.Time
}

// NewViolationRecorded builds the event for a freshly persisted violation.
func NewViolationRecorded(violation *models.Violation, recordedAt time.Time) ViolationRecorded {
	return ViolationRecorded{
		EventID:    uuid.New(),
		Violation:  violation,
		RecordedAt: recordedAt,
	}
}

// ViolationSubscriber reacts to a recorded violation. Subscribers run
// synchronously on the recording goroutine.
type ViolationSubscriber interface {
	HandleViolationRecorded(ctx context.Context, event ViolationRecorded) error
}

// Dispatcher fans events out to subscribers in registration order. Subscriber
// failures are logged and swallowed, so the write that raised the event
// succeeds regardless of what its side effects do.
type Dispatcher struct {
	logger      zerolog.Logger
	subscribers []ViolationSubscriber
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{logger: logger}
}

// Subscribe registers a subscriber. Registration happens during bootstrap;
// the dispatcher is not safe for concurrent Subscribe and Dispatch.
func (d *Dispatcher) Subscribe(subscriber ViolationSubscriber) {
	d.subscribers = append(d.subscribers, subscriber)
}

// DispatchViolationRecorded delivers the event to every subscriber.
func (d *Dispatcher) DispatchViolationRecorded(ctx context.Context, event ViolationRecorded) {
	for _, subscriber := range d.subscribers {
		if err := subscriber.HandleViolationRecorded(ctx, event); err != nil {
			d.logger.Error().Err(err).
				Str("event_id", event.EventID.String()).
				Int64("violation_id", event.Violation.ID).
				Int64("student_id", event.Violation.StudentID).
				Msg("Violation subscriber failed")
		}
	}
}
