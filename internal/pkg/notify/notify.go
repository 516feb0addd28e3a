// Package notify defines the delivery boundary for engine notifications.
// The engine hands over a recipient, a subject and a body; what transport
// carries the notification is this package's concern alone. Delivery is best
// effort, callers log failures and never retry.
package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// Recipient identifies who a notification goes to.
type Recipient struct {
	UserID int64
	Name   string
	Email  string
}

// Notifier delivers one notification to one recipient.
type Notifier interface {
	Notify(ctx context.Context, recipient Recipient, subject, body string) error
}

// logNotifier writes notifications to the log only. Used when no message
// store is wired, so development setups still show what would be delivered.
type logNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a Notifier that records deliveries in the log.
func NewLogNotifier(logger zerolog.Logger) Notifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Notify(_ context.Context, recipient Recipient, subject, body string) error {
	n.logger.Info().
		Int64("recipient_id", recipient.UserID).
		Str("recipient", recipient.Name).
		Str("subject", subject).
		Int("body_length", len(body)).
		Msg("Notification logged without delivery")
	return nil
}
