package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/osahq/conduct/internal/app/models"
)

// MessageWriter persists one in-app message. Implemented by the message
// repository.
type MessageWriter interface {
	CreateMessage(ctx context.Context, message *models.Message) (int64, error)
}

// storeNotifier delivers notifications as in-app messages sent from the
// reserved system account.
type storeNotifier struct {
	writer   MessageWriter
	senderID int64
	logger   zerolog.Logger
}

// NewStoreNotifier creates a Notifier that writes messages to the store.
// senderID is the user ID of the system account all notifications come from.
func NewStoreNotifier(writer MessageWriter, senderID int64, logger zerolog.Logger) Notifier {
	return &storeNotifier{
		writer:   writer,
		senderID: senderID,
		logger:   logger,
	}
}

func (n *storeNotifier) Notify(ctx context.Context, recipient Recipient, subject, body string) error {
	if recipient.UserID == 0 {
		return fmt.Errorf("notify: recipient has no user ID")
	}

	message := &models.Message{
		SenderID:    n.senderID,
		RecipientID: recipient.UserID,
		Subject:     subject,
		Body:        body,
	}
	id, err := n.writer.CreateMessage(ctx, message)
	if err != nil {
		return fmt.Errorf("notify: store message: %w", err)
	}

	n.logger.Debug().
		Int64("message_id", id).
		Int64("recipient_id", recipient.UserID).
		Str("subject", subject).
		Msg("Notification stored as in-app message")
	return nil
}
