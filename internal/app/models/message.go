package models

import "time"

// Message defines an in-app notification based on the 'messages' table.
// System notifications are sent from the reserved system account.
type Message struct {
	ID          int64      `json:"id" db:"id" example:"1"`                       // Unique identifier for the message
	SenderID    int64      `json:"senderId" db:"sender_id" example:"1"`          // User ID of the sender
	RecipientID int64      `json:"recipientId" db:"recipient_id" example:"5"`    // User ID of the recipient
	Subject     string     `json:"subject" db:"subject" example:"Meeting Notice"`// Message subject line
	Body        string     `json:"body" db:"body"`                               // Message body
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`                    // When the message was sent
	ReadAt      *time.Time `json:"readAt,omitempty" db:"read_at"`                // When the recipient read it, nil if unread

	// Relations (populated when needed)
	Sender *User `json:"sender,omitempty"` // Sending user account
}

// Read reports whether the recipient has opened the message.
func (m *Message) Read() bool {
	return m.ReadAt != nil
}
