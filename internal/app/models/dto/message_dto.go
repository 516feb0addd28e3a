package dto

import (
	"time"

	"github.com/osahq/conduct/internal/app/models"
)

// MessageResponse represents an in-app notification message
type MessageResponse struct {
	ID          int64      `json:"id"`
	SenderID    int64      `json:"senderId"`
	SenderName  string     `json:"senderName,omitempty"`
	RecipientID int64      `json:"recipientId"`
	Subject     string     `json:"subject"`
	Body        string     `json:"body"`
	Read        bool       `json:"read"`
	ReadAt      *time.Time `json:"readAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// MessageListResponse represents a paginated inbox listing
type MessageListResponse struct {
	Messages   []MessageResponse `json:"messages"`
	Unread     int64             `json:"unread"`
	Pagination PaginationInfo    `json:"pagination"`
}

// FromMessage converts a models.Message to a MessageResponse
func FromMessage(message *models.Message) MessageResponse {
	if message == nil {
		return MessageResponse{}
	}

	resp := MessageResponse{
		ID:          message.ID,
		SenderID:    message.SenderID,
		RecipientID: message.RecipientID,
		Subject:     message.Subject,
		Body:        message.Body,
		Read:        message.Read(),
		ReadAt:      message.ReadAt,
		CreatedAt:   message.CreatedAt,
	}

	if message.Sender != nil {
		resp.SenderName = message.Sender.FullName()
	}

	return resp
}
