package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/osahq/conduct/internal/app/models/dto"
	"github.com/osahq/conduct/internal/app/repositories"
)

// MessageService defines the interface for the in-app notification inbox
type MessageService interface {
	GetInbox(ctx context.Context, recipientID int64, page, size int) (*dto.MessageListResponse, error)
	MarkMessageRead(ctx context.Context, id int64) (*dto.MessageResponse, error)
}

// messageServiceImpl implements MessageService
type messageServiceImpl struct {
	messageStore MessageStore
	userStore    UserStore
	logger       zerolog.Logger
	now          func() time.Time
}

// NewMessageService creates a new MessageService
func NewMessageService(messageStore MessageStore, userStore UserStore, logger zerolog.Logger, now func() time.Time) MessageService {
	if now == nil {
		now = time.Now
	}
	return &messageServiceImpl{
		messageStore: messageStore,
		userStore:    userStore,
		logger:       logger,
		now:          now,
	}
}

// GetInbox retrieves a user's messages, newest first, with the unread count
func (s *messageServiceImpl) GetInbox(ctx context.Context, recipientID int64, page, size int) (*dto.MessageListResponse, error) {
	if _, err := s.userStore.GetUserByID(ctx, recipientID); err != nil {
		return nil, fmt.Errorf("error getting recipient: %w", err)
	}

	messages, pagination, err := s.messageStore.ListMessagesByRecipient(ctx, repositories.ListMessagesParams{
		RecipientID: recipientID,
		Page:        page,
		Size:        size,
	})
	if err != nil {
		return nil, fmt.Errorf("error listing messages: %w", err)
	}

	unread, err := s.messageStore.CountUnread(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("error counting unread messages: %w", err)
	}

	responses := make([]dto.MessageResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, dto.FromMessage(message))
	}

	return &dto.MessageListResponse{Messages: responses, Unread: unread, Pagination: pagination}, nil
}

// MarkMessageRead stamps a message as read. Re-reading keeps the original
// read time.
func (s *messageServiceImpl) MarkMessageRead(ctx context.Context, id int64) (*dto.MessageResponse, error) {
	message, err := s.messageStore.GetMessageByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting message: %w", err)
	}

	if !message.Read() {
		at := s.now()
		if err := s.messageStore.MarkMessageRead(ctx, id, at); err != nil {
			return nil, fmt.Errorf("error marking message read: %w", err)
		}
		message.ReadAt = &at
	}

	resp := dto.FromMessage(message)
	return &resp, nil
}
