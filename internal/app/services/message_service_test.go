package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/osahq/conduct/internal/app/models"
	"github.com/osahq/conduct/internal/pkg/apperrors"
)

func TestGetInboxNewestFirstWithUnreadCount(t *testing.T) {
	env := newTestEnv()
	recipient := env.store.addUser(models.RoleStaff, "Sam", "Staff")
	sender := env.store.addUser(models.RoleCoordinator, "Fiona", "Coordinator")

	opened := env.store.addMessage(sender.ID, recipient.ID, "Report review")
	readAt := env.store.now.Add(-time.Hour)
	opened.ReadAt = &readAt
	latest := env.store.addMessage(sender.ID, recipient.ID, "Re: Report review")
	env.store.addMessage(recipient.ID, sender.ID, "Elsewhere")

	resp, err := env.messages.GetInbox(context.Background(), recipient.ID, 1, 20)
	if err != nil {
		t.Fatalf("GetInbox failed: %v", err)
	}

	if len(resp.Messages) != 2 {
		t.Fatalf("expected two inbox messages, got %d", len(resp.Messages))
	}
	if resp.Messages[0].ID != latest.ID {
		t.Fatalf("expected the newest message first, got %d", resp.Messages[0].ID)
	}
	if resp.Unread != 1 {
		t.Fatalf("expected one unread message, got %d", resp.Unread)
	}
	if resp.Messages[1].ID != opened.ID || !resp.Messages[1].Read {
		t.Fatalf("expected the opened message marked read, got %+v", resp.Messages[1])
	}
}

func TestGetInboxUnknownRecipient(t *testing.T) {
	env := newTestEnv()

	_, err := env.messages.GetInbox(context.Background(), 42, 1, 20)
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestMarkMessageReadKeepsFirstReadTime(t *testing.T) {
	env := newTestEnv()
	recipient := env.store.addUser(models.RoleStaff, "Sam", "Staff")
	sender := env.store.addUser(models.RoleCoordinator, "Fiona", "Coordinator")
	message := env.store.addMessage(sender.ID, recipient.ID, "Report review")

	firstRead := env.store.now
	resp, err := env.messages.MarkMessageRead(context.Background(), message.ID)
	if err != nil {
		t.Fatalf("MarkMessageRead failed: %v", err)
	}
	if !resp.Read || resp.ReadAt == nil || !resp.ReadAt.Equal(firstRead) {
		t.Fatalf("expected the message read at %v, got %+v", firstRead, resp)
	}

	// Opening it again later keeps the original read time.
	env.store.now = env.store.now.Add(time.Hour)
	resp, err = env.messages.MarkMessageRead(context.Background(), message.ID)
	if err != nil {
		t.Fatalf("re-reading failed: %v", err)
	}
	if resp.ReadAt == nil || !resp.ReadAt.Equal(firstRead) {
		t.Fatalf("expected the original read time %v, got %v", firstRead, resp.ReadAt)
	}
}

func TestMarkMessageReadUnknown(t *testing.T) {
	env := newTestEnv()

	_, err := env.messages.MarkMessageRead(context.Background(), 42)
	if !errors.Is(err, apperrors.ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}
}
