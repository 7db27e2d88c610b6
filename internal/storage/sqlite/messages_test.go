package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/sandevgo/briefbot/internal/core"
)

func TestMessagesRepo_RoundTrip(t *testing.T) {
	repo := NewMessagesRepo(newTestDB(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		msg := core.Message{Role: core.RoleUser, Content: fmt.Sprintf("message %d", i)}
		if err := repo.AddMessage(ctx, "telegram-42", msg); err != nil {
			t.Fatalf("AddMessage() error = %v", err)
		}
	}

	messages, err := repo.GetMessages(ctx, "telegram-42", 2)
	if err != nil {
		t.Fatalf("GetMessages() error = %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
	// Limit keeps the newest rows, returned oldest first.
	if messages[0].Content != "message 1" || messages[1].Content != "message 2" {
		t.Errorf("order = %q, %q", messages[0].Content, messages[1].Content)
	}
}

func TestMessagesRepo_SessionsIsolated(t *testing.T) {
	repo := NewMessagesRepo(newTestDB(t))
	ctx := context.Background()

	if err := repo.AddMessage(ctx, "telegram-1", core.Message{Role: core.RoleUser, Content: "a"}); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}
	if err := repo.AddMessage(ctx, "telegram-2", core.Message{Role: core.RoleUser, Content: "b"}); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}

	messages, err := repo.GetMessages(ctx, "telegram-1", 10)
	if err != nil {
		t.Fatalf("GetMessages() error = %v", err)
	}
	if len(messages) != 1 || messages[0].Content != "a" {
		t.Errorf("messages = %+v, want only session telegram-1 rows", messages)
	}
}
