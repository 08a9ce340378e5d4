package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/orbitask/orbitask-backend/internal/domain"
	"github.com/orbitask/orbitask-backend/internal/testutil"
	"github.com/orbitask/orbitask-backend/internal/websocket"
)

// recordingPublisher captures published events for assertions
type recordingPublisher struct {
	Events []websocket.Event
}

func (p *recordingPublisher) Publish(chatID int32, event websocket.Event) {
	p.Events = append(p.Events, event)
}

type messageFixture struct {
	service   *MessageService
	chatRepo  *testutil.MockChatRepository
	publisher *recordingPublisher
	author    uuid.UUID
	other     uuid.UUID
	chatID    int32
}

// newMessageFixture builds a direct chat between two users
func newMessageFixture() *messageFixture {
	chatRepo := testutil.NewMockChatRepository()
	messageRepo := testutil.NewMockMessageRepository(chatRepo)
	publisher := &recordingPublisher{}

	author := uuid.New()
	other := uuid.New()
	chat, _ := chatRepo.CreateDirect(&domain.Chat{Type: domain.ChatTypeDirect, WorkbenchID: 1}, author, other)

	service := NewMessageService(messageRepo, chatRepo)
	service.SetEventPublisher(publisher)

	return &messageFixture{
		service:   service,
		chatRepo:  chatRepo,
		publisher: publisher,
		author:    author,
		other:     other,
		chatID:    chat.ID,
	}
}

func TestCreateMessage_PublishesReceiveMessage(t *testing.T) {
	f := newMessageFixture()

	message, err := f.service.CreateMessage(f.chatID, f.author, "hello there")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(f.publisher.Events) != 1 {
		t.Fatalf("Expected 1 published event, got %d", len(f.publisher.Events))
	}
	event := f.publisher.Events[0]
	if event.Type != websocket.EventReceiveMessage {
		t.Errorf("Expected ReceiveMessage event, got %s", event.Type)
	}
	if event.ChatID != f.chatID {
		t.Errorf("Expected chat %d, got %d", f.chatID, event.ChatID)
	}

	chat, _ := f.chatRepo.GetByID(f.chatID)
	if chat.LastMessageAt == nil || chat.LastMessageAt.Before(message.CreatedAt) {
		t.Error("Expected chat activity timestamp to advance")
	}
}

func TestCreateMessage_NonMemberForbidden(t *testing.T) {
	f := newMessageFixture()

	_, err := f.service.CreateMessage(f.chatID, uuid.New(), "hello")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden, got %v", err)
	}
	if len(f.publisher.Events) != 0 {
		t.Error("Expected no event for a rejected message")
	}
}

func TestCreateMessage_EmptyContentRejected(t *testing.T) {
	f := newMessageFixture()

	if _, err := f.service.CreateMessage(f.chatID, f.author, "   "); !errors.Is(err, domain.ErrEmptyMessage) {
		t.Fatalf("Expected ErrEmptyMessage, got %v", err)
	}
}

func TestCreateMessage_OversizedContentRejected(t *testing.T) {
	f := newMessageFixture()

	content := strings.Repeat("a", domain.MaxMessageLength+1)
	if _, err := f.service.CreateMessage(f.chatID, f.author, content); !errors.Is(err, domain.ErrMessageTooLong) {
		t.Fatalf("Expected ErrMessageTooLong, got %v", err)
	}
}

func TestUpdateMessage_AuthorOnly(t *testing.T) {
	f := newMessageFixture()
	message, _ := f.service.CreateMessage(f.chatID, f.author, "hello")

	if _, err := f.service.UpdateMessage(message.ID, f.other, "edited"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden for non-author, got %v", err)
	}

	updated, err := f.service.UpdateMessage(message.ID, f.author, "edited")
	if err != nil {
		t.Fatalf("Expected author edit to succeed, got %v", err)
	}
	if updated.Content != "edited" {
		t.Errorf("Expected edited content, got %q", updated.Content)
	}

	last := f.publisher.Events[len(f.publisher.Events)-1]
	if last.Type != websocket.EventMessageUpdated {
		t.Errorf("Expected MessageUpdated event, got %s", last.Type)
	}
}

func TestDeleteMessage_AuthorPublishesMessageDeleted(t *testing.T) {
	f := newMessageFixture()
	message, _ := f.service.CreateMessage(f.chatID, f.author, "hello")

	if err := f.service.DeleteMessage(message.ID, f.author); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	last := f.publisher.Events[len(f.publisher.Events)-1]
	if last.Type != websocket.EventMessageDeleted {
		t.Errorf("Expected MessageDeleted event, got %s", last.Type)
	}
}

func TestDeleteMessage_ChatAdminMayDelete(t *testing.T) {
	chatRepo := testutil.NewMockChatRepository()
	messageRepo := testutil.NewMockMessageRepository(chatRepo)

	admin := uuid.New()
	author := uuid.New()
	bystander := uuid.New()
	name := "Release planning"
	chat, _ := chatRepo.CreateGroup(&domain.Chat{Type: domain.ChatTypeGroup, WorkbenchID: 1, Name: &name}, admin, []uuid.UUID{author, bystander})

	service := NewMessageService(messageRepo, chatRepo)
	message, _ := service.CreateMessage(chat.ID, author, "hello")

	if err := service.DeleteMessage(message.ID, bystander); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden for plain member, got %v", err)
	}
	if err := service.DeleteMessage(message.ID, admin); err != nil {
		t.Fatalf("Expected chat admin delete to succeed, got %v", err)
	}
}
