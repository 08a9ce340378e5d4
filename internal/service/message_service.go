package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/orbitask/orbitask-backend/internal/domain"
	"github.com/orbitask/orbitask-backend/internal/websocket"
)

// MessageService handles message business logic and pushes realtime events
// to chat subscribers after the storage transaction commits.
type MessageService struct {
	messageRepo    domain.MessageRepository
	chatRepo       domain.ChatRepository
	eventPublisher websocket.EventPublisher
}

// NewMessageService creates a new MessageService
func NewMessageService(messageRepo domain.MessageRepository, chatRepo domain.ChatRepository) *MessageService {
	return &MessageService{
		messageRepo:    messageRepo,
		chatRepo:       chatRepo,
		eventPublisher: &websocket.NoOpPublisher{},
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *MessageService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", domain.ErrEmptyMessage
	}
	if len(content) > domain.MaxMessageLength {
		return "", domain.ErrMessageTooLong
	}
	return content, nil
}

// GetMessagesForChat retrieves a chat's messages; participants only
func (s *MessageService) GetMessagesForChat(chatID int32, callerID uuid.UUID) ([]*domain.Message, error) {
	if err := s.requireChatMember(chatID, callerID); err != nil {
		return nil, err
	}
	return s.messageRepo.GetAllByChat(chatID)
}

// CreateMessage sends a message. Membership is checked before any row is
// inserted; the ReceiveMessage event goes out only after the transaction
// commits.
func (s *MessageService) CreateMessage(chatID int32, callerID uuid.UUID, content string) (*domain.Message, error) {
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}
	if err := s.requireChatMember(chatID, callerID); err != nil {
		return nil, err
	}

	message, err := s.messageRepo.Create(&domain.Message{
		ChatID:  chatID,
		UserID:  callerID,
		Content: content,
	})
	if err != nil {
		return nil, err
	}

	s.eventPublisher.Publish(chatID, websocket.ReceiveMessage(chatID, message))
	return message, nil
}

// UpdateMessage edits a message's content; author only. Not even a chat
// admin may edit someone else's words.
func (s *MessageService) UpdateMessage(id int32, callerID uuid.UUID, content string) (*domain.Message, error) {
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}
	existing, err := s.messageRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != callerID {
		return nil, domain.ErrForbidden
	}

	updated, err := s.messageRepo.UpdateContent(id, content)
	if err != nil {
		return nil, err
	}

	s.eventPublisher.Publish(updated.ChatID, websocket.MessageUpdated(updated.ChatID, updated))
	return updated, nil
}

// DeleteMessage removes a message; the author may always delete their own,
// and a chat admin may delete any message in the chat.
func (s *MessageService) DeleteMessage(id int32, callerID uuid.UUID) error {
	message, err := s.messageRepo.GetByID(id)
	if err != nil {
		return err
	}

	if message.UserID != callerID {
		membership, err := s.chatRepo.GetMembership(message.ChatID, callerID)
		if err != nil {
			if errors.Is(err, domain.ErrNotChatMember) {
				return domain.ErrForbidden
			}
			return err
		}
		if membership.Role == nil || *membership.Role != domain.ChatRoleAdmin {
			return domain.ErrForbidden
		}
	}

	if err := s.messageRepo.Delete(id); err != nil {
		return err
	}

	s.eventPublisher.Publish(message.ChatID, websocket.MessageDeleted(message.ChatID, id))
	return nil
}

func (s *MessageService) requireChatMember(chatID int32, userID uuid.UUID) error {
	if _, err := s.chatRepo.GetByID(chatID); err != nil {
		return err
	}
	isMember, err := s.chatRepo.IsMember(chatID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return domain.ErrForbidden
	}
	return nil
}
