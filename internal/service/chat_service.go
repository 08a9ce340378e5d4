package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/orbitask/orbitask-backend/internal/domain"
)

// ChatService handles chat business logic. Chats hang directly off the
// workbench; chat-level roles are independent of workbench roles.
type ChatService struct {
	chatRepo domain.ChatRepository
	access   *AccessService
}

// NewChatService creates a new ChatService
func NewChatService(chatRepo domain.ChatRepository, access *AccessService) *ChatService {
	return &ChatService{chatRepo: chatRepo, access: access}
}

// GetChat retrieves a chat the caller participates in
func (s *ChatService) GetChat(id int32, callerID uuid.UUID) (*domain.Chat, error) {
	chat, err := s.chatRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.Require(chat.WorkbenchID, callerID, domain.RoleMember); err != nil {
		return nil, err
	}
	isMember, err := s.chatRepo.IsMember(id, callerID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, domain.ErrForbidden
	}
	return chat, nil
}

// GetChatsForUser retrieves the caller's chats in a workbench
func (s *ChatService) GetChatsForUser(workbenchID int32, callerID uuid.UUID) ([]*domain.Chat, error) {
	if _, err := s.access.Require(workbenchID, callerID, domain.RoleMember); err != nil {
		return nil, err
	}
	return s.chatRepo.GetAllForUser(workbenchID, callerID)
}

// CreateDirectChat creates a two-person chat between the caller and another
// workbench member. Both members are inserted rolelessly with the chat in one
// transaction.
func (s *ChatService) CreateDirectChat(workbenchID int32, callerID, otherID uuid.UUID) (*domain.Chat, error) {
	if callerID == otherID {
		return nil, domain.ErrDirectChatMemberCount
	}
	if _, err := s.access.Require(workbenchID, callerID, domain.RoleMember); err != nil {
		return nil, err
	}
	if _, err := s.access.Require(workbenchID, otherID, domain.RoleMember); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}

	return s.chatRepo.CreateDirect(&domain.Chat{
		Type:        domain.ChatTypeDirect,
		WorkbenchID: workbenchID,
	}, callerID, otherID)
}

// CreateGroupChat creates a group chat. The caller becomes chat admin, the
// other members chat members; every participant must belong to the
// workbench. All rows are inserted in one transaction.
func (s *ChatService) CreateGroupChat(workbenchID int32, callerID uuid.UUID, name string, memberIDs []uuid.UUID) (*domain.Chat, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if _, err := s.access.Require(workbenchID, callerID, domain.RoleMember); err != nil {
		return nil, err
	}
	for _, memberID := range memberIDs {
		if _, err := s.access.Require(workbenchID, memberID, domain.RoleMember); err != nil {
			if errors.Is(err, domain.ErrForbidden) {
				return nil, domain.ErrMemberNotFound
			}
			return nil, err
		}
	}

	return s.chatRepo.CreateGroup(&domain.Chat{
		Type:        domain.ChatTypeGroup,
		WorkbenchID: workbenchID,
		Name:        &name,
	}, callerID, memberIDs)
}

// UpdateChat renames a group chat; chat admins only. Direct chats cannot be
// renamed.
func (s *ChatService) UpdateChat(id int32, callerID uuid.UUID, name string) (*domain.Chat, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	chat, err := s.chatRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if chat.Type == domain.ChatTypeDirect {
		return nil, domain.ErrDirectChatImmutable
	}
	if err := s.requireChatAdmin(id, callerID); err != nil {
		return nil, err
	}
	return s.chatRepo.UpdateName(id, name)
}

// DeleteChat removes a chat with its messages. Group chats require a chat
// admin; either participant may delete a direct chat.
func (s *ChatService) DeleteChat(id int32, callerID uuid.UUID) error {
	chat, err := s.chatRepo.GetByID(id)
	if err != nil {
		return err
	}

	if chat.Type == domain.ChatTypeGroup {
		if err := s.requireChatAdmin(id, callerID); err != nil {
			return err
		}
	} else {
		isMember, err := s.chatRepo.IsMember(id, callerID)
		if err != nil {
			return err
		}
		if !isMember {
			return domain.ErrForbidden
		}
	}

	return s.chatRepo.Delete(id)
}

// GetChatMembers retrieves a chat's member rows; participants only
func (s *ChatService) GetChatMembers(chatID int32, callerID uuid.UUID) ([]*domain.ChatUser, error) {
	if _, err := s.chatRepo.GetByID(chatID); err != nil {
		return nil, err
	}
	isMember, err := s.chatRepo.IsMember(chatID, callerID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, domain.ErrForbidden
	}
	return s.chatRepo.ListMembers(chatID)
}

// CanAccessChat verifies chat membership for realtime group joins. The
// websocket layer calls this before adding a connection to a chat group.
func (s *ChatService) CanAccessChat(chatID int32, userID uuid.UUID) error {
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

func (s *ChatService) requireChatAdmin(chatID int32, userID uuid.UUID) error {
	membership, err := s.chatRepo.GetMembership(chatID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotChatMember) {
			return domain.ErrForbidden
		}
		return err
	}
	if membership.Role == nil || *membership.Role != domain.ChatRoleAdmin {
		return domain.ErrForbidden
	}
	return nil
}
