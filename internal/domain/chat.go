package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatType distinguishes two-person direct chats from group chats.
type ChatType string

const (
	ChatTypeDirect ChatType = "direct"
	ChatTypeGroup  ChatType = "group"
)

// ChatRole is a chat-level role, distinct from the workbench role. Direct
// chat members carry no role.
type ChatRole string

const (
	ChatRoleAdmin  ChatRole = "admin"
	ChatRoleMember ChatRole = "member"
)

// Chat is a conversation inside a workbench.
type Chat struct {
	ID            int32      `json:"id"`
	Type          ChatType   `json:"type"`
	WorkbenchID   int32      `json:"workbenchId"`
	Name          *string    `json:"name,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	LastMessageAt *time.Time `json:"lastMessageAt,omitempty"`
}

// ChatUser is a chat membership row. Role is nil for direct chats.
type ChatUser struct {
	ChatID   int32     `json:"chatId"`
	UserID   uuid.UUID `json:"userId"`
	Role     *ChatRole `json:"role,omitempty"`
	JoinedAt time.Time `json:"joinedAt"`
}

// ChatRepository defines the interface for chat persistence. CreateDirect and
// CreateGroup insert the chat and all its member rows in one transaction;
// Delete cascades messages and member rows.
type ChatRepository interface {
	GetByID(id int32) (*Chat, error)
	GetAllForUser(workbenchID int32, userID uuid.UUID) ([]*Chat, error)
	CreateDirect(chat *Chat, userA, userB uuid.UUID) (*Chat, error)
	CreateGroup(chat *Chat, creator uuid.UUID, memberIDs []uuid.UUID) (*Chat, error)
	UpdateName(id int32, name string) (*Chat, error)
	Delete(id int32) error

	GetMembership(chatID int32, userID uuid.UUID) (*ChatUser, error)
	ListMembers(chatID int32) ([]*ChatUser, error)
	IsMember(chatID int32, userID uuid.UUID) (bool, error)
}
