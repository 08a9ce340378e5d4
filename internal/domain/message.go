package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is a chat message. The author is immutable; only the content may
// change, and only by the author.
type Message struct {
	ID        int32     `json:"id"`
	ChatID    int32     `json:"chatId"`
	UserID    uuid.UUID `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// MessageRepository defines the interface for message persistence. Create
// inserts the message and bumps the chat's last_message_at in one
// transaction.
type MessageRepository interface {
	GetByID(id int32) (*Message, error)
	GetAllByChat(chatID int32) ([]*Message, error)
	Create(message *Message) (*Message, error)
	UpdateContent(id int32, content string) (*Message, error)
	Delete(id int32) error
}
