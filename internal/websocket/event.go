package websocket

import (
	"encoding/json"
	"time"
)

// EventType names a push event sent to chat subscribers
type EventType string

const (
	EventReceiveMessage EventType = "ReceiveMessage"
	EventMessageUpdated EventType = "MessageUpdated"
	EventMessageDeleted EventType = "MessageDeleted"
	EventUserTyping     EventType = "UserTyping"
)

// Event represents a message pushed to clients subscribed to a chat group.
// Format: { type, chatId, payload, timestamp }
type Event struct {
	Type      EventType   `json:"type"`
	ChatID    int32       `json:"chatId"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new event for a chat group
func NewEvent(eventType EventType, chatID int32, payload interface{}) Event {
	return Event{
		Type:      eventType,
		ChatID:    chatID,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ReceiveMessage creates a ReceiveMessage event carrying the full message
func ReceiveMessage(chatID int32, payload interface{}) Event {
	return NewEvent(EventReceiveMessage, chatID, payload)
}

// MessageUpdated creates a MessageUpdated event carrying the edited message
func MessageUpdated(chatID int32, payload interface{}) Event {
	return NewEvent(EventMessageUpdated, chatID, payload)
}

// MessageDeleted creates a MessageDeleted event carrying the deleted id
func MessageDeleted(chatID int32, messageID int32) Event {
	return NewEvent(EventMessageDeleted, chatID, map[string]int32{"id": messageID})
}

// UserTyping creates a UserTyping event for the given user
func UserTyping(chatID int32, userID string) Event {
	return NewEvent(EventUserTyping, chatID, map[string]string{"userId": userID})
}
