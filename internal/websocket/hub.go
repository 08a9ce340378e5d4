package websocket

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrClientClosed is returned when attempting to send to a closed client
var ErrClientClosed = errors.New("client is closed")

// ClientInterface defines the interface that clients must implement
type ClientInterface interface {
	ID() string
	UserID() string
	Send(data []byte) error
	Close() error
}

// Hub manages WebSocket connections organized into chat groups. Group
// membership is the capability: a client receives events for a chat only
// after it has explicitly joined that chat's group. It is safe for
// concurrent use.
type Hub struct {
	// clients maps client ID to client for every open connection
	clients map[string]ClientInterface
	// groups maps chat ID to the set of subscribed client IDs
	groups map[int32]map[string]ClientInterface
	mu     sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]ClientInterface),
		groups:  make(map[int32]map[string]ClientInterface),
	}
}

// Register adds a connected client to the hub. The client belongs to no
// groups until it joins one.
func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID()] = client

	log.Debug().
		Str("client_id", client.ID()).
		Str("user_id", client.UserID()).
		Msg("WebSocket client registered")
}

// Unregister removes a client from the hub and from every group it joined
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clientID := client.ID()
	if _, ok := h.clients[clientID]; !ok {
		return
	}
	delete(h.clients, clientID)

	for chatID, members := range h.groups {
		if _, ok := members[clientID]; ok {
			delete(members, clientID)
			if len(members) == 0 {
				delete(h.groups, chatID)
			}
		}
	}

	log.Debug().
		Str("client_id", clientID).
		Msg("WebSocket client unregistered")
}

// JoinGroup subscribes a client to a chat group. Joining twice is a no-op.
func (h *Hub) JoinGroup(chatID int32, client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.groups[chatID] == nil {
		h.groups[chatID] = make(map[string]ClientInterface)
	}
	h.groups[chatID][client.ID()] = client

	log.Debug().
		Int32("chat_id", chatID).
		Str("client_id", client.ID()).
		Msg("WebSocket client joined chat group")
}

// LeaveGroup unsubscribes a client from a chat group
func (h *Hub) LeaveGroup(chatID int32, client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.groups[chatID]; ok {
		delete(members, client.ID())
		if len(members) == 0 {
			delete(h.groups, chatID)
		}
	}
}

// InGroup reports whether a client is subscribed to a chat group
func (h *Hub) InGroup(chatID int32, clientID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members, ok := h.groups[chatID]
	if !ok {
		return false
	}
	_, ok = members[clientID]
	return ok
}

// Broadcast sends an event to every client subscribed to the chat group
func (h *Hub) Broadcast(chatID int32, event Event) {
	h.broadcast(chatID, event, "")
}

// BroadcastExcept sends an event to every group member other than the sender
func (h *Hub) BroadcastExcept(chatID int32, exceptClientID string, event Event) {
	h.broadcast(chatID, event, exceptClientID)
}

func (h *Hub) broadcast(chatID int32, event Event, exceptClientID string) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().
			Err(err).
			Int32("chat_id", chatID).
			Str("event_type", string(event.Type)).
			Msg("Failed to serialize event")
		return
	}

	h.mu.RLock()
	members, ok := h.groups[chatID]
	if !ok || len(members) == 0 {
		h.mu.RUnlock()
		return
	}

	// Copy members to avoid holding lock during send
	targets := make([]ClientInterface, 0, len(members))
	for id, client := range members {
		if id == exceptClientID {
			continue
		}
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	for _, client := range targets {
		go func(c ClientInterface) {
			if err := c.Send(data); err != nil {
				log.Warn().
					Err(err).
					Int32("chat_id", chatID).
					Str("client_id", c.ID()).
					Msg("Failed to send to client")
			}
		}(client)
	}

	log.Debug().
		Int32("chat_id", chatID).
		Str("event_type", string(event.Type)).
		Int("client_count", len(targets)).
		Msg("Broadcast event")
}

// GroupCount returns the number of clients subscribed to a chat group
func (h *Hub) GroupCount(chatID int32) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.groups[chatID])
}

// TotalClientCount returns the total number of connected clients
func (h *Hub) TotalClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}
