package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	// writeWait is time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// pongWait is time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// pingPeriod is the interval for sending pings (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize is maximum message size allowed from peer
	maxMessageSize = 512
)

// Command actions a client may send over the socket
const (
	ActionJoinChat  = "joinChat"
	ActionLeaveChat = "leaveChat"
	ActionTyping    = "typing"
)

// Command is an inbound client frame
type Command struct {
	Action string `json:"action"`
	ChatID int32  `json:"chatId"`
}

// ChatAuthorizer verifies chat membership before a session may join a chat
// group. Joining is the only gate: once a connection is in the group, group
// membership is the capability.
type ChatAuthorizer interface {
	CanAccessChat(chatID int32, userID uuid.UUID) error
}

// Client represents a single WebSocket connection
type Client struct {
	id         string
	userID     uuid.UUID
	conn       *websocket.Conn
	hub        *Hub
	authorizer ChatAuthorizer
	send       chan []byte
	closed     bool
	mu         sync.RWMutex
	closeOnce  sync.Once
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, userID uuid.UUID, hub *Hub, authorizer ChatAuthorizer) *Client {
	return &Client{
		id:         uuid.New().String(),
		userID:     userID,
		conn:       conn,
		hub:        hub,
		authorizer: authorizer,
		send:       make(chan []byte, 256),
	}
}

// ID returns the client's unique identifier
func (c *Client) ID() string {
	return c.id
}

// UserID returns the authenticated user id behind this connection
func (c *Client) UserID() string {
	return c.userID.String()
}

// Send queues a message to be sent to the client
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}

	select {
	case c.send <- data:
		return nil
	default:
		// Buffer is full, client is too slow
		return ErrClientClosed
	}
}

// Close closes the client connection
// Safe to call multiple times from different goroutines
func (c *Client) Close() error {
	var closeErr error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()

		closeErr = c.conn.Close()
	})
	return closeErr
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// ReadPump pumps commands from the WebSocket connection
// This should be run in a goroutine
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().
					Err(err).
					Str("client_id", c.id).
					Str("user_id", c.userID.String()).
					Msg("WebSocket unexpected close")
			}
			break
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			log.Debug().
				Err(err).
				Str("client_id", c.id).
				Msg("Malformed WebSocket command")
			continue
		}
		c.handleCommand(cmd)
	}
}

// handleCommand dispatches an inbound client command. Joining re-verifies
// chat membership; a connection never enters a group it is not authorized
// for.
func (c *Client) handleCommand(cmd Command) {
	switch cmd.Action {
	case ActionJoinChat:
		if err := c.authorizer.CanAccessChat(cmd.ChatID, c.userID); err != nil {
			log.Warn().
				Err(err).
				Int32("chat_id", cmd.ChatID).
				Str("user_id", c.userID.String()).
				Msg("WebSocket join rejected")
			return
		}
		c.hub.JoinGroup(cmd.ChatID, c)

	case ActionLeaveChat:
		c.hub.LeaveGroup(cmd.ChatID, c)

	case ActionTyping:
		// Relay only for chats this connection already joined.
		if !c.hub.InGroup(cmd.ChatID, c.id) {
			return
		}
		c.hub.BroadcastExcept(cmd.ChatID, c.id, UserTyping(cmd.ChatID, c.userID.String()))

	default:
		log.Debug().
			Str("action", cmd.Action).
			Str("client_id", c.id).
			Msg("Unknown WebSocket command")
	}
}

// WritePump pumps messages from the hub to the WebSocket connection
// This should be run in a goroutine
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Channel closed, hub closed this client
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn().
					Err(err).
					Str("client_id", c.id).
					Str("user_id", c.userID.String()).
					Msg("WebSocket write error")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
