package websocket

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient is a test double for Client that captures sent messages
type mockClient struct {
	id       string
	userID   string
	messages [][]byte
	mu       sync.Mutex
	closed   bool
}

func newMockClient(id, userID string) *mockClient {
	return &mockClient{
		id:       id,
		userID:   userID,
		messages: make([][]byte, 0),
	}
}

func (m *mockClient) ID() string {
	return m.id
}

func (m *mockClient) UserID() string {
	return m.userID
}

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClientClosed
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]byte, len(m.messages))
	copy(copied, m.messages)
	return copied
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	client1 := newMockClient("client-1", "user-1")
	client2 := newMockClient("client-2", "user-2")

	hub.Register(client1)
	hub.Register(client2)
	assert.Equal(t, 2, hub.TotalClientCount())

	hub.Unregister(client1)
	assert.Equal(t, 1, hub.TotalClientCount())

	hub.Unregister(client2)
	assert.Equal(t, 0, hub.TotalClientCount())
}

func TestHub_JoinLeaveGroup(t *testing.T) {
	hub := NewHub()

	client := newMockClient("client-1", "user-1")
	hub.Register(client)

	assert.False(t, hub.InGroup(1, client.ID()))

	hub.JoinGroup(1, client)
	assert.True(t, hub.InGroup(1, client.ID()))
	assert.Equal(t, 1, hub.GroupCount(1))

	hub.LeaveGroup(1, client)
	assert.False(t, hub.InGroup(1, client.ID()))
	assert.Equal(t, 0, hub.GroupCount(1))
}

func TestHub_Broadcast_GroupIsolation(t *testing.T) {
	hub := NewHub()

	// Two clients subscribed to chat 1
	client1a := newMockClient("client-1a", "user-a")
	client1b := newMockClient("client-1b", "user-b")

	// A client subscribed to chat 2
	client2 := newMockClient("client-2", "user-c")

	hub.Register(client1a)
	hub.Register(client1b)
	hub.Register(client2)
	hub.JoinGroup(1, client1a)
	hub.JoinGroup(1, client1b)
	hub.JoinGroup(2, client2)

	evt := MessageDeleted(1, 42)
	hub.Broadcast(1, evt)

	// Give goroutines time to process
	time.Sleep(10 * time.Millisecond)

	assert.Len(t, client1a.GetMessages(), 1, "client1a should receive 1 message")
	assert.Len(t, client1b.GetMessages(), 1, "client1b should receive 1 message")
	assert.Len(t, client2.GetMessages(), 0, "client2 should not receive chat 1 events")
}

func TestHub_Broadcast_RegisteredButNotJoined(t *testing.T) {
	hub := NewHub()

	joined := newMockClient("client-1", "user-a")
	bystander := newMockClient("client-2", "user-b")

	hub.Register(joined)
	hub.Register(bystander)
	hub.JoinGroup(1, joined)

	hub.Broadcast(1, MessageDeleted(1, 7))
	time.Sleep(10 * time.Millisecond)

	assert.Len(t, joined.GetMessages(), 1)
	assert.Len(t, bystander.GetMessages(), 0, "connection alone should not deliver chat events")
}

func TestHub_BroadcastExcept_SkipsSender(t *testing.T) {
	hub := NewHub()

	sender := newMockClient("client-1", "user-a")
	other := newMockClient("client-2", "user-b")

	hub.Register(sender)
	hub.Register(other)
	hub.JoinGroup(1, sender)
	hub.JoinGroup(1, other)

	hub.BroadcastExcept(1, sender.ID(), UserTyping(1, "user-a"))
	time.Sleep(10 * time.Millisecond)

	assert.Len(t, sender.GetMessages(), 0, "sender should not receive its own event")
	assert.Len(t, other.GetMessages(), 1)
}

func TestHub_Unregister_RemovesFromGroups(t *testing.T) {
	hub := NewHub()

	client := newMockClient("client-1", "user-a")
	hub.Register(client)
	hub.JoinGroup(1, client)
	hub.JoinGroup(2, client)

	hub.Unregister(client)

	assert.Equal(t, 0, hub.GroupCount(1))
	assert.Equal(t, 0, hub.GroupCount(2))
	assert.False(t, hub.InGroup(1, client.ID()))
}

func TestHub_ConcurrentAccess(t *testing.T) {
	hub := NewHub()

	var wg sync.WaitGroup
	clientCount := 50

	clients := make([]*mockClient, clientCount)
	for i := 0; i < clientCount; i++ {
		clients[i] = newMockClient("client-"+string(rune('A'+i)), "user")
	}

	for i := 0; i < clientCount; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			hub.Register(clients[idx])
			hub.JoinGroup(int32(idx%5), clients[idx])
		}(i)
	}

	wg.Wait()
	assert.Equal(t, clientCount, hub.TotalClientCount())

	// Concurrently broadcast and unregister
	for i := 0; i < clientCount; i++ {
		wg.Add(2)
		go func(idx int) {
			defer wg.Done()
			hub.Broadcast(int32(idx%5), MessageDeleted(int32(idx%5), int32(idx)))
		}(i)
		go func(idx int) {
			defer wg.Done()
			hub.Unregister(clients[idx])
		}(i)
	}

	wg.Wait()
	assert.Equal(t, 0, hub.TotalClientCount())
	for chat := int32(0); chat < 5; chat++ {
		assert.Equal(t, 0, hub.GroupCount(chat))
	}
}

func TestHub_UnregisterNonexistent(t *testing.T) {
	hub := NewHub()

	client := newMockClient("client-1", "user-a")

	// Should not panic when unregistering a client that was never registered
	require.NotPanics(t, func() {
		hub.Unregister(client)
	})
}

func TestHub_BroadcastToEmptyGroup(t *testing.T) {
	hub := NewHub()

	// Should not panic when broadcasting to a chat with no subscribers
	require.NotPanics(t, func() {
		hub.Broadcast(999, MessageDeleted(999, 1))
	})
}
