package websocket

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// mockClient is a test double for Client that captures sent messages
type mockClient struct {
	id       string
	messages [][]byte
	mu       sync.Mutex
	closed   bool
}

func newMockClient(id string) *mockClient {
	return &mockClient{
		id:       id,
		messages: make([][]byte, 0),
	}
}

func (m *mockClient) ID() string {
	return m.id
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

	client1 := newMockClient("client-1")
	client2 := newMockClient("client-2")

	hub.Register(client1)
	hub.Register(client2)
	assert.Equal(t, 2, hub.ClientCount())

	hub.Unregister(client1)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Unregister(client2)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_Unregister_UnknownClient(t *testing.T) {
	hub := NewHub()
	hub.Unregister(newMockClient("never-registered"))
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_Broadcast_ReachesAllClients(t *testing.T) {
	hub := NewHub()

	client1 := newMockClient("client-1")
	client2 := newMockClient("client-2")
	hub.Register(client1)
	hub.Register(client2)

	evt := LoanUpdated(map[string]interface{}{"id": float64(42)})
	hub.Broadcast(evt)

	// Give goroutines time to process
	time.Sleep(10 * time.Millisecond)

	assert.Len(t, client1.GetMessages(), 1, "client1 should receive 1 message")
	assert.Len(t, client2.GetMessages(), 1, "client2 should receive 1 message")
}

func TestHub_Broadcast_NoClients(t *testing.T) {
	hub := NewHub()
	// Must not panic or block with nobody connected
	hub.Broadcast(PaymentCreated(map[string]interface{}{"id": float64(1)}))
}

func TestHub_Broadcast_SkipsUnregistered(t *testing.T) {
	hub := NewHub()

	stays := newMockClient("stays")
	leaves := newMockClient("leaves")
	hub.Register(stays)
	hub.Register(leaves)
	hub.Unregister(leaves)

	hub.Broadcast(BorrowerUpdated(map[string]interface{}{"id": float64(7)}))
	time.Sleep(10 * time.Millisecond)

	assert.Len(t, stays.GetMessages(), 1)
	assert.Len(t, leaves.GetMessages(), 0)
}

func TestNoOpPublisher_Publish(t *testing.T) {
	var p NoOpPublisher
	// Must be a safe no-op
	p.Publish(LoanUpdated(nil))
}
