package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobs-srv/pkg/log"
)

func newTestConnection(hub *Hub, userID string) *Connection {
	return &Connection{
		hub:    hub,
		userID: userID,
		send:   make(chan []byte, 256),
		l:      hub.l,
	}
}

func waitForStats(t *testing.T, hub *Hub, wantConns, wantUsers int) {
	t.Helper()
	require.Eventually(t, func() bool {
		conns, users := hub.Stats()
		return conns == wantConns && users == wantUsers
	}, time.Second, 5*time.Millisecond)
}

func TestHubSendToUser(t *testing.T) {
	hub := NewHub(log.NewNoop())
	go hub.Run()
	defer hub.Shutdown()

	conn1 := newTestConnection(hub, "user-1")
	conn2 := newTestConnection(hub, "user-1")
	other := newTestConnection(hub, "user-2")

	hub.register <- conn1
	hub.register <- conn2
	hub.register <- other
	waitForStats(t, hub, 3, 2)

	hub.SendToUser("user-1", []byte(`{"title":"hi"}`))

	for _, conn := range []*Connection{conn1, conn2} {
		select {
		case msg := <-conn.send:
			assert.JSONEq(t, `{"title":"hi"}`, string(msg))
		default:
			t.Error("user-1 connection should have received the message")
		}
	}
	select {
	case <-other.send:
		t.Error("user-2 connection should not have received the message")
	default:
	}
}

func TestHubSendToUnknownUser(t *testing.T) {
	hub := NewHub(log.NewNoop())
	go hub.Run()
	defer hub.Shutdown()

	// Must not panic or block.
	hub.SendToUser("nobody", []byte("x"))
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(log.NewNoop())
	go hub.Run()
	defer hub.Shutdown()

	conn1 := newTestConnection(hub, "user-1")
	conn2 := newTestConnection(hub, "user-2")
	hub.register <- conn1
	hub.register <- conn2
	waitForStats(t, hub, 2, 2)

	hub.Broadcast([]byte("maintenance"))

	for _, conn := range []*Connection{conn1, conn2} {
		select {
		case msg := <-conn.send:
			assert.Equal(t, "maintenance", string(msg))
		case <-time.After(time.Second):
			t.Error("broadcast should reach every connection")
		}
	}
}

func TestHubUnregisterDropsEmptyUsers(t *testing.T) {
	hub := NewHub(log.NewNoop())
	go hub.Run()
	defer hub.Shutdown()

	conn1 := newTestConnection(hub, "user-1")
	conn2 := newTestConnection(hub, "user-1")
	hub.register <- conn1
	hub.register <- conn2
	waitForStats(t, hub, 2, 1)

	hub.unregister <- conn1
	waitForStats(t, hub, 1, 1)

	hub.unregister <- conn2
	waitForStats(t, hub, 0, 0)

	// Unregistering twice is a no-op.
	hub.unregister <- conn2
	waitForStats(t, hub, 0, 0)
}

func TestHubShutdownClosesConnections(t *testing.T) {
	hub := NewHub(log.NewNoop())
	go hub.Run()

	conn := newTestConnection(hub, "user-1")
	hub.register <- conn
	waitForStats(t, hub, 1, 1)

	hub.Shutdown()

	select {
	case _, ok := <-conn.send:
		assert.False(t, ok, "send channel should be closed after shutdown")
	case <-time.After(time.Second):
		t.Error("send channel should be closed after shutdown")
	}
}
