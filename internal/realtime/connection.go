package realtime

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	"jobs-srv/pkg/log"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Connection represents one dashboard WebSocket connection for a user.
type Connection struct {
	hub *Hub

	conn *websocket.Conn

	// User ID from the authenticated session.
	userID string

	// Buffered channel of outbound messages.
	send chan []byte

	l log.Logger
}

// Register attaches a raw WebSocket connection to the hub and starts its
// read and write pumps.
func (h *Hub) Register(conn *websocket.Conn, userID string) *Connection {
	client := &Connection{
		hub:    h,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 256),
		l:      h.l,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()

	return client
}

// readPump pumps messages from the WebSocket connection to the hub.
//
// The application runs readPump in a per-connection goroutine, ensuring
// at most one reader on a connection. Clients never push work to the
// server over this socket; the pump exists to handle pongs and detect
// disconnects.
func (c *Connection) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.l.Errorf(context.Background(), "internal.realtime.connection: read error for user %s: %v", c.userID, err)
			}
			return
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection.
//
// A goroutine running writePump is started for each connection, ensuring
// at most one writer to a connection.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Drain queued messages into the current websocket frame.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
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
